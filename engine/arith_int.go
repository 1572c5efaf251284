package engine

// Binary int ops: dst_stackvar(Operand), src1_idx(Word0 low byte),
// src2_idx(Word1 low byte). Unary (NEG_I32): dst_stackvar(Operand),
// src_idx(Word0 low byte).

func (e *Engine) opBinaryI32(instr Instruction) VmStatus {
	dst, a, b, status := e.binaryOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagI32 || b.Tag != TagI32 {
		return statusFor(ErrTypeMismatch, "ADD/SUB/MUL/DIV/MOD_I32 require I32 operands")
	}
	x, y := a.AsI32(), b.AsI32()

	var result int32
	switch instr.Op {
	case AddI32:
		result = wrapI32(int64(x) + int64(y))
	case SubI32:
		result = wrapI32(int64(x) - int64(y))
	case MulI32:
		result = wrapI32(int64(x) * int64(y))
	case DivI32:
		if y == 0 {
			return statusFor(ErrDivByZero, "DIV_I32")
		}
		result = wrapI32(int64(x) / int64(y))
	case ModI32:
		if y == 0 {
			return statusFor(ErrDivByZero, "MOD_I32")
		}
		result = wrapI32(int64(x) % int64(y))
	}
	*dst = I32(result)
	return e.advance(instr)
}

// wrapI32 takes the low 32 bits of a wider result, per SPEC_FULL.md §9 Open
// Question 3: signed overflow wraps via an explicit uint32 round-trip
// (two's-complement), never Go-undefined, never saturated.
func wrapI32(v int64) int32 { return int32(uint32(v)) }

func (e *Engine) opNegI32(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	src, status := e.stackVar(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	if src.Tag != TagI32 {
		return statusFor(ErrTypeMismatch, "NEG_I32 requires an I32 operand")
	}
	*dst = I32(wrapI32(-int64(src.AsI32())))
	return e.advance(instr)
}

func (e *Engine) opBinaryU32(instr Instruction) VmStatus {
	dst, a, b, status := e.binaryOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagU32 || b.Tag != TagU32 {
		return statusFor(ErrTypeMismatch, "ADD/SUB/MUL/DIV/MOD_U32 require U32 operands")
	}
	x, y := a.AsU32(), b.AsU32()

	var result uint32
	switch instr.Op {
	case AddU32:
		result = x + y
	case SubU32:
		result = x - y
	case MulU32:
		result = x * y
	case DivU32:
		if y == 0 {
			return statusFor(ErrDivByZero, "DIV_U32")
		}
		result = x / y
	case ModU32:
		if y == 0 {
			return statusFor(ErrDivByZero, "MOD_U32")
		}
		result = x % y
	}
	*dst = U32(result)
	return e.advance(instr)
}

// binaryOperands resolves the common dst/src1/src2 stack-var triple shared
// by every binary arithmetic/bitwise opcode.
func (e *Engine) binaryOperands(instr Instruction) (dst, a, b *Value, status VmStatus) {
	dst, status = e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return
	}
	a, status = e.stackVar(lowByte(instr.Words[0]))
	if !status.OK() {
		return
	}
	b, status = e.stackVar(lowByte(instr.Words[1]))
	return
}
