package engine

import "math"

// Binary float ops follow the same dst/src1/src2 shape as arith_int.go.
// Unary ops (NEG_F32/ABS_F32/SQRT_F32): dst_stackvar(Operand),
// src_idx(Word0 low byte).

func (e *Engine) opBinaryF32(instr Instruction) VmStatus {
	dst, a, b, status := e.binaryOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagF32 || b.Tag != TagF32 {
		return statusFor(ErrTypeMismatch, "ADD/SUB/MUL/DIV_F32 require F32 operands")
	}
	x, y := a.AsF32(), b.AsF32()

	var result float32
	switch instr.Op {
	case AddF32:
		result = x + y
	case SubF32:
		result = x - y
	case MulF32:
		result = x * y
	case DivF32:
		// IEEE-754 division: x/0 yields +-Inf or NaN, never a trapped error
		// (spec §9, float arithmetic is exempt from the UB-freedom Non-goal).
		result = x / y
	}
	*dst = F32(result)
	return e.advance(instr)
}

func (e *Engine) unaryF32Operand(instr Instruction) (dst, src *Value, status VmStatus) {
	dst, status = e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return
	}
	src, status = e.stackVar(lowByte(instr.Words[0]))
	if !status.OK() {
		return
	}
	if src.Tag != TagF32 {
		status = statusFor(ErrTypeMismatch, "requires an F32 operand")
	}
	return
}

func (e *Engine) opNegF32(instr Instruction) VmStatus {
	dst, src, status := e.unaryF32Operand(instr)
	if !status.OK() {
		return status
	}
	*dst = F32(-src.AsF32())
	return e.advance(instr)
}

func (e *Engine) opAbsF32(instr Instruction) VmStatus {
	dst, src, status := e.unaryF32Operand(instr)
	if !status.OK() {
		return status
	}
	*dst = F32(float32(math.Abs(float64(src.AsF32()))))
	return e.advance(instr)
}

func (e *Engine) opSqrtF32(instr Instruction) VmStatus {
	dst, src, status := e.unaryF32Operand(instr)
	if !status.OK() {
		return status
	}
	// sqrt of a negative yields NaN, per IEEE-754 (no domain-error trap).
	*dst = F32(float32(math.Sqrt(float64(src.AsF32()))))
	return e.advance(instr)
}
