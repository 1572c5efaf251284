package engine

import "math"

// CMP_I32/CMP_U32/CMP_F32: a_idx(Operand), b_idx(Word0 low byte). They set
// Flags and carry no destination.

// floatEpsilon bounds the "close enough to call equal" window CMP_F32 uses
// instead of bit-exact equality, per spec §3's float-comparison note.
const floatEpsilon = 1e-6

func (e *Engine) opCmpI32(instr Instruction) VmStatus {
	a, b, status := e.compareOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagI32 || b.Tag != TagI32 {
		return statusFor(ErrTypeMismatch, "CMP_I32 requires I32 operands")
	}
	x, y := a.AsI32(), b.AsI32()
	e.setFlags(x == y, x < y, x > y)
	return e.advance(instr)
}

func (e *Engine) opCmpU32(instr Instruction) VmStatus {
	a, b, status := e.compareOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagU32 || b.Tag != TagU32 {
		return statusFor(ErrTypeMismatch, "CMP_U32 requires U32 operands")
	}
	x, y := a.AsU32(), b.AsU32()
	e.setFlags(x == y, x < y, x > y)
	return e.advance(instr)
}

func (e *Engine) opCmpF32(instr Instruction) VmStatus {
	a, b, status := e.compareOperands(instr)
	if !status.OK() {
		return status
	}
	if a.Tag != TagF32 || b.Tag != TagF32 {
		return statusFor(ErrTypeMismatch, "CMP_F32 requires F32 operands")
	}
	x, y := a.AsF32(), b.AsF32()
	diff := float64(x) - float64(y)
	if math.Abs(diff) <= floatEpsilon {
		e.setFlags(true, false, false)
	} else {
		e.setFlags(false, diff < 0, diff > 0)
	}
	return e.advance(instr)
}

func (e *Engine) compareOperands(instr Instruction) (a, b *Value, status VmStatus) {
	a, status = e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return
	}
	b, status = e.stackVar(lowByte(instr.Words[0]))
	return
}

func (e *Engine) setFlags(zero, less, greater bool) {
	e.flags = Flags{Zero: zero, Less: less, Greater: greater}
}
