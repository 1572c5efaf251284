package engine

import "math"

// All six conversions: dst_stackvar(Operand), src_idx(Word0 low byte).

func (e *Engine) opConvert(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	src, status := e.stackVar(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}

	switch instr.Op {
	case I32ToU32:
		if src.Tag != TagI32 {
			return statusFor(ErrTypeMismatch, "I32_TO_U32 requires an I32 operand")
		}
		*dst = U32(uint32(src.AsI32()))
	case U32ToI32:
		if src.Tag != TagU32 {
			return statusFor(ErrTypeMismatch, "U32_TO_I32 requires a U32 operand")
		}
		*dst = I32(int32(src.AsU32()))
	case I32ToF32:
		if src.Tag != TagI32 {
			return statusFor(ErrTypeMismatch, "I32_TO_F32 requires an I32 operand")
		}
		*dst = F32(float32(src.AsI32()))
	case U32ToF32:
		if src.Tag != TagU32 {
			return statusFor(ErrTypeMismatch, "U32_TO_F32 requires a U32 operand")
		}
		*dst = F32(float32(src.AsU32()))
	case F32ToI32:
		if src.Tag != TagF32 {
			return statusFor(ErrTypeMismatch, "F32_TO_I32 requires an F32 operand")
		}
		*dst = I32(saturateToI32(src.AsF32()))
	case F32ToU32:
		if src.Tag != TagF32 {
			return statusFor(ErrTypeMismatch, "F32_TO_U32 requires an F32 operand")
		}
		*dst = U32(saturateToU32(src.AsF32()))
	}
	return e.advance(instr)
}

// saturateToI32 and saturateToU32 implement SPEC_FULL.md §9 Open Question 2:
// float-to-int conversion clamps to the destination range instead of
// wrapping or trapping; NaN saturates to 0.
func saturateToI32(f float32) int32 {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return 0
	case v <= math.MinInt32:
		return math.MinInt32
	case v >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(v)
	}
}

func saturateToU32(f float32) uint32 {
	v := float64(f)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= math.MaxUint32:
		return math.MaxUint32
	default:
		return uint32(v)
	}
}
