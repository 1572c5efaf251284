package engine

import "fmt"

// Step decodes and dispatches exactly one instruction, per spec §4.3. Every
// handler validates its operands before mutating any state (spec §4.2); on
// failure the only state Step ever changes is the last-error latch. On
// success, PC advances by the instruction size unless the handler wrote PC
// itself (jumps/CALL/RET).
func (e *Engine) Step() VmStatus {
	instr, status := e.decode(e.pc)
	if !status.OK() {
		e.lastError = status
		return status
	}

	if !instr.Op.Valid() {
		status = statusFor(ErrInvalidOpcode, fmt.Sprintf("opcode 0x%02X at pc %d", byte(instr.Op), e.pc))
		e.lastError = status
		return status
	}

	switch instr.Op {
	case Nop:
		status = e.opNop(instr)
	case Halt:
		status = e.opHalt(instr)
	case Jmp:
		status = e.opJmp(instr)
	case Jz, Jnz, Jlt, Jgt, Jle, Jge:
		status = e.opJcc(instr)
	case Call:
		status = e.opCall(instr)
	case Ret:
		status = e.opRet(instr)

	case LoadG:
		status = e.opLoadG(instr)
	case LoadL:
		status = e.opLoadL(instr)
	case LoadS:
		status = e.opLoadS(instr)
	case LoadII32:
		status = e.opLoadImm(instr, TagI32)
	case LoadIU32:
		status = e.opLoadImm(instr, TagU32)
	case LoadIF32:
		status = e.opLoadImm(instr, TagF32)
	case LoadRet:
		status = e.opLoadRet(instr)

	case StoreG:
		status = e.opStoreG(instr)
	case StoreL:
		status = e.opStoreL(instr)
	case StoreS:
		status = e.opStoreS(instr)
	case StoreRet:
		status = e.opStoreRet(instr)

	case AddI32, SubI32, MulI32, DivI32, ModI32:
		status = e.opBinaryI32(instr)
	case NegI32:
		status = e.opNegI32(instr)
	case AddU32, SubU32, MulU32, DivU32, ModU32:
		status = e.opBinaryU32(instr)

	case AddF32, SubF32, MulF32, DivF32:
		status = e.opBinaryF32(instr)
	case NegF32:
		status = e.opNegF32(instr)
	case AbsF32:
		status = e.opAbsF32(instr)
	case SqrtF32:
		status = e.opSqrtF32(instr)

	case AndU32, OrU32, XorU32:
		status = e.opBinaryBitwise(instr)
	case NotU32:
		status = e.opNot(instr)
	case ShlU32, ShrU32:
		status = e.opShift(instr)

	case CmpI32:
		status = e.opCmpI32(instr)
	case CmpU32:
		status = e.opCmpU32(instr)
	case CmpF32:
		status = e.opCmpF32(instr)

	case I32ToU32, U32ToI32, I32ToF32, F32ToI32, U32ToF32, F32ToU32:
		status = e.opConvert(instr)

	case BufRead:
		status = e.opBufRead(instr)
	case BufWrite:
		status = e.opBufWrite(instr)
	case BufLen:
		status = e.opBufLen(instr)
	case BufClear:
		status = e.opBufClear(instr)

	case StrCat:
		status = e.opStrCat(instr)
	case StrCopy:
		status = e.opStrCopy(instr)
	case StrLen:
		status = e.opStrLen(instr)
	case StrCmp:
		status = e.opStrCmp(instr)
	case StrChr:
		status = e.opStrChr(instr)
	case StrSetChr:
		status = e.opStrSetChr(instr)

	case PrintI32, PrintU32, PrintF32:
		status = e.opPrintScalar(instr)
	case PrintStr:
		status = e.opPrintStr(instr)
	case Println:
		status = e.opPrintln(instr)
	case ReadI32, ReadU32, ReadF32:
		status = e.opReadScalar(instr)
	case ReadStr:
		status = e.opReadStr(instr)

	default:
		status = statusFor(ErrInvalidOpcode, fmt.Sprintf("opcode 0x%02X unhandled", byte(instr.Op)))
	}

	e.lastError = status
	return status
}

// advance moves PC past the current instruction on a handler's success path.
func (e *Engine) advance(instr Instruction) VmStatus {
	e.pc += instr.Size
	return ok()
}

// stackVar resolves the engine's own current-frame stack-var slot idx
// (the common case: the instruction's primary operand byte names a slot in
// the frame that is executing it).
func (e *Engine) stackVar(idx uint32) (*Value, VmStatus) {
	if !validStackVarIdx(idx) {
		return nil, statusFor(ErrInvalidStackVarIdx, "index out of range")
	}
	return &e.frames[e.sp].StackVars[idx], ok()
}
