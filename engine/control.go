package engine

// opNop implements NOP: no state change beyond the PC advance (spec §4.2).
func (e *Engine) opNop(instr Instruction) VmStatus {
	return e.advance(instr)
}

// opHalt implements HALT. Step returns StatusHalt; Run folds this to a nil
// error at the run boundary, per spec §4.3.
func (e *Engine) opHalt(instr Instruction) VmStatus {
	e.pc += instr.Size
	return statusFor(ErrHalt, "")
}

// opJmp implements JMP target: target < programLen required.
func (e *Engine) opJmp(instr Instruction) VmStatus {
	target := instr.Words[0]
	if target >= e.programLen {
		return statusFor(ErrInvalidPC, "jump target out of range")
	}
	e.pc = target
	return ok()
}

// opJcc implements JZ/JNZ/JLT/JGT/JLE/JGE target, conditional on the flag
// bits set by the most recent CMP_*/STR_CMP. JLE = L v Z, JGE = G v Z
// (spec §4.2).
func (e *Engine) opJcc(instr Instruction) VmStatus {
	var take bool
	f := e.flags
	switch instr.Op {
	case Jz:
		take = f.Zero
	case Jnz:
		take = !f.Zero
	case Jlt:
		take = f.Less
	case Jgt:
		take = f.Greater
	case Jle:
		take = f.Less || f.Zero
	case Jge:
		take = f.Greater || f.Zero
	}

	if !take {
		return e.advance(instr)
	}

	target := instr.Words[0]
	if target >= e.programLen {
		return statusFor(ErrInvalidPC, "jump target out of range")
	}
	e.pc = target
	return ok()
}

// opCall implements CALL target (spec §4.2): requires sp < 31; writes
// return_addr = PC + instruction size into frame sp+1; increments sp; resets
// the new frame's locals to Void; sets PC to target. The new frame's
// stack-vars are preserved from whatever the caller pre-staged, by design.
func (e *Engine) opCall(instr Instruction) VmStatus {
	target := instr.Words[0]
	if target >= e.programLen {
		return statusFor(ErrInvalidPC, "call target out of range")
	}
	if e.sp >= numFrames-1 {
		return statusFor(ErrStackOverflow, "call at maximum frame depth")
	}

	returnAddr := e.pc + instr.Size
	next := e.sp + 1
	e.frames[next].ReturnPC = returnAddr
	e.frames[next].resetLocals()
	e.sp = next
	e.pc = target
	return ok()
}

// opRet implements RET (spec §4.2): requires sp > 0; PC becomes
// frames[sp].return_addr; sp decrements. The callee's ret_val persists in
// the now-inactive frame for the caller's LOAD_RET to read.
func (e *Engine) opRet(instr Instruction) VmStatus {
	if e.sp == 0 {
		return statusFor(ErrStackUnderflow, "return from entry frame")
	}
	returnAddr := e.frames[e.sp].ReturnPC
	e.sp--
	e.pc = returnAddr
	return ok()
}
