package engine

// Wire shapes for this file, per opcode.go's encoding scheme:
//
//	LOAD_G  dst_stackvar(Operand), global_idx(Word0)
//	LOAD_L  dst_stackvar(Operand), local_idx(Word0)
//	LOAD_S  dst_stackvar(Operand), StackRef(Word0)
//	LOAD_I_I32/U32/F32  dst_stackvar(Operand), immediate_bits(Word0)
//	LOAD_RET  dst_stackvar(Operand), frame_idx(Word0) -- s <- frames[f].ret_val
//	STORE_G  src_stackvar(Operand), global_idx(Word0)
//	STORE_L  src_stackvar(Operand), local_idx(Word0)
//	STORE_S  src_stackvar(Operand), StackRef(Word0)
//	STORE_RET  src_stackvar(Operand), frame_idx(Word0) -- frames[f].ret_val <- src

func (e *Engine) opLoadG(instr Instruction) VmStatus {
	idx := instr.Words[0]
	if !validGlobalIdx(idx) {
		return statusFor(ErrInvalidGlobalIdx, "index out of range")
	}
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	*dst = e.globals[idx]
	return e.advance(instr)
}

func (e *Engine) opLoadL(instr Instruction) VmStatus {
	idx := instr.Words[0]
	if !validLocalIdx(idx) {
		return statusFor(ErrInvalidLocalIdx, "index out of range")
	}
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	*dst = e.frames[e.sp].Locals[idx]
	return e.advance(instr)
}

func (e *Engine) opLoadS(instr Instruction) VmStatus {
	ref := wordAsStackRef(instr.Words[0])
	if !validFrameIdx(uint32(ref.Frame)) || !validStackVarIdx(uint32(ref.Var)) {
		return statusFor(ErrInvalidStackVarIdx, "stack ref out of range")
	}
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	*dst = e.frames[ref.Frame].StackVars[ref.Var]
	return e.advance(instr)
}

// opLoadImm implements LOAD_I_I32/LOAD_I_U32/LOAD_I_F32: the immediate word
// is reinterpreted per tag, never converted (spec §9's "conversion is only
// ever explicit" invariant covers literals too).
func (e *Engine) opLoadImm(instr Instruction, tag ValueTag) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	bits := instr.Words[0]
	switch tag {
	case TagI32:
		*dst = I32(int32(bits))
	case TagU32:
		*dst = U32(bits)
	case TagF32:
		*dst = F32(float32FromBits(bits))
	}
	return e.advance(instr)
}

// opLoadRet implements LOAD_RET s, f: s <- frames[f].ret_val. Per
// SPEC_FULL.md §9's Open Question 4 resolution, LOAD_RET/STORE_RET are the
// only opcodes that ever touch ret_val -- LOAD_S/STORE_S's StackRef can
// only ever name stack_vars[0..15]. The common usage is f = sp+1, reading
// back the frame just returned from, but the frame index is an explicit
// operand like every other frame-addressing opcode.
func (e *Engine) opLoadRet(instr Instruction) VmStatus {
	f := instr.Words[0]
	if !validFrameIdx(f) {
		return statusFor(ErrInvalidStackVarIdx, "frame index out of range")
	}
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	*dst = e.frames[f].RetVal
	return e.advance(instr)
}

func (e *Engine) opStoreG(instr Instruction) VmStatus {
	idx := instr.Words[0]
	if !validGlobalIdx(idx) {
		return statusFor(ErrInvalidGlobalIdx, "index out of range")
	}
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	e.globals[idx] = *src
	return e.advance(instr)
}

func (e *Engine) opStoreL(instr Instruction) VmStatus {
	idx := instr.Words[0]
	if !validLocalIdx(idx) {
		return statusFor(ErrInvalidLocalIdx, "index out of range")
	}
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	e.frames[e.sp].Locals[idx] = *src
	return e.advance(instr)
}

func (e *Engine) opStoreS(instr Instruction) VmStatus {
	ref := wordAsStackRef(instr.Words[0])
	if !validFrameIdx(uint32(ref.Frame)) || !validStackVarIdx(uint32(ref.Var)) {
		return statusFor(ErrInvalidStackVarIdx, "stack ref out of range")
	}
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	e.frames[ref.Frame].StackVars[ref.Var] = *src
	return e.advance(instr)
}

// opStoreRet implements STORE_RET src, f: frames[f].ret_val <- src.
func (e *Engine) opStoreRet(instr Instruction) VmStatus {
	f := instr.Words[0]
	if !validFrameIdx(f) {
		return statusFor(ErrInvalidStackVarIdx, "frame index out of range")
	}
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	e.frames[f].RetVal = *src
	return e.advance(instr)
}
