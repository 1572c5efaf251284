package engine

// BUF_READ  dst_stackvar(Operand), buffer_idx(Word0 low byte), pos(Word1 low byte)
// BUF_WRITE src_stackvar(Operand), buffer_idx(Word0 low byte), pos(Word1 low byte)
// BUF_LEN   dst_stackvar(Operand), buffer_idx(Word0 low byte)
// BUF_CLEAR buffer_idx(Operand)
//
// buffer_idx and pos are compile-time immediates (spec §4.2's "imm1, imm2,
// imm3 payload words carry ... immediate literals, global/buffer indices"),
// not values staged through a stack-var.

func (e *Engine) opBufRead(instr Instruction) VmStatus {
	buf, status := e.bufferAt(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	if buf.Tag == BufVoid {
		return statusFor(ErrTypeMismatch, "BUF_READ from an untagged (Void) buffer")
	}
	pos := lowByte(instr.Words[1])
	if !validBufferPos(buf.Tag, pos) {
		return statusFor(ErrInvalidBufferPos, "position out of range for buffer's element type")
	}

	switch buf.Tag {
	case BufU8:
		*dst = U32(uint32(buf.readU8(pos)))
	case BufU16:
		*dst = U32(uint32(buf.readU16(pos)))
	case BufI32:
		*dst = I32(buf.readI32(pos))
	case BufU32:
		*dst = U32(buf.readU32(pos))
	case BufF32:
		*dst = F32(buf.readF32(pos))
	}
	return e.advance(instr)
}

// opBufWrite implements SPEC_FULL.md §9 Open Question 1: a Void buffer's
// tag is inferred from the written value's family the first time BUF_WRITE
// targets it (I32->I32, F32->F32, everything else defaults to U32). U8/U16
// buffers (never tagged by BUF_WRITE itself; only STR_CAT/STR_COPY/READ_STR
// or the host give a buffer one of those tags) accept
// either an I32 or a U32 source, narrowed to the element width.
func (e *Engine) opBufWrite(instr Instruction) VmStatus {
	buf, status := e.bufferAt(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}

	tag := buf.Tag
	if tag == BufVoid {
		switch src.Tag {
		case TagI32:
			tag = BufI32
		case TagF32:
			tag = BufF32
		default:
			tag = BufU32
		}
	}

	pos := lowByte(instr.Words[1])
	if !validBufferPos(tag, pos) {
		return statusFor(ErrInvalidBufferPos, "position out of range for buffer's element type")
	}

	narrowed := func() (uint32, bool) {
		switch src.Tag {
		case TagU32:
			return src.AsU32(), true
		case TagI32:
			return uint32(src.AsI32()), true
		default:
			return 0, false
		}
	}

	// buf.Tag is only committed below, once every precondition for the
	// matching write branch has already passed -- a failed BUF_WRITE must
	// leave a Void buffer Void (spec §4.2/§5's atomicity guarantee).
	switch tag {
	case BufI32:
		if src.Tag != TagI32 {
			return statusFor(ErrTypeMismatch, "BUF_WRITE value does not match buffer's I32 tag")
		}
		buf.Tag = tag
		buf.writeI32(pos, src.AsI32())
	case BufF32:
		if src.Tag != TagF32 {
			return statusFor(ErrTypeMismatch, "BUF_WRITE value does not match buffer's F32 tag")
		}
		buf.Tag = tag
		buf.writeF32(pos, src.AsF32())
	case BufU32:
		if src.Tag != TagU32 {
			return statusFor(ErrTypeMismatch, "BUF_WRITE value does not match buffer's U32 tag")
		}
		buf.Tag = tag
		buf.writeU32(pos, src.AsU32())
	case BufU8:
		v, ok := narrowed()
		if !ok {
			return statusFor(ErrTypeMismatch, "BUF_WRITE to a U8 buffer requires an I32 or U32 operand")
		}
		buf.Tag = tag
		buf.writeU8(pos, uint8(v))
	case BufU16:
		v, ok := narrowed()
		if !ok {
			return statusFor(ErrTypeMismatch, "BUF_WRITE to a U16 buffer requires an I32 or U32 operand")
		}
		buf.Tag = tag
		buf.writeU16(pos, uint16(v))
	}
	return e.advance(instr)
}

func (e *Engine) opBufLen(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	buf, status := e.bufferAt(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	*dst = U32(buf.Tag.Capacity())
	return e.advance(instr)
}

// opBufClear implements SPEC_FULL.md §9 Open Question 1's last clause: a
// Void buffer is already all zero, so BUF_CLEAR on one is a no-op rather
// than an error.
func (e *Engine) opBufClear(instr Instruction) VmStatus {
	buf, status := e.bufferAt(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	if buf.Tag != BufVoid {
		buf.Clear()
	}
	return e.advance(instr)
}
