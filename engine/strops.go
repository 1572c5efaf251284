package engine

// Buffers carrying string data are BufU8, NUL-terminated within their
// 256-byte capacity -- there is no separate length field. STR_CAT/STR_COPY
// extend SPEC_FULL.md §9 Open Question 1: a destination Void buffer is
// tagged BufU8 on first use. STR_CAT, STR_COPY and READ_STR (io_ops.go) are
// the only opcodes that ever tag a Void buffer U8; no opcode tags one U16.
//
//	STR_CAT     dest_buf(Operand), src1_buf(Word0 low byte), src2_buf(Word1 low byte)
//	STR_COPY    dest_buf(Operand), src_buf(Word0 low byte)
//	STR_LEN     dst_stackvar(Operand), buf_idx(Word0 low byte)
//	STR_CMP     a_buf(Operand), b_buf(Word0 low byte)
//	STR_CHR     dst_stackvar(Operand), buf_idx(Word0 low byte), pos(Word1 low byte)
//	STR_SET_CHR buf_idx(Operand), pos(Word0 low byte), char(Word1 low byte)
//
// pos and char are compile-time immediates, like BUF_READ/BUF_WRITE's
// buffer_idx/pos -- not values staged through a stack-var.

// strLen scans a BufU8 buffer for its NUL terminator, per the fixed-capacity
// Non-goal (no dynamic allocation means no separate length field to keep in
// sync). A buffer with no NUL before capacity is treated as filling it
// entirely.
func strLen(b *Buffer) uint32 {
	capacity := b.Tag.Capacity()
	for i := uint32(0); i < capacity; i++ {
		if b.readU8(i) == 0 {
			return i
		}
	}
	return capacity
}

func (e *Engine) requireStringBuffer(idx uint32) (*Buffer, VmStatus) {
	b, status := e.bufferAt(idx)
	if !status.OK() {
		return nil, status
	}
	if b.Tag != BufU8 {
		return nil, statusFor(ErrTypeMismatch, "operand buffer is not a string (U8) buffer")
	}
	return b, ok()
}

func (e *Engine) opStrCat(instr Instruction) VmStatus {
	dest, status := e.bufferAt(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	destTag := dest.Tag
	if destTag == BufVoid {
		destTag = BufU8
	}
	if destTag != BufU8 {
		return statusFor(ErrTypeMismatch, "STR_CAT destination is not a string (U8) buffer")
	}
	src1, status := e.requireStringBuffer(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	src2, status := e.requireStringBuffer(lowByte(instr.Words[1]))
	if !status.OK() {
		return status
	}

	n1, n2 := strLen(src1), strLen(src2)
	capacity := destTag.Capacity()
	total := n1 + n2
	if total >= capacity {
		return statusFor(ErrBounds, "STR_CAT result does not fit destination buffer")
	}

	// Only now, with every precondition satisfied, commit a Void
	// destination's inferred tag -- a failed STR_CAT must leave it Void.
	dest.Tag = destTag
	dest.Clear()
	for i := uint32(0); i < n1; i++ {
		dest.writeU8(i, src1.readU8(i))
	}
	for i := uint32(0); i < n2; i++ {
		dest.writeU8(n1+i, src2.readU8(i))
	}
	return e.advance(instr)
}

func (e *Engine) opStrCopy(instr Instruction) VmStatus {
	dest, status := e.bufferAt(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	destTag := dest.Tag
	if destTag == BufVoid {
		destTag = BufU8
	}
	if destTag != BufU8 {
		return statusFor(ErrTypeMismatch, "STR_COPY destination is not a string (U8) buffer")
	}
	src, status := e.requireStringBuffer(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}

	n := strLen(src)
	if n >= destTag.Capacity() {
		return statusFor(ErrBounds, "STR_COPY source does not fit destination buffer")
	}

	// Only now, with every precondition satisfied, commit a Void
	// destination's inferred tag -- a failed STR_COPY must leave it Void.
	dest.Tag = destTag
	dest.Clear()
	for i := uint32(0); i < n; i++ {
		dest.writeU8(i, src.readU8(i))
	}
	return e.advance(instr)
}

func (e *Engine) opStrLen(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	buf, status := e.requireStringBuffer(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	*dst = U32(strLen(buf))
	return e.advance(instr)
}

func (e *Engine) opStrCmp(instr Instruction) VmStatus {
	a, status := e.requireStringBuffer(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	b, status := e.requireStringBuffer(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}

	na, nb := strLen(a), strLen(b)
	n := na
	if nb < n {
		n = nb
	}
	var cmp int
	for i := uint32(0); i < n; i++ {
		ca, cb := a.readU8(i), b.readU8(i)
		if ca != cb {
			if ca < cb {
				cmp = -1
			} else {
				cmp = 1
			}
			break
		}
	}
	if cmp == 0 {
		switch {
		case na < nb:
			cmp = -1
		case na > nb:
			cmp = 1
		}
	}
	e.setFlags(cmp == 0, cmp < 0, cmp > 0)
	return e.advance(instr)
}

func (e *Engine) opStrChr(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	buf, status := e.requireStringBuffer(lowByte(instr.Words[0]))
	if !status.OK() {
		return status
	}
	pos := lowByte(instr.Words[1])
	if pos >= buf.Tag.Capacity() {
		return statusFor(ErrInvalidBufferPos, "position out of range")
	}
	*dst = UChar(int32(buf.readU8(pos)))
	return e.advance(instr)
}

// opStrSetChr implements STR_SET_CHR bi, pos, c: writes byte c & 0xFF at
// pos, per spec §4.2.
func (e *Engine) opStrSetChr(instr Instruction) VmStatus {
	buf, status := e.requireStringBuffer(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	pos := lowByte(instr.Words[0])
	if pos >= buf.Tag.Capacity() {
		return statusFor(ErrInvalidBufferPos, "position out of range")
	}
	c := lowByte(instr.Words[1])
	buf.writeU8(pos, uint8(c))
	return e.advance(instr)
}
