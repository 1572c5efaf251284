package engine

import "testing"

func writeCString(buf *Buffer, s string) {
	for i, c := range []byte(s) {
		buf.writeU8(uint32(i), c)
	}
	buf.writeU8(uint32(len(s)), 0)
}

func TestStrLenScansToNulTerminator(t *testing.T) {
	a := &asm{}
	a.instr(StrLen, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[1].Tag = BufU8
	writeCString(&e.buffers[1], "hello")
	mustStep(t, e)
	assert(t, e.CurrentFrame().StackVars[0].AsU32() == 5, "expected length 5, got %d", e.CurrentFrame().StackVars[0].AsU32())
}

func TestStrCmpLexicographic(t *testing.T) {
	a := &asm{}
	a.instr(StrCmp, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	writeCString(&e.buffers[0], "abc")
	writeCString(&e.buffers[1], "abd")
	mustStep(t, e)
	flags := e.CurrentFlags()
	assert(t, !flags.Zero && flags.Less, "expected \"abc\" < \"abd\", got %+v", flags)
}

func TestStrCmpPrefixIsLess(t *testing.T) {
	a := &asm{}
	a.instr(StrCmp, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	writeCString(&e.buffers[0], "ab")
	writeCString(&e.buffers[1], "abc")
	mustStep(t, e)
	flags := e.CurrentFlags()
	assert(t, flags.Less, "expected shorter prefix to compare less")
}

func TestStrCatConcatenatesAndInfersTag(t *testing.T) {
	a := &asm{}
	a.instr(StrCat, 2, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	writeCString(&e.buffers[0], "foo")
	writeCString(&e.buffers[1], "bar")
	mustStep(t, e)
	assert(t, e.buffers[2].Tag == BufU8, "expected Void dest tagged U8 by STR_CAT")
	assert(t, strLen(&e.buffers[2]) == 6, "expected length 6, got %d", strLen(&e.buffers[2]))
	got := make([]byte, 6)
	for i := range got {
		got[i] = e.buffers[2].readU8(uint32(i))
	}
	assert(t, string(got) == "foobar", "expected \"foobar\", got %q", got)
}

func TestStrCatOverflowFails(t *testing.T) {
	a := &asm{}
	a.instr(StrCat, 2, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	e.buffers[2].Tag = BufU8
	// two 200-byte strings can't fit a 256-byte U8 buffer together.
	fill := func(b *Buffer, n int) {
		bytes := make([]byte, n)
		for i := range bytes {
			bytes[i] = 'x'
		}
		writeCString(b, string(bytes))
	}
	fill(&e.buffers[0], 200)
	fill(&e.buffers[1], 200)
	status := e.Step()
	assertErrCode(t, status, StatusBounds)
}

func TestStrCatVoidDestLeftVoidOnInvalidSource(t *testing.T) {
	a := &asm{}
	a.instr(StrCat, 2, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU32 // not a string buffer -- STR_CAT must fail
	e.buffers[1].Tag = BufU8
	status := e.Step()
	assertErrCode(t, status, StatusTypeMismatch)
	assert(t, e.buffers[2].Tag == BufVoid, "expected failed STR_CAT to leave a Void dest Void, got %s", e.buffers[2].Tag)
}

func TestStrCatVoidDestLeftVoidOnOverflow(t *testing.T) {
	a := &asm{}
	a.instr(StrCat, 2, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	fill := func(b *Buffer, n int) {
		bytes := make([]byte, n)
		for i := range bytes {
			bytes[i] = 'x'
		}
		writeCString(b, string(bytes))
	}
	fill(&e.buffers[0], 200)
	fill(&e.buffers[1], 200)
	status := e.Step()
	assertErrCode(t, status, StatusBounds)
	assert(t, e.buffers[2].Tag == BufVoid, "expected failed STR_CAT to leave a Void dest Void, got %s", e.buffers[2].Tag)
}

func TestStrCopyVoidDestLeftVoidOnInvalidSource(t *testing.T) {
	a := &asm{}
	a.instr(StrCopy, 1, 0)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU32 // not a string buffer -- STR_COPY must fail
	status := e.Step()
	assertErrCode(t, status, StatusTypeMismatch)
	assert(t, e.buffers[1].Tag == BufVoid, "expected failed STR_COPY to leave a Void dest Void, got %s", e.buffers[1].Tag)
}

func TestStrCopyVoidDestLeftVoidOnSourceTooLarge(t *testing.T) {
	a := &asm{}
	a.instr(StrCopy, 1, 0)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	for i := 0; i < 256; i++ {
		e.buffers[0].writeU8(uint32(i), 'x')
	}
	status := e.Step()
	assertErrCode(t, status, StatusBounds)
	assert(t, e.buffers[1].Tag == BufVoid, "expected failed STR_COPY to leave a Void dest Void, got %s", e.buffers[1].Tag)
}

func TestStrCopyIntoVoidDestInfersU8Tag(t *testing.T) {
	a := &asm{}
	a.instr(StrCopy, 1, 0)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	writeCString(&e.buffers[0], "hello world")
	status := e.Step()
	assert(t, status.OK(), "STR_COPY into a Void dest should succeed, got %s", status)
	assert(t, e.buffers[1].Tag == BufU8, "expected Void dest tagged U8 by STR_COPY")
}

func TestStrCopySourceTooLargeFails(t *testing.T) {
	a := &asm{}
	a.instr(StrCopy, 1, 0)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	e.buffers[1].Tag = BufU8
	// No NUL anywhere in the source's full 256-byte capacity: strLen treats
	// it as filling the buffer entirely, which can't fit the 256-byte dest
	// alongside its own terminator.
	for i := 0; i < 256; i++ {
		e.buffers[0].writeU8(uint32(i), 'x')
	}
	status := e.Step()
	assertErrCode(t, status, StatusBounds)
}

func TestStrChrReadsByteAtPosition(t *testing.T) {
	a := &asm{}
	a.instr(StrChr, 0, 1, 2) // dst slot0, buffer 1, pos 2
	e := newTestEngine(t, a.bytes())
	e.buffers[1].Tag = BufU8
	writeCString(&e.buffers[1], "xyz")
	mustStep(t, e)
	assert(t, e.CurrentFrame().StackVars[0].AsUChar() == int32('z'), "expected 'z' at pos 2, got %v", e.CurrentFrame().StackVars[0])
}

func TestStrSetChrWritesByteAtPosition(t *testing.T) {
	a := &asm{}
	a.instr(StrSetChr, 0, 1, byte('Q'))
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	writeCString(&e.buffers[0], "abc")
	mustStep(t, e)
	assert(t, e.buffers[0].readU8(1) == 'Q', "expected pos 1 overwritten with 'Q', got %q", e.buffers[0].readU8(1))
}

func TestStrChrAcceptsLastValidPosition(t *testing.T) {
	a := &asm{}
	a.instr(StrChr, 0, 1, 255) // 255 is the last valid offset into a 256-byte U8 buffer
	e := newTestEngine(t, a.bytes())
	e.buffers[1].Tag = BufU8
	status := e.Step()
	assert(t, status.OK(), "pos 255 is the last valid U8 offset, got %s", status)
}

func TestRequireStringBufferRejectsNonU8(t *testing.T) {
	a := &asm{}
	a.instr(StrLen, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[1].Tag = BufU32
	status := e.Step()
	assertErrCode(t, status, StatusTypeMismatch)
}
