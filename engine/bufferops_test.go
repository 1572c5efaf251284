package engine

import "testing"

func TestBufWriteInfersVoidTagFromI32(t *testing.T) {
	a := &asm{}
	loadI32(a, 0, -9)
	a.instr(BufWrite, 0, 3, 0) // buffer 3, pos 0
	a.instr(BufRead, 1, 3, 0)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)

	assert(t, e.buffers[3].Tag == BufI32, "expected Void buffer tagged I32 on first I32 write")
	assert(t, e.CurrentFrame().StackVars[1].AsI32() == -9, "expected read-back == -9, got %v", e.CurrentFrame().StackVars[1])
}

func TestBufWriteInfersVoidTagFromF32(t *testing.T) {
	a := &asm{}
	loadF32(a, 0, 2.5)
	a.instr(BufWrite, 0, 4, 0)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	assert(t, e.buffers[4].Tag == BufF32, "expected Void buffer tagged F32 on first F32 write")
}

func TestBufWriteInfersVoidTagFromU32Default(t *testing.T) {
	a := &asm{}
	loadU32(a, 0, 7)
	a.instr(BufWrite, 0, 5, 0)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	assert(t, e.buffers[5].Tag == BufU32, "expected Void buffer tagged U32 by default")
}

func TestBufReadFromVoidBufferFails(t *testing.T) {
	a := &asm{}
	a.instr(BufRead, 0, 9, 0)
	e := newTestEngine(t, a.bytes())
	status := e.Step()
	assertErrCode(t, status, StatusTypeMismatch)
}

func TestBufWriteU8AcceptsI32Narrowed(t *testing.T) {
	a := &asm{}
	loadI32(a, 0, 300) // narrows to 300 & 0xFF == 44
	a.instr(BufWrite, 0, 0, 0)
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU8
	mustStep(t, e)
	mustStep(t, e)
	assert(t, e.buffers[0].readU8(0) == 44, "expected narrowed write, got %d", e.buffers[0].readU8(0))
}

func TestBufWritePositionOutOfRangeFails(t *testing.T) {
	a := &asm{}
	loadU32(a, 0, 1)
	a.instr(BufWrite, 0, 0, 64) // U32 buffer capacity is 64
	e := newTestEngine(t, a.bytes())
	e.buffers[0].Tag = BufU32
	mustStep(t, e)
	status := e.Step()
	assertErrCode(t, status, StatusInvalidBufferPos)
}

func TestBufWriteVoidBufferOutOfRangePosLeavesTagVoid(t *testing.T) {
	a := &asm{}
	loadI32(a, 0, 1)
	a.instr(BufWrite, 0, 6, 64) // I32 buffer capacity is 64, pos 64 is out of range
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	status := e.Step()
	assertErrCode(t, status, StatusInvalidBufferPos)
	assert(t, e.buffers[6].Tag == BufVoid, "expected failed BUF_WRITE to leave a Void buffer Void, got %s", e.buffers[6].Tag)
}

func TestBufLenReportsCapacityByTag(t *testing.T) {
	a := &asm{}
	a.instr(BufLen, 0, 1)
	e := newTestEngine(t, a.bytes())
	e.buffers[1].Tag = BufU16
	mustStep(t, e)
	assert(t, e.CurrentFrame().StackVars[0].AsU32() == 128, "expected U16 buffer capacity 128, got %d", e.CurrentFrame().StackVars[0].AsU32())
}

func TestBufClearOnVoidIsNoOp(t *testing.T) {
	a := &asm{}
	a.instr(BufClear, 2)
	e := newTestEngine(t, a.bytes())
	status := e.Step()
	assert(t, status.OK(), "BUF_CLEAR on Void buffer must not error, got %s", status)
	assert(t, e.buffers[2].Tag == BufVoid, "expected Void buffer to remain Void")
}

func TestBufClearZeroesStorageButKeepsTag(t *testing.T) {
	a := &asm{}
	loadU32(a, 0, 0xABCD)
	a.instr(BufWrite, 0, 0, 0)
	a.instr(BufClear, 0)
	a.instr(BufRead, 1, 0, 0)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)
	assert(t, e.buffers[0].Tag == BufU32, "expected tag retained across clear")
	assert(t, e.CurrentFrame().StackVars[1].AsU32() == 0, "expected storage zeroed by clear")
}
