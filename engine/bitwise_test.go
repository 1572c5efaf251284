package engine

import "testing"

func TestAndOrXor(t *testing.T) {
	a := &asm{}
	loadU32(a, 1, 0b1100)
	loadU32(a, 2, 0b1010)
	a.instr(AndU32, 0, 1, 2)
	a.instr(OrU32, 3, 1, 2)
	a.instr(XorU32, 4, 1, 2)
	a.instr(Halt, 0)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)
	mustStep(t, e)

	f := e.CurrentFrame()
	assert(t, f.StackVars[0].AsU32() == 0b1000, "AND: got %b", f.StackVars[0].AsU32())
	assert(t, f.StackVars[3].AsU32() == 0b1110, "OR: got %b", f.StackVars[3].AsU32())
	assert(t, f.StackVars[4].AsU32() == 0b0110, "XOR: got %b", f.StackVars[4].AsU32())
}

func TestNot(t *testing.T) {
	a := &asm{}
	loadU32(a, 1, 0)
	a.instr(NotU32, 0, 1)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	assert(t, e.CurrentFrame().StackVars[0].AsU32() == 0xFFFFFFFF, "expected ^0 == all ones")
}

func TestShlAndShr(t *testing.T) {
	a := &asm{}
	loadU32(a, 1, 1)
	loadU32(a, 2, 4)
	a.instr(ShlU32, 0, 1, 2)
	loadU32(a, 3, 0x80000000)
	loadU32(a, 4, 4)
	a.instr(ShrU32, 5, 3, 4)
	a.instr(Halt, 0)
	e := newTestEngine(t, a.bytes())
	for i := 0; i < 6; i++ {
		mustStep(t, e)
	}
	f := e.CurrentFrame()
	assert(t, f.StackVars[0].AsU32() == 16, "expected 1<<4 == 16, got %d", f.StackVars[0].AsU32())
	assert(t, f.StackVars[5].AsU32() == 0x08000000, "expected logical shift right, got 0x%X", f.StackVars[5].AsU32())
}

func TestShiftByThirtyTwoFails(t *testing.T) {
	a := &asm{}
	loadU32(a, 1, 1)
	loadU32(a, 2, 32)
	a.instr(ShlU32, 0, 1, 2)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	status := e.Step()
	assertErrCode(t, status, StatusBounds)
}

func TestBitwiseRequiresU32Operands(t *testing.T) {
	a := &asm{}
	loadI32(a, 1, 1)
	loadU32(a, 2, 1)
	a.instr(AndU32, 0, 1, 2)
	e := newTestEngine(t, a.bytes())
	mustStep(t, e)
	mustStep(t, e)
	status := e.Step()
	assertErrCode(t, status, StatusTypeMismatch)
}
