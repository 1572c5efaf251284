package engine

import (
	"encoding/binary"
	"testing"
)

// assert follows KTStephano-GVM/vm/vm_test.go's helper shape, adapted to
// this package's table-driven tests.
func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// asm builds raw bytecode by hand, standing in for the out-of-scope
// text-source assembler: each instr() call appends one instruction per
// opcode.go's wire encoding.
type asm struct {
	buf []byte
}

func (a *asm) instr(op Opcode, operand byte, words ...uint32) *asm {
	header := [4]byte{byte(op), operand, byte(len(words)), 0}
	a.buf = append(a.buf, header[:]...)
	for _, w := range words {
		var wb [4]byte
		binary.NativeEndian.PutUint32(wb[:], w)
		a.buf = append(a.buf, wb[:]...)
	}
	return a
}

func (a *asm) bytes() []byte { return a.buf }

// label returns the byte offset the next instr() call will be written at,
// for building forward/backward jump targets before the full length is known.
func (a *asm) label() uint32 { return uint32(len(a.buf)) }

func stackRefWord(frame, v uint16) uint32 {
	return stackRefAsWord(StackRef{Frame: frame, Var: v})
}

func loadI32(a *asm, dst byte, v int32) *asm {
	return a.instr(LoadII32, dst, uint32(v))
}

func loadU32(a *asm, dst byte, v uint32) *asm {
	return a.instr(LoadIU32, dst, v)
}

func loadF32(a *asm, dst byte, v float32) *asm {
	return a.instr(LoadIF32, dst, float32Bits(v))
}

func newTestEngine(t *testing.T, program []byte) *Engine {
	t.Helper()
	e := New()
	if err := e.Load(program); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func mustStep(t *testing.T, e *Engine) VmStatus {
	t.Helper()
	status := e.Step()
	assert(t, status.OK(), "Step: unexpected status %s", status)
	return status
}

func assertErrCode(t *testing.T, status VmStatus, code Code) {
	t.Helper()
	assert(t, status.Code() == code, "expected status %s, got %s (%v)", code, status.Code(), status.Err())
}
