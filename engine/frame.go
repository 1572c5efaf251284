package engine

// Frame is one element of the fixed 32-deep call stack (spec §3). StackVars
// hold parameter/temporary slots staged by the caller before CALL; Locals
// are reset to Void on CALL entry; RetVal is written by the callee (via
// STORE_RET) and read back by the caller (via LOAD_RET) after RET.
type Frame struct {
	StackVars [numStackVars]Value
	Locals    [numLocals]Value
	RetVal    Value
	ReturnPC  uint32
}

// resetLocals sets every local to Void, per spec §4.2 CALL: "sets every
// entry of the new frame's locals to Void/0". StackVars are deliberately
// left untouched — they carry whatever the caller pre-staged.
func (f *Frame) resetLocals() {
	for i := range f.Locals {
		f.Locals[i] = Void
	}
}
