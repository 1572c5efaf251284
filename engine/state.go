package engine

import (
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flags holds the three independent condition bits set by CMP_* and STR_CMP
// and read by the conditional jumps (spec §3, §4.2).
type Flags struct {
	Zero    bool
	Less    bool
	Greater bool
}

func (f *Flags) clear() { *f = Flags{} }

// Engine is the entire VM state described in spec §3, owned by one value
// with no process-wide statics — multiple Engines run fully independently
// (spec §5).
type Engine struct {
	id uuid.UUID

	program    [maxProgramLen]byte
	programLen uint32
	pc         uint32

	frames [numFrames]Frame
	sp     uint32 // current frame index, 0..31

	globals [numGlobals]Value
	buffers [numBuffers]Buffer

	flags     Flags
	lastError VmStatus

	sink   TextSink
	source TextSource
}

// New constructs a freshly reset Engine with a newly generated random
// instance identity.
// Host text I/O defaults to stdout/stdin via DefaultIO(); call SetIO to
// redirect it (tests do, to capture output).
func New() *Engine {
	e := &Engine{id: uuid.New()}
	e.sink, e.source = DefaultIO()
	e.Reset()
	Logger().Debug("engine constructed", zap.Stringer("engine_id", e.id))
	return e
}

// ID returns this engine's instance identity, stable across Reset calls.
// See SPEC_FULL.md §2.2/§3 — used purely for log correlation when a host
// runs many independent engines.
func (e *Engine) ID() uuid.UUID { return e.id }

// SetIO redirects the host text sink/source used by PRINT_*/READ_*.
func (e *Engine) SetIO(sink TextSink, source TextSource) {
	e.sink = sink
	e.source = source
}

// Reset reverts all slots to Void, flag and error state to zero, and PC/SP
// to 0, per spec §3 "Lifecycle / ownership". Loaded program bytes are
// retained — Reset restarts execution of the same program from the top.
func (e *Engine) Reset() {
	e.pc = 0
	e.sp = 0
	for i := range e.frames {
		e.frames[i] = Frame{}
	}
	for i := range e.globals {
		e.globals[i] = Void
	}
	for i := range e.buffers {
		e.buffers[i] = Buffer{}
	}
	e.flags.clear()
	e.lastError = ok()
	Logger().Debug("engine reset", zap.Stringer("engine_id", e.id))
}

// Load installs program bytes as the engine's program memory. It does not
// reset other state (a fresh Engine from New is already reset); callers
// wanting a clean slate call Reset before or after Load as needed.
func (e *Engine) Load(program []byte) error {
	if len(program) > maxProgramLen {
		return ErrProgramTooLarge
	}
	e.programLen = uint32(len(program))
	copy(e.program[:e.programLen], program)
	// Zero any bytes left over from a previous, longer load.
	for i := e.programLen; i < maxProgramLen; i++ {
		e.program[i] = 0
	}
	return nil
}

// PC returns the current program counter.
func (e *Engine) PC() uint32 { return e.pc }

// SP returns the current frame-stack index.
func (e *Engine) SP() uint32 { return e.sp }

// ProgramLen returns the loaded program length.
func (e *Engine) ProgramLen() uint32 { return e.programLen }

// CurrentFlags returns a copy of the current condition flags.
func (e *Engine) CurrentFlags() Flags { return e.flags }

// LastStatus returns the status latched by the most recently executed
// instruction, including HALT (spec §7 "Error latch").
func (e *Engine) LastStatus() VmStatus { return e.lastError }

// Global returns a copy of global slot idx, or an error if idx is out of
// range. Exposed for diagnostics/tests; handlers use the unchecked
// internal accessors below after validating bounds themselves.
func (e *Engine) Global(idx uint32) (Value, error) {
	if idx >= numGlobals {
		return Void, ErrInvalidGlobalIdx
	}
	return e.globals[idx], nil
}

// CurrentFrame returns a pointer to the live frame (index sp).
func (e *Engine) CurrentFrame() *Frame { return &e.frames[e.sp] }

// ---- validation primitives (spec §4.1 "Validation primitives") ----

func validStackVarIdx(i uint32) bool { return i < numStackVars }
func validLocalIdx(i uint32) bool    { return i < numLocals }
func validGlobalIdx(i uint32) bool   { return i < numGlobals }
func validFrameIdx(i uint32) bool    { return i < numFrames }
func validBufferIdx(i uint32) bool   { return i < numBuffers }

func (e *Engine) bufferAt(idx uint32) (*Buffer, VmStatus) {
	if !validBufferIdx(idx) {
		return nil, statusFor(ErrInvalidBufferIdx, "index out of range")
	}
	return &e.buffers[idx], ok()
}

func validBufferPos(tag BufferTag, pos uint32) bool {
	return pos < tag.Capacity()
}
