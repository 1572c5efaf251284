package engine

import (
	"errors"
	"fmt"
)

// The following sentinel errors enumerate every terminal condition a Step
// can return, per spec §7. Handlers wrap these with fmt.Errorf("%w: ...")
// to attach the offending index/pc; callers compare with errors.Is against
// the sentinel, never against the wrapped message.
var (
	ErrInvalidPC          = errors.New("invalid program counter")
	ErrInvalidInstruction = errors.New("invalid instruction encoding")
	ErrInvalidOpcode      = errors.New("invalid opcode")
	ErrProgramTooLarge    = errors.New("program exceeds maximum size")

	ErrStackOverflow  = errors.New("call stack overflow")
	ErrStackUnderflow = errors.New("call stack underflow")

	ErrInvalidGlobalIdx   = errors.New("invalid global index")
	ErrInvalidLocalIdx    = errors.New("invalid local index")
	ErrInvalidStackVarIdx = errors.New("invalid stack-var index")
	ErrInvalidBufferIdx   = errors.New("invalid buffer index")
	ErrInvalidBufferPos   = errors.New("invalid buffer position")

	ErrDivByZero = errors.New("division by zero")
	ErrBounds    = errors.New("operand out of bounds")

	ErrTypeMismatch = errors.New("type mismatch")

	// ErrHalt is the normal-termination sentinel. Step returns it wrapped in
	// a VmStatus whose Code() is StatusHalt; Run folds it to a nil error.
	ErrHalt = errors.New("halt")
)

// Code is a small stable integer identifying a VmStatus, suitable for use
// as a process exit code by a driver (spec §6: "Exit codes by convention:
// 0 on OK, non-zero on any other terminal status").
type Code int

const (
	StatusOK Code = iota
	StatusHalt
	StatusInvalidPC
	StatusInvalidInstruction
	StatusInvalidOpcode
	StatusProgramTooLarge
	StatusStackOverflow
	StatusStackUnderflow
	StatusInvalidGlobalIdx
	StatusInvalidLocalIdx
	StatusInvalidStackVarIdx
	StatusInvalidBufferIdx
	StatusInvalidBufferPos
	StatusDivByZero
	StatusBounds
	StatusTypeMismatch
)

var codeNames = map[Code]string{
	StatusOK:                 "OK",
	StatusHalt:               "HALT",
	StatusInvalidPC:          "INVALID_PC",
	StatusInvalidInstruction: "INVALID_INSTRUCTION",
	StatusInvalidOpcode:      "INVALID_OPCODE",
	StatusProgramTooLarge:    "PROGRAM_TOO_LARGE",
	StatusStackOverflow:      "STACK_OVERFLOW",
	StatusStackUnderflow:     "STACK_UNDERFLOW",
	StatusInvalidGlobalIdx:   "INVALID_GLOBAL_IDX",
	StatusInvalidLocalIdx:    "INVALID_LOCAL_IDX",
	StatusInvalidStackVarIdx: "INVALID_STACK_VAR_IDX",
	StatusInvalidBufferIdx:   "INVALID_BUFFER_IDX",
	StatusInvalidBufferPos:   "INVALID_BUFFER_POS",
	StatusDivByZero:          "DIV_BY_ZERO",
	StatusBounds:             "BOUNDS",
	StatusTypeMismatch:       "TYPE_MISMATCH",
}

// String returns the stable human-readable name spec §7 requires of a
// diagnostic routine.
func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}

var sentinelForCode = map[Code]error{
	StatusHalt:               ErrHalt,
	StatusInvalidPC:          ErrInvalidPC,
	StatusInvalidInstruction: ErrInvalidInstruction,
	StatusInvalidOpcode:      ErrInvalidOpcode,
	StatusProgramTooLarge:    ErrProgramTooLarge,
	StatusStackOverflow:      ErrStackOverflow,
	StatusStackUnderflow:     ErrStackUnderflow,
	StatusInvalidGlobalIdx:   ErrInvalidGlobalIdx,
	StatusInvalidLocalIdx:    ErrInvalidLocalIdx,
	StatusInvalidStackVarIdx: ErrInvalidStackVarIdx,
	StatusInvalidBufferIdx:   ErrInvalidBufferIdx,
	StatusInvalidBufferPos:   ErrInvalidBufferPos,
	StatusDivByZero:          ErrDivByZero,
	StatusBounds:             ErrBounds,
	StatusTypeMismatch:       ErrTypeMismatch,
}

// VmStatus is the result of a single Step: either StatusOK (nothing went
// wrong) or a terminal condition wrapping one of the sentinel errors above.
type VmStatus struct {
	code Code
	err  error // nil for StatusOK
}

// Code returns the stable status code, for use as a process exit code.
func (s VmStatus) Code() Code { return s.code }

// OK reports whether the instruction completed without error.
func (s VmStatus) OK() bool { return s.code == StatusOK }

// Halted reports whether the instruction was HALT, folded to success by Run.
func (s VmStatus) Halted() bool { return s.code == StatusHalt }

// Err returns the wrapped error, or nil for StatusOK.
func (s VmStatus) Err() error { return s.err }

// Error implements the error interface so a VmStatus can be returned
// directly from functions that want a plain `error` result (e.g. Run).
func (s VmStatus) Error() string {
	if s.err == nil {
		return s.code.String()
	}
	return s.err.Error()
}

// Unwrap lets errors.Is/errors.As see through to the sentinel.
func (s VmStatus) Unwrap() error { return s.err }

func ok() VmStatus { return VmStatus{code: StatusOK} }

func statusErr(code Code, err error) VmStatus {
	return VmStatus{code: code, err: err}
}

// statusFor wraps one of the sentinels above with extra context, choosing
// the Code that corresponds to the sentinel so Code() and errors.Is agree.
func statusFor(sentinel error, context string) VmStatus {
	for code, s := range sentinelForCode {
		if s == sentinel {
			if context == "" {
				return statusErr(code, sentinel)
			}
			return statusErr(code, fmt.Errorf("%w: %s", sentinel, context))
		}
	}
	return statusErr(StatusTypeMismatch, sentinel)
}
