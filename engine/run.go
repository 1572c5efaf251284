package engine

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Run steps the engine until a non-OK status or ctx is canceled, folding
// HALT to a nil error per spec §4.3: "HALT is success, everything else is
// failure." ctx is only checked between Step calls -- it never reaches
// Step's per-opcode logic, so a single Step is never interrupted mid-way
// (spec §5: no suspension points inside Step).
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		status := e.Step()
		if status.Halted() {
			Logger().Debug("engine halted", zap.Stringer("engine_id", e.id), zap.Uint32("pc", e.pc))
			return nil
		}
		if !status.OK() {
			Logger().Debug("engine trapped",
				zap.Stringer("engine_id", e.id),
				zap.Uint32("pc", e.pc),
				zap.Stringer("code", status.Code()),
				zap.Error(status.Err()))
			return status
		}
	}
}

// ValueDump mirrors Value in a JSON-friendly shape, since Value's payload
// fields are deliberately unexported.
type ValueDump struct {
	Tag  string `json:"tag"`
	Text string `json:"text"`
}

func dumpValue(v Value) ValueDump {
	return ValueDump{Tag: v.Tag.String(), Text: v.String()}
}

// SlotDump names one non-Void slot by its index, so StateDump's frame
// listing stays small for a program that only uses a handful of the 16
// stack-vars/64 locals a frame has room for.
type SlotDump struct {
	Index int       `json:"index"`
	Value ValueDump `json:"value"`
}

type FrameDump struct {
	StackVars []SlotDump `json:"stack_vars"`
	Locals    []SlotDump `json:"locals"`
	RetVal    ValueDump  `json:"ret_val"`
}

// StateDump is the JSON-serializable engine snapshot spec.md §7 requires
// ("dump_state emits PC, SP, flags, last_error, and the non-Void slots of
// the current frame"), consumed by cmd/latchvm's -json flag
// (SPEC_FULL.md §4.4). cmd/latchdbg renders the live frame itself and does
// not use it.
type StateDump struct {
	EngineID     string    `json:"engine_id"`
	PC           uint32    `json:"pc"`
	SP           uint32    `json:"sp"`
	ProgramLen   uint32    `json:"program_len"`
	Flags        Flags     `json:"flags"`
	Status       string    `json:"status"`
	StatusCode   int       `json:"status_code"`
	CurrentFrame FrameDump `json:"current_frame"`
}

// DumpState renders PC/SP/flags/last-error and the current frame's non-Void
// slots, per spec.md §7.
func (e *Engine) DumpState() StateDump {
	f := &e.frames[e.sp]
	frame := FrameDump{RetVal: dumpValue(f.RetVal)}
	for i, v := range f.StackVars {
		if !v.IsVoid() {
			frame.StackVars = append(frame.StackVars, SlotDump{Index: i, Value: dumpValue(v)})
		}
	}
	for i, v := range f.Locals {
		if !v.IsVoid() {
			frame.Locals = append(frame.Locals, SlotDump{Index: i, Value: dumpValue(v)})
		}
	}

	return StateDump{
		EngineID:     e.id.String(),
		PC:           e.pc,
		SP:           e.sp,
		ProgramLen:   e.programLen,
		Flags:        e.flags,
		Status:       e.lastError.Code().String(),
		StatusCode:   int(e.lastError.Code()),
		CurrentFrame: frame,
	}
}

// Disassemble renders one instruction at pc in mem as mnemonic text
// (e.g. "0x0010: ADD_I32 operand=2 w0=0x00000000 w1=0x00000001"), returning
// its encoded size so a caller (cmd/latchdbg) can step through a program
// without executing it. Grounded on bassosimone-risc32/pkg/vm/vm.go's
// Disassemble switch-per-opcode shape; mem is independent of any Engine's
// own program memory so a debugger can disassemble a file before loading it.
func Disassemble(mem []byte, pc uint32) (text string, size uint32, err error) {
	instr, status := decodeAt(mem, pc)
	if !status.OK() {
		return "", 0, status
	}
	if !instr.Op.Valid() {
		return fmt.Sprintf("0x%04X: ?unknown opcode 0x%02X?", pc, byte(instr.Op)), instr.Size, nil
	}

	switch instr.PayloadLen {
	case 0:
		text = fmt.Sprintf("0x%04X: %-12s operand=%d", pc, instr.Op, instr.Operand)
	case 1:
		text = fmt.Sprintf("0x%04X: %-12s operand=%d w0=0x%08X", pc, instr.Op, instr.Operand, instr.Words[0])
	case 2:
		text = fmt.Sprintf("0x%04X: %-12s operand=%d w0=0x%08X w1=0x%08X",
			pc, instr.Op, instr.Operand, instr.Words[0], instr.Words[1])
	default:
		text = fmt.Sprintf("0x%04X: %-12s operand=%d w0=0x%08X w1=0x%08X w2=0x%08X",
			pc, instr.Op, instr.Operand, instr.Words[0], instr.Words[1], instr.Words[2])
	}
	return text, instr.Size, nil
}
