package engine

import (
	"errors"
	"fmt"
	"io"
	"strconv"
)

// PRINT_I32/U32/F32  src_stackvar(Operand)
// PRINT_STR          buf_idx(Operand)
// PRINTLN            (no operand)
// READ_I32/U32/F32   dst_stackvar(Operand)
// READ_STR           buf_idx(Operand)
//
// Every print handler flushes its sink immediately: a safety-critical
// program's last observable action before a HALT or a trap must already be
// visible to the host, not sitting in a bufio buffer.

func (e *Engine) opPrintScalar(instr Instruction) VmStatus {
	src, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}

	var text string
	switch instr.Op {
	case PrintI32:
		if src.Tag != TagI32 {
			return statusFor(ErrTypeMismatch, "PRINT_I32 requires an I32 operand")
		}
		text = strconv.FormatInt(int64(src.AsI32()), 10)
	case PrintU32:
		if src.Tag != TagU32 {
			return statusFor(ErrTypeMismatch, "PRINT_U32 requires a U32 operand")
		}
		text = strconv.FormatUint(uint64(src.AsU32()), 10)
	case PrintF32:
		if src.Tag != TagF32 {
			return statusFor(ErrTypeMismatch, "PRINT_F32 requires an F32 operand")
		}
		// spec §4.2: "optional -, integer part, '.', 6 decimal digits".
		text = strconv.FormatFloat(float64(src.AsF32()), 'f', 6, 32)
	}

	if _, err := e.sink.WriteString(text); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("write failed: %v", err))
	}
	if err := e.sink.Flush(); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("flush failed: %v", err))
	}
	return e.advance(instr)
}

func (e *Engine) opPrintStr(instr Instruction) VmStatus {
	buf, status := e.requireStringBuffer(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	n := strLen(buf)
	bytes := make([]byte, n)
	for i := uint32(0); i < n; i++ {
		bytes[i] = buf.readU8(i)
	}
	if _, err := e.sink.WriteString(string(bytes)); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("write failed: %v", err))
	}
	if err := e.sink.Flush(); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("flush failed: %v", err))
	}
	return e.advance(instr)
}

func (e *Engine) opPrintln(instr Instruction) VmStatus {
	if err := e.sink.WriteByte(lineTerminator); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("write failed: %v", err))
	}
	if err := e.sink.Flush(); err != nil {
		return statusFor(ErrBounds, fmt.Sprintf("flush failed: %v", err))
	}
	return e.advance(instr)
}

func isLineSpace(b byte) bool { return b == ' ' || b == '\t' || b == '\r' }

// readToken skips leading line-space then collects bytes up to the next
// line-space byte, a line terminator, or EOF. eof reports whether no token
// could be formed at all (immediate EOF).
func (e *Engine) readToken() (token string, eof bool) {
	var b byte
	var err error
	for {
		b, err = e.source.ReadByte()
		if err != nil {
			return "", true
		}
		if b == lineTerminator {
			return "", false
		}
		if !isLineSpace(b) {
			break
		}
	}

	buf := []byte{b}
	for {
		b, err = e.source.ReadByte()
		if err != nil {
			break
		}
		if b == lineTerminator {
			_ = e.source.UnreadByte()
			break
		}
		if isLineSpace(b) {
			break
		}
		buf = append(buf, b)
	}
	return string(buf), false
}

// discardLine consumes bytes up to and including the next line terminator,
// per spec §4.2's READ_* parse-failure contract: "discard input up to the
// next line terminator". Reaching EOF first is not an error.
func (e *Engine) discardLine() {
	for {
		b, err := e.source.ReadByte()
		if err != nil {
			return
		}
		if b == lineTerminator {
			return
		}
	}
}

// opReadScalar implements READ_I32/U32/F32: parse one token, or on parse
// failure (including no input at all) write zero of the target tag and
// discard the rest of the line, per spec §4.2 -- this opcode never fails.
func (e *Engine) opReadScalar(instr Instruction) VmStatus {
	dst, status := e.stackVar(uint32(instr.Operand))
	if !status.OK() {
		return status
	}

	token, eof := e.readToken()
	parseFailed := func() {
		if !eof {
			e.discardLine()
		}
		switch instr.Op {
		case ReadI32:
			*dst = I32(0)
		case ReadU32:
			*dst = U32(0)
		case ReadF32:
			*dst = F32(0)
		}
	}

	if token == "" {
		parseFailed()
		return e.advance(instr)
	}

	switch instr.Op {
	case ReadI32:
		v, err := strconv.ParseInt(token, 10, 32)
		if err != nil {
			parseFailed()
			break
		}
		*dst = I32(int32(v))
	case ReadU32:
		v, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			parseFailed()
			break
		}
		*dst = U32(uint32(v))
	case ReadF32:
		v, err := strconv.ParseFloat(token, 32)
		if err != nil {
			parseFailed()
			break
		}
		*dst = F32(float32(v))
	}
	return e.advance(instr)
}

// opReadStr implements READ_STR bi: reads bytes from the source until a
// line terminator or 255 bytes consumed, then NUL-terminates, per spec
// §4.2. Unlike opReadScalar it reads raw bytes rather than a
// whitespace-delimited token.
func (e *Engine) opReadStr(instr Instruction) VmStatus {
	buf, status := e.bufferAt(uint32(instr.Operand))
	if !status.OK() {
		return status
	}
	if buf.Tag == BufVoid {
		buf.Tag = BufU8
	}
	if buf.Tag != BufU8 {
		return statusFor(ErrTypeMismatch, "READ_STR target is not a string (U8) buffer")
	}

	buf.Clear()
	const maxStringBytes = 255
	var n uint32
	for n < maxStringBytes {
		b, err := e.source.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return statusFor(ErrBounds, fmt.Sprintf("read failed: %v", err))
		}
		if b == lineTerminator {
			break
		}
		buf.writeU8(n, b)
		n++
	}
	return e.advance(instr)
}
