package engine

import "fmt"

// ValueTag discriminates the active arm of a Value. The zero value, TagVoid,
// marks an unused slot — every Global, Frame stack-var, and local starts out
// TagVoid.
type ValueTag byte

const (
	TagVoid ValueTag = iota
	TagI32
	TagU32
	TagF32
	TagU8x4
	TagU16x2
	TagUChar
	TagGlobalRef
	TagStackRef
	TagBufRef
	TagBufPos
)

func (t ValueTag) String() string {
	switch t {
	case TagVoid:
		return "Void"
	case TagI32:
		return "I32"
	case TagU32:
		return "U32"
	case TagF32:
		return "F32"
	case TagU8x4:
		return "U8x4"
	case TagU16x2:
		return "U16x2"
	case TagUChar:
		return "UChar"
	case TagGlobalRef:
		return "GlobalRef"
	case TagStackRef:
		return "StackRef"
	case TagBufRef:
		return "BufRef"
	case TagBufPos:
		return "BufPos"
	default:
		return "?"
	}
}

// StackRef addresses one stack-var slot in one frame. It is a data index,
// not a pointer: resolved fresh against the live frame array on every use.
type StackRef struct {
	Frame uint16
	Var   uint16
}

// Value is the tagged union described in spec §3. Exactly one payload field
// is meaningful at a time, selected by Tag; handlers must never read a
// field that doesn't match Tag. The struct carries every arm's payload
// directly (no interface boxing) so Values can live in fixed arrays without
// per-slot heap allocation, preserving the "no dynamic allocation" Non-goal.
type Value struct {
	Tag ValueTag

	i32   int32
	u32   uint32
	f32   float32
	u8x4  [4]uint8
	u16x2 [2]uint16
	ref   StackRef // also used to store GlobalRef/BufRef/BufPos as ref.Var
}

// Void is the zero Value (TagVoid, every payload field zeroed).
var Void = Value{}

func I32(v int32) Value     { return Value{Tag: TagI32, i32: v} }
func U32(v uint32) Value    { return Value{Tag: TagU32, u32: v} }
func F32(v float32) Value   { return Value{Tag: TagF32, f32: v} }
func U8x4(v [4]uint8) Value { return Value{Tag: TagU8x4, u8x4: v} }

func U16x2(v [2]uint16) Value { return Value{Tag: TagU16x2, u16x2: v} }

// UChar wraps a Unicode codepoint, signed by convention per spec §3.
func UChar(v int32) Value { return Value{Tag: TagUChar, i32: v} }

func GlobalRef(idx uint32) Value { return Value{Tag: TagGlobalRef, u32: idx} }

func MakeStackRef(ref StackRef) Value { return Value{Tag: TagStackRef, ref: ref} }

func BufRef(idx uint32) Value { return Value{Tag: TagBufRef, u32: idx} }

func BufPos(pos uint32) Value { return Value{Tag: TagBufPos, u32: pos} }

// AsI32 returns the I32 payload. Callers must have already checked Tag ==
// TagI32; this never panics but returns the zero value for any other tag,
// matching the "tag check happens before access, not inside the accessor"
// discipline every opcode handler follows.
func (v Value) AsI32() int32 {
	if v.Tag != TagI32 {
		return 0
	}
	return v.i32
}

func (v Value) AsU32() uint32 {
	if v.Tag != TagU32 {
		return 0
	}
	return v.u32
}

func (v Value) AsF32() float32 {
	if v.Tag != TagF32 {
		return 0
	}
	return v.f32
}

func (v Value) AsU8x4() [4]uint8 {
	if v.Tag != TagU8x4 {
		return [4]uint8{}
	}
	return v.u8x4
}

func (v Value) AsU16x2() [2]uint16 {
	if v.Tag != TagU16x2 {
		return [2]uint16{}
	}
	return v.u16x2
}

func (v Value) AsUChar() int32 {
	if v.Tag != TagUChar {
		return 0
	}
	return v.i32
}

func (v Value) AsGlobalRef() uint32 {
	if v.Tag != TagGlobalRef {
		return 0
	}
	return v.u32
}

func (v Value) AsStackRef() StackRef {
	if v.Tag != TagStackRef {
		return StackRef{}
	}
	return v.ref
}

func (v Value) AsBufRef() uint32 {
	if v.Tag != TagBufRef {
		return 0
	}
	return v.u32
}

func (v Value) AsBufPos() uint32 {
	if v.Tag != TagBufPos {
		return 0
	}
	return v.u32
}

// IsVoid reports whether this slot holds no value.
func (v Value) IsVoid() bool { return v.Tag == TagVoid }

func (v Value) String() string {
	switch v.Tag {
	case TagVoid:
		return "void"
	case TagI32:
		return fmt.Sprintf("i32(%d)", v.i32)
	case TagU32:
		return fmt.Sprintf("u32(%d)", v.u32)
	case TagF32:
		return fmt.Sprintf("f32(%g)", v.f32)
	case TagU8x4:
		return fmt.Sprintf("u8x4(%v)", v.u8x4)
	case TagU16x2:
		return fmt.Sprintf("u16x2(%v)", v.u16x2)
	case TagUChar:
		return fmt.Sprintf("uchar(%d)", v.i32)
	case TagGlobalRef:
		return fmt.Sprintf("globalref(%d)", v.u32)
	case TagStackRef:
		return fmt.Sprintf("stackref(frame=%d,var=%d)", v.ref.Frame, v.ref.Var)
	case TagBufRef:
		return fmt.Sprintf("bufref(%d)", v.u32)
	case TagBufPos:
		return fmt.Sprintf("bufpos(%d)", v.u32)
	default:
		return "?"
	}
}
