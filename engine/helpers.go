package engine

import (
	"encoding/binary"
	"math"
)

// nativeEndian is used throughout for multi-byte payload words and buffer
// element storage. Spec §4.1: "The decoder copies out four-byte words using
// the host's native byte order (deterministic per host; bytecode is
// host-bound)" — this is the one intentional host-dependency the spec
// permits (see DESIGN.md's engine/decode.go entry).
var nativeEndian = binary.NativeEndian

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }

func float32Bits(f float32) uint32 { return math.Float32bits(f) }

const (
	numStackVars  = 16
	numLocals     = 64
	numFrames     = 32
	numGlobals    = 256
	numBuffers    = 256
	maxProgramLen = 65536
)
