// Package boot performs the final transfer of execution into a loaded
// application image.
//
// An image starts with a Cortex-M vector table. Its first word is the
// initial main stack pointer and its second word the reset handler:
//
//	offset+0  initial SP
//	offset+4  reset vector
//
// Native (TinyGo, Cortex-M only) is the real jump. Simulated stands in
// for it on host builds. Both are appmgr.Handoff implementations and
// neither returns.
package boot

import (
	"encoding/binary"
	"fmt"
)

// VectorTableHeaderSize is the number of bytes read from the start of an
// image: the stack pointer and reset vector words.
const VectorTableHeaderSize = 8

// VectorTable holds the two entries used by the handoff.
type VectorTable struct {
	StackPointer uint32
	Reset        uint32
}

// ParseVectorTable decodes the little-endian header of an image.
func ParseVectorTable(b []byte) (VectorTable, error) {
	if len(b) < VectorTableHeaderSize {
		return VectorTable{}, fmt.Errorf("vector table: need %d bytes, got %d", VectorTableHeaderSize, len(b))
	}
	return VectorTable{
		StackPointer: binary.LittleEndian.Uint32(b[0:4]),
		Reset:        binary.LittleEndian.Uint32(b[4:8]),
	}, nil
}

// Thumb reports whether the reset vector has the Thumb bit set, which
// every Cortex-M entry point must.
func (v VectorTable) Thumb() bool { return v.Reset&1 == 1 }

func (v VectorTable) String() string {
	return fmt.Sprintf("sp=0x%08X reset=0x%08X", v.StackPointer, v.Reset)
}
