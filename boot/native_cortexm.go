//go:build tinygo && cortexm

package boot

import (
	"device/arm"
	"runtime/volatile"
	"unsafe"
)

// Native jumps into an image in on-chip flash.
type Native struct{}

// Jump implements appmgr.Handoff.
func (Native) Jump(offset uintptr) { Jump(offset) }

// Jump hands the processor to the image at offset and never returns.
//
// Precondition: a valid vector table lives at offset. Nothing is checked
// here; an invalid image is undefined behaviour.
//
//go:noinline
func Jump(offset uintptr) {
	arm.DisableInterrupts()

	table := (*[2]volatile.Register32)(unsafe.Pointer(offset))
	sp := table[0].Get()
	reset := table[1].Get()

	arm.SCB.VTOR.Set(uint32(offset))
	arm.Asm("dsb")
	arm.Asm("isb")

	arm.AsmFull(`
		msr msp, {sp}
		bx {reset}
	`, map[string]interface{}{
		"sp":    sp,
		"reset": reset,
	})

	for {
	}
}
