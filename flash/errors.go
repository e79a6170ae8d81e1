package flash

import (
	"fmt"
	"time"
)

// AlignmentError is returned when an address does not start a page or
// block as the operation requires.
type AlignmentError struct {
	// Operation is "erase" or "write"
	Operation string
	Addr      uint32
	Alignment uint32
}

func (e *AlignmentError) Error() string {
	return fmt.Sprintf("%s: address 0x%08X is not aligned to 0x%X", e.Operation, e.Addr, e.Alignment)
}

// RangeError is returned when an operation falls outside the device.
type RangeError struct {
	Operation string
	Addr      uint32
	Length    uint32
	Size      uint32
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s: range 0x%08X+0x%X exceeds flash size 0x%X",
		e.Operation, e.Addr, e.Length, e.Size)
}

// TimeoutError is returned by WaitReady when the controller stays busy
// longer than the configured timeout.
type TimeoutError struct {
	Timeout time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("flash still busy after %s", e.Timeout)
}

// IsTimeout returns true if the error is a TimeoutError.
func IsTimeout(err error) bool {
	_, ok := err.(*TimeoutError)
	return ok
}
