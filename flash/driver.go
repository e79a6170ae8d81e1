package flash

import (
	"runtime"
	"time"
)

// Driver is a non-volatile memory controller.
//
// EraseBlock and WritePage may return before the operation finishes; the
// caller must poll Busy (see WaitReady) before issuing the next operation.
// Drivers are not reentrant.
type Driver interface {
	// Init brings up the controller. It is called once at boot.
	Init() error

	// Geometry returns the page and block sizes.
	Geometry() Geometry

	// EraseBlock starts erasing the block at the block-aligned addr.
	EraseBlock(addr uint32) error

	// WritePage starts programming one page at the page-aligned addr.
	// len(page) equals Geometry().PageSize.
	WritePage(addr uint32, page []byte) error

	// Busy reports whether an erase or write is still in progress.
	Busy() bool
}

// WaitReady polls d until it is no longer busy. A timeout of zero waits
// indefinitely; a stuck controller then stalls the caller forever.
func WaitReady(d Driver, timeout time.Duration) error {
	if timeout <= 0 {
		for d.Busy() {
			runtime.Gosched()
		}
		return nil
	}

	deadline := time.Now().Add(timeout)
	for d.Busy() {
		if time.Now().After(deadline) {
			return &TimeoutError{Timeout: timeout}
		}
		runtime.Gosched()
	}
	return nil
}
