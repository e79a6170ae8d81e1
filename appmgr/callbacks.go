package appmgr

import "github.com/moffa90/go-multiboot/catalog"

// ScanFunc receives catalog entries in order. index is the entry's
// position in the whole catalog, counting only directories that carry a
// name. Returning false stops the scan.
type ScanFunc func(index int, d catalog.Description) bool

// ProgressFunc is called after each programmed page with the number of
// bytes written so far and the binary size. Returning false cancels the
// load before the next page.
//
// Example:
//
//	err := mgr.Load(ctx, d, 0x4000, func(written, total int) bool {
//	    fmt.Printf("\r%d/%d", written, total)
//	    return true
//	})
type ProgressFunc func(written, total int) bool

// Handoff transfers execution to the image at offset. Jump must not
// return: it is the last thing the launcher does.
type Handoff interface {
	Jump(offset uintptr)
}

// Logger is an optional logging interface that can be provided to the
// manager. *slog.Logger satisfies it.
//
// Example with log/slog:
//
//	mgr := appmgr.New(sd, drv, appmgr.WithLogger(slog.Default()))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...any)

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...any)

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...any)
}
