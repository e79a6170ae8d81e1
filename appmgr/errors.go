package appmgr

import (
	"errors"
	"fmt"
)

// Code is the outcome of a Manager operation. Exactly one code describes
// each failed call; Success is never carried by a non-nil error.
type Code uint8

const (
	Success Code = iota
	FailedToMount
	NoAppsDir
	FailedToOpen
	InvalidOffset
	BinaryTooLarge
	UserCancelled
	TooFewBuffer
	NoIcon

	// FlashFailed reports a driver error or a busy timeout while erasing
	// or programming.
	FlashFailed
)

func (c Code) String() string {
	switch c {
	case Success:
		return "success"
	case FailedToMount:
		return "failed to mount"
	case NoAppsDir:
		return "no apps directory"
	case FailedToOpen:
		return "failed to open"
	case InvalidOffset:
		return "invalid offset"
	case BinaryTooLarge:
		return "binary too large"
	case UserCancelled:
		return "user cancelled"
	case TooFewBuffer:
		return "buffer too small"
	case NoIcon:
		return "no icon"
	case FlashFailed:
		return "flash operation failed"
	default:
		return fmt.Sprintf("unknown code %d", uint8(c))
	}
}

// Error is returned by every fallible Manager operation.
type Error struct {
	// Op is the operation that failed: "scan", "load", "run" or "icon"
	Op string

	Code Code

	// Err is the underlying cause, if any
	Err error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error with the same Code, so the sentinels below work
// with errors.Is regardless of Op and cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrFailedToMount  = &Error{Code: FailedToMount}
	ErrNoAppsDir      = &Error{Code: NoAppsDir}
	ErrFailedToOpen   = &Error{Code: FailedToOpen}
	ErrInvalidOffset  = &Error{Code: InvalidOffset}
	ErrBinaryTooLarge = &Error{Code: BinaryTooLarge}
	ErrUserCancelled  = &Error{Code: UserCancelled}
	ErrTooFewBuffer   = &Error{Code: TooFewBuffer}
	ErrNoIcon         = &Error{Code: NoIcon}
	ErrFlashFailed    = &Error{Code: FlashFailed}
)

// ErrHandoffReturned is returned by Run when the configured Handoff came
// back instead of transferring control.
var ErrHandoffReturned = errors.New("appmgr: execution handoff returned")

// CodeOf returns the Code carried by err: Success for nil, FlashFailed for
// errors that did not come from this package.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return FlashFailed
}

func newError(op string, code Code, err error) *Error {
	return &Error{Op: op, Code: code, Err: err}
}
