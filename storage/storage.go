// Package storage provides scoped access to removable media.
//
// A Storage is mounted only through WithMount, which binds the mount to
// the lifetime of a single function call and unmounts on every exit path.
// Callers never hold a mounted file system beyond that call, so at most
// one mount is alive at a time in single-threaded use.
//
//	err := storage.WithMount(sd, func(fsys fs.FS) error {
//	    entries, err := fs.ReadDir(fsys, "apps")
//	    ...
//	})
package storage

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotPresent is returned by Mount when no medium is inserted.
	ErrNotPresent = errors.New("storage: medium not present")

	// ErrBusy is returned by Mount when the medium is already mounted.
	ErrBusy = errors.New("storage: already mounted")

	// ErrNotMounted is returned by Unmount when nothing is mounted.
	ErrNotMounted = errors.New("storage: not mounted")
)

// Storage is a removable medium that can be mounted and unmounted.
// Implementations are not required to be safe for concurrent use.
type Storage interface {
	// Mount binds the medium and returns its root.
	Mount() (fs.FS, error)

	// Unmount releases the medium. The file system returned by Mount
	// must not be used afterwards.
	Unmount() error
}

// MountError wraps a failed Mount.
type MountError struct {
	Err error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount: %v", e.Err)
}

func (e *MountError) Unwrap() error { return e.Err }

// WithMount mounts s, calls fn with the mounted root and unmounts before
// returning, including when fn returns early or panics.
//
// A mount failure is returned as *MountError and fn is not called. An
// unmount failure is returned only when fn itself succeeded.
func WithMount(s Storage, fn func(fsys fs.FS) error) (err error) {
	fsys, mountErr := s.Mount()
	if mountErr != nil {
		return &MountError{Err: mountErr}
	}
	defer func() {
		if unmountErr := s.Unmount(); unmountErr != nil && err == nil {
			err = fmt.Errorf("unmount: %w", unmountErr)
		}
	}()
	return fn(fsys)
}

// IsMountError reports whether err came from a failed Mount.
func IsMountError(err error) bool {
	var mountErr *MountError
	return errors.As(err, &mountErr)
}
