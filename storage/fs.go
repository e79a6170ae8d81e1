package storage

import "io/fs"

// FS is a Storage backed by an arbitrary fs.FS, such as an embedded file
// system or a testing/fstest.MapFS. Presence can be toggled to simulate
// inserting and removing the medium.
type FS struct {
	fsys    fs.FS
	absent  bool
	mounted bool

	mounts   int
	unmounts int
}

// NewFS returns a present Storage serving fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// SetPresent inserts (true) or removes (false) the medium.
func (s *FS) SetPresent(present bool) { s.absent = !present }

// Mounted reports whether the medium is currently mounted.
func (s *FS) Mounted() bool { return s.mounted }

// Mounts returns the number of successful Mount calls.
func (s *FS) Mounts() int { return s.mounts }

// Unmounts returns the number of successful Unmount calls.
func (s *FS) Unmounts() int { return s.unmounts }

func (s *FS) Mount() (fs.FS, error) {
	if s.mounted {
		return nil, ErrBusy
	}
	if s.absent {
		return nil, ErrNotPresent
	}
	s.mounted = true
	s.mounts++
	return s.fsys, nil
}

func (s *FS) Unmount() error {
	if !s.mounted {
		return ErrNotMounted
	}
	s.mounted = false
	s.unmounts++
	return nil
}
