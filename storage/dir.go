package storage

import (
	"fmt"
	"io/fs"
	"os"
)

// Dir is a Storage backed by a host directory. The medium counts as
// present while the directory exists, which lets a simulator "eject" the
// card by renaming or removing it.
type Dir struct {
	path    string
	mounted bool
}

// NewDir returns a Storage rooted at path.
func NewDir(path string) *Dir {
	return &Dir{path: path}
}

// Path returns the host directory.
func (d *Dir) Path() string { return d.path }

func (d *Dir) Mount() (fs.FS, error) {
	if d.mounted {
		return nil, ErrBusy
	}
	info, err := os.Stat(d.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresent, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNotPresent, d.path)
	}
	d.mounted = true
	return os.DirFS(d.path), nil
}

func (d *Dir) Unmount() error {
	if !d.mounted {
		return ErrNotMounted
	}
	d.mounted = false
	return nil
}
