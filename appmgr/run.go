package appmgr

import (
	"fmt"
	"io/fs"

	"github.com/moffa90/go-multiboot/catalog"
)

// Run transfers execution to the image at offset through the configured
// Handoff. On success it never returns.
//
// The image is trusted as loaded: Load checked its size and nothing else.
// A Handoff that returns, or a missing Handoff, yields ErrHandoffReturned.
func (m *Manager) Run(offset uint32) error {
	if m.config.Handoff == nil {
		return newError("run", FlashFailed, fmt.Errorf("no handoff configured: %w", ErrHandoffReturned))
	}

	m.logInfo("starting application", "offset", fmt.Sprintf("0x%08X", offset))
	m.config.Handoff.Jump(uintptr(offset))

	m.logError("handoff returned", "offset", fmt.Sprintf("0x%08X", offset))
	return newError("run", FlashFailed, ErrHandoffReturned)
}

// IconPath returns the path of the requested icon relative to the storage
// root, or NoIcon if the entry has none.
func (m *Manager) IconPath(d catalog.Description, kind catalog.IconKind) (string, error) {
	p, ok := catalog.IconPath(m.config.AppsRoot, d, kind)
	if !ok {
		return "", newError("icon", NoIcon, nil)
	}
	return p, nil
}

// IconPathLimit is IconPath for callers with a fixed-size path buffer: it
// fails with TooFewBuffer when the path needs more than limit bytes.
func (m *Manager) IconPathLimit(d catalog.Description, kind catalog.IconKind, limit int) (string, error) {
	p, err := m.IconPath(d, kind)
	if err != nil {
		return "", err
	}
	if len(p) > limit {
		return "", newError("icon", TooFewBuffer, fmt.Errorf("path needs %d bytes, have %d", len(p), limit))
	}
	return p, nil
}

// WithIcon opens the requested icon under a scoped mount and passes it to
// fn. The file is closed and storage unmounted when fn returns.
func (m *Manager) WithIcon(d catalog.Description, kind catalog.IconKind, fn func(icon fs.File, format catalog.IconFormat) error) error {
	p, err := m.IconPath(d, kind)
	if err != nil {
		return err
	}
	return m.withMount("icon", func(fsys fs.FS) error {
		f, err := fsys.Open(p)
		if err != nil {
			return newError("icon", FailedToOpen, err)
		}
		defer func() { _ = f.Close() }()
		return fn(f, d.Icon(kind))
	})
}
