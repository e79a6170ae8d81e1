package appmgr

import (
	"context"
	"io/fs"

	"github.com/moffa90/go-multiboot/catalog"
)

// Scan mounts storage and walks the applications directory in lexical
// order, calling fn for every catalog entry whose index is at least start.
// Entries before start are counted but not read in full. fn returning
// false ends the scan early.
//
// Directories without a usable name file are not catalog entries and do
// not consume an index. Files and dot entries are ignored.
//
// Scan returns nil when the directory was listed, even if it held no
// entries. It fails with FailedToMount or NoAppsDir.
//
// Example:
//
//	page := catalog.NewPage(10)
//	err := mgr.Scan(ctx, 20, func(i int, d catalog.Description) bool {
//	    page.Set(i-20, d)
//	    return !page.Full()
//	})
func (m *Manager) Scan(ctx context.Context, start int, fn ScanFunc) error {
	if err := ctx.Err(); err != nil {
		return newError("scan", UserCancelled, err)
	}

	root := m.config.AppsRoot
	return m.withMount("scan", func(fsys fs.FS) error {
		entries, err := fs.ReadDir(fsys, root)
		if err != nil {
			return newError("scan", NoAppsDir, err)
		}

		index := 0
		for _, entry := range entries {
			if err := ctx.Err(); err != nil {
				return newError("scan", UserCancelled, err)
			}

			name := entry.Name()
			if name == "." || name == ".." || !entry.IsDir() {
				continue
			}

			if index < start {
				if catalog.HasName(fsys, root, name) {
					index++
				}
				continue
			}

			d, err := catalog.ReadDescription(fsys, root, name)
			if err != nil {
				m.logDebug("skipping directory", "location", name, "error", err)
				continue
			}

			if !fn(index, d) {
				break
			}
			index++
		}
		return nil
	})
}
