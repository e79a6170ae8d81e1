package appmgr

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/moffa90/go-multiboot/catalog"
	"github.com/moffa90/go-multiboot/flash"
)

// Load programs the application's app.bin into flash starting at offset:
//  1. Check offset lies inside the window and starts a page, and that
//     the block it falls in does not reach below the window
//  2. Mount storage and open the binary
//  3. Check the binary fits below the upper limit, before touching flash
//  4. For every page: erase its block on first touch, write the page
//     padded with 0xFF, report progress
//
// progress may be nil. Returning false from it, or cancelling ctx, stops
// the load between pages with UserCancelled. Flash already written is
// left as is; there is no rollback.
//
// An empty binary succeeds without erasing or writing anything.
//
// Example:
//
//	err := mgr.Load(ctx, d, 0x4000, func(written, total int) bool {
//	    return true
//	})
func (m *Manager) Load(ctx context.Context, d catalog.Description, offset uint32, progress ProgressFunc) error {
	geometry := m.driver.Geometry()
	if offset < m.config.AddressLowerLimit {
		return newError("load", InvalidOffset,
			fmt.Errorf("offset 0x%08X below lower limit 0x%08X", offset, m.config.AddressLowerLimit))
	}
	if !geometry.PageAligned(offset) {
		return newError("load", InvalidOffset,
			fmt.Errorf("offset 0x%08X not aligned to page size 0x%X", offset, geometry.PageSize))
	}
	// The first erase covers the whole block holding offset.
	if block := geometry.BlockOf(offset); block < m.config.AddressLowerLimit {
		return newError("load", InvalidOffset,
			fmt.Errorf("block 0x%08X holding offset 0x%08X starts below lower limit 0x%08X",
				block, offset, m.config.AddressLowerLimit))
	}

	path := catalog.BinaryPath(m.config.AppsRoot, d)
	return m.withMount("load", func(fsys fs.FS) error {
		f, err := fsys.Open(path)
		if err != nil {
			return newError("load", FailedToOpen, err)
		}
		defer func() { _ = f.Close() }()

		info, err := f.Stat()
		if err != nil {
			return newError("load", FailedToOpen, err)
		}
		size := info.Size()
		if size < 0 || uint64(offset)+uint64(size) > uint64(m.config.AddressUpperLimit) {
			return newError("load", BinaryTooLarge,
				fmt.Errorf("%d bytes at 0x%08X exceed upper limit 0x%08X", size, offset, m.config.AddressUpperLimit))
		}

		m.logInfo("loading application",
			"location", d.Location,
			"size", size,
			"offset", fmt.Sprintf("0x%08X", offset),
		)

		startTime := time.Now()
		if err := m.program(ctx, f, offset, int(size), geometry, progress); err != nil {
			m.logError("load failed", "location", d.Location, "error", err)
			return err
		}

		m.logInfo("load complete",
			"location", d.Location,
			"bytes", size,
			"elapsed", time.Since(startTime).String(),
		)
		return nil
	})
}

// program copies total bytes from r into flash page by page.
func (m *Manager) program(ctx context.Context, r io.Reader, offset uint32, total int, g flash.Geometry, progress ProgressFunc) error {
	pageSize := int(g.PageSize)
	page := make([]byte, pageSize)

	erased := false
	var lastBlock uint32

	for written := 0; written < total; written += pageSize {
		addr := offset + uint32(written)

		if block := g.BlockOf(addr); !erased || block != lastBlock {
			if err := m.driver.EraseBlock(block); err != nil {
				return newError("load", FlashFailed, fmt.Errorf("erase block 0x%08X: %w", block, err))
			}
			if err := flash.WaitReady(m.driver, m.config.BusyTimeout); err != nil {
				return newError("load", FlashFailed, fmt.Errorf("erase block 0x%08X: %w", block, err))
			}
			m.logDebug("erased block", "addr", fmt.Sprintf("0x%08X", block))
			erased = true
			lastBlock = block
		}

		n := total - written
		if n > pageSize {
			n = pageSize
		}
		if _, err := io.ReadFull(r, page[:n]); err != nil {
			return newError("load", FailedToOpen, fmt.Errorf("read at %d: %w", written, err))
		}
		for i := n; i < pageSize; i++ {
			page[i] = flash.ErasedByte
		}

		if err := m.driver.WritePage(addr, page); err != nil {
			return newError("load", FlashFailed, fmt.Errorf("write page 0x%08X: %w", addr, err))
		}
		if err := flash.WaitReady(m.driver, m.config.BusyTimeout); err != nil {
			return newError("load", FlashFailed, fmt.Errorf("write page 0x%08X: %w", addr, err))
		}

		done := written + n
		if progress != nil && !progress(done, total) {
			return newError("load", UserCancelled, nil)
		}
		if err := ctx.Err(); err != nil {
			return newError("load", UserCancelled, err)
		}
	}

	return nil
}
