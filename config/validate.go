package config

import (
	"fmt"
	"io/fs"
)

// Validate checks configuration correctness.
// It does not mutate cfg.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	// ------------------------------------------------------------
	// STORAGE
	// ------------------------------------------------------------

	if cfg.Storage.Root == "" {
		return fmt.Errorf("storage.root must be set")
	}
	if dir := cfg.Storage.AppsDir; dir == "." || !fs.ValidPath(dir) {
		return fmt.Errorf("storage.apps_dir %q must be a relative path inside the card", dir)
	}

	// ------------------------------------------------------------
	// FLASH GEOMETRY
	// ------------------------------------------------------------

	g := cfg.Geometry()
	if !g.Valid() {
		return fmt.Errorf(
			"flash: page_size 0x%X and block_size 0x%X must be powers of two with page_size <= block_size",
			g.PageSize,
			g.BlockSize,
		)
	}
	if cfg.Flash.Size == 0 || cfg.Flash.Size%g.BlockSize != 0 {
		return fmt.Errorf("flash.size 0x%X must be a non-zero multiple of block_size 0x%X", cfg.Flash.Size, g.BlockSize)
	}
	if cfg.Flash.BusyTimeoutMs < 0 {
		return fmt.Errorf("flash.busy_timeout_ms must not be negative")
	}
	if cfg.Flash.BusyPolls < 0 {
		return fmt.Errorf("flash.busy_polls must not be negative")
	}

	// ------------------------------------------------------------
	// BOOT WINDOW
	// ------------------------------------------------------------

	b := cfg.Boot
	if b.LowerLimit >= b.UpperLimit {
		return fmt.Errorf("boot: lower_limit 0x%X must be below upper_limit 0x%X", b.LowerLimit, b.UpperLimit)
	}
	if b.LowerLimit%g.BlockSize != 0 {
		return fmt.Errorf(
			"boot.lower_limit 0x%X not aligned to block_size 0x%X; the first erase would reach below the window",
			b.LowerLimit,
			g.BlockSize,
		)
	}
	if b.UpperLimit > cfg.Flash.Size {
		return fmt.Errorf("boot.upper_limit 0x%X is past the end of flash (0x%X)", b.UpperLimit, cfg.Flash.Size)
	}
	if b.LoadOffset < b.LowerLimit || b.LoadOffset >= b.UpperLimit {
		return fmt.Errorf(
			"boot.load_offset 0x%X outside window [0x%X, 0x%X)",
			b.LoadOffset,
			b.LowerLimit,
			b.UpperLimit,
		)
	}
	if !g.PageAligned(b.LoadOffset) {
		return fmt.Errorf("boot.load_offset 0x%X not aligned to page_size 0x%X", b.LoadOffset, g.PageSize)
	}

	// ------------------------------------------------------------
	// LAUNCHER
	// ------------------------------------------------------------

	if cfg.Launcher.PageCapacity < 1 {
		return fmt.Errorf("launcher.page_capacity must be at least 1")
	}
	if cfg.Launcher.ProbeIntervalMs < 0 || cfg.Launcher.IdleIntervalMs < 0 {
		return fmt.Errorf("launcher intervals must not be negative")
	}

	return nil
}
