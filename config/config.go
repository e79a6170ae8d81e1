// Package config loads the host simulator's YAML configuration.
//
// A file only needs the keys it changes; everything else keeps the value
// from Default.
//
//	storage:
//	  root: ./sd
//	flash:
//	  busy_timeout_ms: 50
//	boot:
//	  load_offset: 0x4000
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/catalog"
	"github.com/moffa90/go-multiboot/flash"
	"github.com/moffa90/go-multiboot/launcher"
)

type Config struct {
	Storage  StorageConfig  `yaml:"storage"`
	Flash    FlashConfig    `yaml:"flash"`
	Boot     BootConfig     `yaml:"boot"`
	Launcher LauncherConfig `yaml:"launcher"`
}

// ---- STORAGE ----

type StorageConfig struct {
	// Root is the host directory standing in for the card
	Root string `yaml:"root"`

	// AppsDir is the catalog directory relative to Root
	AppsDir string `yaml:"apps_dir"`
}

// ---- FLASH ----

type FlashConfig struct {
	Size          uint32 `yaml:"size"`
	PageSize      uint32 `yaml:"page_size"`
	BlockSize     uint32 `yaml:"block_size"`
	BusyTimeoutMs int    `yaml:"busy_timeout_ms"` // 0 waits forever
	BusyPolls     int    `yaml:"busy_polls"`
}

// ---- BOOT WINDOW ----

type BootConfig struct {
	LowerLimit uint32 `yaml:"lower_limit"`
	UpperLimit uint32 `yaml:"upper_limit"`
	LoadOffset uint32 `yaml:"load_offset"`
}

// ---- LAUNCHER ----

type LauncherConfig struct {
	PageCapacity    int `yaml:"page_capacity"`
	ProbeIntervalMs int `yaml:"probe_interval_ms"`
	IdleIntervalMs  int `yaml:"idle_interval_ms"`
}

// Default returns the configuration of the reference board with the card
// at ./sd.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Root:    "sd",
			AppsDir: appmgr.DefaultAppsRoot,
		},
		Flash: FlashConfig{
			Size:      flash.DefaultSize,
			PageSize:  flash.DefaultPageSize,
			BlockSize: flash.DefaultBlockSize,
			BusyPolls: 1,
		},
		Boot: BootConfig{
			LowerLimit: appmgr.DefaultAddressLowerLimit,
			UpperLimit: appmgr.DefaultAddressUpperLimit,
			LoadOffset: appmgr.DefaultAddressLowerLimit,
		},
		Launcher: LauncherConfig{
			PageCapacity:    catalog.DefaultPageCapacity,
			ProbeIntervalMs: 100,
			IdleIntervalMs:  20,
		},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Geometry returns the flash page and block sizes.
func (c *Config) Geometry() flash.Geometry {
	return flash.Geometry{PageSize: c.Flash.PageSize, BlockSize: c.Flash.BlockSize}
}

// MemoryOptions returns the options for the simulated flash part.
func (c *Config) MemoryOptions() []flash.MemoryOption {
	return []flash.MemoryOption{
		flash.WithGeometry(c.Geometry()),
		flash.WithBusyPolls(c.Flash.BusyPolls),
	}
}

// ManagerOptions returns the application manager options. Callers append
// their own handoff and logger.
func (c *Config) ManagerOptions() []appmgr.Option {
	return []appmgr.Option{
		appmgr.WithAppsRoot(c.Storage.AppsDir),
		appmgr.WithAddressWindow(c.Boot.LowerLimit, c.Boot.UpperLimit),
		appmgr.WithBusyTimeout(time.Duration(c.Flash.BusyTimeoutMs) * time.Millisecond),
	}
}

// LauncherOptions returns the launcher options.
func (c *Config) LauncherOptions() []launcher.Option {
	return []launcher.Option{
		launcher.WithPageCapacity(c.Launcher.PageCapacity),
		launcher.WithLoadOffset(c.Boot.LoadOffset),
		launcher.WithProbeInterval(time.Duration(c.Launcher.ProbeIntervalMs) * time.Millisecond),
		launcher.WithIdleInterval(time.Duration(c.Launcher.IdleIntervalMs) * time.Millisecond),
	}
}
