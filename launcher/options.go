package launcher

import (
	"time"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/catalog"
)

// Config holds the launcher configuration.
type Config struct {
	// PageCapacity is the number of entries per catalog page
	PageCapacity int

	// LoadOffset is the flash address applications are written to
	LoadOffset uint32

	// ProbeInterval is the pause between storage probes
	ProbeInterval time.Duration

	// IdleInterval is the pause at the end of each selection tick
	IdleInterval time.Duration

	// InitialState is the state of the first tick
	InitialState State

	Clock  Clock
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		PageCapacity:  catalog.DefaultPageCapacity,
		LoadOffset:    appmgr.DefaultAddressLowerLimit,
		ProbeInterval: 100 * time.Millisecond,
		IdleInterval:  20 * time.Millisecond,
		InitialState:  StateInit,
		Clock:         realClock{},
	}
}

// Option is a functional option for configuring the Launcher.
type Option func(*Config)

// WithPageCapacity sets the number of entries per page.
func WithPageCapacity(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.PageCapacity = n
		}
	}
}

// WithLoadOffset sets the flash address applications are loaded to.
func WithLoadOffset(offset uint32) Option {
	return func(c *Config) {
		c.LoadOffset = offset
	}
}

// WithProbeInterval sets the pause between storage probes.
func WithProbeInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.ProbeInterval = d
		}
	}
}

// WithIdleInterval sets the pause at the end of each selection tick.
func WithIdleInterval(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.IdleInterval = d
		}
	}
}

// WithInitialState starts the machine somewhere other than StateInit.
// It exists for bring-up of the idle screen.
func WithInitialState(s State) Option {
	return func(c *Config) {
		c.InitialState = s
	}
}

// WithClock replaces the clock used for idle delays.
func WithClock(clock Clock) Option {
	return func(c *Config) {
		if clock != nil {
			c.Clock = clock
		}
	}
}

// WithLogger sets a logger for state transitions and failures.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
