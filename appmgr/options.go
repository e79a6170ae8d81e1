package appmgr

import "time"

// Default flash window for applications. The launcher itself occupies the
// flash below the lower limit.
const (
	DefaultAddressLowerLimit = 0x4000
	DefaultAddressUpperLimit = 0x80000
)

// DefaultAppsRoot is the applications directory relative to the storage
// root.
const DefaultAppsRoot = "apps"

// Config holds the manager configuration.
type Config struct {
	// AppsRoot is the applications directory inside the mounted storage
	AppsRoot string

	// AddressLowerLimit is the lowest address an application may occupy
	AddressLowerLimit uint32

	// AddressUpperLimit is one past the highest address an application
	// may occupy
	AddressUpperLimit uint32

	// BusyTimeout bounds each wait for the flash controller. Zero waits
	// forever.
	BusyTimeout time.Duration

	// Handoff performs the execution transfer in Run (optional)
	Handoff Handoff

	// Logger is used for logging operations (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		AppsRoot:          DefaultAppsRoot,
		AddressLowerLimit: DefaultAddressLowerLimit,
		AddressUpperLimit: DefaultAddressUpperLimit,
	}
}

// Option is a functional option for configuring the Manager.
type Option func(*Config)

// WithAppsRoot sets the applications directory inside the storage.
//
// Example:
//
//	mgr := appmgr.New(sd, drv, appmgr.WithAppsRoot("games"))
func WithAppsRoot(root string) Option {
	return func(c *Config) {
		if root != "" {
			c.AppsRoot = root
		}
	}
}

// WithAddressWindow sets the flash region applications may be written to.
// Windows with lower >= upper are ignored.
func WithAddressWindow(lower, upper uint32) Option {
	return func(c *Config) {
		if lower < upper {
			c.AddressLowerLimit = lower
			c.AddressUpperLimit = upper
		}
	}
}

// WithBusyTimeout bounds every wait for the flash controller.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout >= 0 {
			c.BusyTimeout = timeout
		}
	}
}

// WithHandoff sets the execution handoff used by Run.
func WithHandoff(h Handoff) Option {
	return func(c *Config) {
		c.Handoff = h
	}
}

// WithLogger sets a logger for the manager operations.
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
