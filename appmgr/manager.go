package appmgr

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/moffa90/go-multiboot/flash"
	"github.com/moffa90/go-multiboot/storage"
)

// Manager lists applications on storage, programs them into flash and
// hands execution over to them.
//
// Manager is not safe for concurrent use. Storage and the flash controller
// are not reentrant, so callers must not start an operation before the
// previous one returned.
type Manager struct {
	storage storage.Storage
	driver  flash.Driver
	config  Config
}

// New creates a Manager for the given storage and flash driver.
//
// Example:
//
//	sd := storage.NewDir("/media/sd")
//	mem := flash.NewMemory(flash.DefaultSize)
//	mgr := appmgr.New(sd, mem,
//	    appmgr.WithAddressWindow(0x4000, 0x80000),
//	    appmgr.WithLogger(slog.Default()),
//	)
func New(s storage.Storage, driver flash.Driver, opts ...Option) *Manager {
	if s == nil {
		panic("storage cannot be nil")
	}
	if driver == nil {
		panic("flash driver cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Manager{
		storage: s,
		driver:  driver,
		config:  cfg,
	}
}

// Config returns the effective configuration.
func (m *Manager) Config() Config { return m.config }

// Init brings up the flash controller.
func (m *Manager) Init() error {
	if err := m.driver.Init(); err != nil {
		return fmt.Errorf("flash init: %w", err)
	}
	g := m.driver.Geometry()
	if !g.Valid() {
		return fmt.Errorf("flash init: invalid geometry page=%d block=%d", g.PageSize, g.BlockSize)
	}
	m.logDebug("flash ready", "page_size", g.PageSize, "block_size", g.BlockSize)
	return nil
}

// withMount runs fn under a scoped storage mount. Mount and unmount
// failures become FailedToMount; errors from fn pass through.
func (m *Manager) withMount(op string, fn func(fsys fs.FS) error) error {
	err := storage.WithMount(m.storage, fn)
	if err == nil {
		return nil
	}
	var managerErr *Error
	if errors.As(err, &managerErr) {
		return err
	}
	m.logError(op+": storage unavailable", "error", err)
	return newError(op, FailedToMount, err)
}

// logDebug logs a debug message if a logger is configured.
func (m *Manager) logDebug(msg string, keysAndValues ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (m *Manager) logInfo(msg string, keysAndValues ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (m *Manager) logError(msg string, keysAndValues ...any) {
	if m.config.Logger != nil {
		m.config.Logger.Error(msg, keysAndValues...)
	}
}
