// Package launcher sequences the user interface around an application
// manager: it waits for storage, pages through the catalog, flashes the
// chosen application and starts it.
//
// The Launcher is a plain state machine driven by Tick. Each tick samples
// the input once, acts on buttons that went down since the previous tick
// and finishes before the next one starts. All storage and flash work
// happens synchronously inside the tick.
//
//	l := launcher.New(mgr, display, input, launcher.WithLogger(logger))
//	err := l.Run(ctx) // returns when ctx is done
package launcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/catalog"
)

// Screen texts.
const (
	msgNoStorage      = "NO TF CARD"
	msgLoading        = "LOADING..."
	msgNoApps         = "NO APPS"
	msgBinaryTooLarge = "Error:\n app binary too large."
	msgFailedToOpen   = "Error:\n failed to open bin file."
	msgFailedToMount  = "Error:\n failed to mount TF card."
)

// maxBacklight is the top of the idle screen's backlight cycle.
const maxBacklight = 100

// Launcher is the launcher state machine. It owns its Context and page
// buffer; nothing else mutates them.
//
// Launcher is not safe for concurrent use.
type Launcher struct {
	apps    AppManager
	display Display
	input   Input
	config  Config

	ctx       Context
	page      *catalog.Page
	backlight uint8
}

// New creates a Launcher in its initial state.
func New(apps AppManager, display Display, input Input, opts ...Option) *Launcher {
	if apps == nil || display == nil || input == nil {
		panic("launcher: apps, display and input are required")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Launcher{
		apps:    apps,
		display: display,
		input:   input,
		config:  cfg,
		ctx:     Context{State: cfg.InitialState, FallbackState: StateSelectApp},
		page:    catalog.NewPage(cfg.PageCapacity),
	}
}

// Context returns a copy of the current state.
func (l *Launcher) Context() Context { return l.ctx }

// Page returns the entries of the current catalog page.
func (l *Launcher) Page() []catalog.Description {
	return append([]catalog.Description(nil), l.page.Entries()...)
}

// Run ticks until ctx is done and returns ctx.Err().
func (l *Launcher) Run(ctx context.Context) error {
	for {
		if err := l.Tick(ctx); err != nil {
			return err
		}
	}
}

// Tick runs one pass of the state machine. It returns ctx.Err() without
// doing anything once ctx is done.
func (l *Launcher) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	buttons := l.input.Buttons()
	pressed := (buttons ^ l.ctx.PrevButtons) & buttons

	before := l.ctx.State
	switch l.ctx.State {
	case StateInit:
		l.init()
	case StateNoStorage:
		l.noStorage(ctx)
	case StateLoadCatalog:
		l.loadCatalog(ctx)
	case StateSelectApp:
		l.selectApp(pressed)
	case StateLoadApp:
		l.loadApp(ctx)
	case StateError:
		if pressed != 0 {
			l.ctx.State = l.ctx.FallbackState
			l.ctx.ForceRedraw = true
			break
		}
		l.config.Clock.Sleep(l.config.IdleInterval)
	case StateEnd:
		l.idle()
		l.config.Clock.Sleep(l.config.IdleInterval)
	default:
		l.logError("unknown state", "state", l.ctx.State.String())
	}

	if l.ctx.State != before {
		l.logDebug("state change", "from", before.String(), "to", l.ctx.State.String())
	}
	l.ctx.PrevButtons = buttons
	return nil
}

func (l *Launcher) init() {
	if err := l.display.Init(); err != nil {
		l.logError("display init failed", "error", err)
	}
	l.display.Clear()
	if err := l.apps.Init(); err != nil {
		l.logError("flash init failed", "error", err)
	}
	l.ctx.State = StateNoStorage
}

func (l *Launcher) noStorage(ctx context.Context) {
	l.display.Clear()
	l.display.ShowMessage(msgNoStorage)

	err := l.apps.Scan(ctx, 0, func(int, catalog.Description) bool { return false })
	if err == nil {
		l.ctx.State = StateLoadCatalog
		return
	}
	l.config.Clock.Sleep(l.config.ProbeInterval)
}

func (l *Launcher) loadCatalog(ctx context.Context) {
	l.display.Clear()
	l.display.ShowMessage(msgLoading)

	start := l.ctx.StartItemIndex
	l.page.Reset()
	err := l.apps.Scan(ctx, start, func(index int, d catalog.Description) bool {
		l.page.Set(index-start, d)
		return !l.page.Full()
	})
	if err != nil {
		l.logError("catalog scan failed", "start", start, "error", err)
		l.ctx.State = StateNoStorage
		return
	}

	n := l.page.Len()
	if l.ctx.SelectedApp >= n {
		l.ctx.SelectedApp = 0
		if n > 0 {
			l.ctx.SelectedApp = n - 1
		}
	}
	l.ctx.State = StateSelectApp
	l.ctx.ForceRedraw = true
	l.logDebug("catalog page loaded", "start", start, "entries", n)
}

func (l *Launcher) selectApp(pressed Buttons) {
	capacity := l.page.Cap()
	n := l.page.Len()
	moved := false

	if pressed.Has(ButtonUp) {
		if l.ctx.SelectedApp > 0 {
			l.ctx.SelectedApp--
		} else if l.ctx.StartItemIndex > 0 {
			l.ctx.StartItemIndex -= capacity
			if l.ctx.StartItemIndex < 0 {
				l.ctx.StartItemIndex = 0
			}
			l.ctx.SelectedApp = capacity - 1
			l.ctx.State = StateLoadCatalog
			return
		}
		moved = true
	}
	if pressed.Has(ButtonDown) {
		if l.ctx.SelectedApp+1 < n {
			l.ctx.SelectedApp++
		} else if n == capacity {
			l.ctx.SelectedApp = 0
			l.ctx.StartItemIndex += capacity
			l.ctx.State = StateLoadCatalog
			return
		}
		moved = true
	}
	if pressed.Has(ButtonSelect) && n > 0 {
		l.display.Clear()
		l.ctx.State = StateLoadApp
	}

	if moved || l.ctx.ForceRedraw {
		l.ctx.ForceRedraw = false
		l.redraw()
	}
	l.config.Clock.Sleep(l.config.IdleInterval)
}

// redraw paints the list, the highlight and the selected entry's details.
func (l *Launcher) redraw() {
	l.display.Clear()
	if l.page.Len() == 0 {
		l.display.ShowMessage(msgNoApps)
		return
	}

	l.display.ShowList(l.page.Names(), l.ctx.SelectedApp)

	d, ok := l.page.At(l.ctx.SelectedApp)
	if !ok {
		return
	}
	l.display.ShowDetails(d)

	err := l.apps.WithIcon(d, catalog.AppIcon, func(icon fs.File, format catalog.IconFormat) error {
		return l.display.ShowIcon(icon, format)
	})
	if err != nil && !errors.Is(err, appmgr.ErrNoIcon) {
		l.logError("icon draw failed", "location", d.Location, "error", err)
	}
}

func (l *Launcher) loadApp(ctx context.Context) {
	d, ok := l.page.At(l.ctx.SelectedApp)
	if !ok {
		l.ctx.State = StateSelectApp
		l.ctx.ForceRedraw = true
		return
	}

	offset := l.config.LoadOffset
	l.display.ShowProgress(d.Name, 0, 0)
	err := l.apps.Load(ctx, d, offset, func(written, total int) bool {
		l.display.ShowProgress(d.Name, written, total)
		return ctx.Err() == nil
	})

	l.ctx.FallbackState = StateSelectApp
	if err == nil {
		// Run comes back only if the handoff did.
		err = l.apps.Run(offset)
	}

	switch appmgr.CodeOf(err) {
	case appmgr.BinaryTooLarge:
		l.display.ShowError(msgBinaryTooLarge)
	case appmgr.FailedToOpen:
		l.display.ShowError(msgFailedToOpen)
	case appmgr.FailedToMount:
		l.display.ShowError(msgFailedToMount)
		l.ctx.FallbackState = StateNoStorage
	default:
		l.display.ShowError(fmt.Sprintf("Error:\n %s.", appmgr.CodeOf(err)))
	}
	l.logError("application load failed", "location", d.Location, "error", err)
	l.ctx.State = StateError
}

func (l *Launcher) idle() {
	l.display.ShowIdle(l.backlight)
	l.backlight++
	if l.backlight > maxBacklight {
		l.backlight = 0
	}
}

// logDebug logs a debug message if a logger is configured.
func (l *Launcher) logDebug(msg string, keysAndValues ...any) {
	if l.config.Logger != nil {
		l.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (l *Launcher) logError(msg string, keysAndValues ...any) {
	if l.config.Logger != nil {
		l.config.Logger.Error(msg, keysAndValues...)
	}
}
