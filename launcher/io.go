package launcher

import (
	"context"
	"io"
	"io/fs"
	"time"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/catalog"
)

// Buttons is a bitmask of controls that are currently held.
type Buttons uint8

const (
	ButtonUp Buttons = 1 << iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonSelect
)

// Has reports whether every button in b2 is set in b.
func (b Buttons) Has(b2 Buttons) bool { return b&b2 == b2 && b2 != 0 }

// Input samples the device controls.
type Input interface {
	Buttons() Buttons
}

// Display is the screen. Calls are fire-and-forget; the launcher never
// reads anything back except errors from bring-up and icon drawing.
type Display interface {
	// Init brings up the panel. It is called once.
	Init() error

	// Clear blanks the screen.
	Clear()

	// ShowMessage draws a centred status line such as "LOADING...".
	ShowMessage(text string)

	// ShowList draws the page entries with selected highlighted.
	ShowList(names []string, selected int)

	// ShowDetails draws the selected entry's description panel.
	ShowDetails(d catalog.Description)

	// ShowIcon decodes and draws an icon in the details panel.
	ShowIcon(r io.Reader, format catalog.IconFormat) error

	// ShowProgress draws the flashing progress bar. total is zero before
	// the first page is written.
	ShowProgress(name string, written, total int)

	// ShowError draws an error message.
	ShowError(text string)

	// ShowIdle draws the idle screen at the given backlight level (0-100).
	ShowIdle(backlight uint8)
}

// AppManager is the part of *appmgr.Manager the launcher drives.
type AppManager interface {
	Init() error
	Scan(ctx context.Context, start int, fn appmgr.ScanFunc) error
	Load(ctx context.Context, d catalog.Description, offset uint32, progress appmgr.ProgressFunc) error
	Run(offset uint32) error
	WithIcon(d catalog.Description, kind catalog.IconKind, fn func(icon fs.File, format catalog.IconFormat) error) error
}

// Clock provides the idle delays between ticks.
type Clock interface {
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Sleep(d time.Duration) { time.Sleep(d) }

// Logger is an optional logging interface. *slog.Logger satisfies it.
type Logger interface {
	Debug(msg string, keysAndValues ...any)
	Info(msg string, keysAndValues ...any)
	Error(msg string, keysAndValues ...any)
}
