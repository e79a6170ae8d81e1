package launcher

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/moffa90/go-multiboot/appmgr"
	"github.com/moffa90/go-multiboot/catalog"
	"github.com/moffa90/go-multiboot/flash"
	"github.com/moffa90/go-multiboot/storage"
)

// MockDisplay records display commands for testing
type MockDisplay struct {
	calls    []string
	progress [][2]int
	lastList []string
	selected int
	errors   []string
}

func (d *MockDisplay) Init() error             { d.calls = append(d.calls, "init"); return nil }
func (d *MockDisplay) Clear()                  { d.calls = append(d.calls, "clear") }
func (d *MockDisplay) ShowMessage(text string) { d.calls = append(d.calls, "message "+text) }
func (d *MockDisplay) ShowIdle(level uint8)    { d.calls = append(d.calls, fmt.Sprintf("idle %d", level)) }

func (d *MockDisplay) ShowList(names []string, selected int) {
	d.calls = append(d.calls, "list")
	d.lastList = append([]string(nil), names...)
	d.selected = selected
}

func (d *MockDisplay) ShowDetails(desc catalog.Description) {
	d.calls = append(d.calls, "details "+desc.Name)
}

func (d *MockDisplay) ShowIcon(r io.Reader, format catalog.IconFormat) error {
	data, err := io.ReadAll(r)
	d.calls = append(d.calls, fmt.Sprintf("icon %s %s", format, data))
	return err
}

func (d *MockDisplay) ShowProgress(name string, written, total int) {
	d.progress = append(d.progress, [2]int{written, total})
}

func (d *MockDisplay) ShowError(text string) {
	d.calls = append(d.calls, "error")
	d.errors = append(d.errors, text)
}

func (d *MockDisplay) has(call string) bool {
	for _, c := range d.calls {
		if c == call {
			return true
		}
	}
	return false
}

// MockInput replays one bitmask per tick, then reports nothing held
type MockInput struct {
	script []Buttons
}

func (in *MockInput) Buttons() Buttons {
	if len(in.script) == 0 {
		return 0
	}
	b := in.script[0]
	in.script = in.script[1:]
	return b
}

func (in *MockInput) press(b ...Buttons) { in.script = append(in.script, b...) }

type fakeClock struct{ sleeps []time.Duration }

func (c *fakeClock) Sleep(d time.Duration) { c.sleeps = append(c.sleeps, d) }

type recordingHandoff struct{ offsets []uintptr }

func (h *recordingHandoff) Jump(offset uintptr) { h.offsets = append(h.offsets, offset) }

type harness struct {
	launcher *Launcher
	display  *MockDisplay
	input    *MockInput
	clock    *fakeClock
	sd       *storage.FS
	mem      *flash.Memory
	handoff  *recordingHandoff
	fsys     fstest.MapFS
}

func catalogOf(n int) fstest.MapFS {
	fsys := fstest.MapFS{}
	for i := 0; i < n; i++ {
		dir := fmt.Sprintf("apps/app%02d/", i)
		fsys[dir+"name"] = &fstest.MapFile{Data: []byte(fmt.Sprintf("App %d", i))}
		fsys[dir+"app.bin"] = &fstest.MapFile{Data: bytes.Repeat([]byte{byte(i)}, 1000)}
	}
	return fsys
}

func newHarness(t *testing.T, fsys fstest.MapFS) *harness {
	t.Helper()
	h := &harness{
		display: &MockDisplay{},
		input:   &MockInput{},
		clock:   &fakeClock{},
		sd:      storage.NewFS(fsys),
		mem:     flash.NewMemory(0x10000, flash.WithGeometry(flash.Geometry{PageSize: 256, BlockSize: 1024})),
		handoff: &recordingHandoff{},
		fsys:    fsys,
	}
	mgr := appmgr.New(h.sd, h.mem,
		appmgr.WithAddressWindow(0x4000, 0x8000),
		appmgr.WithHandoff(h.handoff),
	)
	h.launcher = New(mgr, h.display, h.input,
		WithClock(h.clock),
		WithLoadOffset(0x4000),
	)
	return h
}

func (h *harness) tick(t *testing.T) {
	t.Helper()
	if err := h.launcher.Tick(context.Background()); err != nil {
		t.Fatalf("Tick() error = %v", err)
	}
}

func (h *harness) tickUntil(t *testing.T, want State, limit int) {
	t.Helper()
	for i := 0; i < limit; i++ {
		if h.launcher.Context().State == want {
			return
		}
		h.tick(t)
	}
	if got := h.launcher.Context().State; got != want {
		t.Fatalf("state = %v after %d ticks, want %v", got, limit, want)
	}
}

func (h *harness) expectState(t *testing.T, want State) {
	t.Helper()
	if got := h.launcher.Context().State; got != want {
		t.Fatalf("state = %v, want %v", got, want)
	}
}

func TestStartupToSelection(t *testing.T) {
	h := newHarness(t, catalogOf(3))

	h.tick(t)
	h.expectState(t, StateNoStorage)
	if !h.display.has("init") {
		t.Error("display not initialised")
	}

	h.tick(t)
	h.expectState(t, StateLoadCatalog)
	h.tick(t)
	h.expectState(t, StateSelectApp)

	ctx := h.launcher.Context()
	if !ctx.ForceRedraw || ctx.SelectedApp != 0 || ctx.StartItemIndex != 0 {
		t.Errorf("context = %+v", ctx)
	}

	h.tick(t)
	if strings.Join(h.display.lastList, ",") != "App 0,App 1,App 2" {
		t.Errorf("list = %v", h.display.lastList)
	}
	if !h.display.has("details App 0") {
		t.Error("details not drawn")
	}
	if h.launcher.Context().ForceRedraw {
		t.Error("redraw flag not cleared")
	}
	if h.sd.Mounted() {
		t.Error("storage left mounted")
	}
}

func TestNoStorageProbesUntilInserted(t *testing.T) {
	h := newHarness(t, catalogOf(1))
	h.sd.SetPresent(false)

	h.tick(t) // init
	for i := 0; i < 3; i++ {
		h.tick(t)
		h.expectState(t, StateNoStorage)
	}
	if len(h.clock.sleeps) != 3 || h.clock.sleeps[0] != 100*time.Millisecond {
		t.Errorf("sleeps = %v", h.clock.sleeps)
	}
	if !h.display.has("message " + msgNoStorage) {
		t.Error("no storage message not shown")
	}

	h.sd.SetPresent(true)
	h.tick(t)
	h.expectState(t, StateLoadCatalog)
}

func TestEmptyCatalog(t *testing.T) {
	h := newHarness(t, fstest.MapFS{"apps/broken/desc": {Data: []byte("no name")}})
	h.tickUntil(t, StateSelectApp, 5)

	if len(h.launcher.Page()) != 0 {
		t.Errorf("page = %v", h.launcher.Page())
	}

	h.input.press(ButtonSelect, 0, ButtonDown)
	h.tick(t)
	h.tick(t)
	h.tick(t)
	h.expectState(t, StateSelectApp)
	if !h.display.has("message " + msgNoApps) {
		t.Error("empty page message not shown")
	}
}

func TestNavigationWithinPage(t *testing.T) {
	h := newHarness(t, catalogOf(3))
	h.tickUntil(t, StateSelectApp, 5)

	// Holding a button counts once.
	h.input.press(ButtonDown, ButtonDown, 0, ButtonDown, 0, ButtonDown)
	for i := 0; i < 6; i++ {
		h.tick(t)
	}
	if got := h.launcher.Context().SelectedApp; got != 2 {
		t.Errorf("SelectedApp = %d, want 2", got)
	}
	h.expectState(t, StateSelectApp)

	h.input.press(0, ButtonUp)
	h.tick(t)
	h.tick(t)
	if got := h.launcher.Context().SelectedApp; got != 1 {
		t.Errorf("SelectedApp = %d, want 1", got)
	}
	if h.display.selected != 1 {
		t.Errorf("highlight = %d, want 1", h.display.selected)
	}
}

func TestDownAtEndOfFullPageLoadsNextPage(t *testing.T) {
	h := newHarness(t, catalogOf(25))
	h.tickUntil(t, StateSelectApp, 5)
	h.launcher.ctx.SelectedApp = 9

	h.input.press(ButtonDown)
	h.tick(t)
	h.expectState(t, StateLoadCatalog)
	if ctx := h.launcher.Context(); ctx.StartItemIndex != 10 {
		t.Errorf("StartItemIndex = %d, want 10", ctx.StartItemIndex)
	}

	h.tick(t)
	h.expectState(t, StateSelectApp)
	page := h.launcher.Page()
	if ctx := h.launcher.Context(); ctx.SelectedApp != 0 {
		t.Errorf("SelectedApp = %d, want 0", ctx.SelectedApp)
	}
	if len(page) != 10 || page[0].Name != "App 10" {
		t.Errorf("page = %d entries starting %q", len(page), page[0].Name)
	}

	// Last, partial page.
	h.launcher.ctx.SelectedApp = 9
	h.input.press(0, ButtonDown)
	h.tick(t)
	h.tick(t)
	h.tick(t)
	if page := h.launcher.Page(); len(page) != 5 || page[4].Name != "App 24" {
		t.Errorf("last page = %+v", page)
	}

	// Down on the last entry of a partial page stays put.
	h.launcher.ctx.SelectedApp = 4
	h.input.press(0, ButtonDown)
	h.tick(t)
	h.tick(t)
	if ctx := h.launcher.Context(); ctx.State != StateSelectApp || ctx.StartItemIndex != 20 || ctx.SelectedApp != 4 {
		t.Errorf("context = %+v", ctx)
	}
}

func TestUpAtStartOfPageLoadsPreviousPage(t *testing.T) {
	h := newHarness(t, catalogOf(15))
	h.tickUntil(t, StateSelectApp, 5)
	h.launcher.ctx.SelectedApp = 9
	h.input.press(ButtonDown)
	h.tick(t)
	h.tick(t)
	h.expectState(t, StateSelectApp)

	h.input.press(0, ButtonUp)
	h.tick(t)
	h.tick(t)
	h.expectState(t, StateLoadCatalog)
	h.tick(t)

	ctx := h.launcher.Context()
	if ctx.State != StateSelectApp || ctx.StartItemIndex != 0 || ctx.SelectedApp != 9 {
		t.Errorf("context = %+v", ctx)
	}

	// Up on the first page's first entry does not move.
	h.launcher.ctx.SelectedApp = 0
	h.input.press(0, ButtonUp)
	h.tick(t)
	h.tick(t)
	if ctx := h.launcher.Context(); ctx.State != StateSelectApp || ctx.SelectedApp != 0 {
		t.Errorf("context = %+v", ctx)
	}
}

func TestLoadAndRun(t *testing.T) {
	h := newHarness(t, catalogOf(3))
	h.tickUntil(t, StateSelectApp, 5)

	h.input.press(0, ButtonDown, 0, ButtonSelect)
	for i := 0; i < 4; i++ {
		h.tick(t)
	}
	h.expectState(t, StateLoadApp)

	h.tick(t)
	if len(h.handoff.offsets) != 1 || h.handoff.offsets[0] != 0x4000 {
		t.Fatalf("handoff offsets = %v", h.handoff.offsets)
	}
	if got := h.mem.Read(0x4000, 1000); !bytes.Equal(got, bytes.Repeat([]byte{1}, 1000)) {
		t.Error("flash does not hold App 1")
	}
	want := [][2]int{{0, 0}, {256, 1000}, {512, 1000}, {768, 1000}, {1000, 1000}}
	if fmt.Sprint(h.display.progress) != fmt.Sprint(want) {
		t.Errorf("progress = %v", h.display.progress)
	}

	// The recording handoff returns, which the launcher reports.
	h.expectState(t, StateError)
	if ctx := h.launcher.Context(); ctx.FallbackState != StateSelectApp {
		t.Errorf("FallbackState = %v", ctx.FallbackState)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(h *harness)
		wantMessage  string
		wantFallback State
	}{
		{
			name: "binary too large",
			mutate: func(h *harness) {
				h.fsys["apps/app00/app.bin"] = &fstest.MapFile{Data: make([]byte, 0x4001)}
			},
			wantMessage:  msgBinaryTooLarge,
			wantFallback: StateSelectApp,
		},
		{
			name: "missing binary",
			mutate: func(h *harness) {
				delete(h.fsys, "apps/app00/app.bin")
			},
			wantMessage:  msgFailedToOpen,
			wantFallback: StateSelectApp,
		},
		{
			name:         "card removed",
			mutate:       func(h *harness) { h.sd.SetPresent(false) },
			wantMessage:  msgFailedToMount,
			wantFallback: StateNoStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, catalogOf(2))
			h.tickUntil(t, StateSelectApp, 5)

			h.input.press(ButtonSelect)
			h.tick(t)
			h.expectState(t, StateLoadApp)

			tt.mutate(h)
			h.tick(t)
			h.expectState(t, StateError)

			if len(h.display.errors) != 1 || h.display.errors[0] != tt.wantMessage {
				t.Errorf("errors = %q, want %q", h.display.errors, tt.wantMessage)
			}
			if len(h.handoff.offsets) != 0 {
				t.Error("handoff after failed load")
			}

			// Stays until a button goes down, pausing between polls.
			sleeps := len(h.clock.sleeps)
			h.tick(t)
			h.expectState(t, StateError)
			if got := h.clock.sleeps[sleeps:]; len(got) != 1 || got[0] != 20*time.Millisecond {
				t.Errorf("error state sleeps = %v", got)
			}
			h.input.press(ButtonLeft)
			h.tick(t)
			h.expectState(t, tt.wantFallback)
			if !h.launcher.Context().ForceRedraw {
				t.Error("redraw flag not set on leaving error")
			}
		})
	}
}

func TestCatalogMountFailureReturnsToNoStorage(t *testing.T) {
	h := newHarness(t, catalogOf(2))
	h.tick(t)
	h.tick(t)
	h.expectState(t, StateLoadCatalog)

	h.sd.SetPresent(false)
	h.tick(t)
	h.expectState(t, StateNoStorage)
}

func TestIconDrawnOnRedraw(t *testing.T) {
	fsys := catalogOf(1)
	fsys["apps/app00/app.png"] = &fstest.MapFile{Data: []byte("PNG")}
	h := newHarness(t, fsys)
	h.tickUntil(t, StateSelectApp, 5)
	h.tick(t)

	if !h.display.has("icon png PNG") {
		t.Errorf("calls = %v", h.display.calls)
	}
	if h.sd.Mounted() {
		t.Error("storage left mounted after icon draw")
	}
}

func TestEndStateCyclesBacklight(t *testing.T) {
	h := newHarness(t, catalogOf(0))
	h.launcher = New(h.launcher.apps, h.display, h.input, WithInitialState(StateEnd), WithClock(h.clock))

	for i := 0; i < 103; i++ {
		h.tick(t)
	}
	h.expectState(t, StateEnd)

	if len(h.clock.sleeps) != 103 {
		t.Errorf("idle sleeps = %d, want one per tick", len(h.clock.sleeps))
	}

	n := len(h.display.calls)
	tail := h.display.calls[n-3:]
	if tail[0] != "idle 100" || tail[1] != "idle 0" || tail[2] != "idle 1" {
		t.Errorf("tail = %v", tail)
	}
}

func TestTickAfterCancel(t *testing.T) {
	h := newHarness(t, catalogOf(1))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := h.launcher.Tick(ctx); err != context.Canceled {
		t.Errorf("Tick() error = %v", err)
	}
	if err := h.launcher.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v", err)
	}
	h.expectState(t, StateInit)
}

func TestButtons(t *testing.T) {
	b := ButtonUp | ButtonSelect
	if !b.Has(ButtonUp) || !b.Has(ButtonSelect) || b.Has(ButtonDown) || b.Has(0) {
		t.Errorf("Has() wrong for %05b", b)
	}
}

func TestStateString(t *testing.T) {
	if StateSelectApp.String() != "select-app" || State(42).String() != "state(42)" {
		t.Error("unexpected state names")
	}
}
