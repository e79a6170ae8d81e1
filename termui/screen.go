// Package termui runs the launcher on a terminal. Screen stands in for
// the LCD panel and Keys for the button matrix; Model is the bubbletea
// program that draws Screen's frames and feeds key presses back into
// Keys.
//
// The launcher and the bubbletea event loop run on different goroutines:
//
//	[launcher.Launcher] --Display calls--> [Screen] --frameMsg--> [Model]
//	[launcher.Launcher] <--Buttons()------ [Keys]  <--KeyMsg----- [Model]
package termui

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	_ "golang.org/x/image/bmp"

	"github.com/moffa90/go-multiboot/catalog"
)

// maxIconBytes bounds how much of an icon file is read for decoding.
const maxIconBytes = 64 * 1024

// Progress is the state of a running load.
type Progress struct {
	Name    string
	Written int
	Total   int
}

// Frame is everything currently on the panel. The zero Frame is a blank
// screen.
type Frame struct {
	Message  string
	Names    []string
	Selected int
	Details  *catalog.Description
	Icon     string
	Progress *Progress
	Error    string
	Idle     bool
	Level    uint8
}

func (f Frame) clone() Frame {
	c := f
	c.Names = append([]string(nil), f.Names...)
	if f.Details != nil {
		d := *f.Details
		c.Details = &d
	}
	if f.Progress != nil {
		p := *f.Progress
		c.Progress = &p
	}
	return c
}

// frameMsg carries a snapshot of the panel into the bubbletea program.
type frameMsg struct{ frame Frame }

// Screen implements launcher.Display. Every call updates the frame and
// forwards a copy to the program set with SetProgram; calls before that
// only update the frame.
type Screen struct {
	mu      sync.Mutex
	frame   Frame
	ready   bool
	program atomic.Pointer[tea.Program]
}

// NewScreen returns a blank screen.
func NewScreen() *Screen { return &Screen{} }

// SetProgram sets the program that receives frames.
func (s *Screen) SetProgram(p *tea.Program) { s.program.Store(p) }

// Frame returns a copy of the current frame.
func (s *Screen) Frame() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame.clone()
}

func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ready {
		return fmt.Errorf("screen already initialised")
	}
	s.ready = true
	return nil
}

func (s *Screen) Clear() {
	s.update(func(f *Frame) { *f = Frame{} })
}

func (s *Screen) ShowMessage(text string) {
	s.update(func(f *Frame) { f.Message = text })
}

func (s *Screen) ShowList(names []string, selected int) {
	s.update(func(f *Frame) {
		f.Names = append([]string(nil), names...)
		f.Selected = selected
	})
}

func (s *Screen) ShowDetails(d catalog.Description) {
	s.update(func(f *Frame) { f.Details = &d })
}

// ShowIcon decodes the icon header and shows its format and size. A file
// that does not decode as format is an error and leaves the frame alone.
func (s *Screen) ShowIcon(r io.Reader, format catalog.IconFormat) error {
	data, err := io.ReadAll(io.LimitReader(r, maxIconBytes))
	if err != nil {
		return fmt.Errorf("read icon: %w", err)
	}
	cfg, name, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s icon: %w", format, err)
	}
	if want := decoderName(format); name != want {
		return fmt.Errorf("icon is %s, expected %s", name, want)
	}

	s.update(func(f *Frame) { f.Icon = fmt.Sprintf("%s %dx%d", format, cfg.Width, cfg.Height) })
	return nil
}

func (s *Screen) ShowProgress(name string, written, total int) {
	s.update(func(f *Frame) {
		f.Progress = &Progress{Name: name, Written: written, Total: total}
	})
}

func (s *Screen) ShowError(text string) {
	s.update(func(f *Frame) {
		f.Progress = nil
		f.Error = text
	})
}

func (s *Screen) ShowIdle(level uint8) {
	s.update(func(f *Frame) {
		f.Idle = true
		f.Level = level
	})
}

func (s *Screen) update(fn func(*Frame)) {
	s.mu.Lock()
	fn(&s.frame)
	snapshot := s.frame.clone()
	s.mu.Unlock()

	if p := s.program.Load(); p != nil {
		p.Send(frameMsg{frame: snapshot})
	}
}

// decoderName maps an icon format to the name image.DecodeConfig reports.
func decoderName(format catalog.IconFormat) string {
	switch format {
	case catalog.IconJpg:
		return "jpeg"
	default:
		return format.String()
	}
}
