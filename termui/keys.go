package termui

import (
	"sync/atomic"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/moffa90/go-multiboot/launcher"
)

// Keys implements launcher.Input for a keyboard. Terminals report key
// presses, not held keys, so each press is latched until the next
// Buttons call and reads as held for exactly one tick.
type Keys struct {
	latch atomic.Uint32
}

// Press latches b until the next sample.
func (k *Keys) Press(b launcher.Buttons) {
	for {
		old := k.latch.Load()
		if k.latch.CompareAndSwap(old, old|uint32(b)) {
			return
		}
	}
}

// Buttons returns and clears the latched presses.
func (k *Keys) Buttons() launcher.Buttons {
	return launcher.Buttons(k.latch.Swap(0))
}

// KeyMap binds terminal keys to launcher buttons.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Select key.Binding
	Quit   key.Binding
}

// DefaultKeyMap uses arrow keys alongside vim-style h/j/k/l.
var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right"),
		key.WithHelp("l/→", "right"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter", " "),
		key.WithHelp("enter", "launch"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// buttonFor returns the launcher button bound to msg, or zero.
func (km KeyMap) buttonFor(msg tea.KeyMsg) launcher.Buttons {
	switch {
	case key.Matches(msg, km.Up):
		return launcher.ButtonUp
	case key.Matches(msg, km.Down):
		return launcher.ButtonDown
	case key.Matches(msg, km.Left):
		return launcher.ButtonLeft
	case key.Matches(msg, km.Right):
		return launcher.ButtonRight
	case key.Matches(msg, km.Select):
		return launcher.ButtonSelect
	}
	return 0
}

// ShortHelp lists the bindings shown in the footer.
func (km KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Up, km.Down, km.Select, km.Quit}
}
