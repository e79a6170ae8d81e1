package launcher

import "fmt"

// State is a launcher state machine state.
type State uint8

const (
	// StateInit brings up the display and flash controller
	StateInit State = iota

	// StateNoStorage waits for removable storage to appear
	StateNoStorage

	// StateLoadCatalog reads one page of the catalog
	StateLoadCatalog

	// StateSelectApp lets the user browse the current page
	StateSelectApp

	// StateLoadApp flashes the selected application and starts it
	StateLoadApp

	// StateError shows a failure until any button is pressed
	StateError

	// StateEnd is the idle screen; no transition leads here
	StateEnd
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateNoStorage:
		return "no-storage"
	case StateLoadCatalog:
		return "load-catalog"
	case StateSelectApp:
		return "select-app"
	case StateLoadApp:
		return "load-app"
	case StateError:
		return "error"
	case StateEnd:
		return "end"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// Context is the state the launcher carries between ticks.
type Context struct {
	State State

	// FallbackState is entered when the user dismisses an error
	FallbackState State

	// StartItemIndex is the catalog index of the first entry on the page;
	// always a multiple of the page capacity
	StartItemIndex int

	// SelectedApp indexes the current page
	SelectedApp int

	// PrevButtons is the input sampled on the previous tick
	PrevButtons Buttons

	// ForceRedraw requests a full redraw of the selection screen
	ForceRedraw bool
}
