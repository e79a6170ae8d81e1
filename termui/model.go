package termui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/moffa90/go-multiboot/boot"
)

// Panel size of the reference board's display, in cells.
const (
	panelWidth  = 60
	listWidth   = 22
	panelHeight = 12
)

// Theme holds the colours of the simulated panel. All colours are ANSI
// 256-colour codes.
type Theme struct {
	Border     lipgloss.Color
	Title      lipgloss.Color
	Text       lipgloss.Color
	Faint      lipgloss.Color
	SelectedFg lipgloss.Color
	SelectedBg lipgloss.Color
	Error      lipgloss.Color
	Bar        lipgloss.Color
}

var DefaultTheme = Theme{
	Border:     lipgloss.Color("240"),
	Title:      lipgloss.Color("39"),
	Text:       lipgloss.Color("252"),
	Faint:      lipgloss.Color("244"),
	SelectedFg: lipgloss.Color("16"),
	SelectedBg: lipgloss.Color("117"),
	Error:      lipgloss.Color("203"),
	Bar:        lipgloss.Color("78"),
}

// HandoffMsg tells the model an application was started. The model shows
// it and quits.
type HandoffMsg struct {
	Image boot.Image
}

// Model is the bubbletea model for the simulated panel.
type Model struct {
	keys    *Keys
	keymap  KeyMap
	theme   Theme
	bar     *ProgressBar
	frame   Frame
	handoff *boot.Image
}

// NewModel returns a model that latches button presses into keys.
func NewModel(keys *Keys) Model {
	return Model{
		keys:   keys,
		keymap: DefaultKeyMap,
		theme:  DefaultTheme,
		bar:    NewProgressBar(panelWidth - 30),
	}
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.KeyMsg:
		if key.Matches(message, model.keymap.Quit) {
			return model, tea.Quit
		}
		if b := model.keymap.buttonFor(message); b != 0 {
			model.keys.Press(b)
		}
	case frameMsg:
		model.frame = message.frame
	case HandoffMsg:
		img := message.Image
		model.handoff = &img
		return model, tea.Quit
	}
	return model, nil
}

// Handoff returns the started application, if there was one.
func (model Model) Handoff() (boot.Image, bool) {
	if model.handoff == nil {
		return boot.Image{}, false
	}
	return *model.handoff, true
}

// View implements tea.Model.
func (model Model) View() string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(model.theme.Title).
		Render("MULTIBOOT")

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(model.theme.Border).
		Width(panelWidth).
		Height(panelHeight).
		Render(model.renderBody())

	help := lipgloss.NewStyle().
		Foreground(model.theme.Faint).
		Render(model.renderHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, panel, help) + "\n"
}

func (model Model) renderBody() string {
	f := model.frame
	text := lipgloss.NewStyle().Foreground(model.theme.Text)

	switch {
	case model.handoff != nil:
		return text.Render("Started " + model.handoff.String())
	case f.Idle:
		return text.Render("backlight\n" + model.bar.Render(float64(f.Level)))
	case f.Error != "":
		return lipgloss.NewStyle().Foreground(model.theme.Error).Render(f.Error)
	case f.Progress != nil:
		bar := lipgloss.NewStyle().Foreground(model.theme.Bar).
			Render(model.bar.RenderBytes(f.Progress.Written, f.Progress.Total))
		return text.Render("Loading "+f.Progress.Name) + "\n\n" + bar
	case len(f.Names) > 0:
		return lipgloss.JoinHorizontal(lipgloss.Top, model.renderList(), model.renderDetails())
	default:
		return lipgloss.Place(panelWidth, panelHeight, lipgloss.Center, lipgloss.Center, text.Render(f.Message))
	}
}

func (model Model) renderList() string {
	normal := lipgloss.NewStyle().Foreground(model.theme.Text).Width(listWidth)
	selected := normal.
		Foreground(model.theme.SelectedFg).
		Background(model.theme.SelectedBg)

	rows := make([]string, len(model.frame.Names))
	for i, name := range model.frame.Names {
		style := normal
		if i == model.frame.Selected {
			style = selected
		}
		rows[i] = style.Render(name)
	}
	return lipgloss.NewStyle().
		BorderRight(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(model.theme.Border).
		Render(strings.Join(rows, "\n"))
}

func (model Model) renderDetails() string {
	d := model.frame.Details
	if d == nil {
		return ""
	}
	faint := lipgloss.NewStyle().Foreground(model.theme.Faint)
	lines := []string{
		lipgloss.NewStyle().Bold(true).Foreground(model.theme.Title).Render(d.Name),
		d.Description,
	}
	if d.AuthorName != "" {
		lines = append(lines, faint.Render("by "+d.AuthorName))
	}
	if model.frame.Icon != "" {
		lines = append(lines, faint.Render("icon: "+model.frame.Icon))
	}
	lines = append(lines, faint.Render(d.Location))
	return lipgloss.NewStyle().
		PaddingLeft(1).
		Width(panelWidth - listWidth - 2).
		Render(strings.Join(lines, "\n"))
}

func (model Model) renderHelp() string {
	bindings := model.keymap.ShortHelp()
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		h := b.Help()
		parts[i] = fmt.Sprintf("%s %s", h.Key, h.Desc)
	}
	return strings.Join(parts, " • ")
}
