package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeSearch
)

// Picker is the bubbletea model for choosing which modules to build.
type Picker struct {
	title       string
	list        *ModuleList
	searchInput textinput.Model
	mode        mode
	width       int
	confirmed   bool
	message     string
}

// NewPicker creates a picker for the given modules.
func NewPicker(title string, items []ModuleItem) *Picker {
	searchInput := textinput.New()
	searchInput.Placeholder = "Filter modules..."
	searchInput.CharLimit = 100
	searchInput.Width = 40

	return &Picker{
		title:       title,
		list:        NewModuleList(items),
		searchInput: searchInput,
	}
}

// Init implements tea.Model.
func (p *Picker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.searchInput.Width = min(max(msg.Width-10, 10), 60)
	case tea.KeyMsg:
		return p, p.handleKey(msg)
	}
	return p, nil
}

func (p *Picker) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if p.mode == modeSearch {
		return p.handleSearchKey(msg)
	}

	p.message = ""
	switch msg.String() {
	case "q", "esc":
		if p.list.Filter() != "" && msg.String() == "esc" {
			p.list.SetFilter("")
			p.searchInput.Reset()
			return nil
		}
		return tea.Quit
	case "up", "k":
		p.list.MoveUp()
	case "down", "j":
		p.list.MoveDown()
	case " ", "space", "x":
		p.list.Toggle()
	case "a":
		p.list.SetAll(true)
	case "n":
		p.list.SetAll(false)
	case "/":
		p.mode = modeSearch
		return p.searchInput.Focus()
	case "enter":
		if p.list.IncludedCount() == 0 {
			p.message = "Select at least one module."
			return nil
		}
		p.confirmed = true
		return tea.Quit
	}
	return nil
}

func (p *Picker) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		p.mode = modeList
		p.searchInput.Reset()
		p.searchInput.Blur()
		p.list.SetFilter("")
		return nil
	case "enter":
		p.mode = modeList
		p.searchInput.Blur()
		p.list.SetFilter(p.searchInput.Value())
		return nil
	}

	var cmd tea.Cmd
	p.searchInput, cmd = p.searchInput.Update(msg)
	p.list.SetFilter(p.searchInput.Value())
	return cmd
}

// View implements tea.Model.
func (p *Picker) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render(p.title))
	sb.WriteString("\n\n")

	if p.mode == modeSearch {
		sb.WriteString(inputFocusStyle.Render(p.searchInput.View()))
		sb.WriteString("\n")
	}

	sb.WriteString(p.list.View())

	if p.message != "" {
		sb.WriteString("\n")
		sb.WriteString(searchStyle.Render(p.message))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(p.helpBar())
	sb.WriteString("\n")
	sb.WriteString(statusBarStyle.Render(fmt.Sprintf("%d of %d modules included", p.list.IncludedCount(), p.list.Len())))

	return sb.String()
}

func (p *Picker) helpBar() string {
	items := [][2]string{
		{"↑↓/jk", "Navigate"},
		{"Space", "Toggle"},
		{"a", "All"},
		{"n", "None"},
		{"/", "Filter"},
		{"Enter", "Build"},
		{"q", "Quit"},
	}

	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = helpKeyStyle.Render(it[0]) + " " + helpDescStyle.Render(it[1])
	}
	if p.width <= 0 {
		return strings.Join(parts, "  ")
	}

	var plain []string
	for _, it := range items {
		plain = append(plain, it[0]+" "+it[1])
	}
	return WrapHelpText(strings.Join(plain, " • "), p.width)
}

// Confirmed reports whether the user accepted the selection.
func (p *Picker) Confirmed() bool {
	return p.confirmed
}

// Excluded returns the modules the user deselected.
func (p *Picker) Excluded() []string {
	return p.list.Excluded()
}

// Run shows the picker on the terminal. It returns the excluded module names
// and whether the user confirmed.
func Run(title string, items []ModuleItem, in io.Reader, out io.Writer) ([]string, bool, error) {
	picker := NewPicker(title, items)
	prog := tea.NewProgram(picker, tea.WithInput(in), tea.WithOutput(out))
	if _, err := prog.Run(); err != nil {
		return nil, false, fmt.Errorf("module picker failed: %w", err)
	}
	return picker.Excluded(), picker.Confirmed(), nil
}
