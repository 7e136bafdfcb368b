package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// ModuleItem is one declared module in the picker.
type ModuleItem struct {
	Name        string
	Description string
	Included    bool
}

// ModuleList holds the picker's modules and cursor. The cursor indexes the
// currently visible (filtered) items.
type ModuleList struct {
	items  []ModuleItem
	filter string
	cursor int
}

// NewModuleList creates a list of items.
func NewModuleList(items []ModuleItem) *ModuleList {
	return &ModuleList{items: append([]ModuleItem(nil), items...)}
}

// Len returns the number of modules.
func (l *ModuleList) Len() int {
	return len(l.items)
}

// visible returns indices of items matching the filter.
func (l *ModuleList) visible() []int {
	term := strings.ToLower(l.filter)
	var out []int
	for i, item := range l.items {
		if term == "" ||
			strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term) {
			out = append(out, i)
		}
	}
	return out
}

// SetFilter narrows the visible items and resets the cursor.
func (l *ModuleList) SetFilter(term string) {
	l.filter = strings.TrimSpace(term)
	l.cursor = 0
}

// Filter returns the current filter term.
func (l *ModuleList) Filter() string {
	return l.filter
}

// MoveUp moves the cursor up.
func (l *ModuleList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down.
func (l *ModuleList) MoveDown() {
	if l.cursor < len(l.visible())-1 {
		l.cursor++
	}
}

// Selected returns the item under the cursor.
func (l *ModuleList) Selected() *ModuleItem {
	vis := l.visible()
	if l.cursor >= 0 && l.cursor < len(vis) {
		return &l.items[vis[l.cursor]]
	}
	return nil
}

// Toggle flips the item under the cursor.
func (l *ModuleList) Toggle() {
	if item := l.Selected(); item != nil {
		item.Included = !item.Included
	}
}

// SetAll includes or excludes every visible item.
func (l *ModuleList) SetAll(included bool) {
	for _, i := range l.visible() {
		l.items[i].Included = included
	}
}

// IncludedCount returns the number of included modules.
func (l *ModuleList) IncludedCount() int {
	n := 0
	for _, item := range l.items {
		if item.Included {
			n++
		}
	}
	return n
}

// Excluded returns the names of excluded modules in declaration order.
func (l *ModuleList) Excluded() []string {
	var out []string
	for _, item := range l.items {
		if !item.Included {
			out = append(out, item.Name)
		}
	}
	return out
}

// View renders the visible modules as a table.
func (l *ModuleList) View() string {
	vis := l.visible()
	if len(vis) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(colorMuted)
		if l.filter != "" {
			return "\n" + emptyStyle.Render(fmt.Sprintf("  No modules match '%s'. Press Esc to clear search.", l.filter)) + "\n"
		}
		return "\n" + emptyStyle.Render("  No modules declared in the project.") + "\n"
	}

	var sb strings.Builder
	if l.filter != "" {
		sb.WriteString(searchStyle.Render(fmt.Sprintf("  Search: %s (%d results)", l.filter, len(vis))))
		sb.WriteString("\n")
	}

	rows := make([][]string, len(vis))
	for r, i := range vis {
		item := l.items[i]
		rows[r] = []string{
			truncate(item.Name, 24),
			truncate(item.Description, 40),
			StatusText(item.Included),
		}
	}

	t := table.New().
		Border(lipgloss.HiddenBorder()).
		Headers("MODULE", "DESCRIPTION", "STATUS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Bold(true).
					Foreground(colorHeader).
					Padding(0, 1)
			}

			base := lipgloss.NewStyle().Padding(0, 1)
			if row < 0 || row >= len(vis) {
				return base
			}
			if row == l.cursor {
				return base.Background(colorSelectedBg).Foreground(colorSelectedFg)
			}
			item := l.items[vis[row]]
			if !item.Included {
				return base.Foreground(colorMuted)
			}
			if col == 2 {
				return base.Foreground(colorSuccess)
			}
			return base
		})

	sb.WriteString(t.Render())
	sb.WriteString("\n")
	return sb.String()
}

func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
