package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []ModuleItem {
	return []ModuleItem{
		{Name: "base", Description: "local development", Included: true},
		{Name: "ads", Description: "ad blocking", Included: true},
		{Name: "work", Description: "office network", Included: false},
	}
}

func TestModuleList_Navigation(t *testing.T) {
	l := NewModuleList(sampleItems())

	assert.Equal(t, "base", l.Selected().Name)
	l.MoveDown()
	l.MoveDown()
	l.MoveDown()
	assert.Equal(t, "work", l.Selected().Name)
	l.MoveUp()
	assert.Equal(t, "ads", l.Selected().Name)
	l.MoveUp()
	l.MoveUp()
	assert.Equal(t, "base", l.Selected().Name)
}

func TestModuleList_ToggleAndExcluded(t *testing.T) {
	l := NewModuleList(sampleItems())

	l.Toggle()
	assert.Equal(t, []string{"base", "work"}, l.Excluded())
	assert.Equal(t, 1, l.IncludedCount())

	l.SetAll(true)
	assert.Empty(t, l.Excluded())
	l.SetAll(false)
	assert.Equal(t, []string{"base", "ads", "work"}, l.Excluded())
}

func TestModuleList_Filter(t *testing.T) {
	l := NewModuleList(sampleItems())

	l.SetFilter("NETWORK")
	require.NotNil(t, l.Selected())
	assert.Equal(t, "work", l.Selected().Name)

	l.MoveDown()
	assert.Equal(t, "work", l.Selected().Name)

	l.SetAll(true)
	assert.Equal(t, 3, l.IncludedCount())

	l.SetFilter("nothing")
	assert.Nil(t, l.Selected())
	assert.Contains(t, l.View(), "No modules match 'nothing'")
}

func TestModuleList_ItemsAreCopied(t *testing.T) {
	items := sampleItems()
	l := NewModuleList(items)
	l.Toggle()
	assert.True(t, items[0].Included)
}

func TestModuleList_View(t *testing.T) {
	l := NewModuleList(sampleItems())
	view := l.View()

	assert.Contains(t, view, "MODULE")
	assert.Contains(t, view, "base")
	assert.Contains(t, view, "● Included")
	assert.Contains(t, view, "○ Excluded")

	assert.Contains(t, NewModuleList(nil).View(), "No modules declared")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdefg...", truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "ab", truncate("abcdef", 2))
}

func TestWrapHelpText(t *testing.T) {
	assert.NotContains(t, WrapHelpText("a • b • c", 0), "\n")
	assert.Contains(t, WrapHelpText("alpha • beta • gamma", 12), "\n")
}
