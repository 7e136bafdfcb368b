// Package module resolves project modules and merges their hosts entries.
package module

import (
	"strings"

	"github.com/hostsgen/hostsgen/internal/hosts"
)

// Declaration is one entry of the project "mods" list.
type Declaration struct {
	Name        string
	Description string
}

// Module is a resolved module with its parsed entries.
type Module struct {
	Name        string
	Description string
	Entries     []hosts.Entry
	ParseErrors []*hosts.ParseError
}

// ParseDeclaration splits a raw "<name>[ <description>]" declaration at the
// first space. The bool is false when the declaration carries no description,
// in which case the whole string is the name.
func ParseDeclaration(raw string) (Declaration, bool) {
	raw = strings.TrimSpace(raw)
	idx := strings.IndexByte(raw, ' ')
	if idx == -1 {
		return Declaration{Name: raw}, false
	}
	desc := strings.TrimSpace(raw[idx+1:])
	return Declaration{Name: raw[:idx], Description: desc}, desc != ""
}

// Names returns the names of mods in order.
func Names(mods []Module) []string {
	names := make([]string, len(mods))
	for i, m := range mods {
		names[i] = m.Name
	}
	return names
}
