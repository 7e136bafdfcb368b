// Package hosts parses, validates and renders hosts files.
package hosts

import (
	"fmt"
	"strings"
)

// Entry represents a single mapping line in a hosts file.
type Entry struct {
	IP        string
	Hostnames []string
	Comment   string
	// Line is the 1-based source line, or 0 for entries that were never parsed.
	Line int
}

// Clone returns a copy of the entry that shares no slices with e.
func (e Entry) Clone() Entry {
	c := e
	c.Hostnames = append([]string(nil), e.Hostnames...)
	return c
}

// Format renders the entry as a hosts file line without the trailing newline.
func (e Entry) Format(withComment bool) string {
	var sb strings.Builder
	sb.WriteString(e.IP)
	for _, h := range e.Hostnames {
		sb.WriteByte(' ')
		sb.WriteString(h)
	}
	if withComment && e.Comment != "" {
		sb.WriteString(" # ")
		sb.WriteString(e.Comment)
	}
	return sb.String()
}

func (e Entry) String() string {
	return e.Format(true)
}

// ParseError describes a data line that could not be turned into an Entry.
type ParseError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Raw)
}

// Line is one significant line of a hosts file. Exactly one of Entry and Err is set.
type Line struct {
	Number int
	Raw    string
	Entry  *Entry
	Err    *ParseError
}
