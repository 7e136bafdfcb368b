package hosts

import (
	"bytes"
	"strings"
)

// RenderOptions controls how entries are serialized.
type RenderOptions struct {
	// NoComments drops header lines and trailing entry comments.
	NoComments bool
	// Header lines are written as "# ..." before the first entry.
	Header []string
}

// Render serializes entries to hosts file text, one newline-terminated line per entry.
func Render(entries []Entry, opts RenderOptions) []byte {
	var buf bytes.Buffer

	if !opts.NoComments && len(opts.Header) > 0 {
		for _, h := range opts.Header {
			buf.WriteString(strings.TrimRight("# "+h, " "))
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}

	for _, e := range entries {
		buf.WriteString(e.Format(!opts.NoComments))
		buf.WriteByte('\n')
	}

	return buf.Bytes()
}
