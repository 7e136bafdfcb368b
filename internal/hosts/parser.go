package hosts

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// maxLineSize bounds a single hosts line; long blocklists can have very wide lines.
const maxLineSize = 1024 * 1024

// Parse reads hosts data from r and yields every entry or malformed data line.
// Blank lines and comment lines are consumed silently; a run of comment lines
// directly above an entry becomes that entry's comment. The error value is only
// set once, for a failure of the underlying reader, and ends the sequence.
func Parse(r io.Reader) iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		var pending []string
		n := 0
		for scanner.Scan() {
			n++
			raw := scanner.Text()
			trimmed := strings.TrimSpace(raw)

			if trimmed == "" {
				pending = pending[:0]
				continue
			}
			if strings.HasPrefix(trimmed, "#") {
				if text := strings.TrimSpace(strings.TrimLeft(trimmed, "#")); text != "" {
					pending = append(pending, text)
				}
				continue
			}

			line := parseDataLine(n, raw, trimmed)
			if line.Entry != nil && len(pending) > 0 {
				lead := strings.Join(pending, " ")
				if line.Entry.Comment == "" {
					line.Entry.Comment = lead
				} else {
					line.Entry.Comment = lead + "; " + line.Entry.Comment
				}
			}
			pending = pending[:0]

			if !yield(line, nil) {
				return
			}
		}

		if err := scanner.Err(); err != nil {
			yield(Line{Number: n + 1}, fmt.Errorf("failed to read hosts data: %w", err))
		}
	}
}

// ParseString is Parse over an in-memory string.
func ParseString(s string) iter.Seq2[Line, error] {
	return Parse(strings.NewReader(s))
}

// Collect drains a parse sequence into entries and parse errors.
func Collect(seq iter.Seq2[Line, error]) ([]Entry, []*ParseError, error) {
	var (
		entries []Entry
		errs    []*ParseError
	)
	for line, err := range seq {
		if err != nil {
			return entries, errs, err
		}
		switch {
		case line.Entry != nil:
			entries = append(entries, *line.Entry)
		case line.Err != nil:
			errs = append(errs, line.Err)
		}
	}
	return entries, errs, nil
}

func parseDataLine(n int, raw, trimmed string) Line {
	data, comment := trimmed, ""
	if idx := strings.IndexByte(trimmed, '#'); idx != -1 {
		data = trimmed[:idx]
		comment = strings.TrimSpace(trimmed[idx+1:])
	}

	fields := strings.Fields(data)
	if len(fields) < 2 {
		return Line{
			Number: n,
			Raw:    raw,
			Err:    &ParseError{Line: n, Raw: raw, Reason: "missing hostname"},
		}
	}

	return Line{
		Number: n,
		Raw:    raw,
		Entry: &Entry{
			IP:        fields[0],
			Hostnames: fields[1:],
			Comment:   comment,
			Line:      n,
		},
	}
}
