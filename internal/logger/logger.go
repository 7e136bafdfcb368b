// Package logger prints tagged, colorized console messages.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Logger writes "[TAG] message" lines. Informational tags go to out,
// warnings and errors to errOut.
type Logger struct {
	out    io.Writer
	errOut io.Writer
	quiet  bool
	debug  bool

	info    *color.Color
	warn    *color.Color
	err     *color.Color
	check   *color.Color
	compile *color.Color
	dbg     *color.Color
}

// New creates a logger writing to out and errOut.
func New(out, errOut io.Writer) *Logger {
	return &Logger{
		out:     out,
		errOut:  errOut,
		info:    color.New(color.FgGreen),
		warn:    color.New(color.FgHiMagenta),
		err:     color.New(color.FgRed, color.Bold),
		check:   color.New(color.FgHiBlue),
		compile: color.New(color.FgYellow),
		dbg:     color.New(color.FgCyan),
	}
}

// Default logs to the color-aware stdout and stderr.
func Default() *Logger {
	return New(color.Output, color.Error)
}

// SetQuiet suppresses Info, Compile and Debug output.
func (l *Logger) SetQuiet(quiet bool) { l.quiet = quiet }

// Quiet reports whether informational output is suppressed.
func (l *Logger) Quiet() bool { return l.quiet }

// SetDebug enables Debug output.
func (l *Logger) SetDebug(debug bool) { l.debug = debug }

// DisableColor strips ANSI colors regardless of the terminal.
func (l *Logger) DisableColor() {
	for _, c := range []*color.Color{l.info, l.warn, l.err, l.check, l.compile, l.dbg} {
		c.DisableColor()
	}
}

// Out returns the writer used for informational output.
func (l *Logger) Out() io.Writer { return l.out }

func (l *Logger) line(w io.Writer, c *color.Color, tag, format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	c.Fprint(w, "["+tag+"]")
	fmt.Fprint(w, " ", strings.TrimRight(msg, "\n"), "\n")
}

// Info logs informational messages.
func (l *Logger) Info(format string, a ...any) {
	if l.quiet {
		return
	}
	l.line(l.out, l.info, "INFO", format, a...)
}

// Compile logs build progress.
func (l *Logger) Compile(format string, a ...any) {
	if l.quiet {
		return
	}
	l.line(l.out, l.compile, "COMPILE", format, a...)
}

// Check logs check progress. It is shown even in quiet mode since it is the
// only output of a successful check.
func (l *Logger) Check(format string, a ...any) {
	l.line(l.out, l.check, "CHECK", format, a...)
}

// Warn logs warnings.
func (l *Logger) Warn(format string, a ...any) {
	l.line(l.errOut, l.warn, "WARN", format, a...)
}

// Error logs errors.
func (l *Logger) Error(format string, a ...any) {
	l.line(l.errOut, l.err, "ERR", format, a...)
}

// Debug logs debug messages when enabled.
func (l *Logger) Debug(format string, a ...any) {
	if !l.debug || l.quiet {
		return
	}
	l.line(l.out, l.dbg, "DEBUG", format, a...)
}

// Print writes an untagged line to out, regardless of quiet mode.
func (l *Logger) Print(format string, a ...any) {
	fmt.Fprintf(l.out, format, a...)
}
