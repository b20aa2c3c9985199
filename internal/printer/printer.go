// Package printer writes human-facing CLI output with color.
package printer

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

func init() {
	// Users can disable with NO_COLOR.
	if os.Getenv("NO_COLOR") == "" {
		color.NoColor = false
	}
}

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	bold   = color.New(color.Bold)
)

// Printer writes regular output to out and failures to err.
type Printer struct {
	out io.Writer
	err io.Writer
}

// New creates a printer.
func New(out, err io.Writer) *Printer {
	return &Printer{out: out, err: err}
}

// Success prints a message in green with a checkmark prefix.
func (p *Printer) Success(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "✓") {
		msg = "✓ " + msg
	}
	_, _ = green.Fprint(p.out, msg)
}

// Info prints a message in the default color.
func (p *Printer) Info(format string, a ...any) {
	_, _ = fmt.Fprintf(p.out, format, a...)
}

// Warning prints a message in yellow with a warning prefix.
func (p *Printer) Warning(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	if !strings.HasPrefix(msg, "⚠️") {
		msg = "⚠️  " + msg
	}
	_, _ = yellow.Fprint(p.out, msg)
}

// Step prints a step of a multi-step operation.
func (p *Printer) Step(format string, a ...any) {
	_, _ = cyan.Fprintf(p.out, "→ %s", fmt.Sprintf(format, a...))
}

// Heading prints a bold section title followed by a newline.
func (p *Printer) Heading(format string, a ...any) {
	_, _ = bold.Fprintf(p.out, "%s\n", fmt.Sprintf(format, a...))
}

// Error prints a formatted failure with an explanation and suggestions to
// the error stream and returns an error carrying only the title, for Cobra.
func (p *Printer) Error(title, explanation string, suggestions []string) error {
	_, _ = red.Fprintf(p.err, "%s\n\n", title)
	if explanation != "" {
		_, _ = fmt.Fprintf(p.err, "%s\n", explanation)
	}

	if len(suggestions) > 0 {
		_, _ = fmt.Fprintf(p.err, "\n")
		if len(suggestions) == 1 {
			_, _ = fmt.Fprintf(p.err, "%s\n", suggestions[0])
		} else {
			_, _ = fmt.Fprintf(p.err, "Either:\n")
			for i, s := range suggestions {
				_, _ = fmt.Fprintf(p.err, "  %d. %s\n", i+1, s)
			}
		}
	}

	return fmt.Errorf("%s", title)
}
