// Package ui decides how run output reaches the terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/modloader/pkg/report"
	"github.com/arthur-debert/modloader/pkg/ui/styles"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Format is the output flavour of the run log.
type Format int

const (
	// FormatAuto picks FormatColor or FormatPlain from the terminal.
	FormatAuto Format = iota
	// FormatColor colours tokens and code spans.
	FormatColor
	// FormatPlain writes lines unchanged.
	FormatPlain
)

func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatColor:
		return "color"
	case FormatPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// ParseFormat parses the output.format setting.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return FormatAuto, nil
	case "color", "colour", "term", "terminal":
		return FormatColor, nil
	case "plain", "text":
		return FormatPlain, nil
	default:
		return FormatAuto, fmt.Errorf("unknown output format: %s", s)
	}
}

// DetectFormat chooses a format for output: plain when NO_COLOR is set, when
// output is not a terminal or when the terminal has no colours.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatPlain
	}
	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatPlain
	}
	if termenv.NewOutput(output).ColorProfile() == termenv.Ascii {
		return FormatPlain
	}
	return FormatColor
}

// Resolve turns FormatAuto into a concrete format for out. Writers that are
// not files are treated as plain.
func Resolve(f Format, out io.Writer) Format {
	if f != FormatAuto {
		return f
	}
	if file, ok := out.(*os.File); ok {
		return DetectFormat(file)
	}
	return FormatPlain
}

// NewSink returns a run log sink writing to out in format f.
func NewSink(out io.Writer, f Format) report.Sink {
	sink := report.WriterSink{Out: out}
	if Resolve(f, out) == FormatColor {
		sink.Decorate = styles.Default().Colorize
	}
	return sink
}
