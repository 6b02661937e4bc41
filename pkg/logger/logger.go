package logger

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// ColorMode controls ANSI coloring of console output
type ColorMode string

const (
	// ColorAuto colors only when stdout is a terminal
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	default:
		return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
	}
}

// Apply sets colors on or off for c according to the mode
func (m ColorMode) Apply(c *color.Color) *color.Color {
	switch m {
	case ColorAlways:
		c.EnableColor()
	case ColorNever:
		c.DisableColor()
	}
	return c
}

// Reporter receives per-file progress and comparison results
type Reporter interface {
	Skip(path string, index, total int)
	Hashing(path string, index, total int, size int64)
	HashError(path string, index, total int, err error)
	Result(name string, match bool)
}

// ConsoleReporter prints every event with color-coded severity
type ConsoleReporter struct {
	out io.Writer

	skip  *color.Color
	hash  *color.Color
	ok    *color.Color
	fail  *color.Color
	fault *color.Color
}

func NewConsoleReporter(out io.Writer, mode ColorMode) *ConsoleReporter {
	return &ConsoleReporter{
		out:   out,
		skip:  mode.Apply(color.New(color.FgYellow)),
		hash:  mode.Apply(color.New(color.FgBlue)),
		ok:    mode.Apply(color.New(color.FgGreen)),
		fail:  mode.Apply(color.New(color.FgRed)),
		fault: mode.Apply(color.New(color.FgRed, color.Bold)),
	}
}

func (r *ConsoleReporter) Skip(path string, index, total int) {
	r.skip.Fprintf(r.out, "Skipping: %s (%d/%d)\n", path, index, total)
}

func (r *ConsoleReporter) Hashing(path string, index, total int, size int64) {
	r.hash.Fprintf(r.out, "Hashing : %s (%d/%d) [%d bytes]\n", path, index, total, size)
}

func (r *ConsoleReporter) HashError(path string, index, total int, err error) {
	r.fault.Fprintf(r.out, "Error   : %s (%d/%d) %v\n", path, index, total, err)
}

func (r *ConsoleReporter) Result(name string, match bool) {
	c := r.fail
	if match {
		c = r.ok
	}
	c.Fprintln(r.out, FormatResult(name, match))
}

// FormatResult renders a comparison line, spelling booleans as True/False
func FormatResult(name string, match bool) string {
	value := "False"
	if match {
		value = "True"
	}
	return fmt.Sprintf("%s Match: %s", name, value)
}

// QuietReporter prints comparison results only
type QuietReporter struct {
	*ConsoleReporter
}

func NewQuietReporter(out io.Writer, mode ColorMode) *QuietReporter {
	return &QuietReporter{ConsoleReporter: NewConsoleReporter(out, mode)}
}

func (r *QuietReporter) Skip(path string, index, total int) {}

func (r *QuietReporter) Hashing(path string, index, total int, size int64) {}

type NullReporter struct{}

func (NullReporter) Skip(path string, index, total int) {}

func (NullReporter) Hashing(path string, index, total int, size int64) {}

func (NullReporter) HashError(path string, index, total int, err error) {}

func (NullReporter) Result(name string, match bool) {}
