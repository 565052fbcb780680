// Package output renders check results for terminals and machines.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Mode is an output format.
type Mode string

// Output modes.
const (
	ModeHuman Mode = "human"
	ModeJSONL Mode = "jsonl"
)

// ColorMode controls styling.
type ColorMode string

// Color modes.
const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Renderer writes styled output to a pair of writers.
type Renderer struct {
	w      io.Writer
	errW   io.Writer
	mode   Mode
	styles *Styles
}

// NewRenderer creates a renderer. With ColorAuto, styling is enabled only
// when w is a terminal.
func NewRenderer(w, errW io.Writer, mode Mode, color ColorMode) *Renderer {
	lr := lipgloss.NewRenderer(w)
	lr.SetColorProfile(colorProfile(w, color))
	return &Renderer{
		w:      w,
		errW:   errW,
		mode:   mode,
		styles: NewStyles(lr),
	}
}

func colorProfile(w io.Writer, color ColorMode) termenv.Profile {
	switch color {
	case ColorAlways:
		return termenv.ANSI
	case ColorNever:
		return termenv.Ascii
	default:
		if !IsTerminal(w) {
			return termenv.Ascii
		}
		return termenv.EnvColorProfile()
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// Mode returns the output mode.
func (r *Renderer) Mode() Mode { return r.mode }

// Styles returns the styles bound to this renderer's color profile.
func (r *Renderer) Styles() *Styles { return r.styles }

// Writer returns the primary output writer.
func (r *Renderer) Writer() io.Writer { return r.w }

// ErrWriter returns the diagnostic writer.
func (r *Renderer) ErrWriter() io.Writer { return r.errW }

// Println writes a line to the primary writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.w, a...)
}

// Printf writes formatted output to the primary writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.w, format, a...)
}

// Warnf writes a styled warning line to the diagnostic writer.
func (r *Renderer) Warnf(format string, a ...any) {
	_, _ = fmt.Fprintln(r.errW, r.styles.Warning.Render("warning: "+fmt.Sprintf(format, a...)))
}
