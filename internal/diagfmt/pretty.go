package diagfmt

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"pyrite/internal/diag"
	"pyrite/internal/source"
)

type palette struct {
	err  *color.Color
	warn *color.Color
	info *color.Color
	loc  *color.Color
	note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan, color.Bold),
		loc:  color.New(color.Bold),
		note: color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.loc, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func colorEnabled(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Pretty renders every diagnostic of a sorted bag as
//
//	path:line:col: SEVERITY Code: message
//	    offending source line
//	            ^~~~
//
// followed by indented notes. Diagnostics without a resolvable span print
// the header line only.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(colorEnabled(w, opts.Color))
	for _, d := range bag.Items() {
		if opts.NoWarnings && d.Severity != diag.SevError {
			continue
		}
		writeHeader(w, fs, pal, d)
		if opts.ShowSource {
			writeSourceContext(w, fs, d.Primary)
		}
		if opts.ShowNotes {
			for _, n := range d.Notes {
				fmt.Fprintf(w, "  %s %s%s\n", pal.note.Sprint("note:"), n.Msg, location(fs, n.Span))
			}
		}
	}
}

func writeHeader(w io.Writer, fs *source.FileSet, pal palette, d diag.Diagnostic) {
	sev := pal.severity(d.Severity)
	if spanUsable(fs, d.Primary) {
		fmt.Fprintf(w, "%s %s %s: %s\n",
			pal.loc.Sprint(formatLoc(fs, d.Primary)+":"),
			sev.Sprint(d.Severity.String()), d.Code, d.Message)
		return
	}
	fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), d.Code, d.Message)
}

// formatLoc renders "path:line:col" for a span that has a known file.
func formatLoc(fs *source.FileSet, sp source.Span) string {
	pos := fs.Position(sp.File, sp.Start)
	return fmt.Sprintf("%s:%d:%d", fs.PathOf(sp.File), pos.Line, pos.Col)
}

// location renders " (path:line:col)" or "" when the span is unusable.
func location(fs *source.FileSet, sp source.Span) string {
	if !spanUsable(fs, sp) {
		return ""
	}
	return " (" + formatLoc(fs, sp) + ")"
}

func spanUsable(fs *source.FileSet, sp source.Span) bool {
	if sp == (source.Span{}) {
		return false
	}
	return fs != nil && fs.Get(sp.File) != nil
}

// writeSourceContext prints the first line the span covers and underlines
// the covered part with ^~~~. The underline is sized in display cells so
// wide runes stay aligned.
func writeSourceContext(w io.Writer, fs *source.FileSet, sp source.Span) {
	if !spanUsable(fs, sp) {
		return
	}
	pos := fs.Position(sp.File, sp.Start)
	line := fs.Line(sp.File, pos.Line)
	if line == nil {
		return
	}
	fmt.Fprintf(w, "    %s\n", line)

	startCol := min(int(pos.Col)-1, len(line))
	endCol := min(startCol+int(sp.Len()), len(line))
	pad := runewidth.StringWidth(string(line[:startCol]))
	width := runewidth.StringWidth(string(line[startCol:endCol]))
	if width < 1 {
		width = 1
	}
	fmt.Fprintf(w, "    %s^%s\n", strings.Repeat(" ", pad), strings.Repeat("~", width-1))
}
