// The text formatter renders diagnostics as colored terminal output when
// attached to a TTY, plain text otherwise.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

var termProfile = termenv.EnvColorProfile()

// TextOptions configures the text reporter output.
type TextOptions struct {
	// Color enables/disables colored output. Default: auto-detect.
	Color *bool

	// ShowSource shows source code snippets.
	ShowSource bool
}

// TextReporter formats diagnostics as plain or colored text.
type TextReporter struct {
	opts   TextOptions
	writer io.Writer
}

// NewTextReporter creates a new text reporter writing to w.
func NewTextReporter(opts TextOptions, w io.Writer) *TextReporter {
	return &TextReporter{opts: opts, writer: w}
}

func (r *TextReporter) colorEnabled() bool {
	if r.opts.Color != nil {
		return *r.opts.Color
	}
	if f, ok := r.writer.(interface{ Fd() uintptr }); ok {
		return isatty.IsTerminal(f.Fd()) && termProfile != termenv.Ascii
	}
	return false
}

// Report implements Reporter.
func (r *TextReporter) Report(results []FileDiagnostics, sources map[string][]byte, _ ReportMetadata) error {
	color := r.colorEnabled()
	for _, res := range SortResults(results) {
		for _, d := range res.Diagnostics {
			if err := r.printDiagnostic(res.URI, d, sources[res.URI], color); err != nil {
				return err
			}
		}
	}
	return nil
}

func severityColor(severity string) termenv.Color {
	switch severity {
	case "error":
		return termProfile.Color("196")
	case "warn":
		return termProfile.Color("214")
	default:
		return termProfile.Color("39")
	}
}

func (r *TextReporter) printDiagnostic(uri string, d protocol.Diagnostic, source []byte, color bool) error {
	var header string
	sevLabel := strings.ToUpper(d.Severity)
	if color {
		styled := termenv.String(sevLabel + ":").Foreground(severityColor(d.Severity)).Bold()
		ruleStyled := termenv.String(d.RuleID).Foreground(termProfile.Color("245")).Bold()
		header = fmt.Sprintf("\n%s %s", styled, ruleStyled)
	} else {
		header = fmt.Sprintf("\n%s: %s", sevLabel, d.RuleID)
	}
	if d.DocsURL != "" {
		if color {
			header += " - " + termenv.String(d.DocsURL).Underline().String()
		} else {
			header += " - " + d.DocsURL
		}
	}
	if _, err := fmt.Fprintln(r.writer, header); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(r.writer, d.Message); err != nil {
		return err
	}

	if !r.opts.ShowSource || len(source) == 0 {
		return nil
	}

	fmt.Fprintf(r.writer, "%s:%d\n", uri, d.Range.Start.Line+1)
	r.printSource(d, source, color)
	return nil
}

func (r *TextReporter) printSource(d protocol.Diagnostic, source []byte, color bool) {
	lines := strings.Split(string(source), "\n")
	start := int(d.Range.Start.Line)
	end := int(d.Range.End.Line)
	if end < start {
		end = start
	}
	if start < 0 || start >= len(lines) {
		return
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}

	for i := start; i <= end; i++ {
		content := strings.TrimSuffix(lines[i], "\r")
		marker := ">>>"
		if color {
			marker = termenv.String(marker).Foreground(termProfile.Color("196")).Bold().String()
		}
		fmt.Fprintf(r.writer, " %3d %s %s\n", i+1, marker, content)
	}
}
