// Package reporter provides output formatters for engine diagnostics.
//
// The package supports four output formats:
//   - text: human-readable terminal output with optional color
//   - json: a single machine-readable JSON document
//   - ndjson: the same wire envelopes the engine itself emits, replayed to a file
//   - sarif: Static Analysis Results Interchange Format for CI/CD integration
package reporter

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// FileDiagnostics pairs a file URI with the diagnostics an engine reported
// for it.
type FileDiagnostics struct {
	URI         string
	Diagnostics []protocol.Diagnostic
}

// ReportMetadata contains contextual information about the lint run.
type ReportMetadata struct {
	// FilesScanned is the total number of files that were analyzed.
	FilesScanned int
	// RulesEnabled is the total number of rules that were active (not "off").
	RulesEnabled int
}

// Reporter formats and outputs diagnostics.
type Reporter interface {
	// Report writes results to the configured output. sources maps file URI
	// to file content, for formats that render source snippets.
	Report(results []FileDiagnostics, sources map[string][]byte, metadata ReportMetadata) error
}

// SortResults sorts results by URI, and each URI's diagnostics by start
// position, for stable output.
func SortResults(results []FileDiagnostics) []FileDiagnostics {
	sorted := make([]FileDiagnostics, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].URI < sorted[j].URI
	})
	for _, r := range sorted {
		sortDiagnostics(r.Diagnostics)
	}
	return sorted
}

func sortDiagnostics(diagnostics []protocol.Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i].Range.Start, diagnostics[j].Range.Start
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Character != b.Character {
			return a.Character < b.Character
		}
		return diagnostics[i].RuleID < diagnostics[j].RuleID
	})
}

// Format represents an output format type.
type Format string

const (
	FormatText   Format = "text"
	FormatJSON   Format = "json"
	FormatNDJSON Format = "ndjson"
	FormatSARIF  Format = "sarif"
)

// ParseFormat parses a format string into a Format type.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "ndjson":
		return FormatNDJSON, nil
	case "sarif":
		return FormatSARIF, nil
	default:
		return "", fmt.Errorf("unknown format: %q (valid: text, json, ndjson, sarif)", s)
	}
}

// Options configures reporter creation.
type Options struct {
	Format Format
	Writer io.Writer

	// Color enables/disables colored output (text format only). nil means
	// auto-detect.
	Color *bool

	// ShowSource enables source code snippets (text format only).
	ShowSource bool

	// ToolVersion and ToolName/ToolURI are included in SARIF output.
	ToolVersion string
	ToolName    string
	ToolURI     string
}

// DefaultOptions returns sensible defaults for reporter options.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		Writer:      os.Stdout,
		ShowSource:  true,
		ToolName:    "forsetictl",
		ToolURI:     "https://github.com/forseti-sdk/forseti-sdk",
		ToolVersion: "dev",
	}
}

// New creates a reporter based on the format specified in options.
func New(opts Options) (Reporter, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stdout
	}

	switch opts.Format {
	case FormatText, "":
		return NewTextReporter(TextOptions{
			Color:      opts.Color,
			ShowSource: opts.ShowSource,
		}, opts.Writer), nil

	case FormatJSON:
		return NewJSONReporter(opts.Writer), nil

	case FormatNDJSON:
		return NewNDJSONReporter(opts.Writer), nil

	case FormatSARIF:
		return NewSARIFReporter(opts.Writer, opts.ToolName, opts.ToolVersion, opts.ToolURI), nil

	default:
		return nil, fmt.Errorf("unknown format: %q", opts.Format)
	}
}

// GetWriter returns an io.Writer for the given output path.
// Supports "stdout", "stderr", or file paths.
func GetWriter(path string) (io.Writer, func() error, error) {
	switch path {
	case "stdout", "":
		return os.Stdout, func() error { return nil }, nil
	case "stderr":
		return os.Stderr, func() error { return nil }, nil
	default:
		f, err := os.Create(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create output file: %w", err)
		}
		return f, f.Close, nil
	}
}
