package reporter

import (
	"encoding/json"
	"io"
)

// JSONOutput is the top-level structure for JSON output.
type JSONOutput struct {
	Files        []FileDiagnostics `json:"files"`
	Summary      Summary           `json:"summary"`
	FilesScanned int               `json:"files_scanned"`
	RulesEnabled int               `json:"rules_enabled"`
}

// Summary contains aggregate statistics about diagnostics.
type Summary struct {
	Total  int `json:"total"`
	Errors int `json:"errors"`
	Warn   int `json:"warn"`
	Info   int `json:"info"`
	Files  int `json:"files"`
}

// JSONReporter formats diagnostics as a single JSON document.
type JSONReporter struct {
	writer io.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(w io.Writer) *JSONReporter {
	return &JSONReporter{writer: w}
}

// Report implements Reporter.
func (r *JSONReporter) Report(results []FileDiagnostics, _ map[string][]byte, metadata ReportMetadata) error {
	sorted := SortResults(results)

	output := JSONOutput{
		Files:        sorted,
		Summary:      calculateSummary(sorted),
		FilesScanned: metadata.FilesScanned,
		RulesEnabled: metadata.RulesEnabled,
	}

	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func calculateSummary(results []FileDiagnostics) Summary {
	summary := Summary{Files: len(results)}
	for _, r := range results {
		summary.Total += len(r.Diagnostics)
		for _, d := range r.Diagnostics {
			switch d.Severity {
			case "error":
				summary.Errors++
			case "warn":
				summary.Warn++
			case "info":
				summary.Info++
			}
		}
	}
	return summary
}
