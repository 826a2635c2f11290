package reporter

import (
	"io"
	"sort"
	"strings"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// Default SARIF tool information.
const (
	defaultToolName = "forsetictl"
	defaultToolURI  = "https://github.com/forseti-sdk/forseti-sdk"
)

// SARIFReporter formats diagnostics as SARIF (Static Analysis Results
// Interchange Format), widely supported by CI/CD systems including GitHub
// Code Scanning.
//
// See: https://docs.oasis-open.org/sarif/sarif/v2.1.0/
type SARIFReporter struct {
	writer      io.Writer
	toolName    string
	toolVersion string
	toolURI     string
}

// NewSARIFReporter creates a new SARIF reporter.
func NewSARIFReporter(w io.Writer, toolName, toolVersion, toolURI string) *SARIFReporter {
	if toolName == "" {
		toolName = defaultToolName
	}
	if toolURI == "" {
		toolURI = defaultToolURI
	}
	return &SARIFReporter{
		writer:      w,
		toolName:    toolName,
		toolVersion: toolVersion,
		toolURI:     toolURI,
	}
}

// Report implements Reporter.
func (r *SARIFReporter) Report(results []FileDiagnostics, _ map[string][]byte, _ ReportMetadata) error {
	report := sarif.NewReport()

	run := sarif.NewRunWithInformationURI(r.toolName, r.toolURI)
	if r.toolVersion != "" {
		run.Tool.Driver.WithVersion(r.toolVersion)
	}

	ruleSet := make(map[string]protocol.Diagnostic)
	for _, res := range results {
		for _, d := range res.Diagnostics {
			if _, exists := ruleSet[d.RuleID]; !exists {
				ruleSet[d.RuleID] = d
			}
		}
		run.AddDistinctArtifact(res.URI)
	}

	ruleIDs := make([]string, 0, len(ruleSet))
	for id := range ruleSet {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	for _, id := range ruleIDs {
		d := ruleSet[id]
		rule := run.AddRule(id)
		if d.DocsURL != "" {
			rule.WithHelpURI(d.DocsURL)
		}
	}

	for _, res := range SortResults(results) {
		for _, d := range res.Diagnostics {
			result := sarif.NewRuleResult(d.RuleID).
				WithMessage(sarif.NewTextMessage(d.Message)).
				WithLevel(severityToSARIFLevel(d.Severity))

			region := sarif.NewRegion().
				WithStartLine(int(d.Range.Start.Line) + 1).
				WithStartColumn(int(d.Range.Start.Character) + 1).
				WithEndLine(int(d.Range.End.Line) + 1).
				WithEndColumn(int(d.Range.End.Character) + 1)

			physicalLocation := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(res.URI)).
				WithRegion(region)

			result.WithLocations([]*sarif.Location{
				sarif.NewLocationWithPhysicalLocation(physicalLocation),
			})

			run.AddResult(result)
		}
	}

	report.AddRun(run)
	return report.PrettyWrite(r.writer)
}

// SARIF severity levels.
const (
	sarifLevelError   = "error"
	sarifLevelWarning = "warning"
	sarifLevelNote    = "note"
)

// severityToSARIFLevel maps our severity strings to SARIF levels.
func severityToSARIFLevel(severity string) string {
	switch strings.ToLower(severity) {
	case "error":
		return sarifLevelError
	case "warn", "warning":
		return sarifLevelWarning
	case "info":
		return sarifLevelNote
	default:
		return sarifLevelWarning
	}
}
