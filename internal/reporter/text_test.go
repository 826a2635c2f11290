package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

func plainTextReporter(buf *bytes.Buffer) *TextReporter {
	noColor := false
	return NewTextReporter(TextOptions{Color: &noColor, ShowSource: true}, buf)
}

func TestTextReporter_SingleDiagnostic(t *testing.T) {
	source := []byte("FROM alpine\nRUN echo hello\nCMD [\"sh\"]")
	results := []FileDiagnostics{
		{
			URI: "Dockerfile",
			Diagnostics: []protocol.Diagnostic{
				{
					RuleID:   "TestRule",
					Message:  "Test message",
					Severity: "warn",
					Range: protocol.Range{
						Start: protocol.Position{Line: 1, Character: 0},
						End:   protocol.Position{Line: 1, Character: 14},
					},
					DocsURL: "https://example.com/rule",
				},
			},
		},
	}
	sources := map[string][]byte{"Dockerfile": source}

	var buf bytes.Buffer
	rep := plainTextReporter(&buf)
	if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "WARN: TestRule") {
		t.Errorf("Missing warn header, got:\n%s", output)
	}
	if !strings.Contains(output, "https://example.com/rule") {
		t.Errorf("Missing URL, got:\n%s", output)
	}
	if !strings.Contains(output, "Test message") {
		t.Errorf("Missing message, got:\n%s", output)
	}
	if !strings.Contains(output, "Dockerfile:2") {
		t.Errorf("Missing file:line header, got:\n%s", output)
	}
	if !strings.Contains(output, ">>>") {
		t.Errorf("Missing line marker, got:\n%s", output)
	}
}

func TestTextReporter_DifferentSeverities(t *testing.T) {
	source := []byte("FROM alpine")
	tests := []struct {
		severity string
		want     string
	}{
		{"error", "ERROR:"},
		{"warn", "WARN:"},
		{"info", "INFO:"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			results := []FileDiagnostics{
				{URI: "Dockerfile", Diagnostics: []protocol.Diagnostic{
					{RuleID: "TestRule", Message: "Test", Severity: tt.severity},
				}},
			}
			sources := map[string][]byte{"Dockerfile": source}

			var buf bytes.Buffer
			rep := plainTextReporter(&buf)
			if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
				t.Fatalf("Report failed: %v", err)
			}
			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("Expected %q in output, got:\n%s", tt.want, buf.String())
			}
		})
	}
}

func TestTextReporter_NoDocsURL(t *testing.T) {
	source := []byte("FROM alpine\nRUN echo hello")
	results := []FileDiagnostics{
		{URI: "Dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "TestRule", Message: "Test message", Severity: "warn"},
		}},
	}
	sources := map[string][]byte{"Dockerfile": source}

	var buf bytes.Buffer
	rep := plainTextReporter(&buf)
	if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if !strings.Contains(buf.String(), "WARN: TestRule\n") {
		t.Errorf("Expected 'WARN: TestRule\\n' (no URL), got:\n%s", buf.String())
	}
}

func TestTextReporter_NoSourceNoSnippet(t *testing.T) {
	results := []FileDiagnostics{
		{URI: "Dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "TestRule", Message: "issue with no source available", Severity: "warn"},
		}},
	}

	var buf bytes.Buffer
	rep := plainTextReporter(&buf)
	if err := rep.Report(results, nil, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	if strings.Contains(buf.String(), ">>>") {
		t.Errorf("Should not render a snippet without source, got:\n%s", buf.String())
	}
}

func TestTextReporter_SortedByURIThenLine(t *testing.T) {
	source := []byte("line1\nline2\nline3\nline4\nline5")
	results := []FileDiagnostics{
		{URI: "b.dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "Rule2", Message: "Second file", Severity: "warn",
				Range: protocol.Range{Start: protocol.Position{Line: 2}}},
		}},
		{URI: "a.dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "Rule3", Message: "First file, later line", Severity: "warn",
				Range: protocol.Range{Start: protocol.Position{Line: 4}}},
			{RuleID: "Rule1", Message: "First file, earlier line", Severity: "warn",
				Range: protocol.Range{Start: protocol.Position{Line: 1}}},
		}},
	}
	sources := map[string][]byte{
		"a.dockerfile": source,
		"b.dockerfile": source,
	}

	var buf bytes.Buffer
	rep := plainTextReporter(&buf)
	if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	output := buf.String()
	idx1 := strings.Index(output, "Rule1")
	idx3 := strings.Index(output, "Rule3")
	idx2 := strings.Index(output, "Rule2")

	if idx1 > idx3 {
		t.Errorf("Rule1 should come before Rule3, got:\n%s", output)
	}
	if idx3 > idx2 {
		t.Errorf("Rule3 should come before Rule2, got:\n%s", output)
	}
}

func TestTextReporter_MultiLineRangeMarksEachLine(t *testing.T) {
	source := []byte("FROM alpine\nRUN echo 1\nRUN echo 2\nRUN echo 3\nCMD [\"sh\"]")
	results := []FileDiagnostics{
		{URI: "Dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "MultiLine", Message: "Spans multiple lines", Severity: "warn",
				Range: protocol.Range{
					Start: protocol.Position{Line: 1},
					End:   protocol.Position{Line: 3},
				}},
		}},
	}
	sources := map[string][]byte{"Dockerfile": source}

	var buf bytes.Buffer
	rep := plainTextReporter(&buf)
	if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	markedCount := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if strings.Contains(line, ">>>") {
			markedCount++
		}
	}
	if markedCount != 3 {
		t.Errorf("Expected 3 marked lines, got %d:\n%s", markedCount, buf.String())
	}
}

func TestTextReporter_ColorEnabledStillPrintsContent(t *testing.T) {
	colorOn := true
	results := []FileDiagnostics{
		{URI: "Dockerfile", Diagnostics: []protocol.Diagnostic{
			{RuleID: "TestRule", Message: "Test message", Severity: "error"},
		}},
	}
	sources := map[string][]byte{"Dockerfile": []byte("FROM alpine\nRUN echo hello")}

	var buf bytes.Buffer
	rep := NewTextReporter(TextOptions{Color: &colorOn, ShowSource: true}, &buf)
	if err := rep.Report(results, sources, ReportMetadata{}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !strings.Contains(buf.String(), "TestRule") {
		t.Errorf("Missing rule id in colored output:\n%s", buf.String())
	}
}
