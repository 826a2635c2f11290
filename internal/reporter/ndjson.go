package reporter

import (
	"io"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// NDJSONReporter replays results as the same "diagnostics" event envelopes
// an engine emits over the wire, one per file, so NDJSON output files are
// byte-for-byte consistent with what a host sees live.
type NDJSONReporter struct {
	writer *protocol.Writer
}

// NewNDJSONReporter creates a new NDJSON reporter writing to w.
func NewNDJSONReporter(w io.Writer) *NDJSONReporter {
	return &NDJSONReporter{writer: protocol.NewWriter(w)}
}

// Report implements Reporter.
func (r *NDJSONReporter) Report(results []FileDiagnostics, _ map[string][]byte, _ ReportMetadata) error {
	for _, res := range SortResults(results) {
		env, err := protocol.NewEvent(protocol.TypeDiagnostics, protocol.DiagnosticsEventPayload{
			URI:         res.URI,
			Diagnostics: res.Diagnostics,
		})
		if err != nil {
			return err
		}
		if err := r.writer.Send(env); err != nil {
			return err
		}
	}
	return nil
}
