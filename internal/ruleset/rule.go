// Package ruleset implements the rule dispatch runtime: given a ruleset, file
// content, per-rule options, and parsed annotations, it produces diagnostics.
package ruleset

import (
	"github.com/forseti-sdk/forseti-sdk/internal/annotation"
	"github.com/forseti-sdk/forseti-sdk/internal/lineindex"
	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// Rule is a single unit of analysis. Rules are registered into a Registry and
// composed into a Ruleset.
type Rule interface {
	// ID is the rule's stable identifier, e.g. "no-trailing-ws".
	ID() string
	// Description is a short human-readable summary used for capability
	// reporting.
	Description() string
	// DefaultConfig is the tri-form settings value reported for this rule in
	// capability responses. Most rules return the string "warn". It is not
	// applied at dispatch: a rule absent from the resolved options never runs.
	DefaultConfig() any
	// Check runs the rule against ctx, reporting any diagnostics via
	// ctx.Report.
	Check(ctx *RuleContext)
}

// RuleContext is the per-rule, per-file execution context. It is the single
// funnel through which diagnostics reach the aggregate result, which is what
// lets annotation masking be enforced in one place no rule can bypass.
type RuleContext struct {
	URI     string
	Text    string
	Options map[string]any

	annotations []annotation.Annotation
	lineIndex   *lineindex.Index
	diagnostics []protocol.Diagnostic
}

// NewRuleContext builds a RuleContext for one rule's invocation against one
// file. annotations is the full set parsed from text (shared across all
// rules in a ruleset run, since parsing is independent of which rule is
// running).
func NewRuleContext(uri, text string, options map[string]any, annotations []annotation.Annotation) *RuleContext {
	return &RuleContext{
		URI:         uri,
		Text:        text,
		Options:     options,
		annotations: annotations,
	}
}

// LineIndex lazily builds and caches a lineindex.Index over ctx.Text.
func (ctx *RuleContext) LineIndex() *lineindex.Index {
	if ctx.lineIndex == nil {
		ctx.lineIndex = lineindex.New([]byte(ctx.Text))
	}
	return ctx.lineIndex
}

// Report appends d to the result unless it is masked by an annotation for
// d.RuleID on d.Range.Start.Line. This is the ONLY path diagnostics take out
// of a rule; no other method on RuleContext accumulates results.
func (ctx *RuleContext) Report(d protocol.Diagnostic) {
	if annotation.ShouldIgnoreRule(ctx.annotations, d.RuleID, d.Range.Start.Line) {
		return
	}
	ctx.diagnostics = append(ctx.diagnostics, d)
}

// ReportAt is a convenience wrapper that builds a Diagnostic from byte
// offsets into ctx.Text via ctx.LineIndex, then calls Report.
func (ctx *RuleContext) ReportAt(ruleID, message string, severity Severity, startOffset, endOffset int) {
	rng := ctx.LineIndex().ToRange(startOffset, endOffset)
	ctx.Report(protocol.Diagnostic{
		RuleID:   ruleID,
		Message:  message,
		Severity: string(severity),
		Range: protocol.Range{
			Start: protocol.Position{Line: rng.Start.Line, Character: rng.Start.Character},
			End:   protocol.Position{Line: rng.End.Line, Character: rng.End.Character},
		},
	})
}

// Diagnostics returns the diagnostics accumulated so far.
func (ctx *RuleContext) Diagnostics() []protocol.Diagnostic {
	return ctx.diagnostics
}
