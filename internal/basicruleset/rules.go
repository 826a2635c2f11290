// Package basicruleset implements the reference "basic" ruleset: a single
// trailing-whitespace detector used to exercise internal/engineserver and
// internal/enginemanager end-to-end without depending on any real-world
// language grammar.
package basicruleset

import (
	"strings"

	"github.com/forseti-sdk/forseti-sdk/internal/ruleset"
)

// RulesetID is the id this package registers its ruleset under.
const RulesetID = "basic"

// noTrailingWS flags any line ending in spaces or tabs.
type noTrailingWS struct{}

func (noTrailingWS) ID() string          { return "no-trailing-ws" }
func (noTrailingWS) Description() string { return "flags trailing whitespace at the end of a line" }
func (noTrailingWS) DefaultConfig() any  { return "warn" }

func (noTrailingWS) Check(ctx *ruleset.RuleContext) {
	offset := 0
	for _, line := range strings.Split(ctx.Text, "\n") {
		trimmed := strings.TrimRight(line, " \t")
		if trimmed != line {
			ctx.ReportAt("no-trailing-ws", "trailing whitespace", ruleset.SeverityWarn,
				offset+len(trimmed), offset+len(line))
		}
		offset += len(line) + 1
	}
}

// New builds the "basic" Ruleset.
func New() *ruleset.Ruleset {
	return ruleset.New(RulesetID).WithRule(noTrailingWS{})
}
