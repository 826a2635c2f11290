package basicruleset

import (
	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
	"github.com/forseti-sdk/forseti-sdk/internal/ruleset"
)

// EngineVersion is reported in capability/version responses for this
// reference engine.
const EngineVersion = "1.0.0"

// Options implements internal/engineserver.EngineOptions against the
// "basic" ruleset. It is the whole of forseti_engine_basic's domain logic.
type Options struct {
	registry *ruleset.Registry
}

// NewOptions builds an Options with the "basic" ruleset registered.
func NewOptions() *Options {
	reg := ruleset.NewRegistry()
	reg.Register(RulesetID, func(string) (*ruleset.Ruleset, error) {
		return New(), nil
	})
	return &Options{registry: reg}
}

func (o *Options) GetDefaultConfig() protocol.EngineConfig {
	enabled := true
	return protocol.EngineConfig{
		Enabled: &enabled,
		Rulesets: map[string]any{
			RulesetID: map[string]any{"no-trailing-ws": "warn"},
		},
	}
}

func (o *Options) LoadRuleset(id string) (*ruleset.Ruleset, error) {
	return o.registry.Load(id)
}

func (o *Options) RulesetCapabilities(id string) (protocol.RulesetCapabilities, error) {
	rs, err := o.registry.Load(id)
	if err != nil {
		return protocol.RulesetCapabilities{}, err
	}
	return ruleset.Capabilities(rs, EngineVersion, []string{"*"}, []string{"//", "#"}), nil
}

func (o *Options) ListRulesets() []string {
	return o.registry.IDs()
}

// PreprocessFiles builds a trivial PreprocessingContext: every file is
// routed to the "basic" ruleset with content loaded lazily by the caller
// (forsetictl reads file content directly and sends it via analyzeFile, so
// this engine never needs disk access of its own).
func (o *Options) PreprocessFiles(fileURIs []string) (protocol.PreprocessingContext, error) {
	files := make([]protocol.FileContext, 0, len(fileURIs))
	for _, uri := range fileURIs {
		files = append(files, protocol.FileContext{URI: uri})
	}
	return protocol.PreprocessingContext{RulesetID: RulesetID, Files: files}, nil
}
