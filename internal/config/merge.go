package config

import "github.com/forseti-sdk/forseti-sdk/internal/protocol"

// MergeEngineConfig implements the canonical EngineConfig merge rule:
// Enabled uses user ?? default ?? true; Rulesets is a shallow merge where
// user keys win and missing keys keep the default's value. Rule options
// inside a ruleset's settings object are not deep-merged — a user-supplied
// ruleset entry replaces the default entry for that ruleset id wholesale.
func MergeEngineConfig(defaults, user protocol.EngineConfig) protocol.EngineConfig {
	merged := protocol.EngineConfig{
		Rulesets: make(map[string]any, len(defaults.Rulesets)+len(user.Rulesets)),
	}

	switch {
	case user.Enabled != nil:
		merged.Enabled = user.Enabled
	case defaults.Enabled != nil:
		merged.Enabled = defaults.Enabled
	default:
		enabled := true
		merged.Enabled = &enabled
	}

	for k, v := range defaults.Rulesets {
		merged.Rulesets[k] = v
	}
	for k, v := range user.Rulesets {
		merged.Rulesets[k] = v
	}

	return merged
}
