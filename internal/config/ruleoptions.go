package config

import "github.com/forseti-sdk/forseti-sdk/internal/ruleset"

// ResolveRuleOptions turns one ruleset's raw per-rule settings object (the
// JSON value stored in EngineConfig.Rulesets[id]) into the resolved
// RuleOptions map the ruleset runtime dispatches against, applying the
// four-way tri-form:
//
//	"off"        -> disabled, omitted from the result
//	any string   -> enabled, empty options (the string is a severity hint)
//	[level, opts] -> disabled if level=="off", else enabled with opts
//	{...}        -> enabled with that object as options
func ResolveRuleOptions(raw map[string]any) ruleset.RuleOptions {
	resolved := make(ruleset.RuleOptions, len(raw))
	for ruleID, setting := range raw {
		switch v := setting.(type) {
		case string:
			if v == "off" {
				continue
			}
			resolved[ruleID] = map[string]any{}
		case []any:
			level, opts := tupleParts(v)
			if level == "off" {
				continue
			}
			resolved[ruleID] = opts
		case map[string]any:
			resolved[ruleID] = v
		default:
			// Unrecognized shapes are treated as enabled with no options,
			// matching the "any other string" branch's intent of being
			// permissive rather than rejecting the settings document.
			resolved[ruleID] = map[string]any{}
		}
	}
	return resolved
}

func tupleParts(v []any) (level string, opts map[string]any) {
	opts = map[string]any{}
	if len(v) > 0 {
		if s, ok := v[0].(string); ok {
			level = s
		}
	}
	if len(v) > 1 {
		if m, ok := v[1].(map[string]any); ok {
			opts = m
		}
	}
	return level, opts
}
