package ruleset

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// Capabilities builds the RulesetCapabilities payload for rs: one RuleInfo
// per rule, plus a "off"|"warn"|"error" ConfigSetting for each rule, per
// getCapabilities's requirement that every rule's enable/severity knob be
// self-describing.
func Capabilities(rs *Ruleset, version string, filePatterns, annotationPrefixes []string) protocol.RulesetCapabilities {
	if len(filePatterns) == 0 {
		filePatterns = []string{"*"}
	}

	rules := make([]protocol.RuleInfo, 0, len(rs.Rules))
	settings := make([]protocol.ConfigSetting, 0, len(rs.Rules))
	defaults := make(map[string]any, len(rs.Rules))

	for _, rule := range rs.Rules {
		rules = append(rules, protocol.RuleInfo{ID: rule.ID(), Description: rule.Description()})
		defaultVal := rule.DefaultConfig()
		defaults[rule.ID()] = defaultVal
		settings = append(settings, protocol.ConfigSetting{
			Name:          rule.ID(),
			Description:   fmt.Sprintf("enable/severity for rule %q", rule.ID()),
			Type:          protocol.ConfigSettingEnum,
			Default:       defaultVal,
			Required:      false,
			AllowedValues: []any{"off", "warn", "error"},
		})
	}

	return protocol.RulesetCapabilities{
		RulesetID:          rs.ID,
		Version:            version,
		FilePatterns:       filePatterns,
		AnnotationPrefixes: annotationPrefixes,
		Rules:              rules,
		DefaultConfig:      defaults,
		ConfigSettings:     settings,
	}
}

// MatchesAnyPattern reports whether path matches at least one of patterns,
// using the same glob dialect engine binary/file discovery uses.
func MatchesAnyPattern(path string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, path); ok {
			return true
		}
	}
	return false
}
