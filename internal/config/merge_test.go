package config

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

func boolPtr(b bool) *bool { return &b }

func TestMergeEngineConfig_Identity(t *testing.T) {
	defaults := protocol.EngineConfig{
		Enabled:  boolPtr(true),
		Rulesets: map[string]any{"basic": map[string]any{"no-trailing-ws": "warn"}},
	}

	merged := MergeEngineConfig(defaults, protocol.EngineConfig{})

	assert.True(t, *merged.Enabled)
	assert.Equal(t, defaults.Rulesets, merged.Rulesets)
}

func TestMergeEngineConfig_EnabledDefaultsToTrueWhenNeitherSet(t *testing.T) {
	merged := MergeEngineConfig(protocol.EngineConfig{}, protocol.EngineConfig{})
	assert.True(t, *merged.Enabled)
}

func TestMergeEngineConfig_UserOverridesEnabled(t *testing.T) {
	defaults := protocol.EngineConfig{Enabled: boolPtr(true)}
	user := protocol.EngineConfig{Enabled: boolPtr(false)}

	merged := MergeEngineConfig(defaults, user)
	assert.False(t, *merged.Enabled)
}

func TestMergeEngineConfig_RulesetsShallowMergeUserWins(t *testing.T) {
	defaults := protocol.EngineConfig{
		Rulesets: map[string]any{
			"basic": map[string]any{"no-trailing-ws": "warn"},
			"extra": map[string]any{"some-rule": "off"},
		},
	}
	user := protocol.EngineConfig{
		Rulesets: map[string]any{
			"basic": map[string]any{"no-trailing-ws": "error"},
		},
	}

	merged := MergeEngineConfig(defaults, user)

	assert.Equal(t, map[string]any{"no-trailing-ws": "error"}, merged.Rulesets["basic"])
	assert.Equal(t, map[string]any{"some-rule": "off"}, merged.Rulesets["extra"])
}
