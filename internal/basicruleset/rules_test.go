package basicruleset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forseti-sdk/forseti-sdk/internal/ruleset"
)

func TestNoTrailingWS_FlagsTrailingWhitespace(t *testing.T) {
	rs := New()
	options := ruleset.RuleOptions{"no-trailing-ws": {}}

	diags := ruleset.RunRuleset("file:///a.txt", "clean line\ntrailing space \nclean again", rs, options, nil)

	require.Len(t, diags, 1)
	assert.Equal(t, "no-trailing-ws", diags[0].RuleID)
	assert.Equal(t, "warn", diags[0].Severity)
	assert.EqualValues(t, 1, diags[0].Range.Start.Line)
}

func TestNoTrailingWS_CleanTextNoDiagnostics(t *testing.T) {
	rs := New()
	options := ruleset.RuleOptions{"no-trailing-ws": {}}

	diags := ruleset.RunRuleset("file:///a.txt", "one\ntwo\nthree", rs, options, nil)

	assert.Empty(t, diags)
}

func TestNoTrailingWS_DisabledWhenOmittedFromOptions(t *testing.T) {
	rs := New()
	diags := ruleset.RunRuleset("file:///a.txt", "trailing \n", rs, ruleset.RuleOptions{}, nil)
	assert.Empty(t, diags)
}

func TestOptions_GetDefaultConfig(t *testing.T) {
	opts := NewOptions()
	cfg := opts.GetDefaultConfig()

	require.NotNil(t, cfg.Enabled)
	assert.True(t, *cfg.Enabled)
	assert.Contains(t, cfg.Rulesets, RulesetID)
}

func TestOptions_LoadRuleset(t *testing.T) {
	opts := NewOptions()
	rs, err := opts.LoadRuleset(RulesetID)
	require.NoError(t, err)
	assert.Equal(t, RulesetID, rs.ID)
	assert.Len(t, rs.Rules, 1)
}

func TestOptions_LoadRuleset_UnknownID(t *testing.T) {
	opts := NewOptions()
	_, err := opts.LoadRuleset("nope")
	assert.Error(t, err)
}

func TestOptions_RulesetCapabilities(t *testing.T) {
	opts := NewOptions()
	caps, err := opts.RulesetCapabilities(RulesetID)
	require.NoError(t, err)
	assert.Equal(t, RulesetID, caps.RulesetID)
	require.Len(t, caps.Rules, 1)
	assert.Equal(t, "no-trailing-ws", caps.Rules[0].ID)
}

func TestOptions_ListRulesets(t *testing.T) {
	opts := NewOptions()
	assert.Equal(t, []string{RulesetID}, opts.ListRulesets())
}

func TestOptions_PreprocessFiles(t *testing.T) {
	opts := NewOptions()
	pc, err := opts.PreprocessFiles([]string{"file:///a", "file:///b"})
	require.NoError(t, err)
	assert.Equal(t, RulesetID, pc.RulesetID)
	require.Len(t, pc.Files, 2)
	assert.Equal(t, "file:///a", pc.Files[0].URI)
}
