package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.Linter.LogLevel)
	assert.Equal(t, OutputFormatJSON, cfg.Linter.OutputFormat)
	assert.Equal(t, uint16(0), cfg.Linter.Parallelism)
	assert.True(t, cfg.Linter.FailOnError)
}

func TestLoadFromPath_NoFile_ReturnsDefaults(t *testing.T) {
	cfg, err := LoadFromPath("", noEnv)
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.Linter.LogLevel)
}

func TestLoadFromPath_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forseti.toml")
	contents := `
[linter]
log_level = "debug"
output_format = "sarif"

[ruleset.basic]
enabled = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFromPath(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.Linter.LogLevel)
	assert.Equal(t, OutputFormatSARIF, cfg.Linter.OutputFormat)
	require.Contains(t, cfg.Ruleset, "basic")
	assert.True(t, cfg.Ruleset["basic"].Enabled)
}

func TestLoadFromPath_RulesetTableWithoutEnabledDefaultsTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forseti.toml")
	contents := `
[ruleset.basic]
path = "./rulesets/basic"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFromPath(path, noEnv)
	require.NoError(t, err)
	require.Contains(t, cfg.Ruleset, "basic")
	assert.True(t, cfg.Ruleset["basic"].Enabled)
	require.NotNil(t, cfg.Ruleset["basic"].Path)
	assert.Equal(t, "./rulesets/basic", *cfg.Ruleset["basic"].Path)
}

func TestLoadFromPath_RejectsUnknownTopLevelKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forseti.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bogus]\nx = 1\n"), 0o644))

	_, err := LoadFromPath(path, noEnv)
	require.Error(t, err)
}

func TestLoadFromPath_AllowsUnknownKeysInsideRulesetConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "forseti.toml")
	contents := `
[ruleset.basic]
enabled = true

[ruleset.basic.config]
anything-the-ruleset-wants = true
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg, err := LoadFromPath(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, true, cfg.Ruleset["basic"].Config["anything-the-ruleset-wants"])
}
