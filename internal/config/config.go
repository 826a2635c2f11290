// Package config parses and merges Forseti-SDK configuration: the TOML
// [linter]/[ruleset.<id>] schema, its environment variable override layer,
// and the per-rule settings tri-form.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// LogLevel is the accepted set of linter.log_level values.
type LogLevel string

const (
	LogLevelTrace LogLevel = "trace"
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// OutputFormat is the accepted set of linter.output_format values.
type OutputFormat string

const (
	OutputFormatJSON   OutputFormat = "json"
	OutputFormatNDJSON OutputFormat = "ndjson"
	OutputFormatText   OutputFormat = "text"
	OutputFormatSARIF  OutputFormat = "sarif"
)

// LinterConfig is the [linter] table.
type LinterConfig struct {
	LogLevel     LogLevel     `koanf:"log_level"`
	OutputFormat OutputFormat `koanf:"output_format"`
	Parallelism  uint16       `koanf:"parallelism"`
	FailOnError  bool         `koanf:"fail_on_error"`
}

// RulesetConfig is one [ruleset.<id>] table. Git and Path are mutually
// exclusive source selectors; neither set means "from cache".
type RulesetConfig struct {
	Enabled bool           `koanf:"enabled"`
	Config  map[string]any `koanf:"config"`
	Git     *string        `koanf:"git"`
	Path    *string        `koanf:"path"`
}

// DefaultRulesetConfig returns the defaults applied to a ruleset id that is
// mentioned (e.g. via FORSETI_RULESET_IDS) but has no explicit table.
func DefaultRulesetConfig() RulesetConfig {
	return RulesetConfig{Enabled: true, Config: map[string]any{}}
}

// Config is the full merged configuration document.
type Config struct {
	Linter     LinterConfig             `koanf:"linter"`
	Ruleset    map[string]RulesetConfig `koanf:"ruleset"`
	ConfigFile string                   `koanf:"-"`
}

// Default returns the built-in default configuration.
func Default() Config {
	return Config{
		Linter: LinterConfig{
			LogLevel:     LogLevelInfo,
			OutputFormat: OutputFormatJSON,
			Parallelism:  0,
			FailOnError:  true,
		},
		Ruleset: map[string]RulesetConfig{},
	}
}

var knownTopLevelKeys = map[string]struct{}{
	"linter":  {},
	"ruleset": {},
}

// LoadFromPath loads configuration layered as: built-in defaults → TOML file
// at path (if non-empty) → environment overrides (see ApplyEnvOverrides).
// Unknown top-level keys in the TOML document are rejected; unknown keys
// inside a ruleset's own config table are permitted (the ruleset interprets
// them).
func LoadFromPath(path string, getenv func(string) string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load config defaults: %w", err)
	}

	if path != "" {
		if err := validateTopLevelKeys(path); err != nil {
			return nil, err
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.ConfigFile = path
	backfillRulesetEnabledDefaults(k, cfg)

	ApplyEnvOverrides(cfg, getenv)

	return cfg, nil
}

// backfillRulesetEnabledDefaults restores the enabled-by-default rule for
// any [ruleset.<id>] table present in the document that omitted the
// "enabled" key: koanf's Unmarshal leaves RulesetConfig.Enabled at its Go
// zero value (false) in that case, rather than the spec's documented
// default of true.
func backfillRulesetEnabledDefaults(k *koanf.Koanf, cfg *Config) {
	for id, rc := range cfg.Ruleset {
		if !k.Exists("ruleset." + id + ".enabled") {
			rc.Enabled = true
			cfg.Ruleset[id] = rc
		}
	}
}

func validateTopLevelKeys(path string) error {
	probe := koanf.New(".")
	if err := probe.Load(file.Provider(path), toml.Parser()); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	for _, key := range probe.Keys() {
		top, _, _ := strings.Cut(key, ".")
		if _, ok := knownTopLevelKeys[top]; !ok {
			return fmt.Errorf("config file %s: unknown top-level key %q", path, top)
		}
	}
	return nil
}
