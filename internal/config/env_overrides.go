package config

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EnvPrefix is the environment variable namespace all overrides live under.
const EnvPrefix = "FORSETI_"

// ApplyEnvOverrides mutates cfg in place per the §4.2 environment override
// table. Every override is best-effort: an unparseable or missing value
// leaves the prior value untouched rather than erroring. getenv is injected
// (rather than reading os.Getenv directly) so callers can test the override
// logic without touching real process environment.
func ApplyEnvOverrides(cfg *Config, getenv func(string) string) {
	if v := getenv("FORSETI_LINTER_LOG_LEVEL"); v != "" {
		if lvl, ok := parseLogLevel(v); ok {
			cfg.Linter.LogLevel = lvl
		}
	}
	if v := getenv("FORSETI_LINTER_OUTPUT_FORMAT"); v != "" {
		if fmt, ok := parseOutputFormat(v); ok {
			cfg.Linter.OutputFormat = fmt
		}
	}
	if v := getenv("FORSETI_LINTER_PARALLELISM"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 16); err == nil {
			cfg.Linter.Parallelism = uint16(n)
		}
	}
	if v := getenv("FORSETI_LINTER_FAIL_ON_ERROR"); v != "" {
		if b, ok := parseBool(v); ok {
			cfg.Linter.FailOnError = b
		}
	}

	if cfg.Ruleset == nil {
		cfg.Ruleset = map[string]RulesetConfig{}
	}

	if v := getenv("FORSETI_RULESET_IDS"); v != "" {
		for _, id := range parseCSVIDs(v) {
			if _, exists := cfg.Ruleset[id]; !exists {
				cfg.Ruleset[id] = DefaultRulesetConfig()
			}
		}
	}

	for id, rc := range cfg.Ruleset {
		upper := upperID(id)

		if v := getenv("FORSETI_RULESET_" + upper + "_ENABLED"); v != "" {
			if b, ok := parseBool(v); ok {
				rc.Enabled = b
			}
		}

		if v := getenv("FORSETI_RULESET_" + upper + "_CONFIG_JSON"); v != "" {
			if obj, ok := parseJSONObject(v); ok {
				if rc.Config == nil {
					rc.Config = map[string]any{}
				}
				mergeJSONObjectIntoTable(rc.Config, obj)
			}
		}

		cfg.Ruleset[id] = rc
	}
}

func parseLogLevel(s string) (LogLevel, bool) {
	switch LogLevel(s) {
	case LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return LogLevel(s), true
	default:
		return "", false
	}
}

func parseOutputFormat(s string) (OutputFormat, bool) {
	switch OutputFormat(s) {
	case OutputFormatJSON, OutputFormatNDJSON, OutputFormatText, OutputFormatSARIF:
		return OutputFormat(s), true
	default:
		return "", false
	}
}

// parseBool accepts "1/0/true/false/yes/no/on/off", case-insensitively.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

func parseCSVIDs(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			ids = append(ids, trimmed)
		}
	}
	return ids
}

// upperID replaces every character that is not an ASCII letter or digit with
// a single '_', then uppercases,
// matching the original env var naming transform exactly.
func upperID(id string) string {
	var b strings.Builder
	for _, r := range id {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return strings.ToUpper(b.String())
}

func parseJSONObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}

// mergeJSONObjectIntoTable shallow-merges obj into table: top-level keys
// overwrite. A JSON null value has no well-defined TOML representation, so
// the policy (inherited as-is, a known wart) is to store it as an empty
// string rather than reject the override.
func mergeJSONObjectIntoTable(table map[string]any, obj map[string]any) {
	for k, v := range obj {
		if v == nil {
			table[k] = ""
			continue
		}
		table[k] = v
	}
}
