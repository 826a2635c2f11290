package protocol

// Operation type names carried in Envelope.Type.
const (
	TypeInitialize       = "initialize"
	TypeShutdown         = "shutdown"
	TypeGetDefaultConfig = "getDefaultConfig"
	TypeGetCapabilities  = "getCapabilities"
	TypePreprocessFiles  = "preprocessFiles"
	TypeAnalyzeFile      = "analyzeFile"
	TypeDiagnostics      = "diagnostics"
	TypeLog              = "log"
)

// EngineConfig is the host-supplied configuration for one engine:
// whether it is enabled, and per-ruleset settings objects keyed by ruleset id.
type EngineConfig struct {
	Enabled  *bool          `json:"enabled,omitempty"`
	Rulesets map[string]any `json:"rulesets,omitempty"`
}

// InitializePayload is the request payload for "initialize".
type InitializePayload struct {
	EngineID      string       `json:"engineId,omitempty"`
	WorkspaceRoot string       `json:"workspaceRoot,omitempty"`
	EngineConfig  EngineConfig `json:"engineConfig"`
}

// AnalyzeFilePayload is the request payload for "analyzeFile".
type AnalyzeFilePayload struct {
	URI     string `json:"uri"`
	Content string `json:"content"`
}

// DiagnosticsEventPayload is the payload of the "diagnostics" event.
type DiagnosticsEventPayload struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// PreprocessFilesPayload is the request payload for "preprocessFiles".
type PreprocessFilesPayload struct {
	FileURIs []string `json:"fileUris"`
}

// LogEventPayload is the payload of the "log" event.
type LogEventPayload struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// Position is a zero-based line/character location.
type Position struct {
	Line      uint32 `json:"line"`
	Character uint32 `json:"character"`
}

// Range is a half-open span expressed with two Positions.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Fix is a single text replacement over a Range.
type Fix struct {
	Range Range  `json:"range"`
	Text  string `json:"text"`
}

// SuggestFix pairs a human-readable title with an optional mechanical Fix.
type SuggestFix struct {
	Title string `json:"title"`
	Fix   *Fix   `json:"fix,omitempty"`
}

// Diagnostic is a single reported issue from a rule.
type Diagnostic struct {
	RuleID   string       `json:"rule_id"`
	Message  string       `json:"message"`
	Severity string       `json:"severity"`
	Range    Range        `json:"range"`
	Code     string       `json:"code,omitempty"`
	Suggest  []SuggestFix `json:"suggest,omitempty"`
	DocsURL  string       `json:"docs_url,omitempty"`
}

// RuleInfo describes one rule for capability reporting.
type RuleInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
}

// ConfigSettingType enumerates the accepted types for a ConfigSetting.
type ConfigSettingType string

const (
	ConfigSettingString  ConfigSettingType = "string"
	ConfigSettingNumber  ConfigSettingType = "number"
	ConfigSettingInteger ConfigSettingType = "integer"
	ConfigSettingBoolean ConfigSettingType = "boolean"
	ConfigSettingArray   ConfigSettingType = "array"
	ConfigSettingObject  ConfigSettingType = "object"
	ConfigSettingEnum    ConfigSettingType = "enum"
)

// ConfigSetting documents one configurable option a ruleset or rule exposes.
type ConfigSetting struct {
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Type          ConfigSettingType `json:"type"`
	Default       any               `json:"default"`
	Required      bool              `json:"required"`
	AllowedValues []any             `json:"allowed_values,omitempty"`
	Min           *float64          `json:"min,omitempty"`
	Max           *float64          `json:"max,omitempty"`
}

// RulesetCapabilities is the full description of what a ruleset offers,
// returned (aggregated across all known rulesets) by "getCapabilities".
type RulesetCapabilities struct {
	RulesetID          string          `json:"ruleset_id"`
	Version            string          `json:"version,omitempty"`
	FilePatterns       []string        `json:"file_patterns"`
	MaxFileSize        *uint64         `json:"max_file_size,omitempty"`
	AnnotationPrefixes []string        `json:"annotation_prefixes"`
	Rules              []RuleInfo      `json:"rules"`
	DefaultConfig      map[string]any  `json:"default_config"`
	ConfigSettings     []ConfigSetting `json:"config_settings"`
}

// FileContext is one file's content and metadata within a PreprocessingContext.
type FileContext struct {
	URI      string         `json:"uri"`
	Content  string         `json:"content"`
	Language string         `json:"language,omitempty"`
	Context  map[string]any `json:"context,omitempty"`
}

// PreprocessingContext is the response payload for "preprocessFiles".
type PreprocessingContext struct {
	RulesetID     string         `json:"ruleset_id"`
	Files         []FileContext  `json:"files"`
	GlobalContext map[string]any `json:"global_context,omitempty"`
}
