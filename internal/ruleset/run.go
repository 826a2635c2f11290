package ruleset

import (
	"strings"

	"github.com/forseti-sdk/forseti-sdk/internal/annotation"
	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// RuleOptions maps a rule id to its resolved options object, as produced by
// config.ResolveRuleOptions from the per-rule tri-form settings. A rule id
// absent from this map is disabled: its Check is never called.
type RuleOptions map[string]map[string]any

// RunRuleset runs every enabled rule of rs, in declaration order, against a
// single file's text and returns the concatenated diagnostics. parser may be
// nil, in which case no annotation masking is applied.
func RunRuleset(uri, text string, rs *Ruleset, options RuleOptions, parser *annotation.Parser) []protocol.Diagnostic {
	var annotations []annotation.Annotation
	if parser != nil {
		annotations = parser.Parse(text)
	}

	var all []protocol.Diagnostic
	for _, rule := range rs.Rules {
		opts, enabled := options[rule.ID()]
		if !enabled {
			continue
		}
		ctx := NewRuleContext(uri, text, opts, annotations)
		rule.Check(ctx)
		all = append(all, ctx.Diagnostics()...)
	}
	return all
}

// FileLoader reads the content referenced by a file URI on demand, used by
// RunWithContext when a FileContext arrives with empty content.
type FileLoader func(uri string) (string, error)

// RunWithContext is the PreprocessingContext-driven entry point: it runs rs
// over every file in pc.Files, loading content via load when a FileContext's
// Content is empty. It returns one concatenated diagnostics slice per file,
// keyed by file URI.
func RunWithContext(pc protocol.PreprocessingContext, rs *Ruleset, options RuleOptions, parser *annotation.Parser, load FileLoader) (map[string][]protocol.Diagnostic, error) {
	results := make(map[string][]protocol.Diagnostic, len(pc.Files))
	for _, fc := range pc.Files {
		content := fc.Content
		if content == "" && load != nil {
			loaded, err := load(fc.URI)
			if err != nil {
				return nil, err
			}
			content = loaded
		}
		results[fc.URI] = RunRuleset(fc.URI, content, rs, options, parser)
	}
	return results, nil
}

// DefaultFileLoader strips a "file://" scheme prefix (if present) and reads
// the result from disk, via the supplied read function (injected so callers
// can avoid a direct os dependency in tests).
func DefaultFileLoader(read func(path string) ([]byte, error)) FileLoader {
	return func(uri string) (string, error) {
		path := strings.TrimPrefix(uri, "file://")
		data, err := read(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}
