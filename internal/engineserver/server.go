// Package engineserver implements the engine-side half of the protocol: a
// blocking NDJSON read loop over stdin dispatching to the ruleset runtime,
// with the Uninitialized → Initialized → Shutdown state machine.
package engineserver

import (
	"errors"
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/forseti-sdk/forseti-sdk/internal/annotation"
	"github.com/forseti-sdk/forseti-sdk/internal/config"
	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
	"github.com/forseti-sdk/forseti-sdk/internal/ruleset"
)

// EngineOptions is the external collaborator an engine binary supplies: it
// knows which rulesets exist and how to build/describe them. The protocol
// core is insulated from how these are implemented (closed sum type, lookup
// table, whatever fits the engine).
type EngineOptions interface {
	// GetDefaultConfig returns the EngineConfig an engine would use with no
	// host-supplied overrides at all.
	GetDefaultConfig() protocol.EngineConfig
	// LoadRuleset builds the named ruleset. An error aborts initialize.
	LoadRuleset(id string) (*ruleset.Ruleset, error)
	// RulesetCapabilities describes the named ruleset for getCapabilities.
	RulesetCapabilities(id string) (protocol.RulesetCapabilities, error)
	// ListRulesets returns every ruleset id this engine knows how to load,
	// regardless of whether it is currently enabled.
	ListRulesets() []string
	// PreprocessFiles builds a PreprocessingContext for the given file URIs.
	PreprocessFiles(fileURIs []string) (protocol.PreprocessingContext, error)
}

type state int

const (
	stateUninitialized state = iota
	stateInitialized
	stateShutdown
)

type loadedRuleset struct {
	ruleset      *ruleset.Ruleset
	options      ruleset.RuleOptions
	capabilities protocol.RulesetCapabilities
}

// Server runs the NDJSON dispatch loop for one engine process.
type Server struct {
	opts   EngineOptions
	out    *protocol.Writer
	logger *logrus.Logger

	mu     sync.Mutex
	state  state
	loaded map[string]loadedRuleset
}

// New builds a Server writing responses/events to out. logger may be nil, in
// which case a default logrus logger writing to stderr is used.
func New(opts EngineOptions, out io.Writer, logger *logrus.Logger) *Server {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		opts:   opts,
		out:    protocol.NewWriter(out),
		logger: logger,
		state:  stateUninitialized,
		loaded: make(map[string]loadedRuleset),
	}
}

// RunStdio runs the blocking read loop over in until the peer closes the
// pipe or the engine receives shutdown.
func (s *Server) RunStdio(in io.Reader) error {
	reader := protocol.NewReader(in)
	for {
		env, err := reader.ReadEnvelope()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			s.logWarn("malformed NDJSON line: " + err.Error())
			continue
		}

		if env.V != protocol.ProtocolVersion {
			s.logWarn("unsupported protocol version")
		}

		s.dispatch(env)

		s.mu.Lock()
		done := s.state == stateShutdown
		s.mu.Unlock()
		if done {
			return nil
		}
	}
}

func (s *Server) dispatch(env protocol.Envelope) {
	switch env.Type {
	case protocol.TypeInitialize:
		s.handleInitialize(env)
	case protocol.TypeShutdown:
		s.handleShutdown(env)
	case protocol.TypeGetDefaultConfig:
		s.handleGetDefaultConfig(env)
	case protocol.TypeGetCapabilities:
		s.handleGetCapabilities(env)
	case protocol.TypePreprocessFiles:
		s.handlePreprocessFiles(env)
	case protocol.TypeAnalyzeFile:
		s.handleAnalyzeFile(env)
	default:
		s.logWarn("unhandled message type: " + env.Type)
	}
}

func (s *Server) handleInitialize(env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.InitializePayload](env)
	if err != nil {
		s.respondError(env, protocol.TypeInitialize, "invalid payload: "+err.Error())
		return
	}

	defaults := s.opts.GetDefaultConfig()
	merged := config.MergeEngineConfig(defaults, payload.EngineConfig)

	newLoaded := make(map[string]loadedRuleset, len(merged.Rulesets))
	for rulesetID, rawSettings := range merged.Rulesets {
		rs, err := s.opts.LoadRuleset(rulesetID)
		if err != nil {
			s.respondError(env, protocol.TypeInitialize, err.Error())
			return
		}
		caps, err := s.opts.RulesetCapabilities(rulesetID)
		if err != nil {
			s.respondError(env, protocol.TypeInitialize, err.Error())
			return
		}

		settingsMap, _ := rawSettings.(map[string]any)
		newLoaded[rulesetID] = loadedRuleset{
			ruleset:      rs,
			options:      config.ResolveRuleOptions(settingsMap),
			capabilities: caps,
		}
	}

	s.send(protocol.NewResponse(env.ID, protocol.TypeInitialize, protocol.Success()))

	s.mu.Lock()
	s.loaded = newLoaded
	s.state = stateInitialized
	s.mu.Unlock()
}

func (s *Server) handleShutdown(env protocol.Envelope) {
	s.mu.Lock()
	s.state = stateShutdown
	s.loaded = make(map[string]loadedRuleset)
	s.mu.Unlock()

	s.send(protocol.NewResponse(env.ID, protocol.TypeShutdown, protocol.Success()))
}

func (s *Server) handleGetDefaultConfig(env protocol.Envelope) {
	s.send(protocol.NewResponse(env.ID, protocol.TypeGetDefaultConfig, s.opts.GetDefaultConfig()))
}

func (s *Server) handleGetCapabilities(env protocol.Envelope) {
	ids := s.opts.ListRulesets()

	aggregate := protocol.RulesetCapabilities{
		DefaultConfig: map[string]any{},
	}
	seenPattern := map[string]bool{}
	seenPrefix := map[string]bool{}

	for _, id := range ids {
		caps, err := s.opts.RulesetCapabilities(id)
		if err != nil {
			s.respondError(env, protocol.TypeGetCapabilities, err.Error())
			return
		}
		if aggregate.RulesetID == "" {
			aggregate.RulesetID = caps.RulesetID
			aggregate.Version = caps.Version
		}
		aggregate.Rules = append(aggregate.Rules, caps.Rules...)
		aggregate.ConfigSettings = append(aggregate.ConfigSettings, caps.ConfigSettings...)
		for k, v := range caps.DefaultConfig {
			aggregate.DefaultConfig[k] = v
		}
		for _, p := range caps.FilePatterns {
			if !seenPattern[p] {
				seenPattern[p] = true
				aggregate.FilePatterns = append(aggregate.FilePatterns, p)
			}
		}
		for _, p := range caps.AnnotationPrefixes {
			if !seenPrefix[p] {
				seenPrefix[p] = true
				aggregate.AnnotationPrefixes = append(aggregate.AnnotationPrefixes, p)
			}
		}
	}

	s.send(protocol.NewResponse(env.ID, protocol.TypeGetCapabilities, aggregate))
}

func (s *Server) handlePreprocessFiles(env protocol.Envelope) {
	payload, err := protocol.DecodePayload[protocol.PreprocessFilesPayload](env)
	if err != nil {
		s.respondError(env, protocol.TypePreprocessFiles, "invalid payload: "+err.Error())
		return
	}

	pc, err := s.opts.PreprocessFiles(payload.FileURIs)
	if err != nil {
		s.respondError(env, protocol.TypePreprocessFiles, err.Error())
		return
	}

	s.send(protocol.NewResponse(env.ID, protocol.TypePreprocessFiles, pc))
}

func (s *Server) handleAnalyzeFile(env protocol.Envelope) {
	s.mu.Lock()
	initialized := s.state == stateInitialized
	loadedSnapshot := s.loaded
	s.mu.Unlock()

	if !initialized {
		s.send(protocol.NewResponse(env.ID, protocol.TypeAnalyzeFile, protocol.Failure("not_initialized")))
		return
	}

	payload, err := protocol.DecodePayload[protocol.AnalyzeFilePayload](env)
	if err != nil {
		s.respondError(env, protocol.TypeAnalyzeFile, "invalid payload: "+err.Error())
		return
	}

	var diagnostics []protocol.Diagnostic
	for _, lr := range loadedSnapshot {
		var parser *annotation.Parser
		if len(lr.capabilities.AnnotationPrefixes) > 0 {
			parser = annotation.NewParser(lr.capabilities.AnnotationPrefixes)
		}
		diagnostics = append(diagnostics,
			ruleset.RunRuleset(payload.URI, payload.Content, lr.ruleset, lr.options, parser)...)
	}
	if diagnostics == nil {
		diagnostics = []protocol.Diagnostic{}
	}

	s.send(protocol.NewEvent(protocol.TypeDiagnostics, protocol.DiagnosticsEventPayload{
		URI:         payload.URI,
		Diagnostics: diagnostics,
	}))
	s.send(protocol.NewResponse(env.ID, protocol.TypeAnalyzeFile, protocol.Success()))
}

func (s *Server) respondError(env protocol.Envelope, typ, reason string) {
	s.send(protocol.NewResponse(env.ID, typ, protocol.Failure(reason)))
}

func (s *Server) send(env protocol.Envelope, err error) {
	if err != nil {
		s.logWarn("build envelope: " + err.Error())
		return
	}
	if sendErr := s.out.Send(env); sendErr != nil {
		s.logger.WithError(sendErr).Warn("failed to write envelope")
	}
}

func (s *Server) logWarn(message string) {
	s.logger.Warn(message)
	s.send(protocol.NewEvent(protocol.TypeLog, protocol.LogEventPayload{Level: "warn", Message: message}))
}
