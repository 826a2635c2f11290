package enginemanager

import (
	"context"
	"fmt"
	"sync"
	"time"

	backoff "github.com/cenkalti/backoff/v5"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// DefaultIdleTimeout is how long an engine may sit with no exchanged
// requests before CleanupIdleEngines reaps it.
const DefaultIdleTimeout = 300 * time.Second

// Manager spawns, tracks, and tears down engine processes. One Manager
// typically serves one host/linter-run; engines are keyed by id.
type Manager struct {
	cacheDir    string
	idleTimeout time.Duration

	mu      sync.Mutex
	engines map[string]*EngineHandle
}

// NewManager builds a Manager that discovers engine binaries under
// cacheDir. idleTimeout of zero disables idle reaping.
func NewManager(cacheDir string, idleTimeout time.Duration) *Manager {
	return &Manager{
		cacheDir:    cacheDir,
		idleTimeout: idleTimeout,
		engines:     make(map[string]*EngineHandle),
	}
}

// Discover lists engine binaries available under the manager's cache dir.
func (m *Manager) Discover() ([]EngineInfo, error) {
	return DiscoverEngines(m.cacheDir)
}

// StartEngine spawns the named engine and drives the initialize handshake,
// retrying transient failures with exponential backoff. A failed initialize
// (the engine itself responding not-ok) is permanent: retrying it would not
// change the outcome.
func (m *Manager) StartEngine(ctx context.Context, info EngineInfo, engineCfg protocol.EngineConfig) (*EngineHandle, error) {
	handle, err := backoff.Retry(ctx, func() (*EngineHandle, error) {
		h, err := spawnEngine(info.ID, info.BinaryPath)
		if err != nil {
			return nil, err
		}

		if err := m.initialize(h, engineCfg); err != nil {
			_ = h.Close()
			if isPermanentInitError(err) {
				return nil, backoff.Permanent(err)
			}
			return nil, err
		}
		return h, nil
	},
		backoff.WithBackOff(newStartBackoff()),
		backoff.WithMaxTries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("enginemanager: start engine %s: %w", info.ID, err)
	}

	m.mu.Lock()
	m.engines[handle.ID] = handle
	m.mu.Unlock()

	return handle, nil
}

// initProtocolError marks an initialize failure that came back as a
// well-formed not-ok response from the engine, as opposed to a transport
// failure. Retrying it would just get the same answer.
type initProtocolError struct {
	reason string
}

func (e *initProtocolError) Error() string {
	return fmt.Sprintf("initialize rejected: %s", e.reason)
}

func isPermanentInitError(err error) bool {
	_, ok := err.(*initProtocolError)
	return ok
}

func newStartBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 2 * time.Second
	b.Multiplier = 2.0
	return b
}

func (m *Manager) initialize(h *EngineHandle, engineCfg protocol.EngineConfig) error {
	req, err := protocol.NewRequest(h.NextRequestID(), protocol.TypeInitialize, protocol.InitializePayload{
		EngineID:     h.ID,
		EngineConfig: engineCfg,
	})
	if err != nil {
		return err
	}
	if err := h.Send(req); err != nil {
		return err
	}

	res, err := h.Receive()
	if err != nil {
		return err
	}
	result, err := protocol.DecodePayload[protocol.OkResult](res)
	if err != nil {
		return err
	}
	if !result.OK {
		return &initProtocolError{reason: result.Error}
	}

	h.MarkInitialized()
	return nil
}

// AnalyzeFile sends analyzeFile to the named engine and waits for its
// diagnostics event followed by its response.
func (m *Manager) AnalyzeFile(engineID, uri, content string) ([]protocol.Diagnostic, error) {
	h, err := m.handle(engineID)
	if err != nil {
		return nil, err
	}

	req, err := protocol.NewRequest(h.NextRequestID(), protocol.TypeAnalyzeFile, protocol.AnalyzeFilePayload{
		URI:     uri,
		Content: content,
	})
	if err != nil {
		return nil, err
	}
	if err := h.Send(req); err != nil {
		return nil, err
	}

	var diagnostics []protocol.Diagnostic
	for {
		env, err := h.Receive()
		if err != nil {
			return nil, err
		}
		switch env.Kind {
		case protocol.KindEvent:
			if env.Type != protocol.TypeDiagnostics {
				continue
			}
			payload, err := protocol.DecodePayload[protocol.DiagnosticsEventPayload](env)
			if err != nil {
				return nil, err
			}
			diagnostics = payload.Diagnostics
		case protocol.KindRes:
			result, err := protocol.DecodePayload[protocol.OkResult](env)
			if err != nil {
				return nil, err
			}
			if !result.OK {
				return nil, fmt.Errorf("enginemanager: analyzeFile failed: %s", result.Error)
			}
			return diagnostics, nil
		}
	}
}

// ShutdownEngine sends shutdown to the named engine and closes its process.
func (m *Manager) ShutdownEngine(engineID string) error {
	h, err := m.handle(engineID)
	if err != nil {
		return err
	}

	req, err := protocol.NewRequest(h.NextRequestID(), protocol.TypeShutdown, nil)
	if err == nil {
		if sendErr := h.Send(req); sendErr == nil {
			_, _ = h.Receive()
		}
	}

	m.mu.Lock()
	delete(m.engines, engineID)
	m.mu.Unlock()

	return h.Close()
}

// ShutdownAll shuts down every tracked engine, collecting (not
// short-circuiting on) per-engine errors.
func (m *Manager) ShutdownAll() []error {
	m.mu.Lock()
	ids := make([]string, 0, len(m.engines))
	for id := range m.engines {
		ids = append(ids, id)
	}
	m.mu.Unlock()

	var errs []error
	for _, id := range ids {
		if err := m.ShutdownEngine(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// CleanupIdleEngines tears down every engine that has had no traffic for
// longer than the manager's idle timeout. No-op when idleTimeout is zero.
func (m *Manager) CleanupIdleEngines() []error {
	if m.idleTimeout == 0 {
		return nil
	}

	now := time.Now()
	m.mu.Lock()
	var idle []string
	for id, h := range m.engines {
		if h.IdleSince(now) > m.idleTimeout {
			idle = append(idle, id)
		}
	}
	m.mu.Unlock()

	var errs []error
	for _, id := range idle {
		if err := m.ShutdownEngine(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func (m *Manager) handle(engineID string) (*EngineHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.engines[engineID]
	if !ok {
		return nil, fmt.Errorf("enginemanager: unknown engine %q", engineID)
	}
	return h, nil
}
