package enginemanager

import (
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"
	"time"

	"github.com/armon/circbuf"
	"github.com/google/uuid"

	"github.com/forseti-sdk/forseti-sdk/internal/protocol"
)

// stderrTailSize bounds how much of an engine's stderr is retained for
// diagnostics when it crashes or misbehaves.
const stderrTailSize = 64 * 1024

// EngineHandle owns one spawned engine process: its stdio pipes and the
// bookkeeping the manager needs to route requests and reap it when idle.
type EngineHandle struct {
	ID         string
	BinaryPath string

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	writer *protocol.Writer
	reader *protocol.Reader
	stderr *circbuf.Buffer

	requestCounter atomic.Uint64

	// exited is closed exactly once, by the single waiter goroutine started
	// in spawnEngine, after cmd.Wait() returns.
	exited chan struct{}

	mu           sync.Mutex
	initialized  bool
	lastActivity time.Time
}

// spawnEngine starts the binary at binaryPath as a child process, wiring its
// stdin/stdout through the NDJSON codec. stderr is captured into a bounded
// tail buffer for post-mortem diagnostics; it is not inherited directly
// since hosts routinely run many engines concurrently and interleaved raw
// stderr would be unreadable.
func spawnEngine(id, binaryPath string, args ...string) (*EngineHandle, error) {
	if id == "" {
		id = uuid.NewString()
	}

	cmd := exec.Command(binaryPath, args...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("enginemanager: stdin pipe for %s: %w", id, err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("enginemanager: stdout pipe for %s: %w", id, err)
	}

	tail, err := circbuf.NewBuffer(stderrTailSize)
	if err != nil {
		return nil, fmt.Errorf("enginemanager: allocate stderr buffer: %w", err)
	}
	cmd.Stderr = tail

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("enginemanager: start %s: %w", binaryPath, err)
	}

	h := &EngineHandle{
		ID:           id,
		BinaryPath:   binaryPath,
		cmd:          cmd,
		stdin:        stdin,
		writer:       protocol.NewWriter(stdin),
		reader:       protocol.NewReader(stdout),
		stderr:       tail,
		exited:       make(chan struct{}),
		lastActivity: time.Now(),
	}
	go func() {
		_ = cmd.Wait()
		close(h.exited)
	}()
	return h, nil
}

// Send writes an envelope to the engine's stdin and records activity.
func (h *EngineHandle) Send(env protocol.Envelope) error {
	h.touch()
	return h.writer.Send(env)
}

// Receive blocks for the next envelope from the engine's stdout.
func (h *EngineHandle) Receive() (protocol.Envelope, error) {
	env, err := h.reader.ReadEnvelope()
	if err == nil {
		h.touch()
	}
	return env, err
}

// NextRequestID returns the next correlation id for this engine, of the
// form "<engine_id>_<n>".
func (h *EngineHandle) NextRequestID() string {
	return protocol.NextID(h.ID, &h.requestCounter)
}

// StderrTail returns whatever of the engine's stderr is currently buffered.
func (h *EngineHandle) StderrTail() string {
	return h.stderr.String()
}

func (h *EngineHandle) touch() {
	h.mu.Lock()
	h.lastActivity = time.Now()
	h.mu.Unlock()
}

// MarkInitialized records that the engine completed a successful initialize
// handshake.
func (h *EngineHandle) MarkInitialized() {
	h.mu.Lock()
	h.initialized = true
	h.mu.Unlock()
}

// Initialized reports whether the engine has completed initialize.
func (h *EngineHandle) Initialized() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.initialized
}

// IdleSince returns how long it has been since the last request or
// response was exchanged with this engine.
func (h *EngineHandle) IdleSince(now time.Time) time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return now.Sub(h.lastActivity)
}

// Close sends shutdown's natural consequence: it closes stdin (so the
// engine's read loop sees EOF) and waits briefly for exit, killing the
// process if it does not exit on its own.
func (h *EngineHandle) Close() error {
	_ = h.stdin.Close()

	select {
	case <-h.exited:
		return nil
	case <-time.After(5 * time.Second):
		return h.Kill()
	}
}

// Kill forcibly terminates the engine process. Safe to call on an already
// exited process; never calls cmd.Wait directly, since the single waiter
// goroutine started in spawnEngine owns that call.
func (h *EngineHandle) Kill() error {
	if h.cmd.Process != nil {
		if err := h.cmd.Process.Kill(); err != nil {
			return err
		}
	}
	<-h.exited
	return nil
}
