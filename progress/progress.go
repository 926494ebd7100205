package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one machine-parsable progress line. These are emitted to stdout
// as PROGRESS:{json} so an external process can capture pipeline state.
type Record struct {
	RunID     string    `json:"run_id"`
	Stage     string    `json:"stage"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Sink appends human-readable progress lines to an append-only log file and
// mirrors each one as a machine-parsable PROGRESS:{json} line on stdout.
// Emit never fails: a sink error is swallowed so that logging can never
// abort the pipeline, and no component may depend on sink side effects.
type Sink struct {
	mu    sync.Mutex
	runID string
	file  *os.File
}

// NewSink opens (or creates) the append-only log at path and assigns the
// run a fresh identifier. A nil *Sink is safe to call Emit on.
func NewSink(path string) (*Sink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("progress: create log dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("progress: open log %q: %w", path, err)
	}

	return &Sink{runID: uuid.NewString(), file: f}, nil
}

// RunID returns the identifier assigned to this run.
func (s *Sink) RunID() string {
	if s == nil {
		return ""
	}
	return s.runID
}

// Emit appends a (stage, message, timestamp) record. It never returns an
// error and never panics.
func (s *Sink) Emit(stage, message string) {
	if s == nil {
		return
	}

	rec := Record{
		RunID:     s.runID,
		Stage:     stage,
		Message:   message,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(rec); err == nil {
		fmt.Printf("PROGRESS:%s\n", data)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file != nil {
		line := fmt.Sprintf("[%s] %s\n", rec.Timestamp.Format("2006-01-02 15:04:05"), message)
		// Write errors are deliberately dropped: the sink must never take
		// the pipeline down with it.
		_, _ = s.file.WriteString(line)
	}
}

// Close flushes and closes the underlying log file.
func (s *Sink) Close() error {
	if s == nil || s.file == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.file.Close()
	s.file = nil
	return err
}
