package progress

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmitAppendsToLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "progress.log")

	sink, err := NewSink(path)
	if err != nil {
		t.Fatal(err)
	}
	sink.Emit("scrape", "Processing URL 1/3")
	sink.Emit("scrape", "Processing URL 2/3")
	if err := sink.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "Processing URL 1/3") {
		t.Errorf("first line missing message: %q", lines[0])
	}
	if !strings.HasPrefix(lines[0], "[") {
		t.Errorf("log line should start with a timestamp: %q", lines[0])
	}
}

func TestEmitWritesProgressLineToStdout(t *testing.T) {
	sink, err := NewSink(filepath.Join(t.TempDir(), "progress.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer sink.Close()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	sink.Emit("ebay", "Searching sold listings")
	w.Close()
	os.Stdout = old

	out, _ := io.ReadAll(r)
	line := strings.TrimSpace(string(out))
	if !strings.HasPrefix(line, "PROGRESS:") {
		t.Fatalf("stdout line should start with PROGRESS:, got %q", line)
	}

	var rec Record
	if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "PROGRESS:")), &rec); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if rec.Stage != "ebay" || rec.Message != "Searching sold listings" {
		t.Errorf("record: got %+v", rec)
	}
	if rec.RunID != sink.RunID() {
		t.Errorf("run id: got %q, want %q", rec.RunID, sink.RunID())
	}
	if rec.Timestamp.IsZero() {
		t.Error("timestamp should be set")
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	dir := t.TempDir()
	a, err := NewSink(filepath.Join(dir, "a.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	b, err := NewSink(filepath.Join(dir, "b.log"))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	if a.RunID() == "" || a.RunID() == b.RunID() {
		t.Errorf("run ids should be distinct and non-empty: %q vs %q", a.RunID(), b.RunID())
	}
}

func TestNilSinkIsSafe(t *testing.T) {
	var s *Sink
	s.Emit("stage", "message")
	if s.RunID() != "" {
		t.Error("nil sink run id should be empty")
	}
	if err := s.Close(); err != nil {
		t.Errorf("nil sink close: %v", err)
	}
}

func TestEmitAfterCloseDoesNotPanic(t *testing.T) {
	sink, err := NewSink(filepath.Join(t.TempDir(), "progress.log"))
	if err != nil {
		t.Fatal(err)
	}
	sink.Close()
	sink.Emit("late", "after close")
}
