package journal

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pithecene-io/hookchain/types"
)

// FileExt is the journal file extension.
const FileExt = ".events"

// Writer is a telemetry sink appending framed events to one file per run at
// <dir>/<run-id>.events. The file is created on the first write so aborted
// startups leave no empty journals behind.
type Writer struct {
	dir   string
	runID string

	mu      sync.Mutex
	file    *os.File
	encoder *FrameEncoder
	closed  bool
}

// NewWriter creates a journal writer for one run. The directory is created
// if missing.
func NewWriter(dir, runID string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	return &Writer{dir: dir, runID: runID}, nil
}

// Path returns the journal file path for this run.
func (w *Writer) Path() string {
	return filepath.Join(w.dir, w.runID+FileExt)
}

// WriteEvents appends a batch of envelopes as frames, preserving order.
func (w *Writer) WriteEvents(_ context.Context, events []*types.EventEnvelope) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return fmt.Errorf("journal %s: writer closed", w.Path())
	}

	if w.file == nil {
		f, err := os.OpenFile(w.Path(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		w.file = f
		w.encoder = NewFrameEncoder(f)
	}

	for _, ev := range events {
		if err := w.encoder.WriteEnvelope(ev); err != nil {
			return fmt.Errorf("journal %s: %w", w.Path(), err)
		}
	}
	return nil
}

// Close syncs and closes the journal file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	if w.file == nil {
		return nil
	}
	syncErr := w.file.Sync()
	closeErr := w.file.Close()
	w.file = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}
