package journal

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pithecene-io/hookchain/iox"
	"github.com/pithecene-io/hookchain/types"
)

// ErrRunNotFound is returned when no journal file exists for a run.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is a digest of one journaled run, built from its lifecycle
// events.
type RunSummary struct {
	RunID         string
	Chain         string
	Status        string
	NoOp          bool
	StepsExecuted int
	StepsFailed   int
	Started       time.Time
	DurationMs    int64
	EventCount    int
	Truncated     bool
}

// Reader scans a journal directory for the inspection commands.
type Reader struct {
	dir string
}

// NewReader creates a reader over a journal directory.
func NewReader(dir string) *Reader {
	return &Reader{dir: dir}
}

// ListRuns returns a summary per journal file, newest first.
// A missing directory yields an empty list.
func (r *Reader) ListRuns() ([]*RunSummary, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal dir: %w", err)
	}

	var summaries []*RunSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileExt) {
			continue
		}
		runID := strings.TrimSuffix(entry.Name(), FileExt)
		summary, err := r.Summarize(runID)
		if err != nil {
			// Unreadable journals are skipped, not fatal to the listing.
			continue
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Started.After(summaries[j].Started)
	})
	return summaries, nil
}

// Events returns every event of one run in journal order. A torn tail frame
// ends the read without error; everything before it is returned.
func (r *Reader) Events(runID string) ([]*types.EventEnvelope, bool, error) {
	path := filepath.Join(r.dir, runID+FileExt)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, fmt.Errorf("%w: %q", ErrRunNotFound, runID)
		}
		return nil, false, fmt.Errorf("open journal: %w", err)
	}
	defer iox.DiscardClose(f)

	var events []*types.EventEnvelope
	decoder := NewFrameDecoder(f)
	for {
		envelope, err := decoder.ReadEnvelope()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return events, false, nil
			}
			if IsTruncation(err) {
				return events, true, nil
			}
			return nil, false, fmt.Errorf("journal %s: %w", path, err)
		}
		events = append(events, envelope)
	}
}

// Summarize digests one run's events into a RunSummary.
func (r *Reader) Summarize(runID string) (*RunSummary, error) {
	events, truncated, err := r.Events(runID)
	if err != nil {
		return nil, err
	}

	summary := &RunSummary{
		RunID:      runID,
		EventCount: len(events),
		Truncated:  truncated,
		Status:     "unknown",
	}

	for _, ev := range events {
		if summary.Chain == "" {
			summary.Chain = ev.Chain
		}
		switch ev.Type {
		case types.EventChainStart:
			summary.Started = ev.Ts
		case types.EventChainComplete:
			if status, ok := ev.Payload["status"].(string); ok {
				summary.Status = status
			}
			if noOp, ok := ev.Payload["no_op"].(bool); ok {
				summary.NoOp = noOp
			}
			summary.StepsExecuted = intPayload(ev.Payload, "steps_executed")
			summary.StepsFailed = intPayload(ev.Payload, "steps_failed")
			summary.DurationMs = int64(intPayload(ev.Payload, "duration_ms"))
		}
	}

	if summary.Status == "unknown" && len(events) > 0 {
		// No terminal event: the run was interrupted.
		summary.Status = "interrupted"
	}
	return summary, nil
}

// intPayload reads a numeric payload field regardless of the integer type
// msgpack decoded it to.
func intPayload(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case int:
		return v
	case int8:
		return int(v)
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case uint8:
		return int(v)
	case uint16:
		return int(v)
	case uint32:
		return int(v)
	case uint64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
