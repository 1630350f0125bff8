package journal

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pithecene-io/hookchain/types"
)

func testEnvelope(runID string, seq uint64, eventType types.EventType) *types.EventEnvelope {
	return &types.EventEnvelope{
		ContractVersion: types.Version,
		EventID:         "ev-" + runID,
		RunID:           runID,
		Chain:           "deploy",
		Seq:             seq,
		Type:            eventType,
		Ts:              time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	enc := NewFrameEncoder(&buf)

	want := testEnvelope("run-001", 1, types.EventChainStart)
	want.Payload = map[string]any{"total_steps": int64(3)}
	if err := enc.WriteEnvelope(want); err != nil {
		t.Fatalf("encode: %v", err)
	}

	dec := NewFrameDecoder(&buf)
	got, err := dec.ReadEnvelope()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if got.RunID != want.RunID || got.Seq != want.Seq || got.Type != want.Type {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, want)
	}
	if !got.Ts.Equal(want.Ts) {
		t.Errorf("timestamp mismatch: got %v, want %v", got.Ts, want.Ts)
	}
}

func TestFrameDecoder_CleanEOF(t *testing.T) {
	dec := NewFrameDecoder(bytes.NewReader(nil))
	if _, err := dec.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected clean EOF, got %v", err)
	}
}

func TestFrameDecoder_TruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	enc := NewFrameEncoder(&buf)
	if err := enc.WriteEnvelope(testEnvelope("run-001", 1, types.EventChainStart)); err != nil {
		t.Fatalf("encode: %v", err)
	}

	// Cut the frame short
	torn := buf.Bytes()[:buf.Len()-5]

	dec := NewFrameDecoder(bytes.NewReader(torn))
	_, err := dec.ReadFrame()
	if !IsTruncation(err) {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestFrameDecoder_TruncatedPrefix(t *testing.T) {
	dec := NewFrameDecoder(bytes.NewReader([]byte{0x00, 0x01}))
	_, err := dec.ReadFrame()
	if !IsTruncation(err) {
		t.Fatalf("expected truncation error, got %v", err)
	}
}

func TestFrameDecoder_OversizedFrame(t *testing.T) {
	prefix := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	dec := NewFrameDecoder(bytes.NewReader(prefix))
	_, err := dec.ReadFrame()

	var frameErr *FrameError
	if !errors.As(err, &frameErr) || frameErr.Kind != FrameErrorTooLarge {
		t.Fatalf("expected too-large error, got %v", err)
	}
	if IsTruncation(err) {
		t.Error("oversized frame is not a truncation")
	}
}

func TestWriter_AppendsAndReadsBack(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "run-001")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}

	events := []*types.EventEnvelope{
		testEnvelope("run-001", 1, types.EventChainStart),
		testEnvelope("run-001", 2, types.EventStepStart),
		testEnvelope("run-001", 3, types.EventChainComplete),
	}
	if err := w.WriteEvents(t.Context(), events[:2]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.WriteEvents(t.Context(), events[2:]); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, truncated, err := NewReader(dir).Events("run-001")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if truncated {
		t.Error("journal should not be truncated")
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 events, got %d", len(got))
	}
	for i, ev := range got {
		if ev.Seq != uint64(i+1) {
			t.Errorf("event %d: expected seq %d, got %d", i, i+1, ev.Seq)
		}
	}
}

func TestWriter_NoFileUntilFirstWrite(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "run-001")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if _, err := os.Stat(w.Path()); !os.IsNotExist(err) {
		t.Error("journal file should not exist before first write")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestWriter_RejectsWriteAfterClose(t *testing.T) {
	w, err := NewWriter(t.TempDir(), "run-001")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	err = w.WriteEvents(t.Context(), []*types.EventEnvelope{testEnvelope("run-001", 1, types.EventChainStart)})
	if err == nil {
		t.Fatal("expected error writing after close")
	}
}

func TestReader_RunNotFound(t *testing.T) {
	_, _, err := NewReader(t.TempDir()).Events("ghost")
	if !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestReader_MissingDirectoryIsEmpty(t *testing.T) {
	runs, err := NewReader(filepath.Join(t.TempDir(), "nope")).ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}
}

func TestReader_TornTailReturnsPrefix(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, "run-001")
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	if err := w.WriteEvents(t.Context(), []*types.EventEnvelope{
		testEnvelope("run-001", 1, types.EventChainStart),
		testEnvelope("run-001", 2, types.EventStepStart),
	}); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Tear the last frame
	path := w.Path()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if err := os.WriteFile(path, data[:len(data)-3], 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	events, truncated, err := NewReader(dir).Events("run-001")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !truncated {
		t.Error("expected truncation flag")
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 intact event, got %d", len(events))
	}
}

func writeRun(t *testing.T, dir, runID string, started time.Time, complete bool) {
	t.Helper()
	w, err := NewWriter(dir, runID)
	if err != nil {
		t.Fatalf("new writer: %v", err)
	}
	start := testEnvelope(runID, 1, types.EventChainStart)
	start.Ts = started
	events := []*types.EventEnvelope{start}
	if complete {
		done := testEnvelope(runID, 2, types.EventChainComplete)
		done.Payload = map[string]any{
			"status":         "completed",
			"steps_executed": int64(2),
			"steps_failed":   int64(1),
			"duration_ms":    int64(350),
		}
		events = append(events, done)
	}
	if err := w.WriteEvents(t.Context(), events); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestReader_Summarize(t *testing.T) {
	dir := t.TempDir()
	started := time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)
	writeRun(t, dir, "run-001", started, true)

	summary, err := NewReader(dir).Summarize("run-001")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Chain != "deploy" {
		t.Errorf("expected chain deploy, got %q", summary.Chain)
	}
	if summary.Status != "completed" {
		t.Errorf("expected completed, got %q", summary.Status)
	}
	if summary.StepsExecuted != 2 || summary.StepsFailed != 1 {
		t.Errorf("step counts wrong: %+v", summary)
	}
	if summary.DurationMs != 350 {
		t.Errorf("expected 350ms, got %d", summary.DurationMs)
	}
	if !summary.Started.Equal(started) {
		t.Errorf("expected start %v, got %v", started, summary.Started)
	}
	if summary.EventCount != 2 {
		t.Errorf("expected 2 events, got %d", summary.EventCount)
	}
}

func TestReader_SummarizeInterruptedRun(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "run-001", time.Now().UTC(), false)

	summary, err := NewReader(dir).Summarize("run-001")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if summary.Status != "interrupted" {
		t.Errorf("run without terminal event should be interrupted, got %q", summary.Status)
	}
}

func TestReader_ListRunsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeRun(t, dir, "run-old", time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC), true)
	writeRun(t, dir, "run-new", time.Date(2026, 8, 30, 8, 0, 0, 0, time.UTC), true)

	runs, err := NewReader(dir).ListRuns()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-new" || runs[1].RunID != "run-old" {
		t.Errorf("expected newest first, got %s then %s", runs[0].RunID, runs[1].RunID)
	}
}
