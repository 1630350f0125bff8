package telemetry

import (
	"context"

	"github.com/pithecene-io/hookchain/types"
)

// StrictPolicy implements synchronous, unbuffered dispatch.
//
//   - No buffering: each event is written immediately
//   - No drops: every event, advisory or not, reaches the sink
//   - Backpressure: caller blocks on sink latency
type StrictPolicy struct {
	sink     Sink
	recorder *statsRecorder
}

// NewStrictPolicy creates a strict policy writing to the given sink.
func NewStrictPolicy(sink Sink) *StrictPolicy {
	return &StrictPolicy{
		sink:     sink,
		recorder: newStatsRecorder(),
	}
}

// Ingest writes the event immediately to the sink (batch of 1).
func (p *StrictPolicy) Ingest(ctx context.Context, envelope *types.EventEnvelope) error {
	p.recorder.incTotalEvents()

	if err := p.sink.WriteEvents(ctx, []*types.EventEnvelope{envelope}); err != nil {
		p.recorder.incErrors()
		return err
	}

	p.recorder.incEventsWritten(1)
	return nil
}

// Flush is a no-op for strict policy (nothing is buffered).
func (p *StrictPolicy) Flush(_ context.Context) error {
	p.recorder.incFlush()
	return nil
}

// Close closes the underlying sink.
func (p *StrictPolicy) Close() error {
	return p.sink.Close()
}

// Stats returns dispatch statistics.
func (p *StrictPolicy) Stats() Stats {
	return p.recorder.snapshot()
}
