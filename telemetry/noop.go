package telemetry

import (
	"context"

	"github.com/pithecene-io/hookchain/types"
)

// NoopPolicy discards every event. Used when telemetry is disabled.
type NoopPolicy struct {
	recorder *statsRecorder
}

// NewNoopPolicy creates a policy that drops everything silently.
func NewNoopPolicy() *NoopPolicy {
	return &NoopPolicy{recorder: newStatsRecorder()}
}

// Ingest counts and discards the event.
func (p *NoopPolicy) Ingest(_ context.Context, _ *types.EventEnvelope) error {
	p.recorder.incTotalEvents()
	return nil
}

// Flush is a no-op.
func (p *NoopPolicy) Flush(_ context.Context) error {
	p.recorder.incFlush()
	return nil
}

// Close is a no-op.
func (p *NoopPolicy) Close() error { return nil }

// Stats returns dispatch statistics.
func (p *NoopPolicy) Stats() Stats {
	return p.recorder.snapshot()
}
