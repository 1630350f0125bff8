package telemetry

import (
	"context"
	"sync"

	"github.com/pithecene-io/hookchain/types"
)

// DefaultBufferCapacity is the event capacity of a BufferedPolicy when the
// configuration does not specify one.
const DefaultBufferCapacity = 256

// BufferedPolicy accumulates events in a bounded in-memory buffer and writes
// them to the sink in batches on Flush.
//
// When the buffer is full:
//   - advisory events (step_attempt, propagation) are dropped and counted
//   - mandatory events force a synchronous flush, then enter the buffer
type BufferedPolicy struct {
	sink     Sink
	capacity int
	recorder *statsRecorder

	mu     sync.Mutex
	buffer []*types.EventEnvelope
}

// NewBufferedPolicy creates a buffered policy writing to the given sink.
// capacity <= 0 selects DefaultBufferCapacity.
func NewBufferedPolicy(sink Sink, capacity int) *BufferedPolicy {
	if capacity <= 0 {
		capacity = DefaultBufferCapacity
	}
	return &BufferedPolicy{
		sink:     sink,
		capacity: capacity,
		recorder: newStatsRecorder(),
		buffer:   make([]*types.EventEnvelope, 0, capacity),
	}
}

// Ingest buffers the event, dropping advisory types under pressure.
func (p *BufferedPolicy) Ingest(ctx context.Context, envelope *types.EventEnvelope) error {
	p.recorder.incTotalEvents()

	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.buffer) >= p.capacity {
		if envelope.Type.IsAdvisory() {
			p.recorder.incEventsDropped(envelope.Type)
			return nil
		}
		if err := p.flushLocked(ctx); err != nil {
			p.recorder.incErrors()
			return err
		}
	}

	p.buffer = append(p.buffer, envelope)
	return nil
}

// Flush writes all buffered events to the sink.
func (p *BufferedPolicy) Flush(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.recorder.incFlush()
	if err := p.flushLocked(ctx); err != nil {
		p.recorder.incErrors()
		return err
	}
	return nil
}

// flushLocked drains the buffer. Caller must hold p.mu.
func (p *BufferedPolicy) flushLocked(ctx context.Context) error {
	if len(p.buffer) == 0 {
		return nil
	}

	batch := p.buffer
	p.buffer = make([]*types.EventEnvelope, 0, p.capacity)

	if err := p.sink.WriteEvents(ctx, batch); err != nil {
		return err
	}
	p.recorder.incEventsWritten(int64(len(batch)))
	return nil
}

// Close flushes remaining events and closes the underlying sink.
func (p *BufferedPolicy) Close() error {
	p.mu.Lock()
	flushErr := p.flushLocked(context.Background())
	p.mu.Unlock()

	closeErr := p.sink.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}

// Stats returns dispatch statistics.
func (p *BufferedPolicy) Stats() Stats {
	return p.recorder.snapshot()
}
