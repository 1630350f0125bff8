// Package telemetry emits structured execution events for chain runs and
// dispatches them through a policy to one or more sinks.
//
// Dispatch rules:
//   - Advisory event types (step_attempt, propagation) may be dropped by a
//     lossy policy.
//   - Lifecycle and outcome events must not be dropped.
//   - Sink failures never fail the chain; they are logged and counted.
package telemetry

import (
	"context"
	"sync"

	"github.com/pithecene-io/hookchain/types"
)

// Sink abstracts event persistence. Implementations may write to the
// journal, forward to an archive, or stub for testing.
//
// Methods are batch-oriented to support both strict (batch of 1) and
// buffered policies.
type Sink interface {
	// WriteEvents persists a batch of event envelopes.
	// Must preserve ordering within the batch.
	WriteEvents(ctx context.Context, events []*types.EventEnvelope) error

	// Close releases any resources held by the sink.
	Close() error
}

// MultiSink fans a batch out to several sinks in order. The first error is
// returned after all sinks have been attempted.
type MultiSink struct {
	sinks []Sink
}

// NewMultiSink creates a fan-out sink. Nil entries are skipped.
func NewMultiSink(sinks ...Sink) *MultiSink {
	kept := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			kept = append(kept, s)
		}
	}
	return &MultiSink{sinks: kept}
}

// WriteEvents implements Sink.
func (m *MultiSink) WriteEvents(ctx context.Context, events []*types.EventEnvelope) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.WriteEvents(ctx, events); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Close closes every sink, returning the first error.
func (m *MultiSink) Close() error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// StubSink is a test sink that accepts writes without persisting.
// Tracks write statistics for test assertions.
type StubSink struct {
	mu sync.Mutex

	// EventsWritten is the total count of events written.
	EventsWritten int64
	// Batches is the number of WriteEvents calls.
	Batches int64
	// Closed indicates whether Close was called.
	Closed bool

	// WrittenEvents stores all written events for inspection.
	WrittenEvents []*types.EventEnvelope

	// ErrorOnWrite, if non-nil, is returned by WriteEvents.
	ErrorOnWrite error
}

// NewStubSink creates a new stub sink for testing.
func NewStubSink() *StubSink {
	return &StubSink{
		WrittenEvents: make([]*types.EventEnvelope, 0),
	}
}

// WriteEvents records the events without persisting.
func (s *StubSink) WriteEvents(_ context.Context, events []*types.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ErrorOnWrite != nil {
		return s.ErrorOnWrite
	}

	s.Batches++
	s.EventsWritten += int64(len(events))
	s.WrittenEvents = append(s.WrittenEvents, events...)

	return nil
}

// Close marks the sink as closed.
func (s *StubSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Closed = true
	return nil
}

// Events returns a copy of all written events.
func (s *StubSink) Events() []*types.EventEnvelope {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*types.EventEnvelope, len(s.WrittenEvents))
	copy(out, s.WrittenEvents)
	return out
}
