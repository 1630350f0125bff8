package telemetry

import (
	"context"
	"sync"

	"github.com/pithecene-io/hookchain/types"
)

// Policy controls how emitted events reach sinks.
//
// Rules:
//   - May drop: step_attempt, propagation (advisory types)
//   - Must NOT drop: chain_start, step_start, step_outcome, chain_complete
//   - Policies must not alter event shapes
type Policy interface {
	// Ingest handles one event envelope. A lossy policy may drop advisory
	// types; dispatch failures for mandatory types are reported as errors
	// but do not fail the chain.
	Ingest(ctx context.Context, envelope *types.EventEnvelope) error

	// Flush flushes any buffered events.
	// Called on chain completion and runtime termination.
	Flush(ctx context.Context) error

	// Close cleans up policy resources, including the underlying sink.
	Close() error

	// Stats returns an atomic snapshot of dispatch counters.
	Stats() Stats
}

// Stats holds dispatch observability counters.
type Stats struct {
	// TotalEvents is the number of events ingested.
	TotalEvents int64
	// EventsWritten is the number of events handed to the sink.
	EventsWritten int64
	// EventsDropped is the number of advisory events dropped.
	EventsDropped int64
	// DroppedByType maps event types to drop counts.
	DroppedByType map[types.EventType]int64
	// FlushCount is the number of flush operations.
	FlushCount int64
	// Errors is the count of sink errors encountered.
	Errors int64
}

// statsRecorder is an internal helper for thread-safe stats management.
// Policies call explicit methods to record mutations; the recorder does not
// infer any policy decisions.
type statsRecorder struct {
	mu    sync.Mutex
	stats Stats
}

func newStatsRecorder() *statsRecorder {
	return &statsRecorder{
		stats: Stats{
			DroppedByType: make(map[types.EventType]int64),
		},
	}
}

func (r *statsRecorder) incTotalEvents() {
	r.mu.Lock()
	r.stats.TotalEvents++
	r.mu.Unlock()
}

func (r *statsRecorder) incEventsWritten(n int64) {
	r.mu.Lock()
	r.stats.EventsWritten += n
	r.mu.Unlock()
}

func (r *statsRecorder) incEventsDropped(eventType types.EventType) {
	r.mu.Lock()
	r.stats.EventsDropped++
	r.stats.DroppedByType[eventType]++
	r.mu.Unlock()
}

func (r *statsRecorder) incErrors() {
	r.mu.Lock()
	r.stats.Errors++
	r.mu.Unlock()
}

func (r *statsRecorder) incFlush() {
	r.mu.Lock()
	r.stats.FlushCount++
	r.mu.Unlock()
}

func (r *statsRecorder) snapshot() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.stats
	s.DroppedByType = make(map[types.EventType]int64, len(r.stats.DroppedByType))
	for k, v := range r.stats.DroppedByType {
		s.DroppedByType[k] = v
	}
	return s
}
