// Package metrics provides per-run metrics collection.
//
// The Collector accumulates counters during a single chain run. It is a leaf
// package with no internal dependencies. Telemetry dispatch counters are
// absorbed from the dispatch policy's stats at run completion rather than
// recorded live, avoiding double-counting.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all run metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Steps
	StepsExecuted int64
	StepsFailed   int64
	StepsTimedOut int64

	// Attempts
	Attempts int64
	Retries  int64

	// Resolution
	ResolveFailures int64

	// Telemetry (absorbed from policy stats at run completion)
	EventsEmitted int64
	EventsWritten int64
	EventsDropped int64
	DroppedByType map[string]int64

	// Dimensions (informational, set at construction)
	Policy string
	Chain  string
	RunID  string
}

// Collector accumulates metrics during a single chain run.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	stepsExecuted int64
	stepsFailed   int64
	stepsTimedOut int64

	attempts int64
	retries  int64

	resolveFailures int64

	eventsEmitted int64
	eventsWritten int64
	eventsDropped int64
	droppedByType map[string]int64

	policy string
	chain  string
	runID  string
}

// NewCollector creates a Collector with dimension labels.
func NewCollector(policy, chain, runID string) *Collector {
	return &Collector{
		droppedByType: make(map[string]int64),
		policy:        policy,
		chain:         chain,
		runID:         runID,
	}
}

// IncStepExecuted records a step whose invocation concluded.
func (c *Collector) IncStepExecuted() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stepsExecuted++
	c.mu.Unlock()
}

// IncStepFailed records a step with a failure outcome.
func (c *Collector) IncStepFailed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stepsFailed++
	c.mu.Unlock()
}

// IncStepTimedOut records a step whose final attempt timed out.
func (c *Collector) IncStepTimedOut() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.stepsTimedOut++
	c.mu.Unlock()
}

// IncAttempt records one hook invocation attempt.
func (c *Collector) IncAttempt() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.attempts++
	c.mu.Unlock()
}

// IncRetry records a re-invocation after a failed attempt.
func (c *Collector) IncRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.retries++
	c.mu.Unlock()
}

// IncResolveFailure records a hook that could not be located.
func (c *Collector) IncResolveFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.resolveFailures++
	c.mu.Unlock()
}

// AbsorbTelemetryStats copies dispatch counters from the telemetry policy
// into the collector. Called once after run completion with the final stats
// snapshot. The droppedByType map keys are string-typed event types to keep
// this package free of dependencies on the types package.
func (c *Collector) AbsorbTelemetryStats(emitted, written, dropped int64, droppedByType map[string]int64) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsEmitted = emitted
	c.eventsWritten = written
	c.eventsDropped = dropped
	c.droppedByType = make(map[string]int64, len(droppedByType))
	for k, v := range droppedByType {
		c.droppedByType[k] = v
	}
	c.mu.Unlock()
}

// Snapshot returns an immutable point-in-time view of all metrics.
// The returned Snapshot is safe to read concurrently; the Collector can
// continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	dropped := make(map[string]int64, len(c.droppedByType))
	for k, v := range c.droppedByType {
		dropped[k] = v
	}

	return Snapshot{
		StepsExecuted: c.stepsExecuted,
		StepsFailed:   c.stepsFailed,
		StepsTimedOut: c.stepsTimedOut,

		Attempts: c.attempts,
		Retries:  c.retries,

		ResolveFailures: c.resolveFailures,

		EventsEmitted: c.eventsEmitted,
		EventsWritten: c.eventsWritten,
		EventsDropped: c.eventsDropped,
		DroppedByType: dropped,

		Policy: c.policy,
		Chain:  c.chain,
		RunID:  c.runID,
	}
}
