package types

import "time"

// EventType identifies a telemetry event kind.
type EventType string

const (
	// EventChainStart opens a run.
	EventChainStart EventType = "chain_start"
	// EventStepStart marks the beginning of a step, before any attempt.
	EventStepStart EventType = "step_start"
	// EventStepAttempt marks a single invocation attempt of a step.
	EventStepAttempt EventType = "step_attempt"
	// EventStepOutcome records a step's terminal result.
	EventStepOutcome EventType = "step_outcome"
	// EventPropagation records that a step's output became the next
	// step's input.
	EventPropagation EventType = "propagation"
	// EventChainComplete closes a run with its summary.
	EventChainComplete EventType = "chain_complete"
)

// IsAdvisory reports whether the event type is informational only. Advisory
// events may be dropped by a lossy dispatch policy; lifecycle and outcome
// events may not.
func (t EventType) IsAdvisory() bool {
	return t == EventStepAttempt || t == EventPropagation
}

// IsTerminal reports whether the event closes its run.
func (t EventType) IsTerminal() bool {
	return t == EventChainComplete
}

// EventEnvelope is the wire form of one telemetry event. Envelopes are
// persisted to the journal as msgpack and exported to archives and adapters
// as JSON.
type EventEnvelope struct {
	// ContractVersion is the hookchain version that produced the event.
	ContractVersion string `msgpack:"contract_version" json:"contract_version"`
	// EventID is unique per event.
	EventID string `msgpack:"event_id" json:"event_id"`
	// RunID ties the event to its chain run.
	RunID string `msgpack:"run_id" json:"run_id"`
	// Chain is the chain name.
	Chain string `msgpack:"chain" json:"chain"`
	// Seq is the emission order within the run, starting at 1.
	Seq uint64 `msgpack:"seq" json:"seq"`
	// Type is the event kind.
	Type EventType `msgpack:"type" json:"type"`
	// Ts is the emission time in UTC.
	Ts time.Time `msgpack:"ts" json:"ts"`
	// Hook is the step's hook name. Empty for chain-level events.
	Hook string `msgpack:"hook,omitempty" json:"hook,omitempty"`
	// Position is the step's zero-based index. Meaningful only when Hook
	// is set.
	Position int `msgpack:"position,omitempty" json:"position,omitempty"`
	// Attempt is the 1-based attempt number for step_attempt and
	// step_outcome events.
	Attempt int `msgpack:"attempt,omitempty" json:"attempt,omitempty"`
	// Payload carries type-specific fields.
	Payload map[string]any `msgpack:"payload,omitempty" json:"payload,omitempty"`
}
