// Package adapter defines the downstream notification boundary.
//
// Adapters publish a single chain completion summary after a run. The CLI
// owns adapter lifecycle; users provide configuration only. Adapter
// failures are logged, never fatal to the run.
package adapter

import (
	"context"
	"time"

	"github.com/pithecene-io/hookchain/types"
)

// ChainCompletedEvent is the payload published when a chain run finishes.
type ChainCompletedEvent struct {
	ContractVersion string `json:"contract_version"`
	EventType       string `json:"event_type"` // always "chain_completed"
	RunID           string `json:"run_id"`
	Chain           string `json:"chain"`
	Status          string `json:"status"` // completed or aborted
	NoOp            bool   `json:"no_op,omitempty"`
	StepsExecuted   int    `json:"steps_executed"`
	StepsFailed     int    `json:"steps_failed"`
	AbortOutcome    string `json:"abort_outcome,omitempty"`
	ExitCode        int    `json:"exit_code"`
	Timestamp       string `json:"timestamp"` // ISO 8601
	DurationMs      int64  `json:"duration_ms"`
}

// FromResult builds the published payload from a run summary.
func FromResult(result *types.ChainResult) *ChainCompletedEvent {
	return &ChainCompletedEvent{
		ContractVersion: types.Version,
		EventType:       "chain_completed",
		RunID:           result.RunID,
		Chain:           result.Chain,
		Status:          string(result.Status),
		NoOp:            result.NoOp,
		StepsExecuted:   result.StepsExecuted,
		StepsFailed:     result.StepsFailed,
		AbortOutcome:    string(result.AbortOutcome),
		ExitCode:        result.ExitCode(),
		Timestamp:       time.Now().UTC().Format(time.RFC3339),
		DurationMs:      result.Duration.Milliseconds(),
	}
}

// Adapter publishes chain completion events to a downstream system.
// Implementations must be safe for single-use per run.
type Adapter interface {
	// Publish sends a chain completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *ChainCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}
