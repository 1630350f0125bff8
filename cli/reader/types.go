// Package reader provides the read-side data access layer for the hookchain
// CLI.
//
// All inspection and listing commands go through this package; none of them
// touch the runtime. Data comes from the journal directory, so runs are
// readable even when they were interrupted mid-chain.
package reader

import "time"

// StepView is one step of a run, reconstructed from its outcome event.
type StepView struct {
	Hook        string `json:"hook"`
	Position    int    `json:"position"`
	Attempts    int    `json:"attempts"`
	Outcome     string `json:"outcome"`
	ExitCode    int    `json:"exit_code"`
	ElapsedMs   int64  `json:"elapsed_ms"`
	OutputBytes int    `json:"output_bytes"`
}

// InspectRunResponse is the deep view of a single run.
type InspectRunResponse struct {
	RunID         string     `json:"run_id"`
	Chain         string     `json:"chain"`
	Status        string     `json:"status"`
	NoOp          bool       `json:"no_op"`
	StartedAt     time.Time  `json:"started_at"`
	DurationMs    int64      `json:"duration_ms"`
	StepsExecuted int        `json:"steps_executed"`
	StepsFailed   int        `json:"steps_failed"`
	EventCount    int        `json:"event_count"`
	Truncated     bool       `json:"truncated"`
	Steps         []StepView `json:"steps"`
}

// ListRunItem is the thin per-run slice for listings.
type ListRunItem struct {
	RunID         string    `json:"run_id"`
	Chain         string    `json:"chain"`
	Status        string    `json:"status"`
	StepsExecuted int       `json:"steps_executed"`
	StepsFailed   int       `json:"steps_failed"`
	StartedAt     time.Time `json:"started_at"`
	Truncated     bool      `json:"truncated"`
}

// ListRunsOptions filters run listings.
type ListRunsOptions struct {
	Chain  string
	Status string
	Limit  int
}

// RunStats aggregates run outcomes across the whole journal.
type RunStats struct {
	Total       int `json:"total"`
	Completed   int `json:"completed"`
	Aborted     int `json:"aborted"`
	Interrupted int `json:"interrupted"`
	NoOp        int `json:"no_op"`
}

// ChainStats aggregates run outcomes per chain.
type ChainStats struct {
	Chain         string `json:"chain"`
	Runs          int    `json:"runs"`
	Completed     int    `json:"completed"`
	Aborted       int    `json:"aborted"`
	Interrupted   int    `json:"interrupted"`
	StepsExecuted int    `json:"steps_executed"`
	StepsFailed   int    `json:"steps_failed"`
}
