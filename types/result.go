package types

import "time"

// Outcome classifies the terminal result of a single step (the result of its
// final attempt).
type Outcome string

const (
	// OutcomeSuccess means the final attempt exited zero.
	OutcomeSuccess Outcome = "success"
	// OutcomeTimedOut means the final attempt exceeded its wall-clock
	// timeout and was killed.
	OutcomeTimedOut Outcome = "timed_out"
	// OutcomeFailed means the final attempt exited non-zero, or the hook
	// could not be resolved or started at all.
	OutcomeFailed Outcome = "failed"
)

// IsFailure reports whether the outcome counts against the chain's failure
// policy.
func (o Outcome) IsFailure() bool {
	return o == OutcomeTimedOut || o == OutcomeFailed
}

// TimeoutExitCode is the reserved exit code reported for a timed-out attempt.
// Real hook exit codes of the same value are indistinguishable from timeouts
// at the exit-code level; the Outcome field is authoritative.
const TimeoutExitCode = 124

// StepResult records the terminal result of one step in a chain run.
type StepResult struct {
	// HookName is the name from the chain sequence.
	HookName string `json:"hook_name"`
	// Position is the zero-based index of the step in the sequence.
	Position int `json:"position"`
	// AttemptsUsed is how many invocations were made, >= 1 unless the
	// hook could not be resolved (then 0).
	AttemptsUsed int `json:"attempts_used"`
	// Outcome is the classification of the final attempt.
	Outcome Outcome `json:"outcome"`
	// ExitCode is the final attempt's exit code. TimeoutExitCode for
	// timeouts, -1 when no process could be started.
	ExitCode int `json:"exit_code"`
	// CapturedOutput is the final attempt's combined stdout and stderr.
	CapturedOutput []byte `json:"captured_output,omitempty"`
	// Elapsed is the wall-clock duration of the final attempt.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// ChainStatus is the terminal state of a chain run.
type ChainStatus string

const (
	// ChainCompleted means every scheduled step concluded and no failure
	// triggered an abort. Individual steps may still have failed.
	ChainCompleted ChainStatus = "completed"
	// ChainAborted means a step failure stopped the chain before the end
	// of the sequence.
	ChainAborted ChainStatus = "aborted"
)

// ChainResult is the summary of a full chain run.
type ChainResult struct {
	// Chain is the chain name.
	Chain string `json:"chain"`
	// RunID uniquely identifies this run.
	RunID string `json:"run_id"`
	// Status is the terminal state.
	Status ChainStatus `json:"status"`
	// NoOp is true when the chain was disabled or unknown and nothing ran.
	NoOp bool `json:"no_op,omitempty"`
	// StepsExecuted counts steps whose invocation concluded, including a
	// step that triggered an abort. Steps never reached are not counted.
	StepsExecuted int `json:"steps_executed"`
	// StepsFailed counts executed steps with a failure outcome.
	StepsFailed int `json:"steps_failed"`
	// Duration is the wall-clock time of the whole run.
	Duration time.Duration `json:"duration_ns"`
	// Steps holds per-step results in execution order.
	Steps []StepResult `json:"steps,omitempty"`
	// AbortOutcome is the outcome of the step that aborted the chain,
	// empty when Status is ChainCompleted.
	AbortOutcome Outcome `json:"abort_outcome,omitempty"`
}

// ExitCode maps the run summary to the process exit code contract:
// 0 completed, 1 aborted, TimeoutExitCode aborted by a timed-out step.
func (r *ChainResult) ExitCode() int {
	if r.Status == ChainCompleted {
		return 0
	}
	if r.AbortOutcome == OutcomeTimedOut {
		return TimeoutExitCode
	}
	return 1
}
