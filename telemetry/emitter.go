package telemetry

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pithecene-io/hookchain/log"
	"github.com/pithecene-io/hookchain/types"
)

// Emitter produces one structured event per run transition and hands it to
// the dispatch policy. All methods are nil-receiver safe so the runtime can
// run without telemetry wired.
//
// Dispatch failures are logged and counted but never propagate to the
// caller; telemetry must not fail a chain.
type Emitter struct {
	runID  string
	chain  string
	policy Policy
	logger *log.Logger
	seq    atomic.Uint64
}

// NewEmitter creates an emitter for one chain run.
func NewEmitter(runID, chain string, policy Policy, logger *log.Logger) *Emitter {
	return &Emitter{
		runID:  runID,
		chain:  chain,
		policy: policy,
		logger: logger,
	}
}

// ChainStarted emits the run-opening event.
func (e *Emitter) ChainStarted(totalSteps int, propagate, stopOnFailure bool) {
	e.emit(types.EventChainStart, "", 0, 0, map[string]any{
		"total_steps":      totalSteps,
		"propagate_output": propagate,
		"stop_on_failure":  stopOnFailure,
	})
}

// StepStarted emits a step-opening event, before any attempt.
func (e *Emitter) StepStarted(hook string, position, maxAttempts int) {
	e.emit(types.EventStepStart, hook, position, 0, map[string]any{
		"max_attempts": maxAttempts,
	})
}

// StepAttempt emits one attempt event.
func (e *Emitter) StepAttempt(hook string, position, attempt, maxAttempts int) {
	e.emit(types.EventStepAttempt, hook, position, attempt, map[string]any{
		"max_attempts": maxAttempts,
	})
}

// StepOutcome emits a step's terminal result.
func (e *Emitter) StepOutcome(result *types.StepResult) {
	e.emit(types.EventStepOutcome, result.HookName, result.Position, result.AttemptsUsed, map[string]any{
		"outcome":      string(result.Outcome),
		"exit_code":    result.ExitCode,
		"elapsed_ms":   result.Elapsed.Milliseconds(),
		"output_bytes": len(result.CapturedOutput),
	})
}

// Propagation emits an event recording that a step's output became the next
// step's input.
func (e *Emitter) Propagation(hook string, position, bytes int) {
	e.emit(types.EventPropagation, hook, position, 0, map[string]any{
		"payload_bytes": bytes,
	})
}

// ChainCompleted emits the run-closing event and flushes the policy.
func (e *Emitter) ChainCompleted(result *types.ChainResult) {
	e.emit(types.EventChainComplete, "", 0, 0, map[string]any{
		"status":         string(result.Status),
		"no_op":          result.NoOp,
		"steps_executed": result.StepsExecuted,
		"steps_failed":   result.StepsFailed,
		"duration_ms":    result.Duration.Milliseconds(),
		"abort_outcome":  string(result.AbortOutcome),
	})

	if e == nil || e.policy == nil {
		return
	}
	if err := e.policy.Flush(context.Background()); err != nil {
		e.logError("telemetry flush failed", err)
	}
}

// Stats returns the policy's dispatch counters. Zero value when no policy is
// wired.
func (e *Emitter) Stats() Stats {
	if e == nil || e.policy == nil {
		return Stats{}
	}
	return e.policy.Stats()
}

func (e *Emitter) emit(eventType types.EventType, hook string, position, attempt int, payload map[string]any) {
	if e == nil || e.policy == nil {
		return
	}

	envelope := &types.EventEnvelope{
		ContractVersion: types.Version,
		EventID:         uuid.NewString(),
		RunID:           e.runID,
		Chain:           e.chain,
		Seq:             e.seq.Add(1),
		Type:            eventType,
		Ts:              time.Now().UTC(),
		Hook:            hook,
		Position:        position,
		Attempt:         attempt,
		Payload:         payload,
	}

	if err := e.policy.Ingest(context.Background(), envelope); err != nil {
		e.logError("telemetry dispatch failed", err)
	}
}

func (e *Emitter) logError(msg string, err error) {
	if e.logger == nil {
		return
	}
	e.logger.Warn(msg, map[string]any{"error": err.Error()})
}
