package runtime

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pithecene-io/hookchain/log"
	"github.com/pithecene-io/hookchain/metrics"
	"github.com/pithecene-io/hookchain/resolver"
	"github.com/pithecene-io/hookchain/telemetry"
	"github.com/pithecene-io/hookchain/types"
)

// State is the orchestrator lifecycle state.
type State string

const (
	// StateNotStarted is the initial state.
	StateNotStarted State = "not_started"
	// StateRunning means steps are executing.
	StateRunning State = "running"
	// StateCompleted means the run finished without an abort.
	StateCompleted State = "completed"
	// StateAborted means a step failure stopped the run early.
	StateAborted State = "aborted"
)

// Orchestrator walks one chain sequence to completion. Steps run strictly in
// order; a step's retries are exhausted before the failure policy is
// consulted; a critical hook failure or a stop-on-failure chain aborts the
// remainder of the sequence.
//
// An Orchestrator executes a single run and is not reusable.
type Orchestrator struct {
	runID     string
	resolver  resolver.Resolver
	retry     *RetryController
	emitter   *telemetry.Emitter
	collector *metrics.Collector
	logger    *log.Logger

	mu    sync.Mutex
	state State
}

// NewOrchestrator creates an orchestrator for one run. The emitter, collector
// and logger may be nil.
func NewOrchestrator(runID string, res resolver.Resolver, retry *RetryController, emitter *telemetry.Emitter, collector *metrics.Collector, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		runID:     runID,
		resolver:  res,
		retry:     retry,
		emitter:   emitter,
		collector: collector,
		logger:    logger,
		state:     StateNotStarted,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run executes the chain with the given initial input. Hook metadata is
// looked up by name in hooks; hooks without an entry get defaults.
//
// A nil or disabled chain is a no-op: the run completes immediately with
// zero steps executed. An invalid chain definition is the only condition
// that returns an error; every hook-level failure is absorbed into the
// result per the failure policy.
func (o *Orchestrator) Run(ctx context.Context, chain *types.ChainDefinition, hooks map[string]types.HookMetadata, input []byte) (*types.ChainResult, error) {
	start := time.Now()

	if chain == nil || !chain.Enabled {
		o.setState(StateCompleted)
		result := &types.ChainResult{
			RunID:  o.runID,
			Status: types.ChainCompleted,
			NoOp:   true,
		}
		if chain != nil {
			result.Chain = chain.Name
		}
		o.logInfo("chain is a no-op", map[string]any{"reason": noOpReason(chain)})
		o.emitter.ChainStarted(0, false, false)
		o.emitter.ChainCompleted(result)
		return result, nil
	}

	if err := chain.Validate(); err != nil {
		return nil, fmt.Errorf("chain %q: %w", chain.Name, err)
	}
	for _, meta := range hooks {
		if err := meta.Validate(); err != nil {
			return nil, fmt.Errorf("chain %q: %w", chain.Name, err)
		}
	}

	o.setState(StateRunning)
	o.emitter.ChainStarted(len(chain.Sequence), chain.PropagateOutput, chain.StopOnFailure)

	result := &types.ChainResult{
		Chain:  chain.Name,
		RunID:  o.runID,
		Status: types.ChainCompleted,
		Steps:  make([]types.StepResult, 0, len(chain.Sequence)),
	}

	currentInput := input

	for position, hookName := range chain.Sequence {
		meta, ok := hooks[hookName]
		if !ok {
			meta = types.DefaultHookMetadata(hookName)
		}

		o.emitter.StepStarted(hookName, position, meta.MaxAttempts())

		step := o.runStep(ctx, meta, position, currentInput)
		result.Steps = append(result.Steps, step)
		result.StepsExecuted++

		if step.Outcome.IsFailure() {
			result.StepsFailed++
			o.collector.IncStepFailed()
			if step.Outcome == types.OutcomeTimedOut {
				o.collector.IncStepTimedOut()
			}
		}
		o.collector.IncStepExecuted()
		o.emitter.StepOutcome(&step)

		if step.Outcome.IsFailure() && (meta.Critical || chain.StopOnFailure) {
			o.logError("step failure aborted chain", map[string]any{
				"hook":     hookName,
				"position": position,
				"outcome":  string(step.Outcome),
				"critical": meta.Critical,
			})
			result.Status = types.ChainAborted
			result.AbortOutcome = step.Outcome
			break
		}

		if chain.PropagateOutput && step.Outcome == types.OutcomeSuccess && len(step.CapturedOutput) > 0 {
			currentInput = step.CapturedOutput
			o.emitter.Propagation(hookName, position, len(currentInput))
		}
	}

	result.Duration = time.Since(start)

	if result.Status == types.ChainAborted {
		o.setState(StateAborted)
	} else {
		o.setState(StateCompleted)
	}

	o.emitter.ChainCompleted(result)
	return result, nil
}

// runStep resolves and invokes one hook, absorbing resolution failures into
// a failed step result.
func (o *Orchestrator) runStep(ctx context.Context, meta types.HookMetadata, position int, input []byte) types.StepResult {
	step := types.StepResult{
		HookName: meta.Name,
		Position: position,
	}

	path, err := o.resolver.Resolve(meta.Name)
	if err != nil {
		o.collector.IncResolveFailure()
		o.logError("hook resolution failed", map[string]any{
			"hook":  meta.Name,
			"error": err.Error(),
		})
		step.Outcome = types.OutcomeFailed
		step.ExitCode = -1
		step.CapturedOutput = []byte(err.Error())
		return step
	}

	inv, attempts := o.retry.Run(ctx, meta, position, path, input)
	step.AttemptsUsed = attempts
	step.Outcome = inv.Outcome
	step.ExitCode = inv.ExitCode
	step.CapturedOutput = inv.Output
	step.Elapsed = inv.Elapsed
	return step
}

func (o *Orchestrator) logInfo(msg string, fields map[string]any) {
	if o.logger == nil {
		return
	}
	o.logger.Info(msg, fields)
}

func (o *Orchestrator) logError(msg string, fields map[string]any) {
	if o.logger == nil {
		return
	}
	o.logger.Error(msg, fields)
}

func noOpReason(chain *types.ChainDefinition) string {
	if chain == nil {
		return "chain not found"
	}
	return "chain disabled"
}
