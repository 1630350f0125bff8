package runtime

import (
	"context"
	"errors"

	"github.com/pithecene-io/hookchain/metrics"
	"github.com/pithecene-io/hookchain/telemetry"
	"github.com/pithecene-io/hookchain/types"
)

// RetryController drives the bounded attempt loop for one step. Attempts are
// numbered from 1; a failed attempt is re-invoked immediately, with no
// backoff, until maxAttempts is reached. The final attempt's result is
// returned unchanged, whether or not it succeeded.
type RetryController struct {
	invoker   Invoker
	emitter   *telemetry.Emitter
	collector *metrics.Collector
}

// NewRetryController creates a controller over the given invoker. The emitter
// and collector may be nil.
func NewRetryController(invoker Invoker, emitter *telemetry.Emitter, collector *metrics.Collector) *RetryController {
	return &RetryController{
		invoker:   invoker,
		emitter:   emitter,
		collector: collector,
	}
}

// Run executes the step's attempt loop and returns the terminal invocation
// plus the number of attempts used. Invoker errors that prevent an attempt
// from starting count as a failed attempt with exit code -1 and are retried
// like any other failure. Context cancellation stops the loop immediately.
func (r *RetryController) Run(ctx context.Context, hook types.HookMetadata, position int, path string, input []byte) (*Invocation, int) {
	maxAttempts := hook.MaxAttempts()
	timeout := hook.Timeout()

	var last *Invocation
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			r.collector.IncRetry()
		}
		r.collector.IncAttempt()
		r.emitter.StepAttempt(hook.Name, position, attempt, maxAttempts)

		inv, err := r.invoker.Invoke(ctx, path, input, timeout)
		if err != nil {
			inv = &Invocation{
				Outcome:  types.OutcomeFailed,
				ExitCode: -1,
				Output:   []byte(err.Error()),
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				// No point retrying a canceled run.
				return inv, attempt
			}
		}

		last = inv
		if inv.Outcome == types.OutcomeSuccess {
			return inv, attempt
		}
	}

	return last, maxAttempts
}
