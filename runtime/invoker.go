// Package runtime executes hook chains: it spawns hook processes, bounds
// their lifetimes, retries failed attempts, and walks chain sequences under
// the configured failure policy.
package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/pithecene-io/hookchain/types"
)

// Invocation is the result of a single hook attempt.
type Invocation struct {
	// Outcome classifies the attempt.
	Outcome types.Outcome
	// ExitCode is the process exit code. types.TimeoutExitCode on timeout,
	// -1 when the process never started or was killed by a signal.
	ExitCode int
	// Output is the combined stdout and stderr, in interleaved arrival
	// order.
	Output []byte
	// Elapsed is the attempt's wall-clock duration.
	Elapsed time.Duration
}

// Invoker runs one hook attempt to completion.
type Invoker interface {
	// Invoke starts the executable at path, writes input to its stdin,
	// and waits for exit or timeout. A non-nil Invocation is returned for
	// every concluded attempt, including failures and timeouts; the error
	// is reserved for attempts that could not be started at all.
	Invoke(ctx context.Context, path string, input []byte, timeout time.Duration) (*Invocation, error)
}

// ProcessInvoker is the production Invoker. Each call spawns one child
// process in its own process group so a timeout kill reaps any grandchildren
// the hook spawned.
type ProcessInvoker struct{}

// NewProcessInvoker creates a ProcessInvoker.
func NewProcessInvoker() *ProcessInvoker {
	return &ProcessInvoker{}
}

// Invoke implements Invoker.
func (p *ProcessInvoker) Invoke(ctx context.Context, path string, input []byte, timeout time.Duration) (*Invocation, error) {
	start := time.Now()

	cmd := exec.Command(path)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	// One buffer for both streams keeps interleaving in arrival order.
	// exec.Cmd serializes writes when Stdout and Stderr are the same
	// writer value.
	var output bytes.Buffer
	cmd.Stdout = &output
	cmd.Stderr = &output

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("start hook %q: %w", path, err)
	}

	// Deliver the payload off the wait path. A hook that never reads
	// stdin must not block the invoker; closing stdin signals EOF to
	// hooks that do read it.
	go func() {
		if len(input) > 0 {
			_, _ = stdin.Write(input)
		}
		_ = stdin.Close()
	}()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	var waitErr error
	timedOut := false

	select {
	case waitErr = <-done:
	case <-timer.C:
		timedOut = true
		killProcessGroup(cmd)
		<-done
	case <-ctx.Done():
		killProcessGroup(cmd)
		<-done
		return nil, fmt.Errorf("hook %q interrupted: %w", path, ctx.Err())
	}

	inv := &Invocation{
		Output:  output.Bytes(),
		Elapsed: time.Since(start),
	}

	if timedOut {
		inv.Outcome = types.OutcomeTimedOut
		inv.ExitCode = types.TimeoutExitCode
		return inv, nil
	}

	inv.ExitCode = exitCodeFromWait(waitErr)
	if inv.ExitCode == 0 {
		inv.Outcome = types.OutcomeSuccess
	} else {
		inv.Outcome = types.OutcomeFailed
	}
	return inv, nil
}

// killProcessGroup terminates the child's entire process group. Falls back
// to killing just the child if the group signal fails.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL); err != nil {
		_ = cmd.Process.Kill()
	}
}

// exitCodeFromWait extracts the exit code from cmd.Wait's error.
// Signal-terminated processes report -1, matching exec.ExitError.ExitCode.
func exitCodeFromWait(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
