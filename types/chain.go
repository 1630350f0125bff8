// Package types defines core domain types for the hookchain runtime.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"fmt"
	"time"
)

// DefaultTimeoutSeconds is the per-attempt wall-clock timeout applied when
// hook metadata does not specify one.
const DefaultTimeoutSeconds = 30

// ErrInvalidChain is returned when a chain definition fails validation.
var ErrInvalidChain = errors.New("invalid chain definition")

// ChainDefinition is a named, ordered pipeline of hooks with an execution
// policy. Definitions are loaded once per invocation and are immutable for
// the duration of a chain run.
type ChainDefinition struct {
	// Name is the unique chain identifier.
	Name string
	// Description is an optional human-readable summary.
	Description string
	// Sequence is the ordered list of hook names. Must be non-empty.
	// Duplicates are allowed but discouraged.
	Sequence []string
	// PropagateOutput forwards each step's captured output as the next
	// step's input. Only non-empty output of successful steps propagates;
	// a failed or empty step leaves the previous payload in place. When
	// false, every step receives the chain's original input unchanged.
	PropagateOutput bool
	// StopOnFailure aborts the chain on any step failure after retries
	// are exhausted.
	StopOnFailure bool
	// Enabled gates execution. Disabled chains are treated as instantly
	// successful no-ops.
	Enabled bool
}

// Validate checks structural invariants of the definition.
func (c *ChainDefinition) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty chain name", ErrInvalidChain)
	}
	if len(c.Sequence) == 0 {
		return fmt.Errorf("%w: chain %q has an empty sequence", ErrInvalidChain, c.Name)
	}
	for i, hook := range c.Sequence {
		if hook == "" {
			return fmt.Errorf("%w: chain %q has an empty hook name at position %d", ErrInvalidChain, c.Name, i)
		}
	}
	return nil
}

// HookMetadata holds per-hook execution parameters, keyed by hook name.
type HookMetadata struct {
	// Name is the hook name the metadata applies to.
	Name string
	// TimeoutSeconds is the per-attempt wall-clock timeout. Must be positive.
	TimeoutSeconds int
	// RetryCount is the number of re-invocations after a failed attempt.
	// Zero means exactly one attempt.
	RetryCount int
	// Critical marks a hook whose failure always aborts the chain,
	// regardless of the chain's StopOnFailure setting.
	Critical bool
}

// DefaultHookMetadata returns metadata with all defaults applied for a hook
// that has no explicit configuration.
func DefaultHookMetadata(name string) HookMetadata {
	return HookMetadata{
		Name:           name,
		TimeoutSeconds: DefaultTimeoutSeconds,
	}
}

// MaxAttempts is RetryCount + 1, always >= 1.
func (m HookMetadata) MaxAttempts() int {
	if m.RetryCount < 0 {
		return 1
	}
	return m.RetryCount + 1
}

// Timeout returns the per-attempt timeout as a duration, falling back to the
// default when unset.
func (m HookMetadata) Timeout() time.Duration {
	seconds := m.TimeoutSeconds
	if seconds <= 0 {
		seconds = DefaultTimeoutSeconds
	}
	return time.Duration(seconds) * time.Second
}

// Validate checks that the metadata values are usable.
func (m HookMetadata) Validate() error {
	if m.Name == "" {
		return errors.New("hook metadata has an empty name")
	}
	if m.TimeoutSeconds < 0 {
		return fmt.Errorf("hook %q has a negative timeout", m.Name)
	}
	if m.RetryCount < 0 {
		return fmt.Errorf("hook %q has a negative retry count", m.Name)
	}
	return nil
}
