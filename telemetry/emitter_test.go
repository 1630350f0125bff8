package telemetry

import (
	"testing"
	"time"

	"github.com/pithecene-io/hookchain/types"
)

func TestEmitter_EnvelopeShape(t *testing.T) {
	sink := NewStubSink()
	e := NewEmitter("run-001", "deploy", NewStrictPolicy(sink), nil)

	e.ChainStarted(3, true, false)

	events := sink.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	ev := events[0]

	if ev.ContractVersion != types.Version {
		t.Errorf("expected contract version %s, got %s", types.Version, ev.ContractVersion)
	}
	if ev.EventID == "" {
		t.Error("event id must be set")
	}
	if ev.RunID != "run-001" || ev.Chain != "deploy" {
		t.Errorf("run context missing: %+v", ev)
	}
	if ev.Seq != 1 {
		t.Errorf("expected seq 1, got %d", ev.Seq)
	}
	if ev.Type != types.EventChainStart {
		t.Errorf("expected chain_start, got %s", ev.Type)
	}
	if ev.Ts.IsZero() || ev.Ts.Location() != time.UTC {
		t.Errorf("timestamp must be set in UTC, got %v", ev.Ts)
	}
	if ev.Payload["total_steps"] != 3 {
		t.Errorf("expected total_steps 3, got %v", ev.Payload["total_steps"])
	}
}

func TestEmitter_SequenceIsMonotonic(t *testing.T) {
	sink := NewStubSink()
	e := NewEmitter("run-001", "deploy", NewStrictPolicy(sink), nil)

	e.ChainStarted(1, false, false)
	e.StepStarted("lint", 0, 2)
	e.StepAttempt("lint", 0, 1, 2)
	e.StepOutcome(&types.StepResult{HookName: "lint", Outcome: types.OutcomeSuccess})
	e.Propagation("lint", 0, 42)
	e.ChainCompleted(&types.ChainResult{Status: types.ChainCompleted})

	events := sink.Events()
	if len(events) != 6 {
		t.Fatalf("expected 6 events, got %d", len(events))
	}
	for i, ev := range events {
		if ev.Seq != uint64(i+1) {
			t.Errorf("event %d: expected seq %d, got %d", i, i+1, ev.Seq)
		}
	}
}

func TestEmitter_StepOutcomePayload(t *testing.T) {
	sink := NewStubSink()
	e := NewEmitter("run-001", "deploy", NewStrictPolicy(sink), nil)

	e.StepOutcome(&types.StepResult{
		HookName:       "build",
		Position:       2,
		AttemptsUsed:   3,
		Outcome:        types.OutcomeTimedOut,
		ExitCode:       types.TimeoutExitCode,
		CapturedOutput: []byte("partial"),
		Elapsed:        1500 * time.Millisecond,
	})

	ev := sink.Events()[0]
	if ev.Hook != "build" || ev.Position != 2 || ev.Attempt != 3 {
		t.Errorf("step identity wrong: %+v", ev)
	}
	if ev.Payload["outcome"] != "timed_out" {
		t.Errorf("expected timed_out, got %v", ev.Payload["outcome"])
	}
	if ev.Payload["exit_code"] != types.TimeoutExitCode {
		t.Errorf("expected exit code %d, got %v", types.TimeoutExitCode, ev.Payload["exit_code"])
	}
	if ev.Payload["elapsed_ms"] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", ev.Payload["elapsed_ms"])
	}
	if ev.Payload["output_bytes"] != 7 {
		t.Errorf("expected 7 output bytes, got %v", ev.Payload["output_bytes"])
	}
}

func TestEmitter_ChainCompletedFlushes(t *testing.T) {
	sink := NewStubSink()
	p := NewBufferedPolicy(sink, 16)
	e := NewEmitter("run-001", "deploy", p, nil)

	e.ChainStarted(1, false, false)
	e.ChainCompleted(&types.ChainResult{Status: types.ChainCompleted})

	if sink.EventsWritten != 2 {
		t.Errorf("chain completion should flush the buffer, got %d written", sink.EventsWritten)
	}
}

func TestEmitter_NilSafety(t *testing.T) {
	var e *Emitter

	// None of these should panic
	e.ChainStarted(1, false, false)
	e.StepStarted("h", 0, 1)
	e.StepAttempt("h", 0, 1, 1)
	e.StepOutcome(&types.StepResult{})
	e.Propagation("h", 0, 0)
	e.ChainCompleted(&types.ChainResult{})

	if s := e.Stats(); s.TotalEvents != 0 {
		t.Errorf("nil emitter stats should be zero, got %+v", s)
	}
}

func TestEmitter_DispatchErrorsDoNotPropagate(t *testing.T) {
	sink := NewStubSink()
	sink.ErrorOnWrite = errWriteFailed
	e := NewEmitter("run-001", "deploy", NewStrictPolicy(sink), nil)

	// Must not panic or surface the error
	e.ChainStarted(1, false, false)
	e.ChainCompleted(&types.ChainResult{Status: types.ChainCompleted})

	if s := e.Stats(); s.Errors != 2 {
		t.Errorf("expected 2 dispatch errors counted, got %d", s.Errors)
	}
}

var errWriteFailed = &writeFailedError{}

type writeFailedError struct{}

func (*writeFailedError) Error() string { return "write failed" }
