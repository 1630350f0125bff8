package reader

import (
	"github.com/pithecene-io/hookchain/journal"
	"github.com/pithecene-io/hookchain/types"
)

// Reader serves CLI read commands from a journal directory.
type Reader struct {
	journal *journal.Reader
}

// NewReader creates a reader over a journal directory.
func NewReader(dir string) *Reader {
	return &Reader{journal: journal.NewReader(dir)}
}

// InspectRun returns the deep view of one run, including per-step outcomes.
func (r *Reader) InspectRun(runID string) (*InspectRunResponse, error) {
	summary, err := r.journal.Summarize(runID)
	if err != nil {
		return nil, err
	}
	events, _, err := r.journal.Events(runID)
	if err != nil {
		return nil, err
	}

	resp := &InspectRunResponse{
		RunID:         summary.RunID,
		Chain:         summary.Chain,
		Status:        summary.Status,
		NoOp:          summary.NoOp,
		StartedAt:     summary.Started,
		DurationMs:    summary.DurationMs,
		StepsExecuted: summary.StepsExecuted,
		StepsFailed:   summary.StepsFailed,
		EventCount:    summary.EventCount,
		Truncated:     summary.Truncated,
		Steps:         make([]StepView, 0),
	}

	for _, ev := range events {
		if ev.Type != types.EventStepOutcome {
			continue
		}
		resp.Steps = append(resp.Steps, StepView{
			Hook:        ev.Hook,
			Position:    ev.Position,
			Attempts:    ev.Attempt,
			Outcome:     payloadString(ev.Payload, "outcome"),
			ExitCode:    payloadInt(ev.Payload, "exit_code"),
			ElapsedMs:   int64(payloadInt(ev.Payload, "elapsed_ms")),
			OutputBytes: payloadInt(ev.Payload, "output_bytes"),
		})
	}
	return resp, nil
}

// ListRuns returns filtered run listings, newest first.
func (r *Reader) ListRuns(opts ListRunsOptions) ([]ListRunItem, error) {
	summaries, err := r.journal.ListRuns()
	if err != nil {
		return nil, err
	}

	items := make([]ListRunItem, 0, len(summaries))
	for _, s := range summaries {
		if opts.Chain != "" && s.Chain != opts.Chain {
			continue
		}
		if opts.Status != "" && s.Status != opts.Status {
			continue
		}
		items = append(items, ListRunItem{
			RunID:         s.RunID,
			Chain:         s.Chain,
			Status:        s.Status,
			StepsExecuted: s.StepsExecuted,
			StepsFailed:   s.StepsFailed,
			StartedAt:     s.Started,
			Truncated:     s.Truncated,
		})
	}

	if opts.Limit > 0 && len(items) > opts.Limit {
		items = items[:opts.Limit]
	}
	return items, nil
}

// StatsRuns aggregates run outcomes across the whole journal.
func (r *Reader) StatsRuns() (*RunStats, error) {
	summaries, err := r.journal.ListRuns()
	if err != nil {
		return nil, err
	}

	stats := &RunStats{}
	for _, s := range summaries {
		stats.Total++
		switch s.Status {
		case "completed":
			stats.Completed++
		case "aborted":
			stats.Aborted++
		case "interrupted":
			stats.Interrupted++
		}
		if s.NoOp {
			stats.NoOp++
		}
	}
	return stats, nil
}

// StatsChains aggregates run outcomes per chain, sorted by chain name via the
// underlying newest-first listing collapsed into stable insertion order.
func (r *Reader) StatsChains() ([]ChainStats, error) {
	summaries, err := r.journal.ListRuns()
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var stats []ChainStats
	for _, s := range summaries {
		i, ok := index[s.Chain]
		if !ok {
			i = len(stats)
			index[s.Chain] = i
			stats = append(stats, ChainStats{Chain: s.Chain})
		}
		stats[i].Runs++
		switch s.Status {
		case "completed":
			stats[i].Completed++
		case "aborted":
			stats[i].Aborted++
		case "interrupted":
			stats[i].Interrupted++
		}
		stats[i].StepsExecuted += s.StepsExecuted
		stats[i].StepsFailed += s.StepsFailed
	}
	return stats, nil
}
