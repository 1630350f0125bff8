package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hookchain/cli/reader"
	"github.com/pithecene-io/hookchain/cli/render"
)

// StatsCommand returns the stats command with subcommands.
// Stats are aggregated, derived facts computed from the journal.
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show aggregated statistics (runs, chains)",
		Subcommands: []*cli.Command{
			statsRunsCommand(),
			statsChainsCommand(),
		},
	}
}

func statsRunsCommand() *cli.Command {
	return &cli.Command{
		Name:   "runs",
		Usage:  "Show run statistics",
		Flags:  JournalFlags(),
		Action: statsRunsAction,
	}
}

func statsRunsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	stats, err := reader.NewReader(journalDir(c, "")).StatsRuns()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI("stats_runs", stats)
	}

	return r.Render(stats)
}

func statsChainsCommand() *cli.Command {
	return &cli.Command{
		Name:   "chains",
		Usage:  "Show per-chain statistics",
		Flags:  JournalFlags(),
		Action: statsChainsAction,
	}
}

func statsChainsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	stats, err := reader.NewReader(journalDir(c, "")).StatsChains()
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI("stats_chains", stats)
	}

	return r.Render(stats)
}
