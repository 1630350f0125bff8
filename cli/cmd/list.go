package cmd

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hookchain/cli/config"
	"github.com/pithecene-io/hookchain/cli/reader"
	"github.com/pithecene-io/hookchain/cli/render"
)

// listWarningThreshold is the number of items above which we warn about
// using --limit.
const listWarningThreshold = 100

// isStderrTTY returns true if stderr is a TTY.
func isStderrTTY() bool {
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// ChainListItem is the thin per-chain slice for listings.
type ChainListItem struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	Steps           int    `json:"steps"`
	Enabled         bool   `json:"enabled"`
	PropagateOutput bool   `json:"propagate_output"`
	StopOnFailure   bool   `json:"stop_on_failure"`
}

// ListCommand returns the list command with subcommands.
// Listings are thin slices; use inspect for detail.
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List entities (chains, runs)",
		Subcommands: []*cli.Command{
			listChainsCommand(),
			listRunsCommand(),
		},
	}
}

func listChainsCommand() *cli.Command {
	return &cli.Command{
		Name:   "chains",
		Usage:  "List configured chains",
		Flags:  append(ReadOnlyFlags(), ConfigFlag),
		Action: listChainsAction,
	}
}

func listChainsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list commands", 1)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	items := make([]ChainListItem, 0, len(cfg.Chains))
	for _, name := range cfg.ChainNames() {
		chain := cfg.Chain(name)
		items = append(items, ChainListItem{
			Name:            chain.Name,
			Description:     chain.Description,
			Steps:           len(chain.Sequence),
			Enabled:         chain.Enabled,
			PropagateOutput: chain.PropagateOutput,
			StopOnFailure:   chain.StopOnFailure,
		})
	}

	return r.Render(items)
}

func listRunsCommand() *cli.Command {
	return &cli.Command{
		Name:  "runs",
		Usage: "List journaled runs",
		Flags: append(JournalFlags(),
			&cli.StringFlag{
				Name:  "chain",
				Usage: "Filter by chain name",
			},
			&cli.StringFlag{
				Name:  "status",
				Usage: "Filter by status: completed, aborted, interrupted",
			},
			&cli.IntFlag{
				Name:  "limit",
				Usage: "Maximum number of runs to return (0 = no limit)",
				Value: 0,
			},
		),
		Action: listRunsAction,
	}
}

func listRunsAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for list commands", 1)
	}

	opts := reader.ListRunsOptions{
		Chain:  c.String("chain"),
		Status: c.String("status"),
		Limit:  c.Int("limit"),
	}

	results, err := reader.NewReader(journalDir(c, "")).ListRuns(opts)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	// Warn on large unbounded listings (TTY only, to stay quiet in pipelines).
	if len(results) > listWarningThreshold && opts.Limit == 0 && isStderrTTY() {
		fmt.Fprintf(os.Stderr, "Warning: returning %d results. Consider using --limit to reduce output.\n\n", len(results))
	}

	return r.Render(results)
}
