package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hookchain/cli/config"
	"github.com/pithecene-io/hookchain/cli/reader"
	"github.com/pithecene-io/hookchain/cli/render"
	"github.com/pithecene-io/hookchain/types"
)

// InspectCommand returns the inspect command with subcommands.
// Inspect returns a deep view of a single entity.
func InspectCommand() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Inspect a single entity (run, chain)",
		Subcommands: []*cli.Command{
			inspectRunCommand(),
			inspectChainCommand(),
		},
	}
}

func inspectRunCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Inspect a run by ID",
		ArgsUsage: "<run-id>",
		Flags:     JournalFlags(),
		Action:    inspectRunAction,
	}
}

func inspectRunAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("run-id required", 1)
	}
	runID := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	resp, err := reader.NewReader(journalDir(c, "")).InspectRun(runID)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if c.Bool("tui") {
		return r.RenderTUI("inspect_run", resp)
	}

	return r.Render(resp)
}

func inspectChainCommand() *cli.Command {
	return &cli.Command{
		Name:      "chain",
		Usage:     "Inspect a configured chain by name",
		ArgsUsage: "<chain>",
		Flags:     append(ReadOnlyFlags(), ConfigFlag),
		Action:    inspectChainAction,
	}
}

// ChainDetail is the deep view of one configured chain, including the
// effective per-hook execution parameters.
type ChainDetail struct {
	Name            string      `json:"name"`
	Description     string      `json:"description,omitempty"`
	Enabled         bool        `json:"enabled"`
	PropagateOutput bool        `json:"propagate_output"`
	StopOnFailure   bool        `json:"stop_on_failure"`
	Sequence        []ChainStep `json:"sequence"`
}

// ChainStep is one step of a chain detail view.
type ChainStep struct {
	Position       int    `json:"position"`
	Hook           string `json:"hook"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	MaxAttempts    int    `json:"max_attempts"`
	Critical       bool   `json:"critical"`
}

func inspectChainAction(c *cli.Context) error {
	if c.NArg() < 1 {
		return cli.Exit("chain name required", 1)
	}
	chainName := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for inspect chain", 1)
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	detail := chainDetail(cfg, chainName)
	if detail == nil {
		return cli.Exit("chain not found: "+chainName, 1)
	}

	return r.Render(detail)
}

func chainDetail(cfg *config.Config, name string) *ChainDetail {
	chain := cfg.Chain(name)
	if chain == nil {
		return nil
	}

	hooks := cfg.HookMetadata()
	detail := &ChainDetail{
		Name:            chain.Name,
		Description:     chain.Description,
		Enabled:         chain.Enabled,
		PropagateOutput: chain.PropagateOutput,
		StopOnFailure:   chain.StopOnFailure,
		Sequence:        make([]ChainStep, 0, len(chain.Sequence)),
	}

	for i, hookName := range chain.Sequence {
		meta, ok := hooks[hookName]
		if !ok {
			meta = types.DefaultHookMetadata(hookName)
		}
		detail.Sequence = append(detail.Sequence, ChainStep{
			Position:       i,
			Hook:           hookName,
			TimeoutSeconds: meta.TimeoutSeconds,
			MaxAttempts:    meta.MaxAttempts(),
			Critical:       meta.Critical,
		})
	}
	return detail
}
