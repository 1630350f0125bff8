package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/hookchain/cli/config"
	"github.com/pithecene-io/hookchain/cli/render"
)

// ValidationResponse is the response for the validate command.
type ValidationResponse struct {
	Valid  bool   `json:"valid"`
	Config string `json:"config"`
	Chains int    `json:"chains"`
	Hooks  int    `json:"hooks"`
}

// ValidateCommand returns the validate command.
// Validates the config file without executing anything.
func ValidateCommand() *cli.Command {
	return &cli.Command{
		Name:   "validate",
		Usage:  "Validate the config file without running a chain",
		Flags:  append(ReadOnlyFlags(), ConfigFlag),
		Action: validateAction,
	}
}

func validateAction(c *cli.Context) error {
	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	if c.Bool("tui") {
		return cli.Exit("--tui is not supported for validate", 1)
	}

	path := c.String("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	if err := cfg.Validate(); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return r.Render(ValidationResponse{
		Valid:  true,
		Config: path,
		Chains: len(cfg.Chains),
		Hooks:  len(cfg.Hooks),
	})
}
