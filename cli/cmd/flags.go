// Package cmd provides CLI commands for the hookchain binary.
package cmd

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
)

// Shared flags for read-only commands.
var (
	// FormatFlag selects output format: json, table, yaml.
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: json, table, yaml",
	}

	// NoColorFlag disables colored output.
	NoColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable colored output",
	}

	// TUIFlag enables Bubble Tea interactive mode.
	// Only valid for select read-only commands (inspect, stats).
	TUIFlag = &cli.BoolFlag{
		Name:  "tui",
		Usage: "Enable interactive TUI mode (inspect, stats only)",
	}

	// ConfigFlag points at the YAML config file.
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to hookchain config file",
		Value:   "hookchain.yaml",
	}

	// JournalDirFlag overrides the journal directory.
	JournalDirFlag = &cli.StringFlag{
		Name:  "journal-dir",
		Usage: "Journal directory (default: ~/.hookchain/journal)",
	}
)

// ReadOnlyFlags returns the shared flags for all read-only commands.
// Includes --tui so that unsupported commands can give an explicit error
// instead of a generic "flag not defined" one.
func ReadOnlyFlags() []cli.Flag {
	return []cli.Flag{
		FormatFlag,
		NoColorFlag,
		TUIFlag,
	}
}

// JournalFlags returns the flags for commands that read the journal.
func JournalFlags() []cli.Flag {
	return append(ReadOnlyFlags(), JournalDirFlag)
}

// DefaultJournalDir is the journal location when neither the flag nor the
// config names one.
func DefaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".hookchain", "journal")
	}
	return filepath.Join(home, ".hookchain", "journal")
}

// journalDir resolves the journal directory from flag, then config value,
// then the default.
func journalDir(c *cli.Context, configured string) string {
	if dir := c.String("journal-dir"); dir != "" {
		return dir
	}
	if configured != "" {
		return configured
	}
	return DefaultJournalDir()
}
