// Package bootstrap wires the lazystatus command line together.
package bootstrap

import (
	"fmt"
	"slices"
	"strings"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazystatus/internal/completion"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/theme"
)

// globalFlags returns all global flags for the application.
// Note: --version is provided automatically by urfave/cli via Command.Version
func globalFlags() []urfavecli.Flag {
	return []urfavecli.Flag{
		&urfavecli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: " + strings.Join(completion.Formats(), ", "),
		},
		&urfavecli.StringFlag{
			Name:  "untracked",
			Usage: "Untracked files mode: " + strings.Join(completion.UntrackedModes(), ", "),
		},
		&urfavecli.BoolFlag{
			Name:  "ignored",
			Usage: "Include ignored files",
		},
		&urfavecli.BoolFlag{
			Name:  "no-icons",
			Usage: "Disable file icons",
		},
		&urfavecli.StringFlag{
			Name:    "theme",
			Aliases: []string{"t"},
			Usage:   "Override the color theme",
		},
		&urfavecli.BoolFlag{
			Name:    "all-worktrees",
			Aliases: []string{"a"},
			Usage:   "Show every worktree of the repository",
		},
		&urfavecli.BoolFlag{
			Name:    "watch",
			Aliases: []string{"w"},
			Usage:   "Keep a live view refreshed on changes",
		},
		&urfavecli.StringFlag{
			Name:  "config-file",
			Usage: "Path to configuration file",
		},
		&urfavecli.StringSliceFlag{
			Name:    "config",
			Aliases: []string{"C"},
			Usage:   "Override config values (repeatable): --config=ls.key=value",
		},
		&urfavecli.StringFlag{
			Name:  "debug-log",
			Usage: "Path to debug log file",
		},
		&urfavecli.BoolFlag{
			Name:  "show-themes",
			Usage: "List available themes",
		},
	}
}

// applyFlagConfig copies explicitly set flags onto cfg.
func applyFlagConfig(cmd *urfavecli.Command, cfg *config.AppConfig) error {
	if cmd.IsSet("format") {
		format := strings.ToLower(strings.TrimSpace(cmd.String("format")))
		if !slices.Contains(completion.Formats(), format) {
			return fmt.Errorf("unknown output format %q", cmd.String("format"))
		}
		cfg.Format = format
	}
	if cmd.IsSet("untracked") {
		mode := strings.ToLower(strings.TrimSpace(cmd.String("untracked")))
		if !slices.Contains(completion.UntrackedModes(), mode) {
			return fmt.Errorf("unknown untracked mode %q", cmd.String("untracked"))
		}
		cfg.Untracked = mode
	}
	if err := applyThemeConfig(cfg, cmd.String("theme")); err != nil {
		return err
	}
	if cmd.Bool("ignored") {
		cfg.ShowIgnored = true
	}
	if cmd.Bool("no-icons") {
		cfg.ShowIcons = false
	}
	if cmd.Bool("all-worktrees") {
		cfg.AllWorktrees = true
	}
	return nil
}

// applyThemeConfig applies theme configuration from command line flag.
func applyThemeConfig(cfg *config.AppConfig, themeName string) error {
	if themeName == "" {
		return nil
	}

	normalized := theme.Normalize(themeName)
	if normalized == "" {
		return fmt.Errorf("unknown theme %q", themeName)
	}
	cfg.Theme = normalized
	return nil
}
