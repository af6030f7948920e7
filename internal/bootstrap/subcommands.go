package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/render"
	"github.com/chmouel/lazystatus/internal/utils"
)

// decodeCommand returns the decode subcommand definition.
func decodeCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "decode",
		Usage:     "Decode git status --porcelain -b -z output read from a file or stdin",
		ArgsUsage: "[file|-]",
		Action: func(_ context.Context, cmd *urfavecli.Command) error {
			cfg, err := loadCLIConfig(cmd, "")
			if err != nil {
				return err
			}

			data, err := readInput(cmd.Args().First(), cmd.Root().Reader)
			if err != nil {
				return err
			}

			summary := git.ParseStatusSummary(string(data))
			log.Printf("decode: %d bytes, %d files", len(data), len(summary.Files))
			out := cmd.Root().Writer
			return render.Render(out, summary, renderOptions(cfg, out))
		},
		ShellComplete: completeGlobalFlags,
	}
}

// worktreesCommand returns the worktrees subcommand definition.
func worktreesCommand() *urfavecli.Command {
	return &urfavecli.Command{
		Name:      "worktrees",
		Aliases:   []string{"wt"},
		Usage:     "Show the status of every worktree of the repository",
		ArgsUsage: "[path]",
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			return runStatus(ctx, cmd, cmd.Args().First(), true)
		},
		ShellComplete: completeGlobalFlags,
	}
}

// loadCLIConfig loads the configuration for repoRoot and applies flags and
// --config overrides on top. A broken config file is reported and skipped.
func loadCLIConfig(cmd *urfavecli.Command, repoRoot string) (*config.AppConfig, error) {
	cfg, err := config.LoadConfig(cmd.String("config-file"), repoRoot)
	if err != nil {
		fmt.Fprintf(cmd.Root().ErrWriter, "Error loading config: %v\n", err)
	}

	if err := applyFlagConfig(cmd, cfg); err != nil {
		return nil, err
	}

	if configOverrides := cmd.StringSlice("config"); len(configOverrides) > 0 {
		if err := cfg.ApplyCLIOverrides(configOverrides); err != nil {
			return nil, fmt.Errorf("error applying config overrides: %w", err)
		}
	}

	setupDebugLog(cmd.String("debug-log"), cfg, cmd.Root().ErrWriter)
	return cfg, nil
}

// setupDebugLog points the debug logger at the flag path, falling back to
// the configured one. Without either, buffered messages are dropped.
func setupDebugLog(flagPath string, cfg *config.AppConfig, errOut io.Writer) {
	log.SetRotation(cfg.DebugLogMaxSize, cfg.DebugLogMaxBackups)

	path := flagPath
	if path == "" {
		path = cfg.DebugLog
	}
	if path == "" {
		_ = log.SetFile("")
		return
	}

	if expanded, err := utils.ExpandPath(path); err == nil {
		path = expanded
	}
	cfg.DebugLog = path
	if err := log.SetFile(path); err != nil {
		fmt.Fprintf(errOut, "Error opening debug log file %q: %v\n", path, err)
	}
}

// newCLIGitService creates a new git service configured for CLI mode.
func newCLIGitService() *git.Service {
	return git.NewService()
}

// readInput reads name, or stdin when name is empty or "-".
func readInput(name string, stdin io.Reader) ([]byte, error) {
	if name == "" || name == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	path, err := utils.ExpandPath(name)
	if err != nil {
		return nil, err
	}
	// #nosec G304 -- the user explicitly names the file to decode
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}
