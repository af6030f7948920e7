package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	urfavecli "github.com/urfave/cli/v3"

	"github.com/chmouel/lazystatus/internal/app"
	"github.com/chmouel/lazystatus/internal/buildinfo"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/render"
	"github.com/chmouel/lazystatus/internal/theme"
	"github.com/chmouel/lazystatus/internal/watch"
)

// Run parses args and executes the matching command.
func Run(ctx context.Context, args []string) error {
	defer func() {
		if err := log.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing debug log: %v\n", err)
		}
	}()
	return NewCommand().Run(ctx, args)
}

// NewCommand builds the root lazystatus command.
func NewCommand() *urfavecli.Command {
	urfavecli.VersionPrinter = func(cmd *urfavecli.Command) {
		_, _ = io.WriteString(cmd.Root().Writer, buildinfo.Get().String())
	}

	return &urfavecli.Command{
		Name:                  "lazystatus",
		Usage:                 "Show a decoded git status summary",
		ArgsUsage:             "[path]",
		Version:               buildinfo.Get().Version,
		EnableShellCompletion: true,
		Flags:                 globalFlags(),
		Commands: []*urfavecli.Command{
			decodeCommand(),
			worktreesCommand(),
		},
		Action: func(ctx context.Context, cmd *urfavecli.Command) error {
			if cmd.Bool("show-themes") {
				printThemes(cmd.Root().Writer)
				return nil
			}
			return runStatus(ctx, cmd, cmd.Args().First(), false)
		},
		ShellComplete: completeGlobalFlags,
	}
}

// runStatus resolves the repository containing path and prints its status,
// or opens the live view when --watch is given.
func runStatus(ctx context.Context, cmd *urfavecli.Command, path string, allWorktrees bool) error {
	if path == "" {
		path = "."
	}
	if !git.Available() {
		return errors.New("git executable not found in PATH")
	}

	gitSvc := newCLIGitService()
	root, err := gitSvc.ResolveRoot(path)
	if err != nil {
		return err
	}

	cfg, err := loadCLIConfig(cmd, root)
	if err != nil {
		return err
	}
	if allWorktrees {
		cfg.AllWorktrees = true
	}
	log.Printf("status: root=%s format=%s untracked=%s all=%t", root, cfg.Format, cfg.Untracked, cfg.AllWorktrees)

	out := cmd.Root().Writer
	opts := renderOptions(cfg, out)
	statusOpts := git.StatusOptions{Untracked: cfg.Untracked, Ignored: cfg.ShowIgnored}

	if cmd.Bool("watch") {
		return runWatch(ctx, gitSvc, cfg, root, opts, out, cmd.Root().ErrWriter)
	}

	if cfg.AllWorktrees {
		results, err := gitSvc.StatusAll(ctx, root, statusOpts)
		if err != nil {
			return err
		}
		return render.RenderWorktrees(out, results, opts)
	}

	summary, err := gitSvc.Status(ctx, root, statusOpts)
	if err != nil {
		return err
	}
	return render.Render(out, summary, opts)
}

// runWatch opens the live view. A watcher failure leaves manual refresh working.
func runWatch(ctx context.Context, gitSvc *git.Service, cfg *config.AppConfig, root string, opts render.Options, out, errOut io.Writer) error {
	if !isTerminal(out) {
		return errors.New("--watch requires a terminal")
	}

	var events <-chan struct{}
	gitDir, err := gitSvc.GitDir(ctx, root)
	if err == nil {
		watcher := watch.New(root, gitDir, time.Duration(cfg.WatchDebounceMS)*time.Millisecond)
		if err = watcher.Start(ctx); err == nil {
			defer watcher.Stop()
			events = watcher.Events()
		}
	}
	if err != nil {
		fmt.Fprintf(errOut, "Warning: file watching disabled: %v\n", err)
	}

	return app.Run(ctx, app.NewModel(ctx, cfg, root, gitSvc, events, opts))
}

// printThemes prints the available themes, marking the ones used by default.
func printThemes(w io.Writer) {
	fmt.Fprintln(w, "Available themes:")
	for _, name := range theme.AvailableThemes() {
		marker := ""
		switch name {
		case theme.DefaultDark():
			marker = " (default dark)"
		case theme.DefaultLight():
			marker = " (default light)"
		}
		fmt.Fprintf(w, "  %s%s\n", name, marker)
	}
}
