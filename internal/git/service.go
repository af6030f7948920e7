// Package git wraps the git commands lazystatus runs and decodes their output.
package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	gogit "github.com/go-git/go-git/v5"

	log "github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/models"
)

// LookupPath is used to find executables in PATH. It's exposed as a package variable
// so tests can mock it and avoid depending on system binaries being installed.
var LookupPath = exec.LookPath

// StatusOptions tunes the `git status` invocation.
type StatusOptions struct {
	Untracked string // all, normal or no
	Ignored   bool
}

// Args returns the git arguments for these options.
func (o StatusOptions) Args() []string {
	untracked := o.Untracked
	switch untracked {
	case models.UntrackedAll, models.UntrackedNormal, models.UntrackedNo:
	default:
		untracked = models.UntrackedAll
	}

	args := []string{"git", "status", "--porcelain", "-b", "-z", "--untracked-files=" + untracked}
	if o.Ignored {
		args = append(args, "--ignored")
	}
	return args
}

// Service runs git commands with a bounded number of concurrent processes.
type Service struct {
	semaphore chan struct{}
}

// NewService constructs a Service and sets up concurrency limits.
func NewService() *Service {
	limit := runtime.NumCPU() * 2
	if limit < 4 {
		limit = 4
	}
	if limit > 32 {
		limit = 32
	}

	// Counting semaphore: the channel starts full with 'limit' tokens.
	semaphore := make(chan struct{}, limit)
	for i := 0; i < limit; i++ {
		semaphore <- struct{}{}
	}

	return &Service{semaphore: semaphore}
}

func (s *Service) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func prepareAllowedCommand(ctx context.Context, args []string) (*exec.Cmd, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command provided")
	}

	switch args[0] {
	case "git":
		// #nosec G204 -- arguments for git command come from internal logic and are not shell interpolated
		return exec.CommandContext(ctx, "git", args[1:]...), nil
	default:
		return nil, fmt.Errorf("unsupported command %q", args[0])
	}
}

func (s *Service) acquireSemaphore() {
	<-s.semaphore
}

func (s *Service) releaseSemaphore() {
	s.semaphore <- struct{}{}
}

// RunGit executes a git command and returns its raw stdout.
// Exit codes listed in okReturncodes are not treated as failures.
func (s *Service) RunGit(ctx context.Context, args []string, cwd string, okReturncodes []int) (string, error) {
	command := strings.Join(args, " ")
	if command == "" {
		command = "<empty>"
	}
	s.debugf("run: %s (cwd=%s)", command, cwd)

	cmd, err := prepareAllowedCommand(ctx, args)
	if err != nil {
		s.debugf("error: %s (unsupported command)", command)
		return "", err
	}
	if cwd != "" {
		cmd.Dir = cwd
	}

	output, err := cmd.Output()
	if err != nil {
		var exitError *exec.ExitError
		if !errors.As(err, &exitError) {
			s.debugf("error: command not found: %s", args[0])
			return "", NewCommandError(args, "", err)
		}
		if !slices.Contains(okReturncodes, exitError.ExitCode()) {
			stderr := strings.TrimSpace(string(exitError.Stderr))
			s.debugf("error: %s (exit %d): %s", command, exitError.ExitCode(), stderr)
			return "", NewCommandError(args, stderr, err)
		}
	}

	s.debugf("ok: %s", command)
	return string(output), nil
}

// ResolveRoot returns the top level directory of the worktree containing path.
func (s *Service) ResolveRoot(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}

	repo, err := gogit.PlainOpenWithOptions(abs, &gogit.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%s: %w", abs, ErrNotARepository)
		}
		return "", fmt.Errorf("open repository at %s: %w", abs, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("%s: %w", abs, ErrBareRepository)
	}
	return wt.Filesystem.Root(), nil
}

// GitDir returns the absolute git directory of the worktree at path.
func (s *Service) GitDir(ctx context.Context, path string) (string, error) {
	out, err := s.RunGit(ctx, []string{"git", "rev-parse", "--absolute-git-dir"}, path, []int{0})
	if err != nil {
		return "", fmt.Errorf("resolve git dir: %w", err)
	}
	return strings.TrimSpace(out), nil
}

// Status runs `git status --porcelain -b -z` in path and decodes the result.
func (s *Service) Status(ctx context.Context, path string, opts StatusOptions) (*models.StatusSummary, error) {
	s.acquireSemaphore()
	defer s.releaseSemaphore()

	raw, err := s.RunGit(ctx, opts.Args(), path, []int{0})
	if err != nil {
		return nil, fmt.Errorf("git status in %s: %w", path, err)
	}

	summary := ParseStatusSummary(raw)
	s.debugf("decoded: %d files in %s", len(summary.Files), path)
	return summary, nil
}

// ListWorktrees returns the worktrees attached to the repository at path.
// The first entry is the main worktree.
func (s *Service) ListWorktrees(ctx context.Context, path string) ([]models.Worktree, error) {
	raw, err := s.RunGit(ctx, []string{"git", "worktree", "list", "--porcelain"}, path, []int{0})
	if err != nil {
		return nil, fmt.Errorf("git worktree list: %w", err)
	}
	return parseWorktrees(raw), nil
}

// parseWorktrees parses the blank-line separated blocks of `git worktree list --porcelain`.
func parseWorktrees(raw string) []models.Worktree {
	worktrees := []models.Worktree{}
	var current *models.Worktree

	flush := func() {
		if current != nil && current.Path != "" {
			worktrees = append(worktrees, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case line == "":
			flush()
		case strings.HasPrefix(line, "worktree "):
			flush()
			current = &models.Worktree{Path: strings.TrimPrefix(line, "worktree ")}
		case current == nil:
			continue
		case strings.HasPrefix(line, "HEAD "):
			current.Head = strings.TrimPrefix(line, "HEAD ")
		case strings.HasPrefix(line, "branch "):
			current.Branch = strings.TrimPrefix(strings.TrimPrefix(line, "branch "), "refs/heads/")
		case line == "detached":
			current.Detached = true
		case line == "bare":
			current.Bare = true
		}
	}
	flush()

	if len(worktrees) > 0 {
		worktrees[0].IsMain = true
	}
	return worktrees
}

// StatusAll decodes the status of every non-bare worktree of the repository at path.
// Results keep the order reported by git; failures are stored per worktree.
func (s *Service) StatusAll(ctx context.Context, path string, opts StatusOptions) ([]models.WorktreeStatus, error) {
	worktrees, err := s.ListWorktrees(ctx, path)
	if err != nil {
		return nil, err
	}

	results := make([]models.WorktreeStatus, len(worktrees))
	var wg sync.WaitGroup
	for i, wt := range worktrees {
		results[i].Worktree = wt
		if wt.Bare {
			continue
		}
		wg.Add(1)
		go func(i int, wt models.Worktree) {
			defer wg.Done()
			summary, err := s.Status(ctx, wt.Path, opts)
			results[i].Status = summary
			results[i].Err = err
		}(i, wt)
	}
	wg.Wait()

	return results, nil
}

// Available reports whether a git binary can be found in PATH.
func Available() bool {
	_, err := LookupPath("git")
	return err == nil
}
