package git

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotARepository indicates that a path is not inside a git repository.
	ErrNotARepository = errors.New("not a git repository")

	// ErrBareRepository indicates that a repository has no working tree.
	ErrBareRepository = errors.New("bare repository has no working tree")
)

// CommandError represents a failed git invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command failed: %s", strings.Join(e.Args, " "))
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Is maps git's "not a git repository" failure onto ErrNotARepository.
func (e *CommandError) Is(target error) bool {
	return target == ErrNotARepository && strings.Contains(strings.ToLower(e.Stderr), "not a git repository")
}

// NewCommandError creates a new CommandError.
func NewCommandError(args []string, stderr string, err error) *CommandError {
	return &CommandError{
		Args:   append([]string{}, args...),
		Stderr: stderr,
		Err:    err,
	}
}
