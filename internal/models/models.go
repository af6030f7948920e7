// Package models defines the data objects shared across lazystatus packages.
package models

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string
	Head     string
	Branch   string // Short branch name, empty when detached
	Detached bool
	Bare     bool
	IsMain   bool
}

// WorktreeStatus pairs a worktree with its decoded status.
type WorktreeStatus struct {
	Worktree Worktree
	Status   *StatusSummary
	Err      error
}

// Output formats understood by the renderers.
const (
	FormatText  = "text"
	FormatShort = "short"
	FormatTree  = "tree"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Untracked file modes passed to --untracked-files.
const (
	UntrackedAll    = "all"
	UntrackedNormal = "normal"
	UntrackedNo     = "no"
)
