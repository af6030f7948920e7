package render

import (
	"fmt"
	"path"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazystatus/internal/models"
)

const cleanMessage = "nothing to commit, working tree clean"

// branchLine describes the header record.
func branchLine(s *models.StatusSummary) string {
	var b strings.Builder
	switch {
	case s.Detached:
		b.WriteString("HEAD detached")
	case s.CurrentBranch() == "":
		b.WriteString("No branch information")
	default:
		b.WriteString("On " + s.CurrentBranch())
	}

	if tracking := s.TrackingBranch(); tracking != "" {
		b.WriteString("..." + tracking)
	}
	if counts := aheadBehind(s); counts != "" {
		b.WriteString(" [" + counts + "]")
	}
	return b.String()
}

func aheadBehind(s *models.StatusSummary) string {
	var parts []string
	if s.Ahead > 0 {
		parts = append(parts, fmt.Sprintf("ahead %d", s.Ahead))
	}
	if s.Behind > 0 {
		parts = append(parts, fmt.Sprintf("behind %d", s.Behind))
	}
	return strings.Join(parts, ", ")
}

func styledBranchLine(s *models.StatusSummary, opts Options) string {
	th := opts.theme()
	icon := ""
	if opts.Icons {
		icon = iconBranch
		if s.Detached {
			icon = iconDetached
		}
	}
	if !opts.Color {
		return iconWithSpace(icon) + branchLine(s)
	}

	var b strings.Builder
	b.WriteString(opts.paint(th.Accent, iconWithSpace(icon)))
	switch {
	case s.Detached:
		b.WriteString(opts.bold(th.Conflict, "HEAD detached"))
	case s.CurrentBranch() == "":
		b.WriteString(opts.paint(th.MutedFg, "No branch information"))
	default:
		b.WriteString("On " + opts.bold(th.Accent, s.CurrentBranch()))
	}
	if tracking := s.TrackingBranch(); tracking != "" {
		b.WriteString(opts.paint(th.MutedFg, "..."+tracking))
	}
	if s.Ahead > 0 || s.Behind > 0 {
		var parts []string
		if s.Ahead > 0 {
			parts = append(parts, opts.paint(th.Ahead, fmt.Sprintf("ahead %d", s.Ahead)))
		}
		if s.Behind > 0 {
			parts = append(parts, opts.paint(th.Behind, fmt.Sprintf("behind %d", s.Behind)))
		}
		b.WriteString(" [" + strings.Join(parts, ", ") + "]")
	}
	return b.String()
}

// changeLabel names a single status column the way git status does.
func changeLabel(status models.FileStatus) string {
	switch status {
	case models.StatusAdded:
		return "new file"
	case models.StatusDeleted:
		return "deleted"
	case models.StatusModified:
		return "modified"
	case models.StatusRenamed:
		return "renamed"
	case models.StatusCopied:
		return "copied"
	default:
		return "changed"
	}
}

type section struct {
	title string
	color lipgloss.Color
	lines []string
}

// textSections splits file entries into git-status-like groups.
func textSections(s *models.StatusSummary, opts Options) []section {
	th := opts.theme()
	conflicted := make(map[string]bool, len(s.Conflicted))
	for _, p := range s.Conflicted {
		conflicted[p] = true
	}

	staged := section{title: "Staged changes", color: th.Staged}
	changes := section{title: "Changes not staged", color: th.Unstaged}
	conflicts := section{title: "Unmerged paths", color: th.Conflict}
	untracked := section{title: "Untracked files", color: th.Untracked}

	for _, f := range s.Files {
		name := fileLabel(f, opts)
		switch {
		case conflicted[f.Path]:
			conflicts.lines = append(conflicts.lines, fmt.Sprintf("%s  %s", f.Code(), name))
		case f.Index == models.StatusUntracked:
			untracked.lines = append(untracked.lines, name)
		default:
			if f.Index != models.StatusNone {
				staged.lines = append(staged.lines, fmt.Sprintf("%-10s %s", changeLabel(f.Index)+":", name))
			}
			if f.WorkingDir != models.StatusNone {
				changes.lines = append(changes.lines, fmt.Sprintf("%-10s %s", changeLabel(f.WorkingDir)+":", withIcon(f.Path, opts)))
			}
		}
	}

	sections := []section{staged, changes, conflicts, untracked}
	if s.Ignored != nil {
		ignored := section{title: "Ignored files", color: th.Ignored}
		for _, p := range s.Ignored {
			ignored.lines = append(ignored.lines, withIcon(p, opts))
		}
		sections = append(sections, ignored)
	}
	return sections
}

func withIcon(p string, opts Options) string {
	if !opts.Icons {
		return p
	}
	isDir := strings.HasSuffix(p, "/")
	return iconWithSpace(deviconForName(path.Base(strings.TrimSuffix(p, "/")), isDir)) + p
}

// fileLabel is the path shown for the index column; renames show both ends.
func fileLabel(f models.FileStatusSummary, opts Options) string {
	if f.Index == models.StatusRenamed && f.From != "" && f.From != f.Path {
		return withIcon(f.From+" -> "+f.Path, opts)
	}
	return withIcon(f.Path, opts)
}

// textLines renders the long, sectioned format.
func textLines(s *models.StatusSummary, opts Options) []string {
	lines := []string{styledBranchLine(s, opts)}

	for _, sec := range textSections(s, opts) {
		if len(sec.lines) == 0 {
			continue
		}
		lines = append(lines, "", opts.bold(sec.color, sec.title+":"))
		for _, line := range sec.lines {
			lines = append(lines, "  "+opts.paint(sec.color, line))
		}
	}

	if s.IsClean() {
		lines = append(lines, "", opts.paint(opts.theme().MutedFg, cleanMessage))
	}
	return lines
}

// shortLines renders one `XY path` line per entry, git's short format.
func shortLines(s *models.StatusSummary) []string {
	lines := []string{"## " + shortBranch(s)}
	for _, f := range s.Files {
		if f.From != "" && f.From != f.Path {
			lines = append(lines, fmt.Sprintf("%s %s -> %s", f.Code(), f.From, f.Path))
			continue
		}
		lines = append(lines, fmt.Sprintf("%s %s", f.Code(), f.Path))
	}
	for _, p := range s.Ignored {
		lines = append(lines, "!! "+p)
	}
	return lines
}

func shortBranch(s *models.StatusSummary) string {
	name := s.CurrentBranch()
	if s.Detached || name == "" {
		name = "HEAD (no branch)"
	}
	if tracking := s.TrackingBranch(); tracking != "" {
		name += "..." + tracking
	}
	if counts := aheadBehind(s); counts != "" {
		name += " [" + counts + "]"
	}
	return name
}

// treeLines renders file entries as a directory tree.
func treeLines(s *models.StatusSummary, opts Options) []string {
	th := opts.theme()
	lines := []string{styledBranchLine(s, opts)}
	if s.IsClean() {
		return append(lines, opts.paint(th.MutedFg, cleanMessage))
	}

	for _, node := range BuildTree(s.Files).Flatten() {
		indent := strings.Repeat("  ", node.Depth)
		if node.IsDir() {
			icon := ""
			if opts.Icons {
				icon = iconWithSpace(deviconForName(path.Base(node.Path), true))
			}
			lines = append(lines, indent+opts.paint(th.MutedFg, icon+node.Name()+"/"))
			continue
		}

		icon := ""
		if opts.Icons {
			icon = iconWithSpace(deviconForName(node.Name(), false))
		}
		name := node.Name()
		if node.File.From != "" && node.File.From != node.File.Path {
			name += " <- " + node.File.From
		}
		lines = append(lines, fmt.Sprintf("%s%s %s%s", indent, colorCode(*node.File, opts), icon, name))
	}
	return lines
}

// colorCode colors the index column as staged and the working column as unstaged.
func colorCode(f models.FileStatusSummary, opts Options) string {
	th := opts.theme()
	if !opts.Color {
		return f.Code()
	}
	switch f.Index {
	case models.StatusUntracked:
		return opts.paint(th.Untracked, f.Code())
	case models.StatusUnmerged:
		return opts.paint(th.Conflict, f.Code())
	}
	if f.WorkingDir == models.StatusUnmerged || (f.Index == f.WorkingDir && (f.Index == models.StatusAdded || f.Index == models.StatusDeleted)) {
		return opts.paint(th.Conflict, f.Code())
	}

	index := opts.paint(th.Staged, f.Index.String())
	if f.Index == models.StatusRenamed {
		index = opts.paint(th.Renamed, f.Index.String())
	}
	return index + opts.paint(th.Unstaged, f.WorkingDir.String())
}
