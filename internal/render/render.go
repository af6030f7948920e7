// Package render formats decoded git status for terminals and machines.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"gopkg.in/yaml.v3"

	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/theme"
)

// Options control how a summary is printed.
type Options struct {
	Format string
	Theme  *theme.Theme
	Color  bool
	Icons  bool
	Width  int // 0 disables truncation
}

func (o Options) theme() *theme.Theme {
	if o.Theme == nil {
		return theme.Dracula()
	}
	return o.Theme
}

// paint colors text when color output is enabled.
func (o Options) paint(color lipgloss.Color, text string) string {
	if !o.Color || text == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func (o Options) bold(color lipgloss.Color, text string) string {
	if !o.Color || text == "" {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(true).Render(text)
}

// fit truncates each line to the configured width.
func (o Options) fit(lines []string) string {
	if o.Width > 0 {
		for i, line := range lines {
			lines[i] = truncate.StringWithTail(line, uint(o.Width), "…") //nolint:gosec
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

// Render writes s to w in opts.Format.
func Render(w io.Writer, s *models.StatusSummary, opts Options) error {
	switch opts.Format {
	case models.FormatText, "":
		_, err := io.WriteString(w, opts.fit(textLines(s, opts)))
		return err
	case models.FormatShort:
		_, err := io.WriteString(w, opts.fit(shortLines(s)))
		return err
	case models.FormatTree:
		_, err := io.WriteString(w, opts.fit(treeLines(s, opts)))
		return err
	case models.FormatJSON:
		return writeJSON(w, NewReport(s))
	case models.FormatYAML:
		return writeYAML(w, NewReport(s))
	default:
		return fmt.Errorf("unknown output format %q", opts.Format)
	}
}

// RenderWorktrees writes one block per worktree. Structured formats emit a
// single list of reports.
func RenderWorktrees(w io.Writer, results []models.WorktreeStatus, opts Options) error {
	switch opts.Format {
	case models.FormatJSON, models.FormatYAML:
		reports := make([]Report, 0, len(results))
		for _, res := range results {
			reports = append(reports, worktreeReport(res))
		}
		if opts.Format == models.FormatJSON {
			return writeJSON(w, reports)
		}
		return writeYAML(w, reports)
	}

	th := opts.theme()
	for i, res := range results {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		title := res.Worktree.Path
		if res.Worktree.IsMain {
			title += " (main)"
		}
		if _, err := io.WriteString(w, opts.fit([]string{opts.bold(th.Accent, "▌ "+title)})); err != nil {
			return err
		}

		switch {
		case res.Worktree.Bare:
			_, err := io.WriteString(w, opts.paint(th.MutedFg, "bare repository")+"\n")
			if err != nil {
				return err
			}
		case res.Err != nil:
			_, err := io.WriteString(w, opts.paint(th.Conflict, "error: "+res.Err.Error())+"\n")
			if err != nil {
				return err
			}
		case res.Status != nil:
			if err := Render(w, res.Status, opts); err != nil {
				return err
			}
		}
	}
	return nil
}

func worktreeReport(res models.WorktreeStatus) Report {
	var report Report
	if res.Status != nil {
		report = NewReport(res.Status)
	} else {
		report = NewReport(models.NewStatusSummary())
	}
	report.Root = res.Worktree.Path
	if res.Err != nil {
		report.Error = res.Err.Error()
	}
	return report
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
