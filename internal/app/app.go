// Package app implements the live status view.
package app

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	log "github.com/chmouel/lazystatus/internal/log"
	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/render"
	"github.com/chmouel/lazystatus/internal/theme"
)

// StatusProvider loads decoded status; *git.Service implements it.
type StatusProvider interface {
	Status(ctx context.Context, path string, opts git.StatusOptions) (*models.StatusSummary, error)
	StatusAll(ctx context.Context, path string, opts git.StatusOptions) ([]models.WorktreeStatus, error)
}

// Message types for the Bubble Tea app
type (
	statusLoadedMsg struct {
		summary   *models.StatusSummary
		worktrees []models.WorktreeStatus
		err       error
		at        time.Time
	}
	watchEventMsg struct{}
)

const (
	headerHeight = 2
	footerHeight = 1
)

// Model is the Bubble Tea model of the live view.
type Model struct {
	ctx      context.Context
	cfg      *config.AppConfig
	root     string
	provider StatusProvider
	events   <-chan struct{}
	opts     render.Options
	theme    *theme.Theme

	viewport viewport.Model
	summary  *models.StatusSummary
	trees    []models.WorktreeStatus
	err      error

	lastRefresh time.Time
	loading     bool
	quitting    bool
	refreshes   int
}

// NewModel creates the live view for the worktree at root. events may be nil
// when no watcher is running.
func NewModel(ctx context.Context, cfg *config.AppConfig, root string, provider StatusProvider, events <-chan struct{}, opts render.Options) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if opts.Theme == nil {
		opts.Theme = theme.GetTheme(cfg.Theme)
	}
	if opts.Format == "" || opts.Format == models.FormatJSON || opts.Format == models.FormatYAML {
		opts.Format = models.FormatText
	}

	return &Model{
		ctx:      ctx,
		cfg:      cfg,
		root:     root,
		provider: provider,
		events:   events,
		opts:     opts,
		theme:    opts.Theme,
		viewport: viewport.New(80, 20),
		loading:  true,
	}
}

func (m *Model) debugf(format string, args ...any) {
	log.Printf(format, args...)
}

func (m *Model) statusOptions() git.StatusOptions {
	return git.StatusOptions{Untracked: m.cfg.Untracked, Ignored: m.cfg.ShowIgnored}
}

// Init starts the first load and the watcher subscription.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refresh(), m.waitForWatchEvent())
}

func (m *Model) refresh() tea.Cmd {
	ctx, root, provider, opts := m.ctx, m.root, m.provider, m.statusOptions()
	allWorktrees := m.cfg.AllWorktrees
	return func() tea.Msg {
		msg := statusLoadedMsg{at: time.Now()}
		if allWorktrees {
			msg.worktrees, msg.err = provider.StatusAll(ctx, root, opts)
		} else {
			msg.summary, msg.err = provider.Status(ctx, root, opts)
		}
		return msg
	}
}

func (m *Model) waitForWatchEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		if _, ok := <-events; !ok {
			return nil
		}
		return watchEventMsg{}
	}
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.setWindowSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.refresh()
		case "g", "home":
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			m.viewport.GotoBottom()
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case watchEventMsg:
		m.debugf("live view: change detected in %s", m.root)
		m.loading = true
		return m, tea.Batch(m.refresh(), m.waitForWatchEvent())

	case statusLoadedMsg:
		m.loading = false
		m.refreshes++
		m.lastRefresh = msg.at
		m.err = msg.err
		if msg.err != nil {
			m.debugf("live view: refresh failed: %v", msg.err)
			return m, nil
		}
		m.summary = msg.summary
		m.trees = msg.worktrees
		m.updateContent()
		return m, nil
	}

	return m, nil
}

func (m *Model) setWindowSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = max(1, height-headerHeight-footerHeight)
	m.updateContent()
}

// contentWidth is the terminal width, capped by max_width.
func (m *Model) contentWidth() int {
	width := m.viewport.Width
	if m.cfg.MaxWidth > 0 && (width == 0 || m.cfg.MaxWidth < width) {
		width = m.cfg.MaxWidth
	}
	return width
}

func (m *Model) updateContent() {
	if m.summary == nil && m.trees == nil {
		return
	}

	opts := m.opts
	opts.Width = m.contentWidth()

	var buf bytes.Buffer
	var err error
	if m.trees != nil {
		err = render.RenderWorktrees(&buf, m.trees, opts)
	} else {
		err = render.Render(&buf, m.summary, opts)
	}
	if err != nil {
		m.err = err
		return
	}
	m.viewport.SetContent(strings.TrimRight(buf.String(), "\n"))
}

// View renders the UI
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderStatusLine(),
		m.viewport.View(),
		m.renderFooter(),
	)
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Foreground(m.theme.Accent).Bold(true).Render("lazystatus")
	root := lipgloss.NewStyle().Foreground(m.theme.TextFg).Render(m.root)
	return truncateLine(title+" "+root, m.viewport.Width)
}

func (m *Model) renderStatusLine() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	switch {
	case m.err != nil:
		return truncateLine(lipgloss.NewStyle().Foreground(m.theme.Conflict).Render("error: "+m.err.Error()), m.viewport.Width)
	case m.loading && m.lastRefresh.IsZero():
		return muted.Render("loading…")
	case m.loading:
		return muted.Render(fmt.Sprintf("refreshing… (last %s)", m.lastRefresh.Format("15:04:05")))
	default:
		return muted.Render("refreshed " + m.lastRefresh.Format("15:04:05"))
	}
}

func (m *Model) renderFooter() string {
	help := "r refresh • ↑/↓ scroll • g/G top/bottom • q quit"
	if m.events != nil {
		help = "watching • " + help
	}
	return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(help)
}

func truncateLine(line string, width int) string {
	if width <= 0 {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

// Run starts the live view and blocks until the user quits.
func Run(ctx context.Context, m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
