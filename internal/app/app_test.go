package app

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/exp/teatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/git"
	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/render"
)

type fakeProvider struct {
	mu        sync.Mutex
	raw       []string
	calls     int
	allCalls  int
	err       error
	lastOpts  git.StatusOptions
	worktrees []models.WorktreeStatus
}

func (f *fakeProvider) Status(_ context.Context, _ string, opts git.StatusOptions) (*models.StatusSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastOpts = opts
	raw := f.raw[min(f.calls, len(f.raw)-1)]
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return git.ParseStatusSummary(raw), nil
}

func (f *fakeProvider) StatusAll(_ context.Context, _ string, _ git.StatusOptions) ([]models.WorktreeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.allCalls++
	return f.worktrees, f.err
}

func (f *fakeProvider) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestModel(provider StatusProvider, events <-chan struct{}, cfg *config.AppConfig) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return NewModel(context.Background(), cfg, "/repo", provider, events, render.Options{})
}

func TestNewModelDefaults(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)

	assert.Equal(t, models.FormatText, m.opts.Format)
	assert.NotNil(t, m.theme)
	assert.True(t, m.loading)

	jsonModel := NewModel(context.Background(), nil, "/repo", &fakeProvider{}, nil, render.Options{Format: models.FormatJSON})
	assert.Equal(t, models.FormatText, jsonModel.opts.Format, "structured formats fall back to text")

	treeModel := NewModel(context.Background(), nil, "/repo", &fakeProvider{}, nil, render.Options{Format: models.FormatTree})
	assert.Equal(t, models.FormatTree, treeModel.opts.Format)
}

func TestRefreshUsesConfig(t *testing.T) {
	provider := &fakeProvider{raw: []string{"## main\x00?? new.txt\x00"}}
	cfg := config.DefaultConfig()
	cfg.Untracked = models.UntrackedNo
	cfg.ShowIgnored = true
	m := newTestModel(provider, nil, cfg)

	msg := m.refresh()()
	loaded, ok := msg.(statusLoadedMsg)
	require.True(t, ok)
	require.NoError(t, loaded.err)
	assert.Equal(t, []string{"new.txt"}, loaded.summary.NotAdded)
	assert.Equal(t, git.StatusOptions{Untracked: models.UntrackedNo, Ignored: true}, provider.lastOpts)
}

func TestRefreshAllWorktrees(t *testing.T) {
	provider := &fakeProvider{
		raw: []string{""},
		worktrees: []models.WorktreeStatus{
			{Worktree: models.Worktree{Path: "/repo", IsMain: true}, Status: git.ParseStatusSummary("## main")},
		},
	}
	cfg := config.DefaultConfig()
	cfg.AllWorktrees = true
	m := newTestModel(provider, nil, cfg)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	_, _ = m.Update(m.refresh()())

	assert.Equal(t, 1, provider.allCalls)
	assert.Zero(t, provider.callCount())
	assert.Contains(t, m.View(), "/repo (main)")
}

func TestUpdateStatusLoaded(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})

	at := time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)
	_, cmd := m.Update(statusLoadedMsg{
		summary: git.ParseStatusSummary("## main...origin/main [ahead 1]\x00 M service.go\x00"),
		at:      at,
	})
	assert.Nil(t, cmd)
	assert.False(t, m.loading)

	view := m.View()
	assert.Contains(t, view, "lazystatus")
	assert.Contains(t, view, "/repo")
	assert.Contains(t, view, "refreshed 15:04:05")
	assert.Contains(t, view, "service.go")
	assert.Contains(t, view, "ahead 1")
}

func TestUpdateStatusError(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	_, _ = m.Update(statusLoadedMsg{summary: git.ParseStatusSummary("## main\x00?? keep.txt\x00"), at: time.Now()})
	_, _ = m.Update(statusLoadedMsg{err: errors.New("git exploded"), at: time.Now()})

	view := m.View()
	assert.Contains(t, view, "error: git exploded")
	assert.Contains(t, view, "keep.txt", "previous content stays visible")
}

func TestWindowSizeReservesHeaderAndFooter(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 90, Height: 30})

	assert.Equal(t, 90, m.viewport.Width)
	assert.Equal(t, 30-headerHeight-footerHeight, m.viewport.Height)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 10, Height: 1})
	assert.Equal(t, 1, m.viewport.Height)
}

func TestContentWidthHonoursMaxWidth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MaxWidth = 40
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, cfg)

	_, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	assert.Equal(t, 40, m.contentWidth())

	_, _ = m.Update(tea.WindowSizeMsg{Width: 30, Height: 20})
	assert.Equal(t, 30, m.contentWidth())
}

func TestWaitForWatchEvent(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)
	assert.Nil(t, m.waitForWatchEvent())

	events := make(chan struct{}, 1)
	m = newTestModel(&fakeProvider{raw: []string{""}}, events, nil)
	events <- struct{}{}
	assert.Equal(t, watchEventMsg{}, m.waitForWatchEvent()())

	close(events)
	assert.Nil(t, m.waitForWatchEvent()())
}

func TestLiveViewRefreshAndQuit(t *testing.T) {
	provider := &fakeProvider{raw: []string{
		"## main\x00?? first.txt\x00",
		"## main\x00?? second.txt\x00",
	}}
	tm := teatest.NewTestModel(
		t,
		newTestModel(provider, nil, nil),
		teatest.WithInitialTermSize(120, 40),
	)

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("first.txt"))
		},
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("second.txt"))
		},
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	m, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.True(t, m.quitting)
	assert.Equal(t, 2, provider.callCount())
	assert.Empty(t, m.View())
}

func TestLiveViewRefreshesOnWatchEvent(t *testing.T) {
	provider := &fakeProvider{raw: []string{
		"## main\x00",
		"## main\x00 M watched.go\x00",
	}}
	events := make(chan struct{}, 1)
	tm := teatest.NewTestModel(
		t,
		newTestModel(provider, events, nil),
		teatest.WithInitialTermSize(120, 40),
	)

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("working tree clean"))
		},
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)

	events <- struct{}{}

	teatest.WaitFor(
		t, tm.Output(),
		func(bts []byte) bool {
			return bytes.Contains(bts, []byte("watched.go"))
		},
		teatest.WithCheckInterval(50*time.Millisecond),
		teatest.WithDuration(3*time.Second),
	)

	tm.Send(tea.KeyMsg{Type: tea.KeyCtrlC})
	tm.WaitFinished(t, teatest.WithFinalTimeout(2*time.Second))

	m, ok := tm.FinalModel(t).(*Model)
	require.True(t, ok)
	assert.GreaterOrEqual(t, m.refreshes, 2)
}

func TestFooterMentionsWatching(t *testing.T) {
	m := newTestModel(&fakeProvider{raw: []string{""}}, make(chan struct{}), nil)
	assert.Contains(t, m.renderFooter(), "watching")

	m = newTestModel(&fakeProvider{raw: []string{""}}, nil, nil)
	assert.NotContains(t, m.renderFooter(), "watching")
	assert.Contains(t, m.renderFooter(), "r refresh")
}
