package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/theme"
)

// isolateConfig points every config lookup at an empty temporary home.
func isolateConfig(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("HOME", tmpDir)
	return tmpDir
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, models.FormatText, cfg.Format)
	assert.Equal(t, models.UntrackedAll, cfg.Untracked)
	assert.False(t, cfg.ShowIgnored)
	assert.True(t, cfg.ShowIcons)
	assert.Empty(t, cfg.Theme)
	assert.Zero(t, cfg.MaxWidth)
	assert.Empty(t, cfg.DebugLog)
	assert.Equal(t, 10, cfg.DebugLogMaxSize)
	assert.Equal(t, 3, cfg.DebugLogMaxBackups)
	assert.Equal(t, 300, cfg.WatchDebounceMS)
	assert.False(t, cfg.AllWorktrees)
}

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		defaultVal bool
		expected   bool
	}{
		{name: "nil with default true", input: nil, defaultVal: true, expected: true},
		{name: "nil with default false", input: nil, defaultVal: false, expected: false},
		{name: "bool true", input: true, defaultVal: false, expected: true},
		{name: "bool false", input: false, defaultVal: true, expected: false},
		{name: "int 1", input: 1, defaultVal: false, expected: true},
		{name: "int 0", input: 0, defaultVal: true, expected: false},
		{name: "string yes", input: "yes", defaultVal: false, expected: true},
		{name: "string ON with spaces", input: "  ON ", defaultVal: false, expected: true},
		{name: "string off", input: "off", defaultVal: true, expected: false},
		{name: "string n", input: "n", defaultVal: true, expected: false},
		{name: "unknown string keeps default", input: "maybe", defaultVal: true, expected: true},
		{name: "float keeps default", input: 1.5, defaultVal: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceBool(tt.input, tt.defaultVal))
		})
	}
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name       string
		input      any
		defaultVal int
		expected   int
	}{
		{name: "nil", input: nil, defaultVal: 5, expected: 5},
		{name: "int", input: 42, defaultVal: 5, expected: 42},
		{name: "bool keeps default", input: true, defaultVal: 5, expected: 5},
		{name: "numeric string", input: " 120 ", defaultVal: 5, expected: 120},
		{name: "empty string", input: "", defaultVal: 5, expected: 5},
		{name: "invalid string", input: "abc", defaultVal: 5, expected: 5},
		{name: "negative string", input: "-3", defaultVal: 5, expected: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, coerceInt(tt.input, tt.defaultVal))
		})
	}
}

func TestParseConfig(t *testing.T) {
	tests := []struct {
		name     string
		data     map[string]any
		validate func(t *testing.T, cfg *AppConfig)
	}{
		{
			name: "empty data keeps defaults",
			data: map[string]any{},
			validate: func(t *testing.T, cfg *AppConfig) {
				assert.Equal(t, DefaultConfig(), cfg)
			},
		},
		{
			name: "all keys",
			data: map[string]any{
				"format":                "JSON",
				"untracked":             "normal",
				"show_ignored":          true,
				"show_icons":            "false",
				"theme":                 "Nord",
				"max_width":             100,
				"debug_log":             " /tmp/lazystatus.log ",
				"debug_log_max_size":    "20",
				"debug_log_max_backups": 5,
				"watch_debounce_ms":     "150",
				"all_worktrees":         "yes",
			},
			validate: func(t *testing.T, cfg *AppConfig) {
				assert.Equal(t, models.FormatJSON, cfg.Format)
				assert.Equal(t, models.UntrackedNormal, cfg.Untracked)
				assert.True(t, cfg.ShowIgnored)
				assert.False(t, cfg.ShowIcons)
				assert.Equal(t, theme.NordName, cfg.Theme)
				assert.Equal(t, 100, cfg.MaxWidth)
				assert.Equal(t, "/tmp/lazystatus.log", cfg.DebugLog)
				assert.Equal(t, 20, cfg.DebugLogMaxSize)
				assert.Equal(t, 5, cfg.DebugLogMaxBackups)
				assert.Equal(t, 150, cfg.WatchDebounceMS)
				assert.True(t, cfg.AllWorktrees)
			},
		},
		{
			name: "invalid values keep defaults",
			data: map[string]any{
				"format":    "xml",
				"untracked": "sometimes",
				"theme":     "unknown-theme",
				"debug_log": "   ",
			},
			validate: func(t *testing.T, cfg *AppConfig) {
				assert.Equal(t, models.FormatText, cfg.Format)
				assert.Equal(t, models.UntrackedAll, cfg.Untracked)
				assert.Empty(t, cfg.Theme)
				assert.Empty(t, cfg.DebugLog)
			},
		},
		{
			name: "negative numbers are clamped",
			data: map[string]any{
				"max_width":             -10,
				"debug_log_max_size":    -1,
				"debug_log_max_backups": -2,
				"watch_debounce_ms":     -5,
			},
			validate: func(t *testing.T, cfg *AppConfig) {
				assert.Zero(t, cfg.MaxWidth)
				assert.Equal(t, 10, cfg.DebugLogMaxSize)
				assert.Zero(t, cfg.DebugLogMaxBackups)
				assert.Zero(t, cfg.WatchDebounceMS)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, parseConfig(tt.data))
		})
	}
}

func TestApplyConfigLayers(t *testing.T) {
	cfg := DefaultConfig()
	applyConfig(cfg, map[string]any{"format": "tree", "show_icons": false})
	applyConfig(cfg, map[string]any{"format": "short"})

	assert.Equal(t, models.FormatShort, cfg.Format)
	assert.False(t, cfg.ShowIcons, "keys absent from a later layer are left alone")
}

func TestLoadConfig(t *testing.T) {
	t.Run("no config file returns defaults", func(t *testing.T) {
		isolateConfig(t)

		cfg, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("valid config file", func(t *testing.T) {
		tmpDir := isolateConfig(t)
		configPath := filepath.Join(tmpDir, "lazystatus", "config.yaml")

		yamlContent := `format: tree
untracked: "no"
show_ignored: true
show_icons: false
theme: gruvbox-dark
max_width: 80
watch_debounce_ms: 50
`
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0o600))

		cfg, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, models.FormatTree, cfg.Format)
		assert.Equal(t, models.UntrackedNo, cfg.Untracked)
		assert.True(t, cfg.ShowIgnored)
		assert.False(t, cfg.ShowIcons)
		assert.Equal(t, theme.GruvboxDarkName, cfg.Theme)
		assert.Equal(t, 80, cfg.MaxWidth)
		assert.Equal(t, 50, cfg.WatchDebounceMS)
	})

	t.Run("yml extension", func(t *testing.T) {
		tmpDir := isolateConfig(t)
		configPath := filepath.Join(tmpDir, "lazystatus", "config.yml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("format: short\n"), 0o600))

		cfg, err := LoadConfig("", "")
		require.NoError(t, err)
		assert.Equal(t, models.FormatShort, cfg.Format)
	})

	t.Run("explicit path inside config dir", func(t *testing.T) {
		tmpDir := isolateConfig(t)
		configPath := filepath.Join(tmpDir, "lazystatus", "work.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("format: json\n"), 0o600))

		cfg, err := LoadConfig(configPath, "")
		require.NoError(t, err)
		assert.Equal(t, models.FormatJSON, cfg.Format)
	})

	t.Run("explicit path outside config dir", func(t *testing.T) {
		isolateConfig(t)
		outside := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(outside, []byte("format: json\n"), 0o600))

		cfg, err := LoadConfig(outside, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config path must reside inside")
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		tmpDir := isolateConfig(t)
		configPath := filepath.Join(tmpDir, "lazystatus", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("invalid: [[["), 0o600))

		cfg, err := LoadConfig("", "")
		require.Error(t, err)
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("git config overrides yaml", func(t *testing.T) {
		tmpDir := isolateConfig(t)
		configPath := filepath.Join(tmpDir, "lazystatus", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(configPath), 0o750))
		require.NoError(t, os.WriteFile(configPath, []byte("format: tree\nmax_width: 40\n"), 0o600))

		repo := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o750))
		require.NoError(t, os.WriteFile(filepath.Join(repo, ".git", "config"),
			[]byte("[core]\n\tbare = false\n[lazystatus]\n\tformat = short\n"), 0o600))

		cfg, err := LoadConfig("", repo)
		require.NoError(t, err)
		assert.Equal(t, models.FormatShort, cfg.Format)
		assert.Equal(t, 40, cfg.MaxWidth)
	})
}

func TestApplyCLIOverrides(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyCLIOverrides(nil))
	assert.Equal(t, DefaultConfig(), cfg)

	require.NoError(t, cfg.ApplyCLIOverrides([]string{"ls.format=yaml", "ls.show_icons=no", "ls.theme=narna"}))
	assert.Equal(t, models.FormatYAML, cfg.Format)
	assert.False(t, cfg.ShowIcons)
	assert.Equal(t, theme.NarnaName, cfg.Theme)

	err := cfg.ApplyCLIOverrides([]string{"format=json"})
	require.Error(t, err)
	assert.Equal(t, models.FormatYAML, cfg.Format)
}

func TestResolveTheme(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Theme = theme.NordName
	cfg.ResolveTheme()
	assert.Equal(t, theme.NordName, cfg.Theme)

	cfg.Theme = ""
	cfg.ResolveTheme()
	assert.Contains(t, []string{theme.DefaultDark(), theme.DefaultLight()}, cfg.Theme)
}
