// Package config loads lazystatus configuration from YAML, git config and
// command line overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/theme"
	"github.com/chmouel/lazystatus/internal/utils"
)

const appName = "lazystatus"

// AppConfig defines the global lazystatus configuration options.
type AppConfig struct {
	Format             string // text, short, tree, json or yaml
	Untracked          string // all, normal or no
	ShowIgnored        bool
	ShowIcons          bool   // Render Nerd Font icons next to paths (default: true)
	Theme              string // Theme name: see AvailableThemes in internal/theme
	MaxWidth           int    // Truncate text output; 0 uses the terminal width
	DebugLog           string
	DebugLogMaxSize    int // megabytes
	DebugLogMaxBackups int
	WatchDebounceMS    int
	AllWorktrees       bool
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Format:             models.FormatText,
		Untracked:          models.UntrackedAll,
		ShowIgnored:        false,
		ShowIcons:          true,
		Theme:              "",
		MaxWidth:           0,
		DebugLogMaxSize:    10,
		DebugLogMaxBackups: 3,
		WatchDebounceMS:    300,
		AllWorktrees:       false,
	}
}

// knownKeys lists every key accepted by applyConfig.
var knownKeys = []string{
	"format",
	"untracked",
	"show_ignored",
	"show_icons",
	"theme",
	"max_width",
	"debug_log",
	"debug_log_max_size",
	"debug_log_max_backups",
	"watch_debounce_ms",
	"all_worktrees",
}

// KnownKeys returns the configuration keys in declaration order.
func KnownKeys() []string {
	return append([]string(nil), knownKeys...)
}

func isKnownKey(key string) bool {
	for _, k := range knownKeys {
		if k == key {
			return true
		}
	}
	return false
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return defaultVal
	case int:
		return v
	case string:
		text := strings.TrimSpace(v)
		if text == "" {
			return defaultVal
		}
		if i, err := strconv.Atoi(text); err == nil {
			return i
		}
	}
	return defaultVal
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

func normalizeFormat(value string) string {
	value = strings.ToLower(value)
	switch value {
	case models.FormatText, models.FormatShort, models.FormatTree, models.FormatJSON, models.FormatYAML:
		return value
	}
	return ""
}

func normalizeUntracked(value string) string {
	value = strings.ToLower(value)
	switch value {
	case models.UntrackedAll, models.UntrackedNormal, models.UntrackedNo:
		return value
	}
	return ""
}

// applyConfig overlays the keys present in data onto cfg. Invalid values
// keep whatever cfg already holds.
func applyConfig(cfg *AppConfig, data map[string]any) {
	if v, ok := data["format"]; ok {
		if format := normalizeFormat(coerceString(v)); format != "" {
			cfg.Format = format
		}
	}
	if v, ok := data["untracked"]; ok {
		if mode := normalizeUntracked(coerceString(v)); mode != "" {
			cfg.Untracked = mode
		}
	}
	if v, ok := data["theme"]; ok {
		if name := theme.Normalize(coerceString(v)); name != "" {
			cfg.Theme = name
		}
	}
	if v, ok := data["debug_log"]; ok {
		if path := coerceString(v); path != "" {
			cfg.DebugLog = path
		}
	}

	cfg.ShowIgnored = coerceBool(data["show_ignored"], cfg.ShowIgnored)
	cfg.ShowIcons = coerceBool(data["show_icons"], cfg.ShowIcons)
	cfg.AllWorktrees = coerceBool(data["all_worktrees"], cfg.AllWorktrees)
	cfg.MaxWidth = coerceInt(data["max_width"], cfg.MaxWidth)
	cfg.DebugLogMaxSize = coerceInt(data["debug_log_max_size"], cfg.DebugLogMaxSize)
	cfg.DebugLogMaxBackups = coerceInt(data["debug_log_max_backups"], cfg.DebugLogMaxBackups)
	cfg.WatchDebounceMS = coerceInt(data["watch_debounce_ms"], cfg.WatchDebounceMS)

	if cfg.MaxWidth < 0 {
		cfg.MaxWidth = 0
	}
	if cfg.DebugLogMaxSize <= 0 {
		cfg.DebugLogMaxSize = 10
	}
	if cfg.DebugLogMaxBackups < 0 {
		cfg.DebugLogMaxBackups = 0
	}
	if cfg.WatchDebounceMS < 0 {
		cfg.WatchDebounceMS = 0
	}
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	applyConfig(cfg, data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// ConfigDir returns the directory holding config.yaml.
func ConfigDir() string {
	return filepath.Clean(filepath.Join(getConfigDir(), appName))
}

func readYAMLConfig(configPath string) (map[string]any, error) {
	configBase := ConfigDir()

	var paths []string
	if configPath != "" {
		expanded, err := utils.ExpandPath(configPath)
		if err != nil {
			return nil, err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return nil, err
		}
		if !utils.IsPathWithin(configBase, absPath) {
			return nil, fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return yamlData, nil
	}

	return nil, nil
}

// LoadConfig builds the configuration from the YAML file, then the
// [lazystatus] section of the global and repository git config. repoRoot may
// be empty when the command does not run inside a repository.
func LoadConfig(configPath, repoRoot string) (*AppConfig, error) {
	cfg := DefaultConfig()

	yamlData, err := readYAMLConfig(configPath)
	if err != nil {
		return cfg, err
	}
	applyConfig(cfg, yamlData)

	gitData, err := loadGitConfig(repoRoot)
	if err != nil {
		return cfg, err
	}
	applyConfig(cfg, gitData)

	return cfg, nil
}

// ApplyCLIOverrides applies --config=ls.key=value overrides on top of cfg.
func (cfg *AppConfig) ApplyCLIOverrides(overrides []string) error {
	if len(overrides) == 0 {
		return nil
	}
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	applyConfig(cfg, data)
	return nil
}

// ResolveTheme fills in Theme from the terminal background when unset.
func (cfg *AppConfig) ResolveTheme() {
	if cfg.Theme == "" {
		cfg.Theme = theme.DetectBackground()
	}
}
