package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"
)

const (
	gitConfigSection = appName
	overridePrefix   = "ls."
)

// globalGitConfigPaths returns the user level git config files, lowest
// precedence first.
var globalGitConfigPaths = func() []string {
	var paths []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "git", "config"))
	} else if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "git", "config"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".gitconfig"))
	}
	return paths
}

// gitKeyName maps a git config variable onto a config key. Git does not
// allow underscores in variable names, so show-icons and showicons both map
// to show_icons.
func gitKeyName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	flat := strings.NewReplacer("-", "", "_", "").Replace(name)
	for _, key := range knownKeys {
		if strings.ReplaceAll(key, "_", "") == flat {
			return key
		}
	}
	return ""
}

// repoGitDir returns the directory holding the repository config for the
// worktree at root. Linked worktrees point at the main repository through
// their .git file and commondir.
func repoGitDir(root string) string {
	dotGit := filepath.Join(root, ".git")
	info, err := os.Stat(dotGit)
	if err != nil {
		return ""
	}
	if info.IsDir() {
		return dotGit
	}

	// #nosec G304 -- .git file inside the resolved repository root
	data, err := os.ReadFile(dotGit)
	if err != nil {
		return ""
	}
	gitDir := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(string(data)), "gitdir:"))
	if gitDir == "" {
		return ""
	}
	if !filepath.IsAbs(gitDir) {
		gitDir = filepath.Join(root, gitDir)
	}

	// #nosec G304 -- commondir lives in the worktree's git directory
	if common, err := os.ReadFile(filepath.Join(gitDir, "commondir")); err == nil {
		commonDir := strings.TrimSpace(string(common))
		if !filepath.IsAbs(commonDir) {
			commonDir = filepath.Join(gitDir, commonDir)
		}
		return filepath.Clean(commonDir)
	}
	return gitDir
}

// gitConfigFiles returns the git config files to read, lowest precedence first.
func gitConfigFiles(repoRoot string) []string {
	files := globalGitConfigPaths()
	if repoRoot != "" {
		if gitDir := repoGitDir(repoRoot); gitDir != "" {
			files = append(files, filepath.Join(gitDir, "config"))
		}
	}
	return files
}

// readGitConfigSection reads the [lazystatus] section of the given files.
// Missing files are skipped; later files win.
func readGitConfigSection(files []string) (map[string]any, error) {
	result := make(map[string]any)
	if len(files) == 0 {
		return result, nil
	}

	sources := make([]any, 0, len(files))
	for _, f := range files {
		sources = append(sources, f)
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		Loose:                   true,
		Insensitive:             true,
		AllowBooleanKeys:        true,
		SkipUnrecognizableLines: true,
	}, sources[0], sources[1:]...)
	if err != nil {
		return nil, fmt.Errorf("failed to read git config: %w", err)
	}

	section, err := cfg.GetSection(gitConfigSection)
	if err != nil {
		return result, nil
	}

	for _, key := range section.Keys() {
		name := gitKeyName(key.Name())
		if name == "" {
			continue
		}
		// A bare `showIgnored` line reads as "true" thanks to AllowBooleanKeys.
		result[name] = key.String()
	}
	return result, nil
}

// loadGitConfig reads the [lazystatus] section from the user's git config and
// from the repository at repoRoot.
func loadGitConfig(repoRoot string) (map[string]any, error) {
	return readGitConfigSection(gitConfigFiles(repoRoot))
}

// parseCLIConfigOverrides parses --config=ls.key=value format.
// Returns a map suitable for applyConfig().
func parseCLIConfigOverrides(overrides []string) (map[string]any, error) {
	result := make(map[string]any)

	for _, override := range overrides {
		fullKey, value, found := strings.Cut(override, "=")
		if !found {
			return nil, fmt.Errorf("invalid config override: %q, expected format: ls.key=value (note: use = not space)", override)
		}

		if !strings.HasPrefix(fullKey, overridePrefix) {
			return nil, fmt.Errorf("config override key must start with %q: %q", overridePrefix, fullKey)
		}

		key := strings.TrimPrefix(fullKey, overridePrefix)
		if key == "" {
			return nil, fmt.Errorf("empty config key in override: %q", override)
		}
		if !isKnownKey(key) {
			return nil, fmt.Errorf("unknown config key %q (known keys: %s)", key, strings.Join(knownKeys, ", "))
		}

		// Repeated keys: the last one wins.
		result[key] = value
	}

	return result, nil
}
