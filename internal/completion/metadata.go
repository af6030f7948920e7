// Package completion describes the lazystatus command line for shell
// completion.
package completion

import (
	"strings"

	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/models"
	"github.com/chmouel/lazystatus/internal/theme"
)

// FlagInfo contains metadata about a command-line flag for completion generation.
type FlagInfo struct {
	Name        string   // Flag name without dashes
	Short       string   // Single letter alias, may be empty
	Description string   // Human-readable description
	HasValue    bool     // true for string flags, false for bool flags
	ValueHint   string   // Hint for value type (e.g., "DIR", "PATH", "NAME")
	Values      []string // Enumerated values for completion (e.g., theme names)
}

// Formats lists the output formats in display order.
func Formats() []string {
	return []string{models.FormatText, models.FormatShort, models.FormatTree, models.FormatJSON, models.FormatYAML}
}

// UntrackedModes lists the accepted --untracked values.
func UntrackedModes() []string {
	return []string{models.UntrackedAll, models.UntrackedNormal, models.UntrackedNo}
}

// ConfigKeys lists the keys accepted by --config, with the ls. prefix.
func ConfigKeys() []string {
	keys := config.KnownKeys()
	for i, key := range keys {
		keys[i] = "ls." + key + "="
	}
	return keys
}

// GetFlags returns metadata for all global lazystatus flags.
func GetFlags() []FlagInfo {
	return []FlagInfo{
		{Name: "format", Short: "f", Description: "Output format", HasValue: true, ValueHint: "FORMAT", Values: Formats()},
		{Name: "untracked", Description: "Untracked files mode", HasValue: true, ValueHint: "MODE", Values: UntrackedModes()},
		{Name: "ignored", Description: "Include ignored files"},
		{Name: "no-icons", Description: "Disable file icons"},
		{Name: "theme", Short: "t", Description: "Override the color theme", HasValue: true, ValueHint: "NAME", Values: theme.AvailableThemes()},
		{Name: "all-worktrees", Short: "a", Description: "Show every worktree of the repository"},
		{Name: "watch", Short: "w", Description: "Keep a live view refreshed on changes"},
		{Name: "config-file", Description: "Path to configuration file", HasValue: true, ValueHint: "FILE"},
		{Name: "config", Short: "C", Description: "Override config values", HasValue: true, ValueHint: "KEY=VALUE", Values: ConfigKeys()},
		{Name: "debug-log", Description: "Path to debug log file", HasValue: true, ValueHint: "PATH"},
		{Name: "show-themes", Description: "List available themes"},
		{Name: "version", Short: "v", Description: "Print version information"},
	}
}

// Lookup finds a flag by long or short name, with or without dashes.
func Lookup(name string) (FlagInfo, bool) {
	name = strings.TrimLeft(name, "-")
	if i := strings.IndexByte(name, '='); i >= 0 {
		name = name[:i]
	}
	for _, flag := range GetFlags() {
		if name == flag.Name || (flag.Short != "" && name == flag.Short) {
			return flag, true
		}
	}
	return FlagInfo{}, false
}

// Suggest returns completion candidates for the word being typed, given the
// previous word on the command line.
func Suggest(previous, current string) []string {
	if flag, ok := Lookup(previous); ok && flag.HasValue && strings.HasPrefix(previous, "-") && !strings.Contains(previous, "=") {
		return filterPrefix(flag.Values, current)
	}

	if !strings.HasPrefix(current, "-") {
		return nil
	}
	var out []string
	for _, flag := range GetFlags() {
		out = append(out, "--"+flag.Name)
		if flag.Short != "" {
			out = append(out, "-"+flag.Short)
		}
	}
	return filterPrefix(out, current)
}

func filterPrefix(values []string, prefix string) []string {
	var out []string
	for _, v := range values {
		if strings.HasPrefix(v, prefix) {
			out = append(out, v)
		}
	}
	return out
}
