// Package theme provides the color palettes used to render status output.
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme maps status roles to colors.
type Theme struct {
	Accent    lipgloss.Color // branch name, section titles
	Border    lipgloss.Color
	MutedFg   lipgloss.Color // tracking info, hints
	TextFg    lipgloss.Color
	Staged    lipgloss.Color
	Unstaged  lipgloss.Color
	Untracked lipgloss.Color
	Renamed   lipgloss.Color
	Conflict  lipgloss.Color
	Ignored   lipgloss.Color
	Ahead     lipgloss.Color
	Behind    lipgloss.Color
}

// Theme names.
const (
	DraculaName      = "dracula"
	DraculaLightName = "dracula-light"
	NarnaName        = "narna"
	CleanLightName   = "clean-light"
	GruvboxDarkName  = "gruvbox-dark"
	NordName         = "nord"
)

// Dracula returns the Dracula theme (dark background, vibrant colors).
func Dracula() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#BD93F9"), // Purple
		Border:    lipgloss.Color("#6272A4"),
		MutedFg:   lipgloss.Color("#6272A4"), // Comment
		TextFg:    lipgloss.Color("#F8F8F2"),
		Staged:    lipgloss.Color("#50FA7B"), // Green
		Unstaged:  lipgloss.Color("#FFB86C"), // Orange
		Untracked: lipgloss.Color("#8BE9FD"), // Cyan
		Renamed:   lipgloss.Color("#FF79C6"), // Pink
		Conflict:  lipgloss.Color("#FF5555"), // Red
		Ignored:   lipgloss.Color("#44475A"),
		Ahead:     lipgloss.Color("#50FA7B"),
		Behind:    lipgloss.Color("#F1FA8C"), // Yellow
	}
}

// DraculaLight returns the Dracula theme adapted for light backgrounds.
func DraculaLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#7C3AED"),
		Border:    lipgloss.Color("#D0D7DE"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		Staged:    lipgloss.Color("#059669"),
		Unstaged:  lipgloss.Color("#D97706"),
		Untracked: lipgloss.Color("#0891B2"),
		Renamed:   lipgloss.Color("#DB2777"),
		Conflict:  lipgloss.Color("#DC2626"),
		Ignored:   lipgloss.Color("#A0A7B0"),
		Ahead:     lipgloss.Color("#059669"),
		Behind:    lipgloss.Color("#CA8A04"),
	}
}

// Narna returns a balanced dark theme with blue accents.
func Narna() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#41ADFF"),
		Border:    lipgloss.Color("#30363D"),
		MutedFg:   lipgloss.Color("#8B949E"),
		TextFg:    lipgloss.Color("#E6EDF3"),
		Staged:    lipgloss.Color("#3FB950"),
		Unstaged:  lipgloss.Color("#E3B341"),
		Untracked: lipgloss.Color("#7CE0F3"),
		Renamed:   lipgloss.Color("#D2A8FF"),
		Conflict:  lipgloss.Color("#F47067"),
		Ignored:   lipgloss.Color("#484F58"),
		Ahead:     lipgloss.Color("#3FB950"),
		Behind:    lipgloss.Color("#F2CC60"),
	}
}

// CleanLight returns a theme optimized for light terminal backgrounds.
func CleanLight() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#0598BC"),
		Border:    lipgloss.Color("#D0D7DE"),
		MutedFg:   lipgloss.Color("#6E7781"),
		TextFg:    lipgloss.Color("#24292F"),
		Staged:    lipgloss.Color("#1A7F37"),
		Unstaged:  lipgloss.Color("#9A6700"),
		Untracked: lipgloss.Color("#0598BC"),
		Renamed:   lipgloss.Color("#BF3989"),
		Conflict:  lipgloss.Color("#CF222E"),
		Ignored:   lipgloss.Color("#B1BAC4"),
		Ahead:     lipgloss.Color("#1A7F37"),
		Behind:    lipgloss.Color("#D4A72C"),
	}
}

// GruvboxDark returns the Gruvbox dark theme.
func GruvboxDark() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#FABD2F"),
		Border:    lipgloss.Color("#504945"),
		MutedFg:   lipgloss.Color("#928374"),
		TextFg:    lipgloss.Color("#EBDBB2"),
		Staged:    lipgloss.Color("#B8BB26"),
		Unstaged:  lipgloss.Color("#FE8019"),
		Untracked: lipgloss.Color("#83A598"),
		Renamed:   lipgloss.Color("#D3869B"),
		Conflict:  lipgloss.Color("#FB4934"),
		Ignored:   lipgloss.Color("#665C54"),
		Ahead:     lipgloss.Color("#B8BB26"),
		Behind:    lipgloss.Color("#FABD2F"),
	}
}

// Nord returns the Nord theme.
func Nord() *Theme {
	return &Theme{
		Accent:    lipgloss.Color("#88C0D0"),
		Border:    lipgloss.Color("#4C566A"),
		MutedFg:   lipgloss.Color("#81A1C1"),
		TextFg:    lipgloss.Color("#E5E9F0"),
		Staged:    lipgloss.Color("#A3BE8C"),
		Unstaged:  lipgloss.Color("#D08770"),
		Untracked: lipgloss.Color("#8FBCBB"),
		Renamed:   lipgloss.Color("#B48EAD"),
		Conflict:  lipgloss.Color("#BF616A"),
		Ignored:   lipgloss.Color("#4C566A"),
		Ahead:     lipgloss.Color("#A3BE8C"),
		Behind:    lipgloss.Color("#EBCB8B"),
	}
}

// GetTheme returns a theme by name, or Dracula if not found.
func GetTheme(name string) *Theme {
	switch name {
	case DraculaLightName:
		return DraculaLight()
	case NarnaName:
		return Narna()
	case CleanLightName:
		return CleanLight()
	case GruvboxDarkName:
		return GruvboxDark()
	case NordName:
		return Nord()
	default:
		return Dracula()
	}
}

// IsLight returns true if the theme is a light theme.
func IsLight(name string) bool {
	switch name {
	case DraculaLightName, CleanLightName:
		return true
	default:
		return false
	}
}

// DefaultDark returns the default dark theme name.
func DefaultDark() string {
	return DraculaName
}

// DefaultLight returns the default light theme name.
func DefaultLight() string {
	return DraculaLightName
}

// AvailableThemes returns a list of available theme names.
func AvailableThemes() []string {
	return []string{
		DraculaName,
		DraculaLightName,
		NarnaName,
		CleanLightName,
		GruvboxDarkName,
		NordName,
	}
}

// Normalize returns the canonical theme name, or "" when it is not supported.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, known := range AvailableThemes() {
		if name == known {
			return name
		}
	}
	return ""
}

// hasDarkBackground queries the terminal; swapped in tests.
var hasDarkBackground = termenv.HasDarkBackground

// DetectBackground picks the default dark or light theme from the terminal
// background. Terminals that do not answer are treated as dark.
func DetectBackground() string {
	if hasDarkBackground() {
		return DefaultDark()
	}
	return DefaultLight()
}
