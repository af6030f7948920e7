package bootstrap

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	urfavecli "github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/chmouel/lazystatus/internal/completion"
	"github.com/chmouel/lazystatus/internal/config"
	"github.com/chmouel/lazystatus/internal/render"
	"github.com/chmouel/lazystatus/internal/theme"
)

// isTerminal reports whether w is a terminal. Anything that is not an
// *os.File (buffers, pipes wrapped by tests) is treated as a pipe.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// terminalWidth returns the column count of w, or 0 when unknown.
var terminalWidth = func(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec
	if err != nil {
		return 0
	}
	return width
}

// renderOptions derives the renderer settings for out. Color and icons are
// only used on a terminal and honour NO_COLOR.
func renderOptions(cfg *config.AppConfig, out io.Writer) render.Options {
	tty := isTerminal(out)
	color := tty && os.Getenv("NO_COLOR") == ""
	if color {
		cfg.ResolveTheme()
	}

	opts := render.Options{
		Format: cfg.Format,
		Theme:  theme.GetTheme(cfg.Theme),
		Color:  color,
		Icons:  tty && cfg.ShowIcons,
		Width:  cfg.MaxWidth,
	}
	if tty {
		if width := terminalWidth(out); width > 0 && (opts.Width == 0 || width < opts.Width) {
			opts.Width = width
		}
	}
	return opts
}

// completeGlobalFlags prints completion candidates for the word being typed.
func completeGlobalFlags(_ context.Context, cmd *urfavecli.Command) {
	for _, candidate := range completionCandidates(os.Args, cmd) {
		fmt.Fprintln(cmd.Root().Writer, candidate)
	}
}

// completionCandidates derives suggestions from the raw arguments of a
// --generate-shell-completion invocation.
func completionCandidates(args []string, cmd *urfavecli.Command) []string {
	words := make([]string, 0, len(args))
	for _, arg := range args {
		if arg != "--generate-shell-completion" {
			words = append(words, arg)
		}
	}

	previous, current := "", ""
	switch {
	case len(words) >= 2:
		previous, current = words[len(words)-2], words[len(words)-1]
	case len(words) == 1:
		previous = words[0]
	}
	if isValueFlag(current) {
		return completion.Suggest(current, "")
	}
	if strings.HasPrefix(current, "-") || isValueFlag(previous) {
		return completion.Suggest(previous, current)
	}

	var out []string
	for _, sub := range cmd.Commands {
		if sub.Hidden || !strings.HasPrefix(sub.Name, current) {
			continue
		}
		out = append(out, sub.Name)
	}
	return out
}

func isValueFlag(word string) bool {
	if !strings.HasPrefix(word, "-") || strings.Contains(word, "=") {
		return false
	}
	flag, ok := completion.Lookup(word)
	return ok && flag.HasValue
}
