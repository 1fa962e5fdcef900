package watch

import (
	"log/slog"
	"os/exec"
	"strings"

	"tidy-hq/vesta/pkg/classify"
)

// WindowProvider reports the foreground window at the moment a file
// shows up, which is the best available signal for which application
// produced it.
type WindowProvider interface {
	ActiveWindow() classify.WindowInfo
}

// StaticWindowProvider always returns the same window info. It is the
// fallback when no window command is configured or available.
type StaticWindowProvider struct {
	Info classify.WindowInfo
}

// ActiveWindow returns the fixed window info, defaulting the process
// name to "unknown".
func (p *StaticWindowProvider) ActiveWindow() classify.WindowInfo {
	info := p.Info
	if info.ProcessName == "" {
		info.ProcessName = "unknown"
	}
	return info
}

// CommandWindowProvider shells out to a user-supplied command that
// prints the active process name on the first line and the window
// title on the second. Any failure falls back to the static provider.
type CommandWindowProvider struct {
	command  string
	fallback StaticWindowProvider
	logger   *slog.Logger
}

// NewCommandWindowProvider creates a provider around command, run via
// the shell.
func NewCommandWindowProvider(command string, logger *slog.Logger) *CommandWindowProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandWindowProvider{
		command: command,
		logger:  logger.With("component", "watch.window"),
	}
}

// ActiveWindow runs the configured command and parses its output.
func (p *CommandWindowProvider) ActiveWindow() classify.WindowInfo {
	out, err := exec.Command("sh", "-c", p.command).Output()
	if err != nil {
		p.logger.Debug("window command failed", "error", err)
		return p.fallback.ActiveWindow()
	}

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	info := classify.WindowInfo{}
	if len(lines) > 0 {
		info.ProcessName = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		info.WindowTitle = strings.TrimSpace(lines[1])
	}
	if info.ProcessName == "" {
		return p.fallback.ActiveWindow()
	}
	return info
}
