package report

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"runtime"

	"github.com/pkg/browser"

	"echo/internal/bungie"
	"echo/internal/logging"
)

// DefaultHost serves the trials report pages.
const DefaultHost = "destinytrialsreport.com"

type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) error
}

type execCommandRunner struct{}

func (execCommandRunner) Run(ctx context.Context, name string, args ...string) error {
	return exec.CommandContext(ctx, name, args...).Run()
}

// Launcher opens the report page for a resolved member, optionally playing a
// short sound first so the player hears the launch without alt-tabbing.
type Launcher struct {
	host      string
	soundPath string
	logger    *slog.Logger
	open      func(url string) error
	runner    commandRunner
}

// NewLauncher builds a launcher. An empty soundPath disables the sound.
func NewLauncher(host, soundPath string, logger *slog.Logger) *Launcher {
	if host == "" {
		host = DefaultHost
	}
	return &Launcher{
		host:      host,
		soundPath: soundPath,
		logger:    logging.NewComponentLogger(logger, "report"),
		open:      browser.OpenURL,
		runner:    execCommandRunner{},
	}
}

// URL composes the report page address for a member.
func (l *Launcher) URL(member bungie.Member) string {
	return fmt.Sprintf("https://%s/report/%d/%s", l.host, member.PlatformID, member.MembershipID)
}

// Launch plays the launch sound (best effort) and opens the report page in
// the default browser.
func (l *Launcher) Launch(ctx context.Context, member bungie.Member) error {
	l.playSound(ctx)

	target := l.URL(member)
	l.logger.Info("opening report", slog.String("url", target))
	if err := l.open(target); err != nil {
		return fmt.Errorf("open browser: %w", err)
	}
	return nil
}

func (l *Launcher) playSound(ctx context.Context) {
	if l.soundPath == "" {
		return
	}
	name, args := soundCommand(l.soundPath)
	if name == "" {
		return
	}
	if err := l.runner.Run(ctx, name, args...); err != nil {
		l.logger.Warn("failed to play launch sound, ignoring",
			slog.String("sound", l.soundPath), slog.Any("error", err))
	}
}

func soundCommand(path string) (string, []string) {
	switch runtime.GOOS {
	case "darwin":
		return "afplay", []string{path}
	case "windows":
		return "powershell", []string{"-NoProfile", "-c", fmt.Sprintf("(New-Object Media.SoundPlayer '%s').PlaySync()", path)}
	case "linux":
		return "aplay", []string{path}
	}
	return "", nil
}
