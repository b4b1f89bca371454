package executor

import (
	"context"
	"runtime"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// SupportedPlatform is the only GOOS commands can be launched on.
const SupportedPlatform = "darwin"

const (
	scriptRunner = "osascript"
	terminalApp  = "Terminal"
)

var ErrUnsupportedPlatform = errors.New("unsupported platform")

type Config struct {
	// GOOS defaults to runtime.GOOS.
	GOOS string

	// Activate brings the terminal window to the front after the command
	// has been handed over.
	Activate bool

	Process ProcessLauncher
	Logger  *zap.Logger
}

// TerminalLauncher hands composed commands to the terminal application.
type TerminalLauncher struct {
	goos     string
	activate bool
	process  ProcessLauncher
	logger   *zap.Logger
}

func NewTerminalLauncher(c *Config) *TerminalLauncher {
	goos := c.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	process := c.Process
	if process == nil {
		process = NewExecLauncher(logger)
	}

	return &TerminalLauncher{
		goos:     goos,
		activate: c.Activate,
		process:  process,
		logger:   logger.Named("terminal"),
	}
}

func (l *TerminalLauncher) Supported() bool {
	return l.goos == SupportedPlatform
}

// Launch runs command inside a new terminal window. Spawn failures are logged
// and not returned; only an unsupported platform is an error.
func (l *TerminalLauncher) Launch(ctx context.Context, command string) error {
	if !l.Supported() {
		l.logger.Error(
			"only macOS is supported",
			zap.String("goos", l.goos),
		)
		return errors.Wrapf(ErrUnsupportedPlatform, "goos: %s", l.goos)
	}

	l.logger.Info("launching", zap.String("command", command))
	if err := l.process.Start(ctx, scriptRunner, "-e", DoScript(command)); err != nil {
		l.logger.Warn("failed to launch terminal", zap.Error(err))
		return nil
	}

	if l.activate {
		if err := l.process.Start(ctx, scriptRunner, "-e", ActivateScript()); err != nil {
			l.logger.Warn("failed to activate terminal", zap.Error(err))
		}
	}

	return nil
}

// DoScript is the AppleScript running command in a new terminal window.
func DoScript(command string) string {
	return `tell app "` + terminalApp + `" to do script "` + escapeAppleScript(command) + `"`
}

func ActivateScript() string {
	return `tell app "` + terminalApp + `" to activate`
}

var appleScriptEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeAppleScript(s string) string {
	return appleScriptEscaper.Replace(s)
}
