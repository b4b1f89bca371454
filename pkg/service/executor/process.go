package executor

import (
	"context"
	"os/exec"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ProcessLauncher spawns an external process without waiting for it.
type ProcessLauncher interface {
	Start(ctx context.Context, name string, args ...string) error
}

type ExecLauncher struct {
	logger *zap.Logger
}

var _ ProcessLauncher = (*ExecLauncher)(nil)

func NewExecLauncher(logger *zap.Logger) *ExecLauncher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExecLauncher{
		logger: logger.Named("process"),
	}
}

// Start spawns the process. The process outlives ctx; its exit status is only
// logged.
func (l *ExecLauncher) Start(ctx context.Context, name string, args ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "failed to start process: %s", name)
	}

	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		l.logger.Debug("process exited", zap.String("name", name), zap.Int("pid", pid), zap.Error(err))
	}()

	return nil
}
