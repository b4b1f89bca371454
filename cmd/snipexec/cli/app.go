package cli

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yutopp/snipexec/pkg/config"
	"github.com/yutopp/snipexec/pkg/decoration"
	"github.com/yutopp/snipexec/pkg/registry"
	"github.com/yutopp/snipexec/pkg/service/artifact"
	"github.com/yutopp/snipexec/pkg/service/executor"
	"github.com/yutopp/snipexec/pkg/service/runner"
	"github.com/yutopp/snipexec/pkg/vault"
)

// app wires the components for one command invocation.
type app struct {
	logger   *zap.Logger
	vault    *vault.Vault
	registry *registry.Registry
	settings config.Settings
	runner   *runner.Runner
}

func newLogger() (*zap.Logger, error) {
	c := zap.NewProductionConfig()
	c.Encoding = "console"
	c.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if debug {
		c.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return c.Build()
}

func newApp() (*app, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, err
	}

	v, err := vault.Open(vaultPath, logger)
	if err != nil {
		return nil, err
	}

	settings, err := config.Load(config.Path(v.Root()))
	if err != nil {
		logger.Warn("falling back to default settings", zap.Error(err))
	}

	reg, err := registry.LoadRegistry(profilePath)
	if err != nil {
		return nil, err
	}

	r, err := runner.New(&runner.Config{
		Registry:  reg,
		Artifacts: artifact.NewManager(v, reg, logger),
		Launcher: executor.NewTerminalLauncher(&executor.Config{
			Activate: true,
			Process:  executor.NewExecLauncher(logger),
			Logger:   logger,
		}),
		Cleanup:      executor.NewCleanupScheduler(logger),
		CleanupDelay: settings.CleanupDelay(),
		Logger:       logger,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		logger:   logger,
		vault:    v,
		registry: reg,
		settings: settings,
		runner:   r,
	}, nil
}

func (a *app) binder(sink decoration.DecorationSink) *decoration.Binder {
	return decoration.NewBinder(a.vault, sink, decoration.RunFunc(func(ctx context.Context, code, tag string) error {
		_, err := a.runner.OnRunRequested(ctx, code, tag)
		return err
	}), a.logger)
}

// finish waits for deferred cleanups; an interrupted wait runs them at once.
func (a *app) finish(ctx context.Context) {
	if err := a.runner.Wait(ctx); err != nil {
		a.logger.Debug("cleanup flushed early", zap.Error(err))
	}
	_ = a.logger.Sync()
}

func (a *app) close() {
	a.runner.Close()
	_ = a.logger.Sync()
}
