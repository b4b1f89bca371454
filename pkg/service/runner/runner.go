package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yutopp/snipexec/pkg/domain"
	"github.com/yutopp/snipexec/pkg/service/composer"
	"github.com/yutopp/snipexec/pkg/snippet"
)

var (
	ErrNoActiveProfile = errors.New("no active language profile")
	ErrConfiguration   = errors.New("configuration error")
)

type Resolver interface {
	Resolve(tag string) (domain.LanguageProfile, bool)
}

type Artifacts interface {
	Create(ctx context.Context, profile domain.LanguageProfile, code string) (domain.Artifact, error)
	Remove(ctx context.Context, profile domain.LanguageProfile) error
	Clear(ctx context.Context) error
	ResourcePath(profile domain.LanguageProfile) string
}

type Launcher interface {
	Launch(ctx context.Context, command string) error
}

type Scheduler interface {
	NextSession() uint64
	Schedule(token uint64, delay time.Duration, fn, onStale func())
	Wait(ctx context.Context) error
	Stop()
}

type Config struct {
	// Required.
	Registry  Resolver
	Artifacts Artifacts
	Launcher  Launcher

	// Cleanup is required when CleanupDelay is positive. Without it no
	// deferred cleanup is arranged; a zero delay cleans up right away.
	Cleanup      Scheduler
	CleanupDelay time.Duration

	Logger *zap.Logger
}

func (c *Config) Validate() error {
	var missing []string
	if c.Registry == nil {
		missing = append(missing, "Registry")
	}
	if c.Artifacts == nil {
		missing = append(missing, "Artifacts")
	}
	if c.Launcher == nil {
		missing = append(missing, "Launcher")
	}
	if c.CleanupDelay > 0 && c.Cleanup == nil {
		missing = append(missing, "Cleanup")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrConfiguration, "missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Stage is a step of a single execution.
type Stage int

const (
	StageIdle Stage = iota
	StageExtracting
	StageResolving
	StageClearing
	StageWriting
	StageComposing
	StageLaunching
	StageDeferredCleanup
)

var stageNames = [...]string{"idle", "extracting", "resolving", "clearing", "writing", "composing", "launching", "deferred-cleanup"}

func (s Stage) String() string {
	if s >= 0 && int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Execution describes one completed run.
type Execution struct {
	ID      uuid.UUID
	Session uint64

	Profile  domain.LanguageProfile
	Artifact domain.Artifact
	Command  string

	// CleanupScheduled is false when no deferred cleanup was arranged.
	CleanupScheduled bool
}

// Runner drives the execution pipeline and holds the active profile.
// Executions are serialized.
type Runner struct {
	config *Config
	logger *zap.Logger

	mu        sync.Mutex
	active    domain.LanguageProfile
	hasActive bool

	stage atomic.Int32
}

func New(c *Config) (*Runner, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		config: c,
		logger: logger.Named("runner"),
	}, nil
}

// Build runs a fenced selection.
func (r *Runner) Build(ctx context.Context, selection string) (*Execution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.enter(StageExtracting)
	snip, err := snippet.Extract(selection)
	if err != nil {
		r.enter(StageIdle)
		r.logger.Warn("invalid selection", zap.Error(err))
		return nil, err
	}

	return r.execute(ctx, snip.Language, snip.Code)
}

// Execute runs code as a snippet of the language tag.
func (r *Runner) Execute(ctx context.Context, tag, code string) (*Execution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.execute(ctx, tag, code)
}

// OnRunRequested is the entry point of the decoration layer.
func (r *Runner) OnRunRequested(ctx context.Context, code, tag string) (*Execution, error) {
	return r.Execute(ctx, tag, code)
}

func (r *Runner) execute(ctx context.Context, tag, code string) (*Execution, error) {
	defer r.enter(StageIdle)

	id := uuid.New()
	logger := r.logger.With(zap.String("execution", id.String()), zap.String("tag", tag))

	r.enter(StageResolving)
	r.resolve(logger, tag)
	if !r.hasActive {
		return nil, errors.Wrapf(ErrNoActiveProfile, "language '%s'", tag)
	}
	profile := r.active

	var session uint64
	if r.config.Cleanup != nil {
		session = r.config.Cleanup.NextSession()
	}

	r.enter(StageClearing)
	if err := r.config.Artifacts.Clear(ctx); err != nil {
		logger.Error("failed to clear artifacts", zap.Error(err))
		return nil, err
	}

	r.enter(StageWriting)
	artifact, err := r.config.Artifacts.Create(ctx, profile, code)
	if err != nil {
		logger.Error("failed to write artifact", zap.Error(err))
		return nil, err
	}

	r.enter(StageComposing)
	command := r.command(profile)

	r.enter(StageLaunching)
	if err := r.config.Launcher.Launch(ctx, command); err != nil {
		return nil, err
	}

	res := &Execution{
		ID:       id,
		Session:  session,
		Profile:  profile,
		Artifact: artifact,
		Command:  command,
	}

	if r.config.Cleanup != nil {
		r.enter(StageDeferredCleanup)
		r.config.Cleanup.Schedule(session, r.config.CleanupDelay, func() {
			r.removeArtifacts(logger, profile)
		}, func() {
			r.removeBuildOutput(logger, profile)
		})
		res.CleanupScheduled = true
	}

	logger.Info(
		"executed",
		zap.Uint64("session", session),
		zap.String("command", command),
	)

	return res, nil
}

func (r *Runner) removeArtifacts(logger *zap.Logger, profile domain.LanguageProfile) {
	if err := r.config.Artifacts.Remove(context.Background(), profile); err != nil {
		logger.Warn("deferred cleanup failed", zap.Error(err))
	}
}

// removeBuildOutput runs for a superseded build-then-run session. Its
// toolchain may still write the built artifact after the newer session swept,
// which only a newer build-then-run session would reclaim.
func (r *Runner) removeBuildOutput(logger *zap.Logger, profile domain.LanguageProfile) {
	if profile.DirectlyExecutable {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasActive && !r.active.DirectlyExecutable {
		return
	}
	r.removeArtifacts(logger, profile)
}

// resolve replaces the active profile as a whole. An unknown tag leaves the
// previous profile in place.
func (r *Runner) resolve(logger *zap.Logger, tag string) bool {
	p, ok := r.config.Registry.Resolve(tag)
	if !ok {
		logger.Warn(
			"unknown language, keeping the active profile",
			zap.String("active", r.active.Tag),
		)
		return false
	}
	r.active = p
	r.hasActive = true
	return true
}

func (r *Runner) command(profile domain.LanguageProfile) string {
	base := composer.NormalizeResourcePath(r.config.Artifacts.ResourcePath(profile))
	return composer.Compose(profile, base)
}

func (r *Runner) enter(s Stage) {
	r.stage.Store(int32(s))
	r.logger.Debug("stage", zap.Stringer("stage", s))
}

// Select resolves tag into the active profile without running anything.
func (r *Runner) Select(tag string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.resolve(r.logger.With(zap.String("tag", tag)), tag)
}

func (r *Runner) ActiveProfile() (domain.LanguageProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.active, r.hasActive
}

// Stage reports the stage of the running execution.
func (r *Runner) Stage() Stage {
	return Stage(r.stage.Load())
}

// Clear removes every scratch artifact.
func (r *Runner) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.config.Artifacts.Clear(ctx); err != nil {
		return err
	}
	r.logger.Info("cleared")
	return nil
}

// OpenTerminal runs the active profile's command against the current
// artifact without writing a new one.
func (r *Runner) OpenTerminal(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.hasActive {
		return "", ErrNoActiveProfile
	}
	command := r.command(r.active)
	if err := r.config.Launcher.Launch(ctx, command); err != nil {
		return "", err
	}
	return command, nil
}

// Wait blocks until deferred cleanups have run.
func (r *Runner) Wait(ctx context.Context) error {
	if r.config.Cleanup == nil {
		return nil
	}
	return r.config.Cleanup.Wait(ctx)
}

// Close cancels pending cleanups.
func (r *Runner) Close() {
	if r.config.Cleanup != nil {
		r.config.Cleanup.Stop()
	}
}
