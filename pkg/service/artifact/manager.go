package artifact

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/docker/go-units"
	"go.uber.org/zap"

	"github.com/yutopp/snipexec/pkg/domain"
)

// FileStore is the host storage holding scratch artifacts. Names are relative
// to the storage root.
type FileStore interface {
	// Create fails if name already exists.
	Create(ctx context.Context, name string, content []byte) error
	// Delete of a missing file is not an error.
	Delete(ctx context.Context, name string) error
	Exists(name string) bool
	// ResourcePath returns the host resource locator of name.
	ResourcePath(name string) string
}

type ProfileLister interface {
	Profiles() []domain.LanguageProfile
}

// Manager owns the scratch artifacts: temp.<ext> and the temp build output.
type Manager struct {
	store    FileStore
	profiles ProfileLister
	logger   *zap.Logger
}

func NewManager(store FileStore, profiles ProfileLister, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:    store,
		profiles: profiles,
		logger:   logger.Named("artifact"),
	}
}

// Write sweeps every possible artifact and then writes code as the source
// artifact of profile.
func (m *Manager) Write(ctx context.Context, profile domain.LanguageProfile, code string) (domain.Artifact, error) {
	if err := m.Clear(ctx); err != nil {
		return domain.Artifact{}, err
	}
	return m.Create(ctx, profile, code)
}

// Create writes code as the source artifact of profile without sweeping. It
// fails if the artifact already exists.
func (m *Manager) Create(ctx context.Context, profile domain.LanguageProfile, code string) (domain.Artifact, error) {
	name := profile.SourceName()
	if err := m.store.Create(ctx, name, []byte(code)); err != nil {
		return domain.Artifact{}, errors.Wrapf(err, "failed to write artifact: %s", name)
	}
	m.logger.Debug(
		"artifact written",
		zap.String("name", name),
		zap.String("size", units.HumanSize(float64(len(code)))),
	)

	return domain.Artifact{
		Path:               name,
		Extension:          profile.Extension,
		DirectlyExecutable: profile.DirectlyExecutable,
	}, nil
}

// Remove deletes the artifacts of profile. Missing files are ignored.
func (m *Manager) Remove(ctx context.Context, profile domain.LanguageProfile) error {
	var errs []error
	if !profile.DirectlyExecutable {
		errs = append(errs, m.delete(ctx, domain.ArtifactBaseName))
	}
	errs = append(errs, m.delete(ctx, profile.SourceName()))
	return errors.Join(errs...)
}

func (m *Manager) delete(ctx context.Context, name string) error {
	if !m.store.Exists(name) {
		return nil
	}
	if err := m.store.Delete(ctx, name); err != nil {
		return errors.Wrapf(err, "failed to delete artifact: %s", name)
	}
	m.logger.Debug("artifact deleted", zap.String("name", name))
	return nil
}

// Clear removes every artifact any registered profile could have left
// behind. All deletes are attempted before an error is returned.
func (m *Manager) Clear(ctx context.Context) error {
	var errs []error
	for _, p := range m.profiles.Profiles() {
		if err := ctx.Err(); err != nil {
			return err
		}
		errs = append(errs, m.Remove(ctx, p))
	}
	return errors.Join(errs...)
}

func (m *Manager) ResourcePath(profile domain.LanguageProfile) string {
	return m.store.ResourcePath(profile.SourceName())
}
