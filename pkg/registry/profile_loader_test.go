package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutopp/snipexec/pkg/domain"
)

func TestProfileFromFileRoundTrip(t *testing.T) {
	for _, name := range []string{"profile.json", "profile.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			repo := NewProfileFromFile(path)

			want := &domain.Profile{Languages: DefaultProfiles()}
			require.NoError(t, repo.Save(want))

			got, err := repo.Load()
			require.NoError(t, err)
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("profile mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadRegistryFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yml")
	content := `languages:
  - tag: ruby
    extension: rb
    command: ruby
    directly_executable: true
  - tag: c
    extension: c
    command: make
    directly_executable: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	r, err := LoadRegistry(path)
	require.NoError(t, err)

	p, ok := r.Resolve("ruby")
	require.True(t, ok)
	assert.Equal(t, domain.LanguageProfile{Tag: "ruby", Extension: "rb", Command: "ruby", DirectlyExecutable: true}, p)

	_, ok = r.Resolve("python")
	assert.False(t, ok, "file replaces the built-in table")
}

func TestLoadRegistryFallsBackToDefault(t *testing.T) {
	r, err := LoadRegistry("")
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())

	r, err = LoadRegistry(filepath.Join(t.TempDir(), "missing.json"))
	require.NoError(t, err)
	assert.Equal(t, 4, r.Len())
}

func TestLoadRegistryRejectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"languages": []}`), 0o644))

	_, err := LoadRegistry(path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidProfile))
}

func TestLoadRegistryMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"languages": [`), 0o644))

	_, err := LoadRegistry(path)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidProfile))
}
