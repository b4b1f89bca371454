package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutopp/snipexec/pkg/domain"
	"github.com/yutopp/snipexec/pkg/registry"
	"github.com/yutopp/snipexec/pkg/vault"
)

func newManager(t *testing.T) (*Manager, string) {
	t.Helper()

	dir := t.TempDir()
	v, err := vault.Open(dir, nil)
	require.NoError(t, err)

	return NewManager(v, registry.Default(), nil), dir
}

func resolve(t *testing.T, tag string) domain.LanguageProfile {
	t.Helper()

	p, ok := registry.Default().Resolve(tag)
	require.True(t, ok, tag)
	return p
}

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()

	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("stale"), 0o644))
	}
}

func remaining(t *testing.T, dir string) []string {
	t.Helper()

	var names []string
	for _, pattern := range []string{"temp", "temp.*"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		require.NoError(t, err)
		for _, m := range matches {
			names = append(names, filepath.Base(m))
		}
	}
	return names
}

func TestWrite(t *testing.T) {
	m, dir := newManager(t)
	ctx := context.Background()

	a, err := m.Write(ctx, resolve(t, "python"), `print("hi")`)
	require.NoError(t, err)
	assert.Equal(t, domain.Artifact{Path: "temp.py", Extension: "py", DirectlyExecutable: true}, a)

	content, err := os.ReadFile(filepath.Join(dir, "temp.py"))
	require.NoError(t, err)
	assert.Equal(t, `print("hi")`, string(content))
}

func TestCreateDoesNotSweep(t *testing.T) {
	m, dir := newManager(t)
	ctx := context.Background()

	touch(t, dir, "temp.lua")

	_, err := m.Create(ctx, resolve(t, "python"), "pass")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "temp.lua"))
	assert.FileExists(t, filepath.Join(dir, "temp.py"))

	_, err = m.Create(ctx, resolve(t, "python"), "pass")
	assert.Error(t, err)
}

func TestWriteSweepsPreviousArtifacts(t *testing.T) {
	m, dir := newManager(t)
	ctx := context.Background()

	touch(t, dir, "temp", "temp.cpp", "temp.java", "temp.lua", "temp.py")

	_, err := m.Write(ctx, resolve(t, "lua"), "print(1)")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"temp.lua"}, remaining(t, dir))

	_, err = m.Write(ctx, resolve(t, "cpp"), "int main() {}")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"temp.cpp"}, remaining(t, dir))
}

func TestRemove(t *testing.T) {
	ctx := context.Background()

	t.Run("build output is removed for compiled toolchains", func(t *testing.T) {
		m, dir := newManager(t)
		touch(t, dir, "temp", "temp.cpp")

		require.NoError(t, m.Remove(ctx, resolve(t, "cpp")))
		assert.Empty(t, remaining(t, dir))
	})

	t.Run("build output is kept for interpreters", func(t *testing.T) {
		m, dir := newManager(t)
		touch(t, dir, "temp", "temp.py")

		require.NoError(t, m.Remove(ctx, resolve(t, "python")))
		assert.ElementsMatch(t, []string{"temp"}, remaining(t, dir))
	})

	t.Run("missing files are ignored", func(t *testing.T) {
		m, _ := newManager(t)

		require.NoError(t, m.Remove(ctx, resolve(t, "cpp")))
		require.NoError(t, m.Remove(ctx, resolve(t, "java")))
	})
}

func TestClear(t *testing.T) {
	ctx := context.Background()

	for _, tag := range []string{"cpp", "java", "lua", "python"} {
		t.Run(tag, func(t *testing.T) {
			m, dir := newManager(t)

			_, err := m.Write(ctx, resolve(t, tag), "code")
			require.NoError(t, err)
			touch(t, dir, "temp")

			require.NoError(t, m.Clear(ctx))
			assert.Empty(t, remaining(t, dir))
		})
	}
}

func TestClearKeepsUnrelatedFiles(t *testing.T) {
	m, dir := newManager(t)
	touch(t, dir, "notes.md", "temp.rb", "temp.py")

	require.NoError(t, m.Clear(context.Background()))
	assert.ElementsMatch(t, []string{"temp.rb"}, remaining(t, dir))
	assert.FileExists(t, filepath.Join(dir, "notes.md"))
}

func TestClearCanceled(t *testing.T) {
	m, _ := newManager(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, m.Clear(ctx), context.Canceled)
}

func TestResourcePath(t *testing.T) {
	m, dir := newManager(t)

	_, err := m.Write(context.Background(), resolve(t, "python"), "pass")
	require.NoError(t, err)

	rp := m.ResourcePath(resolve(t, "python"))
	assert.Contains(t, rp, vault.ResourceScheme)
	assert.Contains(t, rp, filepath.ToSlash(filepath.Join(dir, "temp.py"))+"?")
}
