package vault

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func openVault(t *testing.T) *Vault {
	t.Helper()

	v, err := Open(t.TempDir(), nil)
	require.NoError(t, err)
	return v
}

func write(t *testing.T, v *Vault, name, content string) {
	t.Helper()

	path := filepath.Join(v.Root(), filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestOpenRejectsFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path, nil)
	require.Error(t, err)

	_, err = Open(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestCreateDeleteExists(t *testing.T) {
	v := openVault(t)
	ctx := context.Background()

	assert.False(t, v.Exists("temp.py"))
	require.NoError(t, v.Create(ctx, "temp.py", []byte("pass")))
	assert.True(t, v.Exists("temp.py"))

	require.Error(t, v.Create(ctx, "temp.py", []byte("again")), "create must not overwrite")

	require.NoError(t, v.Delete(ctx, "temp.py"))
	assert.False(t, v.Exists("temp.py"))
	require.NoError(t, v.Delete(ctx, "temp.py"), "deleting a missing file is a no-op")
}

func TestNamesStayInsideVault(t *testing.T) {
	v := openVault(t)

	require.NoError(t, v.Create(context.Background(), "../escape", []byte("x")))
	assert.FileExists(t, filepath.Join(v.Root(), "escape"))
	assert.NoFileExists(t, filepath.Join(filepath.Dir(v.Root()), "escape"))
}

func TestResourcePath(t *testing.T) {
	v := openVault(t)
	require.NoError(t, v.Create(context.Background(), "temp.py", []byte("pass")))

	rp := v.ResourcePath("temp.py")
	assert.True(t, strings.HasPrefix(rp, ResourceScheme+"/"), rp)
	assert.Contains(t, rp, "/temp.py?")

	missing := v.ResourcePath("temp.lua")
	assert.True(t, strings.HasSuffix(missing, "/temp.lua"), missing)
}

func TestForEachDocument(t *testing.T) {
	v := openVault(t)
	write(t, v, "a.md", "# a")
	write(t, v, "notes/b.MD", "# b")
	write(t, v, "notes/c.txt", "c")
	write(t, v, ".snipexec/hidden.md", "# hidden")
	write(t, v, "temp.py", "pass")

	var got []string
	err := v.ForEachDocument(context.Background(), func(d Document) error {
		got = append(got, d.Path+"="+string(d.Content))
		return nil
	})
	require.NoError(t, err)
	sort.Strings(got)
	assert.Equal(t, []string{"a.md=# a", "notes/b.MD=# b"}, got)
}

func TestWatchReportsWrittenDocuments(t *testing.T) {
	v := openVault(t)
	write(t, v, "sub/keep.txt", "")

	var mu sync.Mutex
	seen := map[string]string{}
	w := v.Watch(20*time.Millisecond, func(d Document) {
		mu.Lock()
		defer mu.Unlock()
		seen[d.Path] = string(d.Content)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher time to register the tree.
	time.Sleep(50 * time.Millisecond)
	write(t, v, "sub/doc.md", "```python\nprint(1)\n```\n")
	write(t, v, "ignored.txt", "x")

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["sub/doc.md"] != ""
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	_, ok := seen["ignored.txt"]
	assert.False(t, ok)
}
