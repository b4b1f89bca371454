package registry

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutopp/snipexec/pkg/domain"
)

func TestDefaultResolve(t *testing.T) {
	r := Default()

	tests := []struct {
		tag       string
		extension string
		command   string
		direct    bool
	}{
		{tag: "cpp", extension: "cpp", command: "make", direct: false},
		{tag: "java", extension: "java", command: "java", direct: true},
		{tag: "lua", extension: "lua", command: "lua", direct: true},
		{tag: "python", extension: "py", command: "python3", direct: true},
	}
	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			p, ok := r.Resolve(tt.tag)
			require.True(t, ok)
			assert.Equal(t, tt.tag, p.Tag)
			assert.Equal(t, tt.extension, p.Extension)
			assert.Equal(t, tt.command, p.Command)
			assert.Equal(t, tt.direct, p.DirectlyExecutable)
		})
	}
	assert.Equal(t, len(tests), r.Len())
}

func TestResolveUnknown(t *testing.T) {
	r := Default()

	_, ok := r.Resolve("cobol")
	assert.False(t, ok)
	_, ok = r.Resolve("")
	assert.False(t, ok)
	_, ok = r.Resolve("Python")
	assert.False(t, ok, "tags are case sensitive")
}

func TestRegistryIsImmutable(t *testing.T) {
	profiles := DefaultProfiles()
	r, err := New(profiles)
	require.NoError(t, err)

	profiles[0].Command = "clang++"
	got, ok := r.Resolve("cpp")
	require.True(t, ok)
	assert.Equal(t, "make", got.Command)

	listed := r.Profiles()
	listed[0].Command = "changed"
	got, _ = r.Resolve(listed[0].Tag)
	assert.NotEqual(t, "changed", got.Command)
}

func TestProfilesSorted(t *testing.T) {
	var tags []string
	for _, p := range Default().Profiles() {
		tags = append(tags, p.Tag)
	}
	if diff := cmp.Diff([]string{"cpp", "java", "lua", "python"}, tags); diff != "" {
		t.Errorf("tags mismatch (-want +got):\n%s", diff)
	}
}

func TestNewRejectsInvalidProfiles(t *testing.T) {
	tests := []struct {
		name     string
		profiles []domain.LanguageProfile
	}{
		{
			name:     "missing command",
			profiles: []domain.LanguageProfile{{Tag: "ruby", Extension: "rb"}},
		},
		{
			name:     "missing tag",
			profiles: []domain.LanguageProfile{{Extension: "rb", Command: "ruby"}},
		},
		{
			name:     "dotted extension",
			profiles: []domain.LanguageProfile{{Tag: "ruby", Extension: ".rb", Command: "ruby"}},
		},
		{
			name: "duplicate tag",
			profiles: []domain.LanguageProfile{
				{Tag: "ruby", Extension: "rb", Command: "ruby", DirectlyExecutable: true},
				{Tag: "ruby", Extension: "rb", Command: "ruby", DirectlyExecutable: true},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.profiles)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidProfile))
		})
	}
}
