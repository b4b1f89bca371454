package composer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yutopp/snipexec/pkg/domain"
	"github.com/yutopp/snipexec/pkg/registry"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		tag  string
		base string
		want string
	}{
		{tag: "python", base: "temp", want: "python3 temp.py"},
		{tag: "java", base: "temp", want: "java temp.java"},
		{tag: "lua", base: "/vault/temp", want: "lua /vault/temp.lua"},
		{tag: "cpp", base: "temp", want: "make temp && temp"},
		{tag: "cpp", base: "/vault/temp", want: "make /vault/temp && /vault/temp"},
	}
	r := registry.Default()
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p, ok := r.Resolve(tt.tag)
			require.True(t, ok)
			assert.Equal(t, tt.want, Compose(p, tt.base))
		})
	}
}

func TestComposeCustomProfile(t *testing.T) {
	direct := domain.LanguageProfile{Tag: "ruby", Extension: "rb", Command: "ruby", DirectlyExecutable: true}
	assert.Equal(t, "ruby p.rb", Compose(direct, "p"))

	built := domain.LanguageProfile{Tag: "c", Extension: "c", Command: "cc -o p p.c;", DirectlyExecutable: false}
	assert.Equal(t, "cc -o p p.c; p && p", Compose(built, "p"))
}

func TestNormalizeResourcePath(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		want     string
	}{
		{
			name:     "resource locator",
			resource: "app://local/Users/me/vault/temp.py?1700000000000",
			want:     "/Users/me/vault/temp",
		},
		{
			name:     "random host segment",
			resource: "app://6f2b1c/Users/me/vault/temp.cpp",
			want:     "/Users/me/vault/temp",
		},
		{
			name:     "escaped characters",
			resource: "app://local/Users/me/My%20Vault/temp.lua?1",
			want:     "/Users/me/My Vault/temp",
		},
		{
			name:     "plain path",
			resource: "/vault/temp.py",
			want:     "/vault/temp",
		},
		{
			name:     "bare name",
			resource: "temp.py",
			want:     "temp",
		},
		{
			name:     "host only",
			resource: "app://local",
			want:     "temp",
		},
		{
			name:     "root",
			resource: "app://local/temp.py",
			want:     "/temp",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeResourcePath(tt.resource))
		})
	}
}
