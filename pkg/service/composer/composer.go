package composer

import (
	"net/url"
	"strings"

	"github.com/yutopp/snipexec/pkg/domain"
)

// Compose builds the shell command running the artifact at basePath, the
// artifact path without its extension.
//
//	directly executable: "<cmd> <basePath>.<ext>"
//	otherwise:           "<cmd> <basePath> && <basePath>"
func Compose(profile domain.LanguageProfile, basePath string) string {
	if profile.DirectlyExecutable {
		return profile.Command + " " + basePath + "." + profile.Extension
	}
	return profile.Command + " " + basePath + " && " + basePath
}

// NormalizeResourcePath turns a resource locator such as
// "app://local/Users/me/vault/temp.py?1700000000" into the base artifact path
// "/Users/me/vault/temp".
func NormalizeResourcePath(resource string) string {
	path := resource
	if i := strings.Index(path, "://"); i >= 0 {
		rest := path[i+len("://"):]
		if j := strings.IndexByte(rest, '/'); j >= 0 {
			path = rest[j:]
		} else {
			path = ""
		}
	}
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if unescaped, err := url.PathUnescape(path); err == nil {
		path = unescaped
	}

	dir := path[:strings.LastIndexByte(path, '/')+1]
	return dir + domain.ArtifactBaseName
}
