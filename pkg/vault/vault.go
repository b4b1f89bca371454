// Package vault is the editor host backed by a directory: it stores scratch
// artifacts at its root and serves the Markdown documents below it.
package vault

import (
	"context"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ResourceScheme prefixes the resource locators handed out by ResourcePath.
const ResourceScheme = "app://local"

const documentExt = ".md"

type Document struct {
	// Path is slash separated and relative to the vault root.
	Path    string
	Content []byte
}

type Vault struct {
	root   string
	logger *zap.Logger
}

func Open(root string, logger *zap.Logger) (*Vault, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to resolve vault: %s", root)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open vault: %s", abs)
	}
	if !info.IsDir() {
		return nil, errors.Newf("vault is not a directory: %s", abs)
	}

	return &Vault{
		root:   abs,
		logger: logger.Named("vault"),
	}, nil
}

func (v *Vault) Root() string {
	return v.root
}

// path maps a vault relative name into the vault, rejecting escapes.
func (v *Vault) path(name string) string {
	return filepath.Join(v.root, filepath.Clean(filepath.Join("/", filepath.FromSlash(name))))
}

func (v *Vault) Create(ctx context.Context, name string, content []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := v.path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", path)
	}
	if _, err := f.Write(content); err != nil {
		f.Close()
		return errors.Wrapf(err, "failed to write file: %s", path)
	}
	return f.Close()
}

func (v *Vault) Delete(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path := v.path(name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return errors.Wrapf(err, "failed to delete file: %s", path)
	}
	return nil
}

func (v *Vault) Exists(name string) bool {
	_, err := os.Lstat(v.path(name))
	return err == nil
}

// ResourcePath returns the locator the host serves name under, e.g.
// "app://local/Users/me/vault/temp.py?1700000000000".
func (v *Vault) ResourcePath(name string) string {
	path := v.path(name)
	u := url.URL{Path: filepath.ToSlash(path)}

	var stamp string
	if info, err := os.Stat(path); err == nil {
		stamp = "?" + strconv.FormatInt(info.ModTime().UnixMilli(), 10)
	}
	return ResourceScheme + u.EscapedPath() + stamp
}

func (v *Vault) ReadDocument(name string) (Document, error) {
	path := v.path(name)
	content, err := os.ReadFile(path)
	if err != nil {
		return Document{}, errors.Wrapf(err, "failed to read document: %s", name)
	}
	rel, err := filepath.Rel(v.root, path)
	if err != nil {
		return Document{}, err
	}

	return Document{
		Path:    filepath.ToSlash(rel),
		Content: content,
	}, nil
}

// ForEachDocument calls fn for every Markdown document in the vault. Hidden
// directories are skipped.
func (v *Vault) ForEachDocument(ctx context.Context, fn func(Document) error) error {
	return filepath.WalkDir(v.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != v.root && isHidden(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsDocument(path) {
			return nil
		}

		rel, err := filepath.Rel(v.root, path)
		if err != nil {
			return err
		}
		doc, err := v.ReadDocument(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		return fn(doc)
	})
}

func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), documentExt) && !isHidden(filepath.Base(path))
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
