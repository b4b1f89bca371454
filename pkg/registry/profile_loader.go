package registry

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/yutopp/snipexec/pkg/domain"
)

// ProfileFromFile reads and writes a profile table. Files ending in .yaml or
// .yml use YAML, everything else JSON.
type ProfileFromFile struct {
	Path string
}

func NewProfileFromFile(path string) *ProfileFromFile {
	return &ProfileFromFile{
		Path: path,
	}
}

func (p *ProfileFromFile) isYAML() bool {
	switch strings.ToLower(filepath.Ext(p.Path)) {
	case ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func (p *ProfileFromFile) Load() (*domain.Profile, error) {
	r, err := os.Open(p.Path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var profile domain.Profile
	if p.isYAML() {
		err = yaml.NewDecoder(r).Decode(&profile)
	} else {
		err = json.NewDecoder(r).Decode(&profile)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrapf(err, "failed to decode profile: %s", p.Path)
	}

	return &profile, nil
}

func (p *ProfileFromFile) Save(profile *domain.Profile) error {
	w, err := os.Create(p.Path)
	if err != nil {
		return errors.Wrapf(err, "failed to create file: %s", p.Path)
	}
	defer w.Close()

	if p.isYAML() {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(profile); err != nil {
			return err
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(profile)
}

// LoadRegistry builds a registry from the file. An empty path or a missing
// file yields the built-in table.
func LoadRegistry(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	profile, err := NewProfileFromFile(path).Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, err
	}
	if len(profile.Languages) == 0 {
		return nil, errors.Wrapf(ErrInvalidProfile, "no languages in %s", path)
	}

	return New(profile.Languages)
}
