package registry

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/yutopp/snipexec/pkg/domain"
)

var ErrInvalidProfile = errors.New("invalid language profile")

// Registry maps language tags to toolchain profiles. It is immutable once
// built.
type Registry struct {
	profiles map[string]domain.LanguageProfile
}

var defaultProfiles = []domain.LanguageProfile{
	{
		Tag:       "cpp",
		ShowName:  "C++",
		Extension: "cpp",
		Command:   "make",

		DirectlyExecutable: false,
	},
	{
		Tag:       "java",
		ShowName:  "Java",
		Extension: "java",
		Command:   "java",

		DirectlyExecutable: true,
	},
	{
		Tag:       "lua",
		ShowName:  "Lua",
		Extension: "lua",
		Command:   "lua",

		DirectlyExecutable: true,
	},
	{
		Tag:       "python",
		ShowName:  "Python",
		Extension: "py",
		Command:   "python3",

		DirectlyExecutable: true,
	},
}

// DefaultProfiles returns a copy of the built-in profile table.
func DefaultProfiles() []domain.LanguageProfile {
	out := make([]domain.LanguageProfile, len(defaultProfiles))
	copy(out, defaultProfiles)
	return out
}

// Default returns a registry holding the built-in profiles.
func Default() *Registry {
	r, err := New(defaultProfiles)
	if err != nil {
		panic(err)
	}
	return r
}

func New(profiles []domain.LanguageProfile) (*Registry, error) {
	m := make(map[string]domain.LanguageProfile, len(profiles))
	for _, p := range profiles {
		if err := validate(p); err != nil {
			return nil, err
		}
		if _, ok := m[p.Tag]; ok {
			return nil, errors.Wrapf(ErrInvalidProfile, "duplicate tag '%s'", p.Tag)
		}
		m[p.Tag] = p
	}

	return &Registry{
		profiles: m,
	}, nil
}

func validate(p domain.LanguageProfile) error {
	var missing []string
	if strings.TrimSpace(p.Tag) == "" {
		missing = append(missing, "tag")
	}
	if strings.TrimSpace(p.Extension) == "" {
		missing = append(missing, "extension")
	}
	if strings.TrimSpace(p.Command) == "" {
		missing = append(missing, "command")
	}
	if len(missing) > 0 {
		return errors.Wrapf(ErrInvalidProfile, "profile '%s' is missing %s", p.Tag, strings.Join(missing, ", "))
	}
	if strings.ContainsAny(p.Extension, `/\.`) {
		return errors.Wrapf(ErrInvalidProfile, "profile '%s' has a malformed extension '%s'", p.Tag, p.Extension)
	}
	return nil
}

// Resolve looks up the profile for tag. It never mutates the registry.
func (r *Registry) Resolve(tag string) (domain.LanguageProfile, bool) {
	p, ok := r.profiles[tag]
	return p, ok
}

// Profiles returns every registered profile sorted by tag.
func (r *Registry) Profiles() []domain.LanguageProfile {
	out := make([]domain.LanguageProfile, 0, len(r.profiles))
	for _, p := range r.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Tag < out[j].Tag
	})
	return out
}

func (r *Registry) Len() int {
	return len(r.profiles)
}
