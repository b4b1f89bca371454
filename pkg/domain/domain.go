package domain

// ArtifactBaseName is the base name of every scratch artifact. Build-then-run
// toolchains leave their output at this exact name.
const ArtifactBaseName = "temp"

type Profile struct {
	Languages []LanguageProfile `json:"languages" yaml:"languages"`
}

// LanguageProfile is the toolchain metadata resolved from a language tag.
type LanguageProfile struct {
	Tag      string `json:"tag" yaml:"tag"`
	ShowName string `json:"show_name,omitempty" yaml:"show_name,omitempty"`

	Extension string `json:"extension" yaml:"extension"`
	Command   string `json:"command" yaml:"command"`

	// DirectlyExecutable is false for toolchains that build ArtifactBaseName
	// first and then run it.
	DirectlyExecutable bool `json:"directly_executable" yaml:"directly_executable"`
}

// SourceName is the artifact file name holding the snippet source.
func (p LanguageProfile) SourceName() string {
	return ArtifactBaseName + "." + p.Extension
}

type Snippet struct {
	Language string
	Code     string
}

type Artifact struct {
	Path               string
	Extension          string
	DirectlyExecutable bool
}
