package snippet

import (
	"strings"
)

const (
	classPrefix = "language-"
	runLabel    = "Run"
)

// LanguageFromClass returns the tag of a rendered code block from its class
// attribute, e.g. "is-loaded language-python" yields "python".
func LanguageFromClass(class string) string {
	for _, field := range strings.Fields(class) {
		if strings.HasPrefix(field, classPrefix) {
			return strings.TrimPrefix(field, classPrefix)
		}
	}
	return ""
}

// TrimRunLabel drops the run control label that is copied along with the
// text of a decorated block.
func TrimRunLabel(code string) string {
	return strings.TrimSuffix(code, runLabel)
}
