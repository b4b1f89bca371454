package cli

import (
	"io"
	"os"

	"github.com/cockroachdb/errors"
)

// selectionSource provides the current selection of the host: an inline
// flag value, a file, or standard input.
type selectionSource struct {
	Inline string
	File   string
	Stdin  io.Reader
}

func (s *selectionSource) Selection() (string, error) {
	if s.Inline != "" {
		return s.Inline, nil
	}
	if s.File != "" {
		b, err := os.ReadFile(s.File)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read selection: %s", s.File)
		}
		return string(b), nil
	}
	if s.Stdin == nil {
		return "", errors.New("no selection")
	}
	b, err := io.ReadAll(s.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read selection from stdin")
	}
	return string(b), nil
}
