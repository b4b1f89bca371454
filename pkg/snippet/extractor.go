// Package snippet turns user selections and rendered code blocks into
// snippets.
package snippet

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/yutopp/snipexec/pkg/domain"
)

const Fence = "```"

var ErrInvalidSelection = errors.New("invalid selection")

// Extract parses a selection of the form "```<tag>\n<code>\n```".
func Extract(selection string) (domain.Snippet, error) {
	if len(selection) < 2*len(Fence) ||
		!strings.HasPrefix(selection, Fence) ||
		!strings.HasSuffix(selection, Fence) {
		return domain.Snippet{}, errors.Wrap(ErrInvalidSelection, "missing fence delimiters")
	}

	end := len(selection) - len(Fence)
	nl := strings.IndexByte(selection[len(Fence):end], '\n')
	if nl < 0 {
		return domain.Snippet{}, errors.Wrap(ErrInvalidSelection, "missing line break after the opening fence")
	}
	nl += len(Fence)

	// A CR before the closing fence belongs to the line ending only when the
	// opening line ends in CRLF too.
	crlf := selection[nl-1] == '\r'
	body := selection[nl+1 : end]
	if strings.HasSuffix(body, "\n") {
		body = body[:len(body)-1]
		if crlf {
			body = strings.TrimSuffix(body, "\r")
		}
	}

	return domain.Snippet{
		Language: strings.TrimSpace(selection[len(Fence):nl]),
		Code:     body,
	}, nil
}

// Compose builds the selection Extract accepts.
func Compose(tag, code string) string {
	var b strings.Builder
	b.WriteString(Fence)
	b.WriteString(tag)
	b.WriteByte('\n')
	if code != "" {
		b.WriteString(code)
		b.WriteByte('\n')
	}
	b.WriteString(Fence)
	return b.String()
}
