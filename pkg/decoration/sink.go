package decoration

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// WriterSink renders decorations as lines of text, one run control per
// block.
type WriterSink struct {
	mu sync.Mutex
	w  io.Writer
}

var _ DecorationSink = (*WriterSink)(nil)

func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w}
}

func (s *WriterSink) Decorate(block Block) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lang := block.Language
	if lang == "" {
		lang = "-"
	}
	first, _, _ := strings.Cut(block.Code, "\n")
	fmt.Fprintf(s.w, "[Run] %s#%d\t%s\t%s\n", block.Document, block.Index, lang, first)
}

func (s *WriterSink) Remove(document string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fmt.Fprintf(s.w, "[--] %s\n", document)
}
