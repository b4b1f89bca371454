// Package decoration attaches run controls to the fenced code blocks of
// vault documents and forwards clicks to the runner.
package decoration

import (
	"context"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"go.uber.org/zap"

	"github.com/yutopp/snipexec/pkg/vault"
)

// Block is a fenced code block that carries a run control.
type Block struct {
	Document string
	Index    int
	Language string
	Code     string
}

type DecorationSink interface {
	Decorate(block Block)
	Remove(document string)
}

type DocumentSource interface {
	ForEachDocument(ctx context.Context, fn func(vault.Document) error) error
	ReadDocument(name string) (vault.Document, error)
}

type RunRequester interface {
	OnRunRequested(ctx context.Context, code, tag string) error
}

type RunFunc func(ctx context.Context, code, tag string) error

func (f RunFunc) OnRunRequested(ctx context.Context, code, tag string) error {
	return f(ctx, code, tag)
}

var ErrBlockNotFound = errors.New("code block not found")

// Binder keeps track of the decorated blocks of every document.
type Binder struct {
	docs   DocumentSource
	sink   DecorationSink
	runner RunRequester
	md     goldmark.Markdown
	logger *zap.Logger

	mu        sync.Mutex
	decorated map[string][]Block
}

func NewBinder(docs DocumentSource, sink DecorationSink, runner RunRequester, logger *zap.Logger) *Binder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Binder{
		docs:      docs,
		sink:      sink,
		runner:    runner,
		md:        goldmark.New(),
		logger:    logger.Named("binder"),
		decorated: make(map[string][]Block),
	}
}

// Blocks parses the fenced code blocks of a Markdown document.
func (b *Binder) Blocks(doc vault.Document) []Block {
	root := b.md.Parser().Parse(text.NewReader(doc.Content))

	var blocks []Block
	_ = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fenced, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var code strings.Builder
		lines := fenced.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			code.Write(seg.Value(doc.Content))
		}

		blocks = append(blocks, Block{
			Document: doc.Path,
			Index:    len(blocks),
			Language: string(fenced.Language(doc.Content)),
			Code:     strings.TrimSuffix(code.String(), "\n"),
		})
		return ast.WalkSkipChildren, nil
	})
	return blocks
}

// Decorate replaces the decorations of one document.
func (b *Binder) Decorate(doc vault.Document) []Block {
	blocks := b.Blocks(doc)

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.decorated[doc.Path]; ok {
		b.sink.Remove(doc.Path)
	}
	for _, block := range blocks {
		b.sink.Decorate(block)
	}
	b.decorated[doc.Path] = blocks

	b.logger.Debug("decorated", zap.String("doc", doc.Path), zap.Int("blocks", len(blocks)))
	return blocks
}

// Iterate decorates every document of the vault.
func (b *Binder) Iterate(ctx context.Context) error {
	return b.docs.ForEachDocument(ctx, func(doc vault.Document) error {
		b.Decorate(doc)
		return nil
	})
}

// RemoveAll removes every decoration.
func (b *Binder) RemoveAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for doc := range b.decorated {
		b.sink.Remove(doc)
	}
	b.decorated = make(map[string][]Block)
}

// Reiterate removes all decorations and decorates again, picking up blocks a
// previous pass missed.
func (b *Binder) Reiterate(ctx context.Context) error {
	b.RemoveAll()
	return b.Iterate(ctx)
}

// Click runs the block at index of document as if its run control was
// pressed. Undecorated documents are parsed on demand.
func (b *Binder) Click(ctx context.Context, document string, index int) error {
	b.mu.Lock()
	blocks, ok := b.decorated[document]
	b.mu.Unlock()

	if !ok {
		doc, err := b.docs.ReadDocument(document)
		if err != nil {
			return err
		}
		blocks = b.Decorate(doc)
	}
	if index < 0 || index >= len(blocks) {
		return errors.Wrapf(ErrBlockNotFound, "%s#%d", document, index)
	}

	block := blocks[index]
	b.logger.Info("run requested", zap.String("doc", document), zap.Int("index", index), zap.String("tag", block.Language))
	return b.runner.OnRunRequested(ctx, block.Code, block.Language)
}
