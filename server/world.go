package server

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/edit"
	"github.com/dhamidi/libsyntax/text"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

var ErrUnknownDocument = errors.New("unknown document")

// Document is an immutable snapshot of an open file. Updates replace the
// snapshot; readers holding an old one keep a consistent view.
type Document struct {
	URI     string
	Version int32
	File    *ast.File
	Lines   *text.LineIndex
}

func newDocument(uri string, version int32, content string) *Document {
	return &Document{
		URI:     uri,
		Version: version,
		File:    ast.Parse(content),
		Lines:   text.NewLineIndex(content),
	}
}

func (d *Document) Text() string {
	return d.File.Text()
}

// World holds the documents the editor has open.
type World struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewWorld() *World {
	return &World{docs: make(map[string]*Document)}
}

func (w *World) Open(uri, content string, version int32) *Document {
	doc := newDocument(uri, version, content)
	w.mu.Lock()
	defer w.mu.Unlock()
	w.docs[uri] = doc
	return doc
}

// Change applies LSP content changes in order and reparses the result.
// Ranged changes are translated to byte ranges against the text produced
// by the preceding changes.
func (w *World) Change(uri string, version int32, changes []any) (*Document, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	doc, ok := w.docs[uri]
	if !ok {
		return nil, fmt.Errorf("%s: %w", uri, ErrUnknownDocument)
	}
	content := doc.Text()
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			content = c.Text
		case protocol.TextDocumentContentChangeEvent:
			lines := text.NewLineIndex(content)
			if c.Range == nil {
				content = c.Text
				continue
			}
			b := edit.NewBuilder()
			b.Replace(byteRange(lines, *c.Range), c.Text)
			content = b.Finish().Apply(content)
		default:
			return nil, fmt.Errorf("%s: unsupported change %T", uri, change)
		}
	}
	doc = newDocument(uri, version, content)
	w.docs[uri] = doc
	return doc, nil
}

func (w *World) Close(uri string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.docs, uri)
}

func (w *World) Get(uri string) *Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.docs[uri]
}

// Documents returns the open documents ordered by URI.
func (w *World) Documents() []*Document {
	w.mu.RLock()
	defer w.mu.RUnlock()
	docs := make([]*Document, 0, len(w.docs))
	for _, d := range w.docs {
		docs = append(docs, d)
	}
	slices.SortFunc(docs, func(a, b *Document) int {
		return strings.Compare(a.URI, b.URI)
	})
	return docs
}
