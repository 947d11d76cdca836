package syntax

import "strings"

// GreenElement is an immutable, position-free element of the content tree:
// either a *GreenNode or a *GreenToken.
type GreenElement interface {
	Kind() Kind
	TextLen() int
	// Text returns the exact source text covered by the element.
	Text() string
	writeText(sb *strings.Builder)
}

// GreenToken is a leaf of the content tree. It keeps its literal text,
// trivia included, so the tree reproduces the source exactly.
type GreenToken struct {
	kind Kind
	text string
}

func NewGreenToken(kind Kind, text string) *GreenToken {
	return &GreenToken{kind: kind, text: text}
}

func (t *GreenToken) Kind() Kind   { return t.kind }
func (t *GreenToken) TextLen() int { return len(t.text) }
func (t *GreenToken) Text() string { return t.text }
func (t *GreenToken) writeText(sb *strings.Builder) {
	sb.WriteString(t.text)
}

// GreenNode is a composite element of the content tree. It is never mutated
// after construction and holds no reference to a parent, so a node may be
// shared by any number of trees.
type GreenNode struct {
	kind     Kind
	textLen  int
	children []GreenElement
}

func NewGreenNode(kind Kind, children []GreenElement) *GreenNode {
	n := &GreenNode{kind: kind, children: children}
	for _, c := range children {
		n.textLen += c.TextLen()
	}
	return n
}

func (n *GreenNode) Kind() Kind   { return n.kind }
func (n *GreenNode) TextLen() int { return n.textLen }

// Children returns the node's children. The slice must not be modified.
func (n *GreenNode) Children() []GreenElement {
	return n.children
}

func (n *GreenNode) Text() string {
	var sb strings.Builder
	sb.Grow(n.textLen)
	n.writeText(&sb)
	return sb.String()
}

func (n *GreenNode) writeText(sb *strings.Builder) {
	for _, c := range n.children {
		c.writeText(sb)
	}
}
