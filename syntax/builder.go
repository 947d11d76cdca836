package syntax

import "fmt"

// SyntaxError is a recoverable parse error recorded at a byte offset.
type SyntaxError struct {
	Offset  int    `json:"offset"`
	Message string `json:"message"`
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d: %s", e.Offset, e.Message)
}

// Tree is the result of a parse: an immutable content tree plus the errors
// the parser recovered from.
type Tree struct {
	Green  *GreenNode
	Errors []SyntaxError
}

// Root returns a fresh located view of the tree, rooted at offset 0.
func (t *Tree) Root() *Node {
	return NewRoot(t.Green)
}

// GreenBuilder assembles a content tree from a stream of start/token/finish
// events. It is the sink the parser drives.
type GreenBuilder struct {
	parents  []pendingNode
	children []GreenElement
	offset   int
	errors   []SyntaxError
	root     *GreenNode
}

type pendingNode struct {
	kind  Kind
	first int
}

func NewGreenBuilder() *GreenBuilder {
	return &GreenBuilder{}
}

func (b *GreenBuilder) StartNode(kind Kind) {
	b.parents = append(b.parents, pendingNode{kind: kind, first: len(b.children)})
}

func (b *GreenBuilder) Token(kind Kind, text string) {
	b.children = append(b.children, NewGreenToken(kind, text))
	b.offset += len(text)
}

func (b *GreenBuilder) FinishNode() {
	if len(b.parents) == 0 {
		panic("syntax: FinishNode without matching StartNode")
	}
	top := b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]

	children := make([]GreenElement, len(b.children)-top.first)
	copy(children, b.children[top.first:])
	b.children = b.children[:top.first]

	node := NewGreenNode(top.kind, children)
	if len(b.parents) == 0 {
		b.root = node
		return
	}
	b.children = append(b.children, node)
}

func (b *GreenBuilder) Error(msg string) {
	b.errors = append(b.errors, SyntaxError{Offset: b.offset, Message: msg})
}

// Finish returns the built tree. It panics if nodes are still open.
func (b *GreenBuilder) Finish() *Tree {
	if len(b.parents) != 0 || b.root == nil {
		panic("syntax: unbalanced tree events")
	}
	return &Tree{Green: b.root, Errors: b.errors}
}
