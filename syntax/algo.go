package syntax

import "github.com/dhamidi/libsyntax/text"

// LeafAtOffset is the result of FindLeafAtOffset: no leaf, a single leaf, or
// the two leaves meeting at a token boundary.
type LeafAtOffset struct {
	left, right *Node
}

func (l LeafAtOffset) IsNone() bool {
	return l.left == nil
}

// All returns the leaves in document order: zero, one or two elements.
func (l LeafAtOffset) All() []*Node {
	switch {
	case l.left == nil:
		return nil
	case l.right == nil:
		return []*Node{l.left}
	default:
		return []*Node{l.left, l.right}
	}
}

// LeftBiased returns the leaf ending at the offset when there are two.
func (l LeafAtOffset) LeftBiased() *Node {
	return l.left
}

// RightBiased returns the leaf starting at the offset when there are two.
func (l LeafAtOffset) RightBiased() *Node {
	if l.right != nil {
		return l.right
	}
	return l.left
}

// Find returns the first leaf satisfying pred.
func (l LeafAtOffset) Find(pred func(*Node) bool) *Node {
	for _, leaf := range l.All() {
		if pred(leaf) {
			return leaf
		}
	}
	return nil
}

// FindLeafAtOffset returns the leaves of root whose range touches offset.
// An offset exactly between two tokens yields both of them.
func FindLeafAtOffset(root *Node, offset int) LeafAtOffset {
	r := root.Range()
	if r.IsEmpty() || !r.ContainsInclusive(offset) {
		return LeafAtOffset{}
	}
	if root.IsToken() {
		return LeafAtOffset{left: root}
	}
	var touching []*Node
	for _, child := range root.Children() {
		cr := child.Range()
		if cr.IsEmpty() || !cr.ContainsInclusive(offset) {
			continue
		}
		touching = append(touching, child)
		if len(touching) == 2 {
			break
		}
	}
	switch len(touching) {
	case 0:
		return LeafAtOffset{}
	case 1:
		return FindLeafAtOffset(touching[0], offset)
	}
	left := FindLeafAtOffset(touching[0], offset)
	right := FindLeafAtOffset(touching[1], offset)
	return LeafAtOffset{left: left.RightBiased(), right: right.LeftBiased()}
}

// FindCoveringNode returns the deepest element of root whose range contains
// r. It returns root when no child covers r.
func FindCoveringNode(root *Node, r text.Range) *Node {
	cur := root
	for {
		var next *Node
		for _, child := range cur.Children() {
			if child.Range().ContainsRange(r) && !child.Range().IsEmpty() {
				next = child
				break
			}
		}
		if next == nil {
			return cur
		}
		cur = next
	}
}

// AncestorOfKind returns the first element among n and its ancestors with one
// of the given kinds.
func AncestorOfKind(n *Node, kinds ...Kind) *Node {
	for a := range n.Ancestors() {
		for _, k := range kinds {
			if a.Kind() == k {
				return a
			}
		}
	}
	return nil
}
