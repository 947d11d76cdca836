package syntax

import "iter"

type WalkEventKind int

const (
	Enter WalkEventKind = iota
	Leave
)

type WalkEvent struct {
	Kind WalkEventKind
	Node *Node
}

// Walk yields Enter and Leave events for every element under root, root
// included, in document order. The sequence is lazy and single-pass; walking
// again requires a fresh call.
func Walk(root *Node) iter.Seq[WalkEvent] {
	return func(yield func(WalkEvent) bool) {
		cur := root
		for {
			if !yield(WalkEvent{Kind: Enter, Node: cur}) {
				return
			}
			if child := cur.FirstChild(); child != nil {
				cur = child
				continue
			}
			for {
				if !yield(WalkEvent{Kind: Leave, Node: cur}) {
					return
				}
				if cur == root {
					return
				}
				if next := cur.NextSibling(); next != nil {
					cur = next
					break
				}
				cur = cur.parent
			}
		}
	}
}

// Preorder yields root and all of its descendants, nodes and tokens, in
// document order.
func Preorder(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for ev := range Walk(root) {
			if ev.Kind == Enter && !yield(ev.Node) {
				return
			}
		}
	}
}

// Leaves yields the tokens under root in document order.
func Leaves(root *Node) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for n := range Preorder(root) {
			if n.IsToken() && !yield(n) {
				return
			}
		}
	}
}
