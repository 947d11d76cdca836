package syntax

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dump renders the tree under root one element per line, indented by depth,
// followed by the recorded errors. The output is meant for humans and tests;
// nothing parses it back.
func Dump(root *Node, errors []SyntaxError) string {
	var sb strings.Builder
	depth := 0
	for ev := range Walk(root) {
		if ev.Kind == Leave {
			depth--
			continue
		}
		n := ev.Node
		sb.WriteString(strings.Repeat("  ", depth))
		sb.WriteString(n.Kind().String())
		sb.WriteString("@")
		sb.WriteString(n.Range().String())
		if n.IsToken() {
			fmt.Fprintf(&sb, " %q", n.Text())
		}
		sb.WriteString("\n")
		depth++
	}
	for _, err := range errors {
		fmt.Fprintf(&sb, "error %d: %s\n", err.Offset, err.Message)
	}
	return sb.String()
}

type jsonNode struct {
	Kind     string      `json:"kind"`
	Start    int         `json:"start"`
	End      int         `json:"end"`
	Text     string      `json:"text,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	r := n.Range()
	jn := &jsonNode{
		Kind:  n.Kind().String(),
		Start: r.Start,
		End:   r.End,
	}
	if n.IsToken() {
		jn.Text = n.Text()
		return jn
	}
	for _, child := range n.Children() {
		jn.Children = append(jn.Children, child.toJSON())
	}
	return jn
}
