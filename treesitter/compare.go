package treesitter

import (
	"fmt"

	"github.com/dhamidi/libsyntax/ide"
)

// Mismatch describes an outline entry on which the two outlines disagree.
// Ours or Theirs is empty when one outline has no entry at Index.
type Mismatch struct {
	Index  int
	Ours   string
	Theirs string
}

func (m Mismatch) String() string {
	return fmt.Sprintf("#%d: ours %s, tree-sitter %s", m.Index, orNone(m.Ours), orNone(m.Theirs))
}

func orNone(s string) string {
	if s == "" {
		return "<none>"
	}
	return s
}

func describe(label, kind string, parent int) string {
	return fmt.Sprintf("%s %q (parent %d)", kind, label, parent)
}

// Compare lines up two outlines entry by entry and reports every position
// where label, kind or parent differ.
func Compare(ours []ide.StructureNode, theirs []Item) []Mismatch {
	var result []Mismatch
	for i := 0; i < max(len(ours), len(theirs)); i++ {
		var o, t string
		if i < len(ours) {
			o = describe(ours[i].Label, ours[i].Kind.String(), ours[i].Parent)
		}
		if i < len(theirs) {
			t = describe(theirs[i].Label, theirs[i].Kind, theirs[i].Parent)
		}
		if o != t {
			result = append(result, Mismatch{Index: i, Ours: o, Theirs: t})
		}
	}
	return result
}
