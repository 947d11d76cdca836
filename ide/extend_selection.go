package ide

import (
	"strings"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/dhamidi/libsyntax/text"
)

// ExtendSelection grows r to the next enclosing syntactic unit. An empty
// range selects the token under the cursor; inside the indentation that
// follows a line break it selects the next element instead.
func ExtendSelection(file *ast.File, r text.Range) (text.Range, bool) {
	root := file.Syntax()
	if r.IsEmpty() {
		return extendCursor(root, r.Start)
	}
	for n := range syntax.FindCoveringNode(root, r).Ancestors() {
		if n.Range() != r {
			return n.Range(), true
		}
	}
	return text.Range{}, false
}

func extendCursor(root *syntax.Node, offset int) (text.Range, bool) {
	leaves := syntax.FindLeafAtOffset(root, offset)
	if leaves.IsNone() {
		return text.Range{}, false
	}
	if leaf := leaves.Find(func(n *syntax.Node) bool { return n.Kind() != syntax.TokenWhitespace }); leaf != nil {
		return leaf.Range(), true
	}
	ws := leaves.LeftBiased()
	wsText := ws.Text()
	suffix := wsText[offset-ws.Range().Start:]
	if strings.Contains(wsText, "\n") && !strings.Contains(suffix, "\n") {
		if next := ws.NextSibling(); next != nil {
			return next.Range(), true
		}
	}
	return ws.Range(), true
}
