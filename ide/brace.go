package ide

import (
	"slices"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
)

// braces lists bracket kinds in pairs; the partner of braces[i] is
// braces[i^1].
var braces = []syntax.Kind{
	syntax.TokenLCurly, syntax.TokenRCurly,
	syntax.TokenLBrack, syntax.TokenRBrack,
	syntax.TokenLParen, syntax.TokenRParen,
	syntax.TokenLAngle, syntax.TokenRAngle,
}

// MatchingBrace returns the start of the bracket paired with the one
// touching offset. A bracket starting at offset wins over one ending there.
// The partner is looked up among the siblings of the bracket, so brackets
// the parser left unpaired have no match.
func MatchingBrace(file *ast.File, offset int) (int, bool) {
	leaves := syntax.FindLeafAtOffset(file.Syntax(), offset)
	if leaves.IsNone() {
		return 0, false
	}
	for _, leaf := range []*syntax.Node{leaves.RightBiased(), leaves.LeftBiased()} {
		i := slices.Index(braces, leaf.Kind())
		if i < 0 {
			continue
		}
		parent := leaf.Parent()
		if parent == nil {
			continue
		}
		if match := parent.ChildOfKind(braces[i^1]); match != nil {
			return match.Range().Start, true
		}
	}
	return 0, false
}
