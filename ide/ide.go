// Package ide answers editor queries over a parsed file: highlighting,
// diagnostics, outlines, runnables, selection and brace navigation, and the
// code actions that rewrite text. Every function is pure; callers may run
// them concurrently over the same *ast.File.
package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
)

// SyntaxTree renders the tree of file and its errors for debugging.
func SyntaxTree(file *ast.File) string {
	return syntax.Dump(file.Syntax(), file.Errors())
}
