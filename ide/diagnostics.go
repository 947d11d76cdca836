package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/dhamidi/libsyntax/text"
)

type Diagnostic struct {
	Range   text.Range `json:"range"`
	Message string     `json:"message"`
}

// Diagnostics reports one entry per Error node followed by one entry per
// recorded parse error. A recorded error covers the single unit at its
// offset, clipped to the end of the text.
func Diagnostics(file *ast.File) []Diagnostic {
	var result []Diagnostic
	for n := range syntax.Preorder(file.Syntax()) {
		if n.Kind() == syntax.KindError {
			result = append(result, Diagnostic{Range: n.Range(), Message: "Syntax Error"})
		}
	}
	size := len(file.Text())
	for _, err := range file.Errors() {
		start := min(err.Offset, size)
		end := min(err.Offset+1, size)
		result = append(result, Diagnostic{Range: text.NewRange(start, end), Message: err.Message})
	}
	return result
}
