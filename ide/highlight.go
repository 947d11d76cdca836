package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/dhamidi/libsyntax/text"
)

type HighlightedRange struct {
	Range text.Range `json:"range"`
	Tag   string     `json:"tag"`
}

// Highlight tags every element of file that has a highlight class, in
// document order. Ranges of an outer element and its children may nest.
func Highlight(file *ast.File) []HighlightedRange {
	var result []HighlightedRange
	for n := range syntax.Preorder(file.Syntax()) {
		tag := highlightTag(n.Kind())
		if tag == "" {
			continue
		}
		result = append(result, HighlightedRange{Range: n.Range(), Tag: tag})
	}
	return result
}

func highlightTag(k syntax.Kind) string {
	switch k {
	case syntax.KindError, syntax.TokenError:
		return "error"
	case syntax.TokenComment, syntax.TokenDocComment:
		return "comment"
	case syntax.TokenString, syntax.TokenRawString, syntax.TokenByteString, syntax.TokenRawByteString:
		return "string"
	case syntax.KindAttr:
		return "attribute"
	case syntax.KindNameRef:
		return "text"
	case syntax.KindName:
		return "function"
	case syntax.TokenIntNumber, syntax.TokenFloatNumber, syntax.TokenChar, syntax.TokenByte:
		return "literal"
	case syntax.TokenLifetime:
		return "parameter"
	}
	if k.IsKeyword() {
		return "keyword"
	}
	return ""
}
