package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/dhamidi/libsyntax/text"
)

// StructureNode is one entry of a file outline. Parent indexes the
// enclosing entry in the same slice, or is -1 at the top level.
type StructureNode struct {
	Parent          int         `json:"parent" yaml:"parent"`
	Label           string      `json:"label" yaml:"label"`
	NavigationRange text.Range  `json:"navigationRange" yaml:"navigationRange"`
	NodeRange       text.Range  `json:"nodeRange" yaml:"nodeRange"`
	Kind            syntax.Kind `json:"kind" yaml:"kind"`
}

// FileStructure returns the outline of file in document order. Parents
// always precede their children.
func FileStructure(file *ast.File) []StructureNode {
	var (
		result []StructureNode
		stack  []int
		pushed []bool
	)
	for ev := range syntax.Walk(file.Syntax()) {
		switch ev.Kind {
		case syntax.Enter:
			entry, ok := structureNode(ev.Node)
			pushed = append(pushed, ok)
			if !ok {
				continue
			}
			entry.Parent = -1
			if len(stack) > 0 {
				entry.Parent = stack[len(stack)-1]
			}
			stack = append(stack, len(result))
			result = append(result, entry)
		case syntax.Leave:
			if pushed[len(pushed)-1] {
				stack = stack[:len(stack)-1]
			}
			pushed = pushed[:len(pushed)-1]
		}
	}
	return result
}

func structureNode(n *syntax.Node) (StructureNode, bool) {
	switch n.Kind() {
	case syntax.KindStructDef, syntax.KindEnumDef, syntax.KindFnDef, syntax.KindTraitDef,
		syntax.KindModule, syntax.KindTypeDef, syntax.KindStaticDef, syntax.KindConstDef,
		syntax.KindNamedFieldDef:
		name, ok := declName(n)
		if !ok {
			return StructureNode{}, false
		}
		return StructureNode{
			Label:           name.Text(),
			NavigationRange: name.Syntax().Range(),
			NodeRange:       n.Range(),
			Kind:            n.Kind(),
		}, true
	case syntax.KindImplItem:
		impl, _ := ast.CastImplItem(n)
		target, ok := impl.TargetType()
		if !ok {
			return StructureNode{}, false
		}
		label := "impl " + target.Text()
		if trait, ok := impl.TargetTrait(); ok {
			label = "impl " + trait.Text() + " for " + target.Text()
		}
		return StructureNode{
			Label:           label,
			NavigationRange: target.Range(),
			NodeRange:       n.Range(),
			Kind:            n.Kind(),
		}, true
	}
	return StructureNode{}, false
}

func declName(n *syntax.Node) (ast.Name, bool) {
	return ast.CastName(n.ChildOfKind(syntax.KindName))
}

// FileSymbol is a named declaration usable for symbol search.
type FileSymbol struct {
	Name      string      `json:"name"`
	NodeRange text.Range  `json:"nodeRange"`
	Kind      syntax.Kind `json:"kind"`
}

// FileSymbols returns every named function, type, trait, module, constant
// and static of file, nested ones included.
func FileSymbols(file *ast.File) []FileSymbol {
	var result []FileSymbol
	for n := range syntax.Preorder(file.Syntax()) {
		switch n.Kind() {
		case syntax.KindFnDef, syntax.KindStructDef, syntax.KindEnumDef, syntax.KindTraitDef,
			syntax.KindModule, syntax.KindTypeDef, syntax.KindConstDef, syntax.KindStaticDef:
		default:
			continue
		}
		name, ok := declName(n)
		if !ok {
			continue
		}
		result = append(result, FileSymbol{Name: name.Text(), NodeRange: n.Range(), Kind: n.Kind()})
	}
	return result
}
