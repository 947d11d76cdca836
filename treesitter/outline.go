// Package treesitter builds file outlines with the tree-sitter Rust grammar,
// an implementation independent of the parser package. Comparing the two
// outlines catches grammar regressions on real code.
package treesitter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

// Item is one outline entry. Kind uses the names of syntax.Kind so entries
// compare directly with ide.StructureNode.
type Item struct {
	Parent    int    `json:"parent"`
	Label     string `json:"label"`
	Kind      string `json:"kind"`
	StartByte int    `json:"startByte"`
	EndByte   int    `json:"endByte"`
}

var itemKinds = map[string]string{
	"struct_item":             "StructDef",
	"enum_item":               "EnumDef",
	"function_item":           "FnDef",
	"function_signature_item": "FnDef",
	"trait_item":              "TraitDef",
	"mod_item":                "Module",
	"type_item":               "TypeDef",
	"associated_type":         "TypeDef",
	"static_item":             "StaticDef",
	"const_item":              "ConstDef",
	"field_declaration":       "NamedFieldDef",
	"impl_item":               "ImplItem",
}

// Outline parses content and returns its items in document order, parents
// before children.
func Outline(content []byte) ([]Item, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Rust source: %w", err)
	}
	defer tree.Close()

	var items []Item
	collect(tree.RootNode(), content, -1, &items)
	return items, nil
}

func collect(node *sitter.Node, content []byte, parent int, items *[]Item) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		childParent := parent
		if item, ok := toItem(child, content); ok {
			item.Parent = parent
			childParent = len(*items)
			*items = append(*items, item)
		}
		collect(child, content, childParent, items)
	}
}

func toItem(node *sitter.Node, content []byte) (Item, bool) {
	kind, ok := itemKinds[node.Type()]
	if !ok {
		return Item{}, false
	}
	var label string
	if node.Type() == "impl_item" {
		typeNode := node.ChildByFieldName("type")
		if typeNode == nil {
			return Item{}, false
		}
		label = "impl " + typeNode.Content(content)
		if traitNode := node.ChildByFieldName("trait"); traitNode != nil {
			label = "impl " + traitNode.Content(content) + " for " + typeNode.Content(content)
		}
	} else {
		nameNode := node.ChildByFieldName("name")
		if nameNode == nil {
			return Item{}, false
		}
		label = nameNode.Content(content)
	}
	return Item{
		Label:     label,
		Kind:      kind,
		StartByte: int(node.StartByte()),
		EndByte:   int(node.EndByte()),
	}, true
}
