// Package ast provides typed views over the syntax tree. A view is a thin
// wrapper around a *syntax.Node of a known kind; it owns nothing and can be
// created and dropped freely.
package ast

import (
	"iter"

	"github.com/dhamidi/libsyntax/parser"
	"github.com/dhamidi/libsyntax/syntax"
)

// File is a parsed source file: its text and the immutable tree built
// from it.
type File struct {
	text string
	tree *syntax.Tree
}

func Parse(text string) *File {
	return &File{text: text, tree: parser.Parse(text)}
}

// Syntax returns a fresh located root of the file.
func (f *File) Syntax() *syntax.Node {
	return f.tree.Root()
}

func (f *File) Tree() *syntax.Tree {
	return f.tree
}

func (f *File) Text() string {
	return f.text
}

func (f *File) Errors() []syntax.SyntaxError {
	return f.tree.Errors
}

// Functions yields the top-level function definitions.
func (f *File) Functions() iter.Seq[FnDef] {
	return func(yield func(FnDef) bool) {
		for _, child := range f.Syntax().Children() {
			if fn, ok := CastFnDef(child); ok {
				if !yield(fn) {
					return
				}
			}
		}
	}
}

// Node is implemented by every typed view.
type Node interface {
	Syntax() *syntax.Node
}

// NameOwner is a view of an item that declares a name.
type NameOwner interface {
	Node
	Name() (Name, bool)
}

type node struct {
	syntax *syntax.Node
}

func (n node) Syntax() *syntax.Node {
	return n.syntax
}

// Name returns the declared name, if the parser found one.
func (n node) Name() (Name, bool) {
	return CastName(n.syntax.ChildOfKind(syntax.KindName))
}

// Attrs returns the outer attributes of the item in source order.
func (n node) Attrs() []Attr {
	var attrs []Attr
	for _, c := range n.syntax.ChildrenOfKind(syntax.KindAttr) {
		attrs = append(attrs, Attr{node{c}})
	}
	return attrs
}

// HasAtomAttr reports whether the item carries a bare #[atom] attribute.
func (n node) HasAtomAttr(atom string) bool {
	for _, attr := range n.Attrs() {
		if name, ok := attr.AsAtom(); ok && name == atom {
			return true
		}
	}
	return false
}

func cast[T any](n *syntax.Node, kind syntax.Kind, wrap func(node) T) (T, bool) {
	if n == nil || n.Kind() != kind {
		var zero T
		return zero, false
	}
	return wrap(node{n}), true
}

type FnDef struct{ node }

func CastFnDef(n *syntax.Node) (FnDef, bool) {
	return cast(n, syntax.KindFnDef, func(b node) FnDef { return FnDef{b} })
}

// Body returns the function body, absent for declarations ending in `;`.
func (f FnDef) Body() (*syntax.Node, bool) {
	b := f.syntax.ChildOfKind(syntax.KindBlock)
	return b, b != nil
}

type StructDef struct{ node }

func CastStructDef(n *syntax.Node) (StructDef, bool) {
	return cast(n, syntax.KindStructDef, func(b node) StructDef { return StructDef{b} })
}

// Fields returns the named fields of a struct with a braced body.
func (s StructDef) Fields() []NamedFieldDef {
	list := s.syntax.ChildOfKind(syntax.KindNamedFieldDefList)
	if list == nil {
		return nil
	}
	var fields []NamedFieldDef
	for _, c := range list.ChildrenOfKind(syntax.KindNamedFieldDef) {
		fields = append(fields, NamedFieldDef{node{c}})
	}
	return fields
}

type EnumDef struct{ node }

func CastEnumDef(n *syntax.Node) (EnumDef, bool) {
	return cast(n, syntax.KindEnumDef, func(b node) EnumDef { return EnumDef{b} })
}

// NominalDef is a struct or an enum: an item that can carry derives.
type NominalDef struct{ node }

func CastNominalDef(n *syntax.Node) (NominalDef, bool) {
	if n == nil {
		return NominalDef{}, false
	}
	switch n.Kind() {
	case syntax.KindStructDef, syntax.KindEnumDef:
		return NominalDef{node{n}}, true
	}
	return NominalDef{}, false
}

type TraitDef struct{ node }

func CastTraitDef(n *syntax.Node) (TraitDef, bool) {
	return cast(n, syntax.KindTraitDef, func(b node) TraitDef { return TraitDef{b} })
}

type Module struct{ node }

func CastModule(n *syntax.Node) (Module, bool) {
	return cast(n, syntax.KindModule, func(b node) Module { return Module{b} })
}

// Items returns the items of an inline module body.
func (m Module) Items() []*syntax.Node {
	list := m.syntax.ChildOfKind(syntax.KindItemList)
	if list == nil {
		return nil
	}
	var items []*syntax.Node
	for _, c := range list.Children() {
		if !c.IsToken() {
			items = append(items, c)
		}
	}
	return items
}

type ImplItem struct{ node }

func CastImplItem(n *syntax.Node) (ImplItem, bool) {
	return cast(n, syntax.KindImplItem, func(b node) ImplItem { return ImplItem{b} })
}

func (i ImplItem) types() []*syntax.Node {
	var types []*syntax.Node
	for _, c := range i.syntax.Children() {
		if isType(c.Kind()) {
			types = append(types, c)
		}
	}
	return types
}

// TargetType returns the type the impl block is for: the second type of
// `impl Trait for Type`, the only one of `impl Type`.
func (i ImplItem) TargetType() (*syntax.Node, bool) {
	types := i.types()
	switch len(types) {
	case 1:
		return types[0], true
	case 2:
		return types[1], true
	}
	return nil, false
}

// TargetTrait returns the implemented trait of `impl Trait for Type`.
func (i ImplItem) TargetTrait() (*syntax.Node, bool) {
	types := i.types()
	if len(types) == 2 {
		return types[0], true
	}
	return nil, false
}

func isType(k syntax.Kind) bool {
	return k >= syntax.KindPathType && k <= syntax.KindDynTraitType
}

type TypeDef struct{ node }

func CastTypeDef(n *syntax.Node) (TypeDef, bool) {
	return cast(n, syntax.KindTypeDef, func(b node) TypeDef { return TypeDef{b} })
}

type ConstDef struct{ node }

func CastConstDef(n *syntax.Node) (ConstDef, bool) {
	return cast(n, syntax.KindConstDef, func(b node) ConstDef { return ConstDef{b} })
}

type StaticDef struct{ node }

func CastStaticDef(n *syntax.Node) (StaticDef, bool) {
	return cast(n, syntax.KindStaticDef, func(b node) StaticDef { return StaticDef{b} })
}

type NamedFieldDef struct{ node }

func CastNamedFieldDef(n *syntax.Node) (NamedFieldDef, bool) {
	return cast(n, syntax.KindNamedFieldDef, func(b node) NamedFieldDef { return NamedFieldDef{b} })
}

type Name struct{ node }

func CastName(n *syntax.Node) (Name, bool) {
	return cast(n, syntax.KindName, func(b node) Name { return Name{b} })
}

func (n Name) Text() string {
	return n.syntax.Text()
}

type NameRef struct{ node }

func CastNameRef(n *syntax.Node) (NameRef, bool) {
	return cast(n, syntax.KindNameRef, func(b node) NameRef { return NameRef{b} })
}

func (n NameRef) Text() string {
	return n.syntax.Text()
}

type TokenTree struct{ node }

func CastTokenTree(n *syntax.Node) (TokenTree, bool) {
	return cast(n, syntax.KindTokenTree, func(b node) TokenTree { return TokenTree{b} })
}

// Elements returns the non-trivia children of the tree, delimiters
// included.
func (t TokenTree) Elements() []*syntax.Node {
	var result []*syntax.Node
	for _, c := range t.syntax.Children() {
		if !c.Kind().IsTrivia() {
			result = append(result, c)
		}
	}
	return result
}

type Attr struct{ node }

func CastAttr(n *syntax.Node) (Attr, bool) {
	return cast(n, syntax.KindAttr, func(b node) Attr { return Attr{b} })
}

// Value returns the bracketed token tree of the attribute.
func (a Attr) Value() (TokenTree, bool) {
	return CastTokenTree(a.syntax.ChildOfKind(syntax.KindTokenTree))
}

// AsAtom returns name for an attribute of the form #[name].
func (a Attr) AsAtom() (string, bool) {
	tt, ok := a.Value()
	if !ok {
		return "", false
	}
	elems := tt.Elements()
	if len(elems) != 3 || elems[1].Kind() != syntax.TokenIdent {
		return "", false
	}
	return elems[1].Text(), true
}

// AsCall splits an attribute of the form #[name(args)] into its name and
// argument tree.
func (a Attr) AsCall() (string, TokenTree, bool) {
	tt, ok := a.Value()
	if !ok {
		return "", TokenTree{}, false
	}
	elems := tt.Elements()
	if len(elems) != 4 || elems[1].Kind() != syntax.TokenIdent {
		return "", TokenTree{}, false
	}
	args, ok := CastTokenTree(elems[2])
	if !ok {
		return "", TokenTree{}, false
	}
	return elems[1].Text(), args, true
}
