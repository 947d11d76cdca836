package ide

import (
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/edit"
	"github.com/dhamidi/libsyntax/syntax"
)

// CursorPosition says where the cursor goes after an action: either an
// explicit offset in the edited text or wherever the edit moves the old
// cursor.
type CursorPosition struct {
	offset int
	set    bool
}

func CursorSame() CursorPosition {
	return CursorPosition{}
}

func CursorAt(offset int) CursorPosition {
	return CursorPosition{offset: offset, set: true}
}

// Offset returns the explicit offset, if any.
func (c CursorPosition) Offset() (int, bool) {
	return c.offset, c.set
}

type ActionResult struct {
	Edit   *edit.Edit
	Cursor CursorPosition
}

// Resolve returns the cursor offset in the edited text given the cursor
// offset before the edit.
func (r ActionResult) Resolve(before int) (int, error) {
	if off, ok := r.Cursor.Offset(); ok {
		return off, nil
	}
	return r.Edit.ApplyToOffset(before)
}

// Action is a code action that can be offered at a cursor. Find returns
// nil when the action does not apply; otherwise calling the result
// computes the edit.
type Action struct {
	ID    string
	Title string
	Find  func(file *ast.File, offset int) func() ActionResult
}

var Actions = []Action{
	{ID: "flipComma", Title: "Flip `,`", Find: FlipComma},
	{ID: "addDerive", Title: "Add `#[derive]`", Find: AddDerive},
}

func FindAction(id string) (Action, bool) {
	for _, a := range Actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// FlipComma swaps the elements on either side of the comma at offset.
func FlipComma(file *ast.File, offset int) func() ActionResult {
	comma := syntax.FindLeafAtOffset(file.Syntax(), offset).Find(func(n *syntax.Node) bool {
		return n.Kind() == syntax.TokenComma
	})
	if comma == nil {
		return nil
	}
	left := nonTriviaSibling(comma, (*syntax.Node).PrevSibling)
	right := nonTriviaSibling(comma, (*syntax.Node).NextSibling)
	if left == nil || right == nil {
		return nil
	}
	return func() ActionResult {
		b := edit.NewBuilder()
		b.Replace(left.Range(), right.Text())
		b.Replace(right.Range(), left.Text())
		return ActionResult{Edit: b.Finish(), Cursor: CursorSame()}
	}
}

func nonTriviaSibling(n *syntax.Node, step func(*syntax.Node) *syntax.Node) *syntax.Node {
	for cur := step(n); cur != nil; cur = step(cur) {
		if !cur.Kind().IsTrivia() {
			return cur
		}
	}
	return nil
}

// AddDerive places the cursor inside the derive attribute of the struct or
// enum at offset, inserting an empty one when the item has none.
func AddDerive(file *ast.File, offset int) func() ActionResult {
	nominal, ok := FindNominal(file, offset)
	if !ok {
		return nil
	}
	return func() ActionResult {
		b := edit.NewBuilder()
		var cursor int
		if args, ok := deriveArgs(nominal); ok {
			cursor = args.Syntax().Range().End - len(")")
		} else {
			start := nominal.Syntax().Range().Start
			b.Insert(start, "#[derive()]\n")
			cursor = start + len("#[derive(")
		}
		return ActionResult{Edit: b.Finish(), Cursor: CursorAt(cursor)}
	}
}

func deriveArgs(n ast.NominalDef) (ast.TokenTree, bool) {
	for _, attr := range n.Attrs() {
		if name, args, ok := attr.AsCall(); ok && name == "derive" {
			return args, true
		}
	}
	return ast.TokenTree{}, false
}

// FindNominal returns the struct or enum enclosing the token at offset,
// preferring a non-trivia token when two touch it.
func FindNominal(file *ast.File, offset int) (ast.NominalDef, bool) {
	leaves := syntax.FindLeafAtOffset(file.Syntax(), offset)
	leaf := leaves.Find(func(n *syntax.Node) bool { return !n.Kind().IsTrivia() })
	if leaf == nil {
		leaf = leaves.RightBiased()
	}
	if leaf == nil {
		return ast.NominalDef{}, false
	}
	for n := range leaf.Ancestors() {
		if nominal, ok := ast.CastNominalDef(n); ok {
			return nominal, true
		}
	}
	return ast.NominalDef{}, false
}
