package syntax

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/libsyntax/text"
)

// buildFn builds the tree of "fn f() {}" by hand.
func buildFn(t *testing.T) *Tree {
	t.Helper()
	b := NewGreenBuilder()
	b.StartNode(KindSourceFile)
	b.StartNode(KindFnDef)
	b.Token(TokenFnKw, "fn")
	b.Token(TokenWhitespace, " ")
	b.StartNode(KindName)
	b.Token(TokenIdent, "f")
	b.FinishNode()
	b.StartNode(KindParamList)
	b.Token(TokenLParen, "(")
	b.Error("expected parameter")
	b.Token(TokenRParen, ")")
	b.FinishNode()
	b.Token(TokenWhitespace, " ")
	b.StartNode(KindBlock)
	b.Token(TokenLCurly, "{")
	b.Token(TokenRCurly, "}")
	b.FinishNode()
	b.FinishNode()
	b.FinishNode()
	return b.Finish()
}

func TestTreeText(t *testing.T) {
	tree := buildFn(t)
	root := tree.Root()
	if got := root.Text(); got != "fn f() {}" {
		t.Errorf("got %q", got)
	}
	if root.Range() != text.NewRange(0, 9) {
		t.Errorf("root range %v", root.Range())
	}
	if len(tree.Errors) != 1 || tree.Errors[0].Offset != 5 {
		t.Errorf("errors: %v", tree.Errors)
	}
}

func TestPreorderAndLeaves(t *testing.T) {
	root := buildFn(t).Root()
	var kinds []string
	for n := range Preorder(root) {
		kinds = append(kinds, n.Kind().String())
	}
	if len(kinds) != 13 || kinds[0] != "SourceFile" || kinds[1] != "FnDef" {
		t.Errorf("preorder: %v", kinds)
	}

	var sb strings.Builder
	for leaf := range Leaves(root) {
		if !leaf.IsToken() {
			t.Errorf("non-token leaf %v", leaf.Kind())
		}
		sb.WriteString(leaf.Text())
	}
	if sb.String() != root.Text() {
		t.Errorf("leaves reproduce %q", sb.String())
	}
}

func TestWalkBalanced(t *testing.T) {
	root := buildFn(t).Root()
	depth := 0
	var first, last WalkEvent
	n := 0
	for ev := range Walk(root) {
		if n == 0 {
			first = ev
		}
		last = ev
		n++
		if ev.Kind == Enter {
			depth++
		} else {
			depth--
		}
		if depth < 0 {
			t.Fatal("leave before enter")
		}
	}
	if depth != 0 || n != 26 {
		t.Errorf("depth %d after %d events", depth, n)
	}
	if first.Kind != Enter || !first.Node.Equal(root) || last.Kind != Leave || !last.Node.Equal(root) {
		t.Errorf("walk does not start and end at root")
	}
}

func TestWalkStopsEarly(t *testing.T) {
	root := buildFn(t).Root()
	n := 0
	for range Preorder(root) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Errorf("got %d", n)
	}
}

func TestFindLeafAtOffset(t *testing.T) {
	root := buildFn(t).Root()

	leaf := FindLeafAtOffset(root, 1)
	if leaf.IsNone() || len(leaf.All()) != 1 || leaf.LeftBiased().Text() != "fn" {
		t.Errorf("offset 1: %v", leaf.All())
	}

	between := FindLeafAtOffset(root, 4)
	if len(between.All()) != 2 {
		t.Fatalf("offset 4: got %d leaves", len(between.All()))
	}
	if between.LeftBiased().Text() != "f" || between.RightBiased().Text() != "(" {
		t.Errorf("offset 4: left %q right %q", between.LeftBiased().Text(), between.RightBiased().Text())
	}
	if got := between.Find(func(n *Node) bool { return n.Kind() == TokenLParen }); got == nil {
		t.Error("Find missed the paren")
	}

	if !FindLeafAtOffset(root, 10).IsNone() {
		t.Error("offset past the end found a leaf")
	}
}

func TestFindCoveringNode(t *testing.T) {
	root := buildFn(t).Root()
	tests := []struct {
		r    text.Range
		kind Kind
	}{
		{text.NewRange(4, 6), KindParamList},
		{text.NewRange(3, 6), KindFnDef},
		{text.NewRange(0, 9), KindFnDef},
		{text.NewRange(7, 8), TokenLCurly},
	}
	for _, tt := range tests {
		if got := FindCoveringNode(root, tt.r).Kind(); got != tt.kind {
			t.Errorf("%v: got %v, want %v", tt.r, got, tt.kind)
		}
	}
}

func TestNavigation(t *testing.T) {
	root := buildFn(t).Root()
	fn := root.FirstChild()
	name := fn.ChildOfKind(KindName)
	if name == nil {
		t.Fatal("no name")
	}
	if name.NextSibling().Kind() != KindParamList || name.PrevSibling().Kind() != TokenWhitespace {
		t.Errorf("siblings of name: %v, %v", name.PrevSibling().Kind(), name.NextSibling().Kind())
	}
	if fn.FirstChild().PrevSibling() != nil || fn.LastChild().NextSibling() != nil {
		t.Error("siblings past the ends")
	}
	if got := len(fn.ChildrenOfKind(TokenWhitespace)); got != 2 {
		t.Errorf("got %d whitespace children", got)
	}

	ident := name.FirstChild()
	var chain []Kind
	for a := range ident.Ancestors() {
		chain = append(chain, a.Kind())
	}
	want := []Kind{TokenIdent, KindName, KindFnDef, KindSourceFile}
	if len(chain) != len(want) {
		t.Fatalf("ancestors: %v", chain)
	}
	for i := range want {
		if chain[i] != want[i] {
			t.Errorf("ancestor %d: got %v, want %v", i, chain[i], want[i])
		}
	}
	if !AncestorOfKind(ident, KindBlock, KindFnDef).Equal(fn) {
		t.Error("AncestorOfKind missed the function")
	}
	if AncestorOfKind(ident, KindBlock) != nil {
		t.Error("AncestorOfKind found a block")
	}
	if !FindLeafAtOffset(root, 3).RightBiased().Parent().Equal(name) {
		t.Error("two views of the name are not equal")
	}
}

func TestGreenNodesAreShared(t *testing.T) {
	tree := buildFn(t)
	a, b := tree.Root(), tree.Root()
	if !a.Equal(b) || a == b {
		t.Error("roots of one tree should be distinct equal views")
	}
	if a.FirstChild().Green() != b.FirstChild().Green() {
		t.Error("views do not share green nodes")
	}
}

func TestBuilderPanicsWhenUnbalanced(t *testing.T) {
	assertPanics := func(name string, f func()) {
		t.Helper()
		defer func() {
			if recover() == nil {
				t.Errorf("%s: expected panic", name)
			}
		}()
		f()
	}
	assertPanics("finish without start", func() {
		NewGreenBuilder().FinishNode()
	})
	assertPanics("open node", func() {
		b := NewGreenBuilder()
		b.StartNode(KindSourceFile)
		b.Finish()
	})
}

func TestKindText(t *testing.T) {
	got, err := KindFnDef.MarshalText()
	if err != nil || string(got) != "FnDef" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestDump(t *testing.T) {
	tree := buildFn(t)
	out := Dump(tree.Root(), tree.Errors)
	if !strings.HasPrefix(out, "SourceFile@[0; 9)\n  FnDef@[0; 9)\n    FnKw@[0; 2) \"fn\"\n") {
		t.Errorf("unexpected dump:\n%s", out)
	}
	if !strings.HasSuffix(out, "error 5: expected parameter\n") {
		t.Errorf("errors missing from dump:\n%s", out)
	}
}

func TestNodeJSON(t *testing.T) {
	root := buildFn(t).Root()
	name := root.FirstChild().ChildOfKind(KindName)
	got, err := json.Marshal(name)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"kind":"Name","start":3,"end":4,"children":[{"kind":"Ident","start":3,"end":4,"text":"f"}]}`
	if string(got) != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
