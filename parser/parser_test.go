package parser

import (
	"strings"
	"testing"

	"github.com/dhamidi/libsyntax/syntax"
)

func nonTrivia(n *syntax.Node) []*syntax.Node {
	var result []*syntax.Node
	for _, c := range n.Children() {
		if !c.Kind().IsTrivia() {
			result = append(result, c)
		}
	}
	return result
}

func kindsOf(nodes []*syntax.Node) []syntax.Kind {
	kinds := make([]syntax.Kind, len(nodes))
	for i, n := range nodes {
		kinds[i] = n.Kind()
	}
	return kinds
}

func findKind(root *syntax.Node, kind syntax.Kind) *syntax.Node {
	for n := range syntax.Preorder(root) {
		if n.Kind() == kind {
			return n
		}
	}
	return nil
}

func TestParseDump(t *testing.T) {
	tree := Parse("fn foo() {}")
	want := `SourceFile@[0; 11)
  FnDef@[0; 11)
    FnKw@[0; 2) "fn"
    Whitespace@[2; 3) " "
    Name@[3; 6)
      Ident@[3; 6) "foo"
    ParamList@[6; 8)
      LParen@[6; 7) "("
      RParen@[7; 8) ")"
    Whitespace@[8; 9) " "
    Block@[9; 11)
      LCurly@[9; 10) "{"
      RCurly@[10; 11) "}"
`
	if got := syntax.Dump(tree.Root(), tree.Errors); got != want {
		t.Errorf("dump mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestParseValidItems(t *testing.T) {
	tests := []struct {
		input string
		kind  syntax.Kind
	}{
		{"fn main() {}", syntax.KindFnDef},
		{"struct Foo { x: i32, pub y: Vec<String> }", syntax.KindStructDef},
		{"struct Unit;", syntax.KindStructDef},
		{"struct Tuple(pub u8, String);", syntax.KindStructDef},
		{"enum E { A, B(u8), C { x: i32 } }", syntax.KindEnumDef},
		{"use std::collections::{HashMap, HashSet as Set};", syntax.KindUseItem},
		{"impl<T: Clone> Foo<T> for Bar where T: Copy { fn f(&self) -> &T { &self.x } }", syntax.KindImplItem},
		{"const X: u32 = 1 << 4;", syntax.KindConstDef},
		{"fn f() { let x = if a { 1 } else { 2 }; }", syntax.KindFnDef},
		{"fn f() { for i in 0..10 { v.push(i); } }", syntax.KindFnDef},
		{"fn f() { match x { Some(y) if y > 0 => y, _ => 0 } }", syntax.KindFnDef},
		{"fn f<'a, T>(x: &'a T) -> Option<&'a T> where T: ?Sized { None }", syntax.KindFnDef},
		{"mod m { pub(crate) fn f() {} }", syntax.KindModule},
		{"trait T: Clone { fn f(&self); type X; const C: u8 = 1; }", syntax.KindTraitDef},
		{"#[derive(Debug)]\npub struct S;", syntax.KindStructDef},
		{"fn f() { let v: Vec<Vec<u8>> = vec![]; x >>= 1; }", syntax.KindFnDef},
		{"static mut COUNTER: usize = 0;", syntax.KindStaticDef},
		{"type Result<T> = std::result::Result<T, Error>;", syntax.KindTypeDef},
		{"extern crate foo as bar;", syntax.KindExternCrateItem},
		{"fn f() { let c = |a, b: u8| a + b; c(1, 2); }", syntax.KindFnDef},
		{"fn f() -> Result<(), String> { Ok(()) }", syntax.KindFnDef},
		{"impl fmt::Debug for E {}", syntax.KindImplItem},
		{"fn f(x: impl Fn(u8) -> bool) {}", syntax.KindFnDef},
		{"macro_rules! m { () => {} }", syntax.KindMacroCall},
		{"println!(\"{}\", 92);", syntax.KindMacroCall},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tree := Parse(tt.input)
			if len(tree.Errors) != 0 {
				t.Fatalf("unexpected errors: %v\n%s", tree.Errors, syntax.Dump(tree.Root(), tree.Errors))
			}
			items := nonTrivia(tree.Root())
			if len(items) != 1 {
				t.Fatalf("got %d items, want 1: %v", len(items), kindsOf(items))
			}
			if items[0].Kind() != tt.kind {
				t.Errorf("got %v, want %v", items[0].Kind(), tt.kind)
			}
		})
	}
}

func TestParseLossless(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"// only a comment",
		"fn main() { println!(\"Hello, {}!\", 92); }",
		"struct Foo { x: i32 }\nmod m { fn bar() {} }",
		"fn",
		"}}}}",
		"((((",
		"fn f( { let = ; }",
		"impl<",
		"struct S { a: , b }",
		"match {",
		"#[",
		"fn f() { a.b.c(1, 2, ).d[ }",
		"\x00\xff garbage § ✓",
		"fn f() -> { 1 + }",
		"enum { , , }",
		"use a::{b, ::c, *};",
		"'a: loop { break 'a; }",
		"trait",
	}
	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			tree := Parse(input)
			root := tree.Root()
			if got := root.Text(); got != input {
				t.Errorf("text mismatch: got %q, want %q", got, input)
			}
			if root.Kind() != syntax.KindSourceFile {
				t.Errorf("root kind %v, want SourceFile", root.Kind())
			}
			for _, err := range tree.Errors {
				if err.Offset < 0 || err.Offset > len(input) {
					t.Errorf("error offset %d out of bounds", err.Offset)
				}
			}
		})
	}
}

func TestParseTerminatesOnGarbage(t *testing.T) {
	fragments := []string{
		"fn", "(", ")", "{", "}", "<", ">", "struct", "::", "'a", "\"", "let", "=",
		";", ",", "|", "match", "=>", "#", "[", "]", "impl", "for", "x", "1", " ",
		"\n", "..", "&", "mut", "if", "else", "enum", "use", "*", "!", "where", ":",
	}
	seed := uint32(12345)
	next := func() int {
		seed = seed*1103515245 + 12345
		return int(seed>>16) % len(fragments)
	}
	for i := 0; i < 300; i++ {
		var sb strings.Builder
		for j := 0; j < 40; j++ {
			sb.WriteString(fragments[next()])
		}
		input := sb.String()
		tree := Parse(input)
		if got := tree.Root().Text(); got != input {
			t.Fatalf("text mismatch for %q: got %q", input, got)
		}
	}
}

func TestTriviaAttachment(t *testing.T) {
	tree := Parse("// c\nfn a() {}\n")
	root := tree.Root()
	got := kindsOf(root.Children())
	want := []syntax.Kind{syntax.TokenComment, syntax.TokenWhitespace, syntax.KindFnDef, syntax.TokenWhitespace}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d: got %v, want %v", i, got[i], want[i])
		}
	}
	fn := root.Child(2)
	if fn.Range().Start != 5 {
		t.Errorf("fn starts at %d, want 5", fn.Range().Start)
	}
}

func TestRecoveryKeepsDelimitedGroupFlat(t *testing.T) {
	tree := Parse("f(a, b)")
	items := nonTrivia(tree.Root())
	if len(items) != 2 || items[0].Kind() != syntax.KindError || items[1].Kind() != syntax.KindError {
		t.Fatalf("got %v, want two Error nodes", kindsOf(items))
	}
	group := kindsOf(items[1].Children())
	want := []syntax.Kind{
		syntax.TokenLParen, syntax.TokenIdent, syntax.TokenComma,
		syntax.TokenWhitespace, syntax.TokenIdent, syntax.TokenRParen,
	}
	if len(group) != len(want) {
		t.Fatalf("got %v, want %v", group, want)
	}
	for i := range want {
		if group[i] != want[i] {
			t.Errorf("child %d: got %v, want %v", i, group[i], want[i])
		}
	}
	if len(tree.Errors) != 2 {
		t.Errorf("got %d errors, want 2", len(tree.Errors))
	}
}

func TestRecoveryResumesAtNextItem(t *testing.T) {
	tree := Parse("fn f( { }\nstruct S;")
	if len(tree.Errors) == 0 {
		t.Fatal("expected errors")
	}
	if findKind(tree.Root(), syntax.KindStructDef) == nil {
		t.Errorf("struct after broken fn was not recovered:\n%s", syntax.Dump(tree.Root(), tree.Errors))
	}
}

func TestBinaryPrecedence(t *testing.T) {
	tree := Parse("fn f() { 1 + 2 * 3; }")
	bin := findKind(tree.Root(), syntax.KindBinExpr)
	if bin == nil {
		t.Fatal("no binary expression")
	}
	got := kindsOf(nonTrivia(bin))
	want := []syntax.Kind{syntax.KindLiteral, syntax.TokenPlus, syntax.KindBinExpr}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("child %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestShiftIsGlued(t *testing.T) {
	tree := Parse("fn f() { a >> b; }")
	shr := findKind(tree.Root(), syntax.TokenShr)
	if shr == nil {
		t.Fatalf("no shift token:\n%s", syntax.Dump(tree.Root(), tree.Errors))
	}
	if shr.Text() != ">>" {
		t.Errorf("got %q, want %q", shr.Text(), ">>")
	}

	tree = Parse("fn f() { a > > b; }")
	if findKind(tree.Root(), syntax.TokenShr) != nil {
		t.Error("separated angle brackets must not form a shift")
	}
}

func TestNestedGenericsClose(t *testing.T) {
	tree := Parse("type T = Vec<Vec<u8>>;")
	if len(tree.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", tree.Errors)
	}
	count := 0
	for n := range syntax.Leaves(tree.Root()) {
		if n.Kind() == syntax.TokenRAngle {
			count++
		}
	}
	if count != 2 {
		t.Errorf("got %d closing angles, want 2", count)
	}
}

type recordingSink struct {
	depth, maxDepth int
	starts          int
	finishes        int
	text            strings.Builder
	errors          []string
}

func (s *recordingSink) StartNode(syntax.Kind) {
	s.starts++
	s.depth++
	s.maxDepth = max(s.maxDepth, s.depth)
}

func (s *recordingSink) Token(_ syntax.Kind, text string) {
	s.text.WriteString(text)
}

func (s *recordingSink) FinishNode() {
	s.finishes++
	s.depth--
}

func (s *recordingSink) Error(msg string) {
	s.errors = append(s.errors, msg)
}

func TestParseWithSink(t *testing.T) {
	input := "fn f() { if x { y } }\nstruct"
	var sink recordingSink
	ParseWith(input, &sink)
	if sink.starts != sink.finishes {
		t.Errorf("unbalanced: %d starts, %d finishes", sink.starts, sink.finishes)
	}
	if sink.depth != 0 {
		t.Errorf("depth %d after parse", sink.depth)
	}
	if sink.text.String() != input {
		t.Errorf("got %q, want %q", sink.text.String(), input)
	}
	if len(sink.errors) == 0 {
		t.Error("expected an error for the incomplete struct")
	}
}

func TestWithStepsBoundsWork(t *testing.T) {
	input := strings.Repeat("fn f() {} ", 50)
	tree := Parse(input, WithSteps(5))
	if got := tree.Root().Text(); got != input {
		t.Errorf("text mismatch under step limit")
	}
}

func TestStrayBraceDoesNotSwallowFile(t *testing.T) {
	const n = 20000
	input := "{\n" + strings.Repeat("fn a() {}\n", n)
	tree := Parse(input)
	fns := 0
	for _, child := range tree.Root().Children() {
		if child.Kind() == syntax.KindFnDef {
			fns++
		}
	}
	if fns != n {
		t.Errorf("got %d top-level functions, want %d", fns, n)
	}
	if len(tree.Errors) != 1 {
		t.Errorf("got %d errors, want 1", len(tree.Errors))
	}
}

func TestErrorGroupStopsAtItemKeyword(t *testing.T) {
	tree := Parse("{ x fn a() {} }")
	if findKind(tree.Root(), syntax.KindFnDef) == nil {
		t.Errorf("function inside stray block was not parsed:\n%s", syntax.Dump(tree.Root(), tree.Errors))
	}
}

func TestManyUnclosedBraces(t *testing.T) {
	input := strings.Repeat("{", 20000)
	tree := Parse(input)
	if got := tree.Root().Text(); got != input {
		t.Errorf("text mismatch")
	}
	if len(tree.Root().Children()) != 20000 {
		t.Errorf("got %d root children, want 20000", len(tree.Root().Children()))
	}
}
