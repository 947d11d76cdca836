package treesitter

import (
	"testing"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/dhamidi/libsyntax/syntax"
)

const sample = `
struct Foo {
    x: i32
}

mod m {
    fn bar() {}
}

enum E { X, Y(i32) }
type T = ();
static S: i32 = 92;
const C: i32 = 92;

impl E {}

impl fmt::Debug for E {}
`

func TestOutline(t *testing.T) {
	items, err := Outline([]byte(sample))
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	want := []struct {
		parent int
		label  string
		kind   string
	}{
		{-1, "Foo", "StructDef"},
		{0, "x", "NamedFieldDef"},
		{-1, "m", "Module"},
		{2, "bar", "FnDef"},
		{-1, "E", "EnumDef"},
		{-1, "T", "TypeDef"},
		{-1, "S", "StaticDef"},
		{-1, "C", "ConstDef"},
		{-1, "impl E", "ImplItem"},
		{-1, "impl fmt::Debug for E", "ImplItem"},
	}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d: %v", len(want), len(items), items)
	}
	for i, w := range want {
		got := items[i]
		if got.Parent != w.parent || got.Label != w.label || got.Kind != w.kind {
			t.Errorf("item %d: expected %v, got %+v", i, w, got)
		}
	}
	if items[0].StartByte != 1 || items[0].EndByte != 26 {
		t.Errorf("struct range: got [%d; %d)", items[0].StartByte, items[0].EndByte)
	}
}

func TestCompareAgreesWithFileStructure(t *testing.T) {
	items, err := Outline([]byte(sample))
	if err != nil {
		t.Fatalf("Outline failed: %v", err)
	}
	ours := ide.FileStructure(ast.Parse(sample))
	if mismatches := Compare(ours, items); len(mismatches) != 0 {
		t.Errorf("unexpected mismatches: %v", mismatches)
	}
}

func TestCompareReportsDifferences(t *testing.T) {
	ours := []ide.StructureNode{
		{Parent: -1, Label: "Foo", Kind: syntax.KindStructDef},
		{Parent: -1, Label: "bar", Kind: syntax.KindFnDef},
	}
	theirs := []Item{
		{Parent: -1, Label: "Foo", Kind: "StructDef"},
		{Parent: -1, Label: "baz", Kind: "FnDef"},
		{Parent: -1, Label: "extra", Kind: "ConstDef"},
	}
	got := Compare(ours, theirs)
	if len(got) != 2 {
		t.Fatalf("expected 2 mismatches, got %v", got)
	}
	if got[0].Index != 1 || got[1].Index != 2 || got[1].Ours != "" {
		t.Errorf("unexpected mismatches: %v", got)
	}
}
