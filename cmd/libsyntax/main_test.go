package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestParseCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.rs")
	writeFile(t, path, "fn main() {}")

	out, err := execute(t, "parse", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "SourceFile@[0; 12)\n  FnDef@[0; 12)\n") {
		t.Errorf("unexpected tree:\n%s", out)
	}

	out, err = execute(t, "parse", "--format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"kind": "FnDef"`) || !strings.Contains(out, `"errors": []`) {
		t.Errorf("unexpected json:\n%s", out)
	}

	if _, err := execute(t, "parse", "--format", "xml", path); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestStructureCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	writeFile(t, path, "struct Foo {\n    x: i32\n}\n")

	out, err := execute(t, "structure", path)
	if err != nil {
		t.Fatal(err)
	}
	want := "StructDef Foo [0; 25)\n  NamedFieldDef x [17; 23)\n"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}

	out, err = execute(t, "structure", "-f", "yaml", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "label: Foo") {
		t.Errorf("unexpected yaml:\n%s", out)
	}
}

func TestRunnablesCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.rs")
	writeFile(t, path, "fn main() {}\n#[test]\nfn t() {}\n")

	out, err := execute(t, "runnables", path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "bin main [0; 12)\ntest t [13; 30)\n"; out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestHighlightList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.rs")
	writeFile(t, path, "fn main() {}")

	out, err := execute(t, "highlight", "--list", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "[0; 2) keyword\n") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestCheckCommandFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.rs"), "fn f(a, b)")

	out, err := execute(t, "check", dir)
	if err == nil {
		t.Fatal("expected failure")
	}
	if !strings.Contains(out, "bad.rs:1:") || !strings.Contains(out, "checked 1 files, 1 with problems") {
		t.Errorf("unexpected output:\n%s", out)
	}
}
