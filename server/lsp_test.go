package server

import (
	"encoding/json"
	"testing"

	"github.com/dhamidi/libsyntax/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
)

type notification struct {
	method string
	params any
}

type recorder struct {
	notifications []notification
}

func (r *recorder) context(method string, params any) *glsp.Context {
	ctx := &glsp.Context{
		Method: method,
		Notify: func(method string, params any) {
			r.notifications = append(r.notifications, notification{method, params})
		},
		Call: func(method string, params any, result any) {},
	}
	if params != nil {
		data, _ := json.Marshal(params)
		ctx.Params = data
	}
	return ctx
}

func (r *recorder) find(method string) (any, bool) {
	for _, n := range r.notifications {
		if n.method == method {
			return n.params, true
		}
	}
	return nil, false
}

func newTestServer(cfg *config.Config) (*LSPServer, *recorder) {
	ls := NewLSPServer("test", cfg)
	ls.handler.SetInitialized(true)
	return ls, &recorder{}
}

func open(t *testing.T, ls *LSPServer, rec *recorder, uri, text string) {
	t.Helper()
	err := ls.textDocumentDidOpen(rec.context("", nil), &protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: uri, LanguageID: "rust", Version: 1, Text: text},
	})
	require.NoError(t, err)
}

func TestDidOpenPublishes(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "file:///a.rs", "fn main() {}")

	params, ok := rec.find(protocol.ServerTextDocumentPublishDiagnostics)
	require.True(t, ok)
	diags := params.(protocol.PublishDiagnosticsParams)
	assert.Equal(t, "file:///a.rs", diags.URI)
	assert.Empty(t, diags.Diagnostics)

	params, ok = rec.find(MethodPublishDecorations)
	require.True(t, ok)
	decos := params.(PublishDecorationsParams).Decorations
	require.Len(t, decos, 2)
	assert.Equal(t, "keyword", decos[0].Tag)
	assert.Equal(t, "function", decos[1].Tag)
	assert.Equal(t, lspPos(0, 3), decos[1].Range.Start)
	assert.Equal(t, lspPos(0, 7), decos[1].Range.End)
}

func TestDidOpenReportsSyntaxErrors(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "file:///a.rs", "fn main() {}\nstruct")

	params, ok := rec.find(protocol.ServerTextDocumentPublishDiagnostics)
	require.True(t, ok)
	diags := params.(protocol.PublishDiagnosticsParams).Diagnostics
	require.NotEmpty(t, diags)
	for _, d := range diags {
		assert.Equal(t, protocol.UInteger(1), d.Range.Start.Line)
		assert.Equal(t, protocol.DiagnosticSeverityError, *d.Severity)
	}
}

func TestPublishFollowsConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Server.PublishDecorations = false
	ls, rec := newTestServer(cfg)
	open(t, ls, rec, "u", "fn main() {}")
	_, ok := rec.find(MethodPublishDecorations)
	assert.False(t, ok)
	_, ok = rec.find(protocol.ServerTextDocumentPublishDiagnostics)
	assert.True(t, ok)

	cfg = config.Default()
	cfg.Server.MaxFileSize = 4
	ls, rec = newTestServer(cfg)
	open(t, ls, rec, "u", "fn main() {}")
	assert.Empty(t, rec.notifications)
	assert.NotNil(t, ls.World().Get("u"))
}

func TestDidChangeRepublishes(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "fn main() {}")
	rec.notifications = nil

	err := ls.textDocumentDidChange(rec.context("", nil), &protocol.DidChangeTextDocumentParams{
		TextDocument:   protocol.VersionedTextDocumentIdentifier{TextDocumentIdentifier: protocol.TextDocumentIdentifier{URI: "u"}, Version: 2},
		ContentChanges: []any{ranged(0, 3, 0, 7, "run")},
	})
	require.NoError(t, err)
	assert.Equal(t, "fn run() {}", ls.World().Get("u").Text())
	_, ok := rec.find(protocol.ServerTextDocumentPublishDiagnostics)
	assert.True(t, ok)
}

func TestDidCloseClearsDiagnostics(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "struct")
	rec.notifications = nil

	err := ls.textDocumentDidClose(rec.context("", nil), &protocol.DidCloseTextDocumentParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "u"},
	})
	require.NoError(t, err)
	assert.Nil(t, ls.World().Get("u"))
	params, ok := rec.find(protocol.ServerTextDocumentPublishDiagnostics)
	require.True(t, ok)
	assert.Empty(t, params.(protocol.PublishDiagnosticsParams).Diagnostics)
}

func TestDocumentSymbols(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "struct Foo { x: i32 }\nmod m { fn bar() {} }")

	r, err := ls.textDocumentDocumentSymbol(rec.context("", nil), &protocol.DocumentSymbolParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "u"},
	})
	require.NoError(t, err)
	symbols := r.([]protocol.DocumentSymbol)
	require.Len(t, symbols, 2)

	assert.Equal(t, "Foo", symbols[0].Name)
	assert.Equal(t, protocol.SymbolKindStruct, symbols[0].Kind)
	require.Len(t, symbols[0].Children, 1)
	assert.Equal(t, "x", symbols[0].Children[0].Name)
	assert.Equal(t, protocol.SymbolKindField, symbols[0].Children[0].Kind)

	assert.Equal(t, "m", symbols[1].Name)
	require.Len(t, symbols[1].Children, 1)
	bar := symbols[1].Children[0]
	assert.Equal(t, "bar", bar.Name)
	assert.Equal(t, lspPos(1, 11), bar.SelectionRange.Start)
}

func TestWorkspaceSymbol(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "file:///a.rs", "fn bar() {}\nfn baz() {}")
	open(t, ls, rec, "file:///b.rs", "struct Bar;\nfn other() {}")

	symbols, err := ls.workspaceSymbol(rec.context("", nil), &protocol.WorkspaceSymbolParams{Query: "bar"})
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "bar", symbols[0].Name)
	assert.Equal(t, "file:///a.rs", symbols[0].Location.URI)
	assert.Equal(t, "Bar", symbols[1].Name)
	assert.Equal(t, protocol.SymbolKindStruct, symbols[1].Kind)
}

func TestCodeAction(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "struct Foo { a: i32, }")

	r, err := ls.textDocumentCodeAction(rec.context("", nil), &protocol.CodeActionParams{
		TextDocument: protocol.TextDocumentIdentifier{URI: "u"},
		Range:        protocol.Range{Start: lspPos(0, 13), End: lspPos(0, 13)},
	})
	require.NoError(t, err)
	commands := r.([]protocol.Command)
	require.Len(t, commands, 1)
	assert.Equal(t, CommandApplyAction, commands[0].Command)

	var args ActionArgs
	require.NoError(t, decodeArgument(commands[0].Arguments[0], &args))
	assert.Equal(t, "addDerive", args.ActionID)
}

func TestApplyAction(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "fn foo(x: i32, y: u8) {}")

	title, edit, cursor, err := ls.applyAction(ActionArgs{
		TextDocument: protocol.TextDocumentIdentifier{URI: "u"},
		Position:     lspPos(0, 14),
		ActionID:     "flipComma",
	})
	require.NoError(t, err)
	assert.Equal(t, "Flip `,`", title)

	edits := edit.Changes["u"]
	require.Len(t, edits, 2)
	assert.Equal(t, protocol.TextEdit{
		Range:   protocol.Range{Start: lspPos(0, 7), End: lspPos(0, 13)},
		NewText: "y: u8",
	}, edits[0])
	assert.Equal(t, protocol.TextEdit{
		Range:   protocol.Range{Start: lspPos(0, 15), End: lspPos(0, 20)},
		NewText: "x: i32",
	}, edits[1])
	require.NotNil(t, cursor)
	assert.Equal(t, lspPos(0, 13), *cursor)
}

func TestApplyActionAddDerive(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "struct Foo { a: i32 }")

	_, edit, cursor, err := ls.applyAction(ActionArgs{
		TextDocument: protocol.TextDocumentIdentifier{URI: "u"},
		Position:     lspPos(0, 13),
		ActionID:     "addDerive",
	})
	require.NoError(t, err)
	edits := edit.Changes["u"]
	require.Len(t, edits, 1)
	assert.Equal(t, "#[derive()]\n", edits[0].NewText)
	assert.Equal(t, lspPos(0, 0), edits[0].Range.Start)
	require.NotNil(t, cursor)
	assert.Equal(t, lspPos(0, 9), *cursor)
}

func TestApplyActionErrors(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "fn f() {}")

	_, _, _, err := ls.applyAction(ActionArgs{TextDocument: protocol.TextDocumentIdentifier{URI: "u"}, ActionID: "nope"})
	assert.Error(t, err)
	_, _, _, err = ls.applyAction(ActionArgs{TextDocument: protocol.TextDocumentIdentifier{URI: "u"}, ActionID: "flipComma"})
	assert.Error(t, err)
	_, _, _, err = ls.applyAction(ActionArgs{TextDocument: protocol.TextDocumentIdentifier{URI: "missing"}, ActionID: "flipComma"})
	assert.ErrorIs(t, err, ErrUnknownDocument)

	_, err = ls.workspaceExecuteCommand(rec.context("", nil), &protocol.ExecuteCommandParams{Command: "other"})
	assert.Error(t, err)
}

func TestHandleExtensions(t *testing.T) {
	ls, rec := newTestServer(nil)
	open(t, ls, rec, "u", "struct Foo { a: i32, }")
	doc := protocol.TextDocumentIdentifier{URI: "u"}

	r, validMethod, validParams, err := ls.Handle(rec.context(MethodSyntaxTree, TextDocumentParams{TextDocument: doc}))
	require.NoError(t, err)
	assert.True(t, validMethod)
	assert.True(t, validParams)
	assert.Contains(t, r.(string), "StructDef@[0; 22)")

	r, _, _, err = ls.Handle(rec.context(MethodFindMatchingBrace, FindMatchingBraceParams{
		TextDocument: doc,
		Offsets:      []protocol.Position{lspPos(0, 22), lspPos(0, 1)},
	}))
	require.NoError(t, err)
	assert.Equal(t, []protocol.Position{lspPos(0, 11), lspPos(0, 1)}, r)

	r, _, _, err = ls.Handle(rec.context(MethodExtendSelection, ExtendSelectionParams{
		TextDocument: doc,
		Selections:   []protocol.Range{{Start: lspPos(0, 8), End: lspPos(0, 8)}},
	}))
	require.NoError(t, err)
	assert.Equal(t, []protocol.Range{{Start: lspPos(0, 7), End: lspPos(0, 10)}}, r.(ExtendSelectionResult).Selections)
}

func TestHandleRequiresInitialization(t *testing.T) {
	ls := NewLSPServer("test", nil)
	rec := &recorder{}
	_, validMethod, _, err := ls.Handle(rec.context(MethodSyntaxTree, TextDocumentParams{}))
	assert.True(t, validMethod)
	assert.Error(t, err)
}

func TestHandleDelegatesStandardMethods(t *testing.T) {
	ls, rec := newTestServer(nil)
	_, validMethod, validParams, err := ls.Handle(rec.context(protocol.MethodTextDocumentDidOpen, protocol.DidOpenTextDocumentParams{
		TextDocument: protocol.TextDocumentItem{URI: "u", Text: "fn f() {}", Version: 1},
	}))
	require.NoError(t, err)
	assert.True(t, validMethod)
	assert.True(t, validParams)
	assert.NotNil(t, ls.World().Get("u"))
}

func TestInitializeAdvertisesCommands(t *testing.T) {
	ls := NewLSPServer("test", nil)
	r, err := ls.initialize(&glsp.Context{}, &protocol.InitializeParams{})
	require.NoError(t, err)
	result := r.(protocol.InitializeResult)
	assert.Equal(t, []string{CommandApplyAction}, result.Capabilities.ExecuteCommandProvider.Commands)
	assert.Equal(t, true, result.Capabilities.DocumentSymbolProvider)
	assert.Equal(t, "libsyntax", result.ServerInfo.Name)
}
