// Package server exposes the ide layer as a language server over stdio.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dhamidi/libsyntax/config"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/dhamidi/libsyntax/text"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "libsyntax"

// Protocol extensions understood by the server.
const (
	MethodSyntaxTree         = "m/syntaxTree"
	MethodExtendSelection    = "m/extendSelection"
	MethodFindMatchingBrace  = "m/findMatchingBrace"
	MethodMoveCursor         = "m/moveCursor"
	MethodPublishDecorations = "m/publishDecorations"

	CommandApplyAction = "libsyntax.applyAction"
)

type TextDocumentParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
}

type ExtendSelectionParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Selections   []protocol.Range                `json:"selections"`
}

type ExtendSelectionResult struct {
	Selections []protocol.Range `json:"selections"`
}

type FindMatchingBraceParams struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Offsets      []protocol.Position             `json:"offsets"`
}

type Decoration struct {
	Range protocol.Range `json:"range"`
	Tag   string         `json:"tag"`
}

type PublishDecorationsParams struct {
	URI         protocol.DocumentUri `json:"uri"`
	Decorations []Decoration         `json:"decorations"`
}

// ActionArgs is the argument of the apply-action command.
type ActionArgs struct {
	TextDocument protocol.TextDocumentIdentifier `json:"textDocument"`
	Position     protocol.Position               `json:"position"`
	ActionID     string                          `json:"actionId"`
}

type LSPServer struct {
	world   *World
	cfg     *config.Config
	handler protocol.Handler
	server  *server.Server
	version string
	log     commonlog.Logger
}

func NewLSPServer(version string, cfg *config.Config) *LSPServer {
	if cfg == nil {
		cfg = config.Default()
	}
	ls := &LSPServer{
		world:   NewWorld(),
		cfg:     cfg,
		version: version,
		log:     commonlog.GetLogger("libsyntax.server"),
	}

	ls.handler = protocol.Handler{
		Initialize:                 ls.initialize,
		Initialized:                ls.initialized,
		Shutdown:                   ls.shutdown,
		SetTrace:                   ls.setTrace,
		TextDocumentDidOpen:        ls.textDocumentDidOpen,
		TextDocumentDidChange:      ls.textDocumentDidChange,
		TextDocumentDidClose:       ls.textDocumentDidClose,
		TextDocumentDocumentSymbol: ls.textDocumentDocumentSymbol,
		TextDocumentCodeAction:     ls.textDocumentCodeAction,
		WorkspaceSymbol:            ls.workspaceSymbol,
		WorkspaceExecuteCommand:    ls.workspaceExecuteCommand,
	}

	ls.server = server.NewServer(ls, lsName, false)

	return ls
}

func (ls *LSPServer) World() *World {
	return ls.world
}

func (ls *LSPServer) RunStdio() error {
	return ls.server.RunStdio()
}

// Handle dispatches the protocol extensions and hands everything else to
// the standard handler. A panic in a request is logged and reported to the
// client as an error.
func (ls *LSPServer) Handle(ctx *glsp.Context) (r any, validMethod bool, validParams bool, err error) {
	defer func() {
		if p := recover(); p != nil {
			ls.log.Errorf("panic in %s: %v", ctx.Method, p)
			r, validMethod, validParams, err = nil, true, true, fmt.Errorf("internal error in %s", ctx.Method)
		}
	}()

	switch ctx.Method {
	case MethodSyntaxTree:
		return handleRequest(ls, ctx, ls.syntaxTree)
	case MethodExtendSelection:
		return handleRequest(ls, ctx, ls.extendSelection)
	case MethodFindMatchingBrace:
		return handleRequest(ls, ctx, ls.findMatchingBrace)
	}
	return ls.handler.Handle(ctx)
}

func handleRequest[P any](ls *LSPServer, ctx *glsp.Context, f func(*glsp.Context, *P) (any, error)) (any, bool, bool, error) {
	if !ls.handler.IsInitialized() {
		return nil, true, true, errors.New("server not initialized")
	}
	var params P
	if err := json.Unmarshal(ctx.Params, &params); err != nil {
		return nil, true, false, err
	}
	r, err := f(ctx, &params)
	return r, true, true, err
}

func (ls *LSPServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()
	capabilities.ExecuteCommandProvider = &protocol.ExecuteCommandOptions{
		Commands: []string{CommandApplyAction},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *LSPServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	ls.log.Info("client initialized")
	return nil
}

func (ls *LSPServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (ls *LSPServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *LSPServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.world.Open(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
	ls.publish(ctx, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, err := ls.world.Change(params.TextDocument.URI, params.TextDocument.Version, params.ContentChanges)
	if err != nil {
		ls.log.Warningf("change rejected: %s", err)
		return err
	}
	ls.publish(ctx, doc)
	return nil
}

func (ls *LSPServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.world.Close(params.TextDocument.URI)
	if ls.cfg.Server.PublishDiagnostics {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         params.TextDocument.URI,
			Diagnostics: []protocol.Diagnostic{},
		})
	}
	return nil
}

// publish sends diagnostics and decorations for doc.
func (ls *LSPServer) publish(ctx *glsp.Context, doc *Document) {
	if size := len(doc.Text()); size > ls.cfg.Server.MaxFileSize {
		ls.log.Debugf("%s: %d bytes, not analyzed", doc.URI, size)
		return
	}
	if ls.cfg.Server.PublishDiagnostics {
		ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
			URI:         doc.URI,
			Diagnostics: diagnostics(doc),
		})
	}
	if ls.cfg.Server.PublishDecorations {
		ctx.Notify(MethodPublishDecorations, PublishDecorationsParams{
			URI:         doc.URI,
			Decorations: decorations(doc),
		})
	}
}

func diagnostics(doc *Document) []protocol.Diagnostic {
	severity := protocol.DiagnosticSeverityError
	source := lsName
	result := []protocol.Diagnostic{}
	for _, d := range ide.Diagnostics(doc.File) {
		result = append(result, protocol.Diagnostic{
			Range:    lspRange(doc.Lines, d.Range),
			Severity: &severity,
			Source:   &source,
			Message:  d.Message,
		})
	}
	return result
}

func decorations(doc *Document) []Decoration {
	result := []Decoration{}
	for _, h := range ide.Highlight(doc.File) {
		result = append(result, Decoration{Range: lspRange(doc.Lines, h.Range), Tag: h.Tag})
	}
	return result
}

func (ls *LSPServer) document(uri string) (*Document, error) {
	doc := ls.world.Get(uri)
	if doc == nil {
		return nil, fmt.Errorf("%s: %w", uri, ErrUnknownDocument)
	}
	return doc, nil
}

func (ls *LSPServer) textDocumentDocumentSymbol(ctx *glsp.Context, params *protocol.DocumentSymbolParams) (any, error) {
	doc := ls.world.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	return documentSymbols(doc), nil
}

// documentSymbols nests the flat outline of doc.
func documentSymbols(doc *Document) []protocol.DocumentSymbol {
	nodes := ide.FileStructure(doc.File)
	children := make([][]int, len(nodes))
	var roots []int
	for i, n := range nodes {
		if n.Parent < 0 {
			roots = append(roots, i)
		} else {
			children[n.Parent] = append(children[n.Parent], i)
		}
	}

	var build func(i int) protocol.DocumentSymbol
	build = func(i int) protocol.DocumentSymbol {
		n := nodes[i]
		sym := protocol.DocumentSymbol{
			Name:           n.Label,
			Kind:           symbolKind(n.Kind),
			Range:          lspRange(doc.Lines, n.NodeRange),
			SelectionRange: lspRange(doc.Lines, n.NavigationRange),
		}
		for _, c := range children[i] {
			sym.Children = append(sym.Children, build(c))
		}
		return sym
	}

	result := make([]protocol.DocumentSymbol, 0, len(roots))
	for _, i := range roots {
		result = append(result, build(i))
	}
	return result
}

func symbolKind(k syntax.Kind) protocol.SymbolKind {
	switch k {
	case syntax.KindStructDef:
		return protocol.SymbolKindStruct
	case syntax.KindEnumDef:
		return protocol.SymbolKindEnum
	case syntax.KindFnDef:
		return protocol.SymbolKindFunction
	case syntax.KindTraitDef:
		return protocol.SymbolKindInterface
	case syntax.KindModule:
		return protocol.SymbolKindModule
	case syntax.KindTypeDef:
		return protocol.SymbolKindTypeParameter
	case syntax.KindStaticDef:
		return protocol.SymbolKindVariable
	case syntax.KindConstDef:
		return protocol.SymbolKindConstant
	case syntax.KindNamedFieldDef:
		return protocol.SymbolKindField
	default:
		return protocol.SymbolKindObject
	}
}

func (ls *LSPServer) workspaceSymbol(ctx *glsp.Context, params *protocol.WorkspaceSymbolParams) ([]protocol.SymbolInformation, error) {
	query := strings.ToLower(params.Query)
	var result []protocol.SymbolInformation
	for _, doc := range ls.world.Documents() {
		for _, sym := range ide.FileSymbols(doc.File) {
			if !strings.Contains(strings.ToLower(sym.Name), query) {
				continue
			}
			result = append(result, protocol.SymbolInformation{
				Name: sym.Name,
				Kind: symbolKind(sym.Kind),
				Location: protocol.Location{
					URI:   doc.URI,
					Range: lspRange(doc.Lines, sym.NodeRange),
				},
			})
		}
	}
	return result, nil
}

func (ls *LSPServer) textDocumentCodeAction(ctx *glsp.Context, params *protocol.CodeActionParams) (any, error) {
	doc := ls.world.Get(params.TextDocument.URI)
	if doc == nil {
		return nil, nil
	}
	offset := byteOffset(doc.Lines, params.Range.Start)
	commands := []protocol.Command{}
	for _, a := range ide.Actions {
		if a.Find(doc.File, offset) == nil {
			continue
		}
		commands = append(commands, protocol.Command{
			Title:   a.Title,
			Command: CommandApplyAction,
			Arguments: []any{ActionArgs{
				TextDocument: params.TextDocument,
				Position:     params.Range.Start,
				ActionID:     a.ID,
			}},
		})
	}
	return commands, nil
}

// workspaceExecuteCommand asks the client to apply the edit of an action
// and then to move the cursor. The round trip to the client runs on its own
// goroutine: the connection delivers the client's answer only after this
// handler returns.
func (ls *LSPServer) workspaceExecuteCommand(ctx *glsp.Context, params *protocol.ExecuteCommandParams) (any, error) {
	if params.Command != CommandApplyAction {
		return nil, fmt.Errorf("unknown command %q", params.Command)
	}
	if len(params.Arguments) != 1 {
		return nil, fmt.Errorf("%s: expected one argument, got %d", params.Command, len(params.Arguments))
	}
	var args ActionArgs
	if err := decodeArgument(params.Arguments[0], &args); err != nil {
		return nil, fmt.Errorf("%s: %w", params.Command, err)
	}

	title, workspaceEdit, cursor, err := ls.applyAction(args)
	if err != nil {
		return nil, err
	}

	go func() {
		var response protocol.ApplyWorkspaceEditResponse
		ctx.Call(protocol.ServerWorkspaceApplyEdit, protocol.ApplyWorkspaceEditParams{
			Label: &title,
			Edit:  workspaceEdit,
		}, &response)
		if !response.Applied {
			ls.log.Warningf("client did not apply %q", title)
			return
		}
		if cursor != nil {
			ctx.Notify(MethodMoveCursor, *cursor)
		}
	}()
	return nil, nil
}

// applyAction computes the workspace edit of an action and the cursor
// position after it, when the cursor survives the edit.
func (ls *LSPServer) applyAction(args ActionArgs) (string, protocol.WorkspaceEdit, *protocol.Position, error) {
	doc, err := ls.document(args.TextDocument.URI)
	if err != nil {
		return "", protocol.WorkspaceEdit{}, nil, err
	}
	action, ok := ide.FindAction(args.ActionID)
	if !ok {
		return "", protocol.WorkspaceEdit{}, nil, fmt.Errorf("unknown action %q", args.ActionID)
	}
	offset := byteOffset(doc.Lines, args.Position)
	find := action.Find(doc.File, offset)
	if find == nil {
		return "", protocol.WorkspaceEdit{}, nil, fmt.Errorf("action %q is not applicable", args.ActionID)
	}
	result := find()

	workspaceEdit := protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentUri][]protocol.TextEdit{
			doc.URI: textEdits(doc.Lines, result.Edit),
		},
	}
	var cursor *protocol.Position
	if off, err := result.Resolve(offset); err == nil {
		after := text.NewLineIndex(result.Edit.Apply(doc.Text()))
		pos := position(after, off)
		cursor = &pos
	}
	return action.Title, workspaceEdit, cursor, nil
}

func decodeArgument(arg any, v any) error {
	data, err := json.Marshal(arg)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func (ls *LSPServer) syntaxTree(ctx *glsp.Context, params *TextDocumentParams) (any, error) {
	doc, err := ls.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return ide.SyntaxTree(doc.File), nil
}

func (ls *LSPServer) extendSelection(ctx *glsp.Context, params *ExtendSelectionParams) (any, error) {
	doc, err := ls.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	result := ExtendSelectionResult{Selections: []protocol.Range{}}
	for _, sel := range params.Selections {
		r := byteRange(doc.Lines, sel)
		if extended, ok := ide.ExtendSelection(doc.File, r); ok {
			r = extended
		}
		result.Selections = append(result.Selections, lspRange(doc.Lines, r))
	}
	return result, nil
}

func (ls *LSPServer) findMatchingBrace(ctx *glsp.Context, params *FindMatchingBraceParams) (any, error) {
	doc, err := ls.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	result := []protocol.Position{}
	for _, pos := range params.Offsets {
		offset := byteOffset(doc.Lines, pos)
		if match, ok := ide.MatchingBrace(doc.File, offset); ok {
			offset = match
		}
		result = append(result, position(doc.Lines, offset))
	}
	return result, nil
}
