package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dhamidi/libsyntax/ide"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func SyntaxTreeTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "syntax_tree",
		Description: "Parse Rust source and return its lossless syntax tree, one element per line with byte ranges, followed by the syntax errors.",
	}
}

func SyntaxTreeHandler(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	file, err := input.load()
	if err != nil {
		return nil, nil, err
	}
	return textResult(ide.SyntaxTree(file)), nil, nil
}

func FileStructureTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "file_structure",
		Description: "List the items of a Rust file (structs, enums, functions, traits, modules, impls, fields) as a JSON outline. Each entry names the index of its parent, or -1 at the top level.",
	}
}

func FileStructureHandler(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	file, err := input.load()
	if err != nil {
		return nil, nil, err
	}
	result, err := jsonResult(ide.FileStructure(file))
	return result, nil, err
}

func DiagnosticsTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "diagnostics",
		Description: "Report the syntax errors of Rust source, one per line as `[start; end) message` with byte offsets.",
	}
}

func DiagnosticsHandler(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	file, err := input.load()
	if err != nil {
		return nil, nil, err
	}
	diags := ide.Diagnostics(file)
	if len(diags) == 0 {
		return textResult("No syntax errors."), nil, nil
	}
	var sb strings.Builder
	for _, d := range diags {
		fmt.Fprintf(&sb, "%s %s\n", d.Range, d.Message)
	}
	return textResult(sb.String()), nil, nil
}

func HighlightTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "highlight",
		Description: "Classify ranges of Rust source for syntax highlighting. Returns a JSON list of {range, tag} with tags such as keyword, comment, string, literal and function.",
	}
}

func HighlightHandler(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	file, err := input.load()
	if err != nil {
		return nil, nil, err
	}
	result, err := jsonResult(ide.Highlight(file))
	return result, nil, err
}

func RunnablesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "runnables",
		Description: "List the runnable top-level functions of a Rust file: `main` and functions marked #[test].",
	}
}

func RunnablesHandler(ctx context.Context, req *mcp.CallToolRequest, input SourceInput) (*mcp.CallToolResult, any, error) {
	file, err := input.load()
	if err != nil {
		return nil, nil, err
	}
	runnables := ide.Runnables(file)
	if len(runnables) == 0 {
		return textResult("No runnables found."), nil, nil
	}
	var sb strings.Builder
	for _, r := range runnables {
		fmt.Fprintf(&sb, "%s %s %s\n", r.Kind, r.Name, r.Range)
	}
	return textResult(sb.String()), nil, nil
}

type MatchingBraceInput struct {
	Path   string `json:"path,omitempty" jsonschema:"Path of a Rust source file. Takes precedence over text."`
	Text   string `json:"text,omitempty" jsonschema:"Rust source text, used when no path is given."`
	Offset int    `json:"offset" jsonschema:"Byte offset touching a bracket."`
}

func MatchingBraceTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "matching_brace",
		Description: "Find the bracket paired with the one at a byte offset. Returns the byte offset of the partner, or a no-match message.",
	}
}

func MatchingBraceHandler(ctx context.Context, req *mcp.CallToolRequest, input MatchingBraceInput) (*mcp.CallToolResult, any, error) {
	file, err := SourceInput{Path: input.Path, Text: input.Text}.load()
	if err != nil {
		return nil, nil, err
	}
	off, ok := ide.MatchingBrace(file, input.Offset)
	if !ok {
		return textResult(fmt.Sprintf("No matching bracket at offset %d.", input.Offset)), nil, nil
	}
	return textResult(fmt.Sprint(off)), nil, nil
}
