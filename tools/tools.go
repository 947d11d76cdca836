// Package tools exposes the ide queries as MCP tools.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dhamidi/libsyntax/ast"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("libsyntax.tools")

// SourceInput selects the Rust source a tool works on.
type SourceInput struct {
	Path string `json:"path,omitempty" jsonschema:"Path of a Rust source file. Takes precedence over text."`
	Text string `json:"text,omitempty" jsonschema:"Rust source text, used when no path is given."`
}

func (in SourceInput) load() (*ast.File, error) {
	if in.Path == "" {
		if in.Text == "" {
			return nil, errors.New("either path or text is required")
		}
		return ast.Parse(in.Text), nil
	}
	content, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", in.Path, err)
	}
	return ast.Parse(string(content)), nil
}

// NewServer returns an MCP server with every tool registered.
func NewServer(version string) *mcp.Server {
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "libsyntax",
		Version: version,
	}, nil)

	mcp.AddTool(s, SyntaxTreeTool(), SyntaxTreeHandler)
	mcp.AddTool(s, FileStructureTool(), FileStructureHandler)
	mcp.AddTool(s, DiagnosticsTool(), DiagnosticsHandler)
	mcp.AddTool(s, HighlightTool(), HighlightHandler)
	mcp.AddTool(s, RunnablesTool(), RunnablesHandler)
	mcp.AddTool(s, MatchingBraceTool(), MatchingBraceHandler)

	return s
}

// Serve runs the tools over stdio until the client disconnects.
func Serve(ctx context.Context, version string) error {
	log.Info("serving MCP tools on stdio")
	return NewServer(version).Run(ctx, &mcp.StdioTransport{})
}

func textResult(s string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: s},
		},
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return textResult(string(data)), nil
}
