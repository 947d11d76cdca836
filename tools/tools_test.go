package tools

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhamidi/libsyntax/ide"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "content is %T", res.Content[0])
	return text.Text
}

func TestSourceInputLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lib.rs")
	require.NoError(t, os.WriteFile(path, []byte("fn from_file() {}"), 0o644))

	file, err := SourceInput{Path: path, Text: "fn ignored() {}"}.load()
	require.NoError(t, err)
	assert.Equal(t, "fn from_file() {}", file.Text())

	file, err = SourceInput{Text: "fn inline() {}"}.load()
	require.NoError(t, err)
	assert.Equal(t, "fn inline() {}", file.Text())

	_, err = SourceInput{}.load()
	assert.Error(t, err)

	_, err = SourceInput{Path: filepath.Join(t.TempDir(), "missing.rs")}.load()
	assert.Error(t, err)
}

func TestSyntaxTreeHandler(t *testing.T) {
	res, _, err := SyntaxTreeHandler(context.Background(), nil, SourceInput{Text: "fn f() {}"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "FnDef@[0; 9)")
}

func TestFileStructureHandler(t *testing.T) {
	res, _, err := FileStructureHandler(context.Background(), nil, SourceInput{Text: "struct Foo { x: i32 }"})
	require.NoError(t, err)

	var nodes []struct {
		Parent int    `json:"parent"`
		Label  string `json:"label"`
		Kind   string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "Foo", nodes[0].Label)
	assert.Equal(t, -1, nodes[0].Parent)
	assert.Equal(t, "StructDef", nodes[0].Kind)
	assert.Equal(t, "x", nodes[1].Label)
	assert.Equal(t, 0, nodes[1].Parent)
}

func TestDiagnosticsHandler(t *testing.T) {
	res, _, err := DiagnosticsHandler(context.Background(), nil, SourceInput{Text: "fn main() {}"})
	require.NoError(t, err)
	assert.Equal(t, "No syntax errors.", resultText(t, res))

	res, _, err = DiagnosticsHandler(context.Background(), nil, SourceInput{Text: "f(a, b)"})
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "[0; 1) Syntax Error")
}

func TestHighlightHandler(t *testing.T) {
	res, _, err := HighlightHandler(context.Background(), nil, SourceInput{Text: "fn main() {}"})
	require.NoError(t, err)
	var ranges []ide.HighlightedRange
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &ranges))
	require.Len(t, ranges, 2)
	assert.Equal(t, "keyword", ranges[0].Tag)
	assert.Equal(t, "function", ranges[1].Tag)
}

func TestRunnablesHandler(t *testing.T) {
	res, _, err := RunnablesHandler(context.Background(), nil, SourceInput{Text: "fn main() {}\n#[test]\nfn t() {}\nfn helper() {}"})
	require.NoError(t, err)
	assert.Equal(t, "bin main [0; 12)\ntest t [13; 30)\n", resultText(t, res))

	res, _, err = RunnablesHandler(context.Background(), nil, SourceInput{Text: "fn helper() {}"})
	require.NoError(t, err)
	assert.Equal(t, "No runnables found.", resultText(t, res))
}

func TestMatchingBraceHandler(t *testing.T) {
	res, _, err := MatchingBraceHandler(context.Background(), nil, MatchingBraceInput{Text: "struct Foo { a: i32, }", Offset: 22})
	require.NoError(t, err)
	assert.Equal(t, "11", resultText(t, res))

	res, _, err = MatchingBraceHandler(context.Background(), nil, MatchingBraceInput{Text: "struct Foo;", Offset: 2})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "No matching bracket at offset 2.", resultText(t, res))

	_, _, err = MatchingBraceHandler(context.Background(), nil, MatchingBraceInput{})
	assert.Error(t, err)
}

func TestServerOverInMemoryTransport(t *testing.T) {
	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()

	serverSession, err := NewServer("test").Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	defer serverSession.Close()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, &mcp.ListToolsParams{})
	require.NoError(t, err)
	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"syntax_tree", "file_structure", "diagnostics", "highlight", "runnables", "matching_brace",
	}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "runnables",
		Arguments: map[string]any{"text": "fn main() {}"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "bin main [0; 12)\n", resultText(t, res))

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "syntax_tree",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
