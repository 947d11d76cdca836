package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/spf13/cobra"
)

var tagStyles = map[string]lipgloss.Style{
	"keyword":   lipgloss.NewStyle().Foreground(lipgloss.Color("#8B5CF6")).Bold(true),
	"comment":   lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Italic(true),
	"string":    lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")),
	"literal":   lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	"function":  lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4")),
	"attribute": lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")),
	"parameter": lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B")).Italic(true),
	"error":     lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Underline(true),
}

func newHighlightCmd() *cobra.Command {
	var list bool

	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "Print a Rust file with syntax highlighting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			ranges := ide.Highlight(ast.Parse(src))
			out := cmd.OutOrStdout()
			if list {
				for _, r := range ranges {
					fmt.Fprintf(out, "%v %s\n", r.Range, r.Tag)
				}
				return nil
			}
			renderHighlighted(out, src, ranges)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "list highlighted ranges instead of rendering")

	return cmd
}

// renderHighlighted writes src styled by the innermost tag covering each
// byte. Highlight returns outer ranges before the ranges nested in them.
func renderHighlighted(w io.Writer, src string, ranges []ide.HighlightedRange) {
	tags := make([]string, len(src))
	for _, r := range ranges {
		for i := r.Range.Start; i < r.Range.End && i < len(tags); i++ {
			tags[i] = r.Tag
		}
	}

	var sb strings.Builder
	for start := 0; start < len(src); {
		end := start + 1
		for end < len(src) && tags[end] == tags[start] {
			end++
		}
		segment := src[start:end]
		if style, ok := tagStyles[tags[start]]; ok {
			// Styles must not span newlines or the terminal
			// colors the padding.
			lines := strings.Split(segment, "\n")
			for i, line := range lines {
				if i > 0 {
					sb.WriteByte('\n')
				}
				if line != "" {
					sb.WriteString(style.Render(line))
				}
			}
		} else {
			sb.WriteString(segment)
		}
		start = end
	}
	fmt.Fprint(w, sb.String())
}
