package main

import (
	"encoding/json"
	"fmt"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/dhamidi/libsyntax/syntax"
	"github.com/spf13/cobra"
)

type jsonTree struct {
	Root   *syntax.Node         `json:"root"`
	Errors []syntax.SyntaxError `json:"errors"`
}

func newParseCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Rust file and dump its syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			file := ast.Parse(src)

			out := cmd.OutOrStdout()
			switch outputFormat {
			case "tree":
				fmt.Fprint(out, ide.SyntaxTree(file))
			case "json":
				errors := file.Errors()
				if errors == nil {
					errors = []syntax.SyntaxError{}
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(jsonTree{Root: file.Syntax(), Errors: errors}); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected tree or json)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json)")

	return cmd
}
