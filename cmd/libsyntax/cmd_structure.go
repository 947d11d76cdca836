package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dhamidi/libsyntax/ast"
	"github.com/dhamidi/libsyntax/ide"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newStructureCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "structure <file>",
		Short: "Print the outline of a Rust file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			nodes := ide.FileStructure(ast.Parse(src))
			out := cmd.OutOrStdout()

			switch outputFormat {
			case "line":
				depth := make([]int, len(nodes))
				for i, n := range nodes {
					if n.Parent >= 0 {
						depth[i] = depth[n.Parent] + 1
					}
					fmt.Fprintf(out, "%s%s %s %v\n", strings.Repeat("  ", depth[i]), n.Kind, n.Label, n.NodeRange)
				}
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(nodes); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case "yaml":
				enc := yaml.NewEncoder(out)
				defer enc.Close()
				if err := enc.Encode(nodes); err != nil {
					return fmt.Errorf("encode yaml: %w", err)
				}
			default:
				return fmt.Errorf("unknown format: %s (expected line, json, or yaml)", outputFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "line", "output format (line, json, yaml)")

	return cmd
}

func newRunnablesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runnables <file>",
		Short: "List the main function and tests of a Rust file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			for _, r := range ide.Runnables(ast.Parse(src)) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %v\n", r.Kind, r.Name, r.Range)
			}
			return nil
		},
	}
}
