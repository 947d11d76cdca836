package main

import (
	"github.com/dhamidi/libsyntax/server"
	"github.com/dhamidi/libsyntax/tools"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ls := server.NewLSPServer(version, cfg)
			return ls.RunStdio()
		},
	}
}

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the syntax tools over the Model Context Protocol on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tools.Serve(cmd.Context(), version)
		},
	}
}
