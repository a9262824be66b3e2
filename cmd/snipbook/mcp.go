package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snipbook/snipbook/internal/mcp"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Start the Model Context Protocol server exposing the entry store over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			server, err := mcp.NewServer()
			if err != nil {
				return fmt.Errorf("failed to create MCP server: %w", err)
			}

			return server.Run(context.Background())
		},
	}

	return cmd
}
