package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/archlinter/archlint/internal/mcpapi"
)

var mcpServeCommand = &cli.Command{
	Name:  "mcp",
	Usage: "Start the MCP server (stdio transport) so editors and agents can scan projects directly",
	Action: func(c *cli.Context) error {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		return mcpapi.NewServer().Start(ctx)
	},
}
