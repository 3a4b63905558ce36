package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/internal/events"
	pdnamcp "github.com/dohr-michael/promptdna/internal/mcp"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewMCPServeCommand returns the mcp-serve subcommand.
func NewMCPServeCommand() *cli.Command {
	return &cli.Command{
		Name:   "mcp-serve",
		Usage:  "Expose Prompt DNA tools as an MCP server (stdio)",
		Flags:  analyzerFlags(),
		Action: runMCPServe,
	}
}

func runMCPServe(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the MCP stdio transport
	setupLogging(cmd, os.Stderr, slog.LevelWarn)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzer, endpoint, err := newAnalyzer(ctx, cfg, cmd.Bool("local"), cmd.String("model"))
	if err != nil {
		return err
	}

	bus := events.NewBus(64)
	defer bus.Close()

	slog.Debug("starting MCP server", "endpoint", endpoint)

	server := pdnamcp.NewMCPServer(analyzer, bus, Version)
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}
