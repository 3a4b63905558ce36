// Package commands wires the promptdna CLI.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/internal/config"
)

// Version is reported by the MCP server and --version.
var Version = "dev"

// NewRootCommand returns the top-level CLI command. Without a subcommand it
// launches the TUI.
func NewRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "promptdna",
		Usage:   "Decode the Soul of Your Words",
		Version: Version,
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Value:   config.ConfigPath(),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging",
			},
		}, analyzerFlags()...),
		Commands: []*cli.Command{
			NewTUICommand(),
			NewAnalyzeCommand(),
			NewServeCommand(),
			NewHistoryCommand(),
			NewStatusCommand(),
			NewMCPServeCommand(),
			NewSecretCommand(),
		},
		Action: runTUI,
	}
}

// loadConfig reads the --config file; a missing file yields defaults.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

// setupLogging installs a text handler on w. --debug lowers the level to debug.
func setupLogging(cmd *cli.Command, w io.Writer, level slog.Level) {
	if cmd.Bool("debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// logToFile routes logs to path so the terminal stays clean. The returned
// closer must be called on exit.
func logToFile(cmd *cli.Command, path string) (func() error, error) {
	if err := os.MkdirAll(config.DataPath(), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	setupLogging(cmd, f, slog.LevelInfo)
	return f.Close, nil
}
