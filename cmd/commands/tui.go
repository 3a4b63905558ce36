package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/clients/tui"
	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/share"
)

// NewTUICommand returns the tui subcommand.
func NewTUICommand() *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive client",
		Flags:  analyzerFlags(),
		Action: runTUI,
	}
}

func analyzerFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:  "local",
			Usage: "Call the model provider in-process instead of the analysis service",
		},
		&cli.StringFlag{
			Name:    "model",
			Aliases: []string{"m"},
			Usage:   "Provider name (with --local)",
		},
	}
}

func runTUI(ctx context.Context, cmd *cli.Command) error {
	closeLog, err := logToFile(cmd, config.LogPath())
	if err != nil {
		return err
	}
	defer closeLog()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzer, endpoint, err := newAnalyzer(ctx, cfg, cmd.Bool("local"), cmd.String("model"))
	if err != nil {
		return err
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	app := tui.NewApp(tui.Options{
		Analyzer:    analyzer,
		Sharer:      share.NewSharer(cfg.Share.Command, bus),
		ShareURL:    cfg.Share.URL,
		RevealDelay: cfg.Client.RevealDelay.Duration(),
		Endpoint:    endpoint,
		Bus:         bus,
	})

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
