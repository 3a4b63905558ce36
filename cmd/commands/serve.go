package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/internal/actors"
	pdnacb "github.com/dohr-michael/promptdna/internal/callbacks"
	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/gateway"
	"github.com/dohr-michael/promptdna/internal/heartbeat"
	"github.com/dohr-michael/promptdna/internal/models"
	"github.com/dohr-michael/promptdna/internal/storage"
)

// NewServeCommand returns the serve subcommand.
func NewServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the analysis function service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to listen on",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to listen on",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not record analyses",
			},
		},
		Action: runServe,
	}
}

func runServe(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr, slog.LevelInfo)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// CLI flags override config
	if cmd.IsSet("host") {
		cfg.Gateway.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		cfg.Gateway.Port = cmd.Int("port")
	}

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	registry := models.NewRegistry(cfg.Models, models.WithCallbacks(pdnacb.NewEventBusHandler(bus)))
	if _, err := registry.Default(ctx); err != nil {
		return fmt.Errorf("init default model: %w", err)
	}

	metrics := gateway.NewMetrics()
	defer metrics.TrackModelCalls(bus)()
	hb := heartbeat.NewWriter(config.HeartbeatPath(), cfg.Gateway.Addr(), registry.DefaultName())

	opts := []gateway.ServiceOption{
		gateway.WithMetrics(metrics),
		gateway.WithPool(actors.NewPool(cfg.Models.Providers)),
		gateway.WithAnalysisHook(hb.RecordAnalysis),
	}
	if !cmd.Bool("no-history") {
		history, err := storage.OpenHistory(cfg.Gateway.DBPath)
		if err != nil {
			return err
		}
		defer history.Close()
		opts = append(opts, gateway.WithHistory(history))
	}

	logger := storage.NewEventLogger(filepath.Join(config.DataPath(), "logs"), bus,
		events.EventAnalysisCompleted, events.EventAnalysisFailed, events.EventModelCall)
	defer logger.Close()

	svc := gateway.NewService(registry, bus, opts...)
	server := gateway.NewServer(cfg.Gateway, cfg.Client.Function, registry.DefaultName(), svc, bus, metrics)

	hb.Start()
	defer hb.Stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
