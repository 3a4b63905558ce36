package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/heartbeat"
)

// NewStatusCommand returns the status subcommand.
func NewStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show analysis service status",
		Action: func(_ context.Context, _ *cli.Command) error {
			status, hb, err := heartbeat.Check(config.HeartbeatPath(), 4*heartbeat.DefaultInterval)
			if err != nil {
				return fmt.Errorf("check heartbeat: %w", err)
			}

			switch status {
			case heartbeat.StatusAlive:
				fmt.Printf("Service: ALIVE (PID %d, %s, provider %s, %d analyses, uptime %s)\n",
					hb.PID, hb.Addr, hb.Provider, hb.Analyses, hb.Uptime)
			case heartbeat.StatusStale:
				fmt.Printf("Service: STALE (PID %d, last heartbeat %s ago)\n",
					hb.PID, time.Since(hb.Timestamp).Truncate(time.Second))
			default:
				fmt.Println("Service: NOT RUNNING")
			}

			return nil
		},
	}
}
