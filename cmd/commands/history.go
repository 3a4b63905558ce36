package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v3"

	"github.com/dohr-michael/promptdna/internal/storage"
)

// NewHistoryCommand returns the history subcommand.
func NewHistoryCommand() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List analyses recorded by the service",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of analyses",
				Value:   storage.DefaultListLimit,
			},
		},
		Action: runHistory,
	}
}

func runHistory(_ context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr, slog.LevelWarn)

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	history, err := storage.OpenHistory(cfg.Gateway.DBPath)
	if err != nil {
		return err
	}
	defer history.Close()

	records, err := history.List(cmd.Int("limit"))
	if err != nil {
		return fmt.Errorf("list analyses: %w", err)
	}

	if len(records) == 0 {
		fmt.Println("No analyses found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tPROVIDER\tTOP\tTEXT")
	for _, r := range records {
		top := "failed"
		if r.OK() {
			top = r.Profile.Top().Label()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Provider,
			top,
			oneLine(r.Text, 40),
		)
	}
	return w.Flush()
}

func oneLine(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n]) + "..."
	}
	return s
}
