package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/render"
	"github.com/dohr-michael/promptdna/internal/share"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

// NewAnalyzeCommand returns the analyze subcommand.
func NewAnalyzeCommand() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Usage:     "Analyze a text once and print its Prompt DNA",
		ArgsUsage: "[text]",
		Flags: append([]cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json or yaml",
				Value:   "text",
			},
			&cli.BoolFlag{
				Name:  "share",
				Usage: "Share the result (native command or clipboard)",
			},
			&cli.BoolFlag{
				Name:  "no-delay",
				Usage: "Skip the reveal delay",
			},
		}, analyzerFlags()...),
		Action: runAnalyze,
	}
}

// Result is the machine-readable output of analyze.
type Result struct {
	Profile   dna.Profile `json:"profile" yaml:"profile"`
	Color     string      `json:"color" yaml:"color"`
	Hex       string      `json:"hex" yaml:"hex"`
	Top       string      `json:"top_emotion" yaml:"top_emotion"`
	Intensity string      `json:"top_intensity" yaml:"top_intensity"`
}

// NewResult builds the output for p.
func NewResult(p dna.Profile) Result {
	top := p.Top()
	return Result{
		Profile:   p,
		Color:     p.Color().String(),
		Hex:       p.Color().Hex(),
		Top:       top.Label(),
		Intensity: dna.IntensityLabel(p.Score(top)),
	}
}

func runAnalyze(ctx context.Context, cmd *cli.Command) error {
	setupLogging(cmd, os.Stderr, slog.LevelWarn)

	format := cmd.String("format")
	if format != "text" && format != "json" && format != "yaml" {
		return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
	}

	text, err := readText(cmd.Args().Slice(), os.Stdin)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	analyzer, endpoint, err := newAnalyzer(ctx, cfg, cmd.Bool("local"), cmd.String("model"))
	if err != nil {
		return err
	}
	slog.Debug("analyzing", "endpoint", endpoint, "chars", len(text))

	bus := events.NewBus(cfg.Events.BufferSize)
	defer bus.Close()

	runner := &workflow.Runner{Analyzer: analyzer}
	if !cmd.Bool("no-delay") && format == "text" {
		runner.RevealDelay = cfg.Client.RevealDelay.Duration()
	}

	session := workflow.NewSession(bus)
	profile, err := runner.Run(ctx, session, text)
	if err != nil {
		if n := session.Notice(); n != nil {
			return errors.New(n.String())
		}
		return err
	}

	if err := writeResult(os.Stdout, format, text, *profile); err != nil {
		return err
	}

	if cmd.Bool("share") {
		return shareResult(ctx, cfg, bus, text, *profile)
	}
	return nil
}

// readText joins args, or reads piped stdin when there are none.
func readText(args []string, stdin *os.File) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if term.IsTerminal(int(stdin.Fd())) {
		return "", errors.New("usage: promptdna analyze <text> (or pipe text on stdin)")
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func writeResult(w io.Writer, format, text string, p dna.Profile) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(NewResult(p))
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(NewResult(p))
	}

	width := 60
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if tw, _, err := term.GetSize(fd); err == nil && tw > 0 {
			width = min(tw, 80)
		}
	}

	fmt.Fprintln(w, render.Helix(p.Color(), 6, 16, 0))
	fmt.Fprintln(w)
	fmt.Fprintln(w, render.Bars(p, max(10, width-render.LabelWidth-20)))
	fmt.Fprintln(w)
	_, err := fmt.Fprintln(w, share.Card{Text: text, Profile: p}.Render(width))
	return err
}

func shareResult(ctx context.Context, cfg *config.Config, bus *events.Bus, text string, p dna.Profile) error {
	sharer := share.NewSharer(cfg.Share.Command, bus)
	_, notice, err := sharer.Share(ctx, share.NewPayload(text, p, cfg.Share.URL))
	if notice != nil {
		fmt.Fprintln(os.Stderr, notice.String())
	}
	return err
}
