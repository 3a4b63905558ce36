package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/secrets"
)

// NewSecretCommand returns the secret subcommand.
func NewSecretCommand() *cli.Command {
	return &cli.Command{
		Name:  "secret",
		Usage: "Manage sealed provider API keys",
		Commands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Seal a value with the local age key and store it in .env",
				ArgsUsage: "<NAME>",
				Action:    runSecretSet,
			},
		},
	}
}

func runSecretSet(_ context.Context, cmd *cli.Command) error {
	name := cmd.Args().First()
	if name == "" {
		return errors.New("usage: promptdna secret set <NAME>")
	}

	value, err := readSecret(name)
	if err != nil {
		return err
	}
	if value == "" {
		return errors.New("empty value")
	}

	kr := secrets.Default()
	if err := kr.Ensure(); err != nil {
		return err
	}
	sealed, err := kr.Seal(value)
	if err != nil {
		return err
	}

	if err := config.SetDotenv(config.DotenvPath(), name, sealed); err != nil {
		return fmt.Errorf("write .env: %w", err)
	}
	fmt.Fprintf(os.Stderr, "%s sealed in %s\n", name, config.DotenvPath())
	return nil
}

// readSecret prompts without echo on a terminal, or reads piped stdin.
func readSecret(name string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	fmt.Fprintf(os.Stderr, "%s: ", name)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
