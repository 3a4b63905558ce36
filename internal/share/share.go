package share

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"
	"mvdan.cc/sh/v3/shell"

	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

// Method names how a payload was shared.
type Method string

const (
	MethodNative    Method = "native"
	MethodClipboard Method = "clipboard"
)

// ErrNoCommand is returned when a share command parses to nothing.
var ErrNoCommand = errors.New("share command is empty")

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

// Sharer hands payloads to the native share command when one is configured,
// and to the clipboard otherwise. Sharing never touches workflow state.
type Sharer struct {
	command string
	bus     *events.Bus
}

// NewSharer creates a Sharer. command may be empty; bus may be nil.
func NewSharer(command string, bus *events.Bus) *Sharer {
	return &Sharer{command: strings.TrimSpace(command), bus: bus}
}

// Share delivers p. The returned notice, if any, is meant for the user.
func (s *Sharer) Share(ctx context.Context, p Payload) (Method, *workflow.Notice, error) {
	method := MethodClipboard
	var (
		notice *workflow.Notice
		err    error
	)

	if s.command != "" {
		method = MethodNative
		err = s.runNative(ctx, p)
	} else {
		err = clipboardWriteAll(p.ClipboardText())
		if err == nil {
			notice = &workflow.Notice{Title: "Copied to clipboard!", Description: "Share your Prompt DNA result"}
		}
	}

	payload := events.ShareCompletedPayload{Method: string(method)}
	if err != nil {
		slog.Error("share failed", "method", method, "error", err)
		payload.Error = err.Error()
		notice = &workflow.Notice{Title: "Share failed", Description: err.Error(), Destructive: true}
	}
	s.bus.Publish(events.NewTypedEvent(events.SourceShare, payload))

	return method, notice, err
}

func (s *Sharer) runNative(ctx context.Context, p Payload) error {
	args, err := shell.Fields(s.command, os.Getenv)
	if err != nil {
		return fmt.Errorf("parse share command: %w", err)
	}
	if len(args) == 0 {
		return ErrNoCommand
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdin = strings.NewReader(p.Text)
	cmd.Env = append(os.Environ(),
		"PROMPTDNA_SHARE_TITLE="+p.Title,
		"PROMPTDNA_SHARE_URL="+p.URL,
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return fmt.Errorf("share command: %w", err)
		}
		return fmt.Errorf("share command: %w: %s", err, msg)
	}
	return nil
}
