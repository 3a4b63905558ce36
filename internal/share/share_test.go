package share

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
)

var profile = dna.Profile{Empathy: 20, Curiosity: 90, Chaos: 10, Confidence: 30, Creativity: 40, Summary: "A seeker of answers."}

func TestNewPayload(t *testing.T) {
	long := strings.Repeat("a", 150)
	p := NewPayload(long, profile, "https://promptdna.app")

	if p.Title != "My Prompt DNA" {
		t.Errorf("Title = %q", p.Title)
	}
	want := `"` + strings.Repeat("a", 100) + `..." - A seeker of answers.`
	if p.Text != want {
		t.Errorf("Text = %q, want %q", p.Text, want)
	}

	short := NewPayload(`say "hi"`, profile, "u")
	if short.Text != `"say "hi"..." - A seeker of answers.` {
		t.Errorf("short Text = %q", short.Text)
	}
}

func TestPayload_ClipboardText(t *testing.T) {
	p := NewPayload("hello", profile, "https://promptdna.app")
	want := "\"hello...\" - A seeker of answers.\n\n🧬 Discover your Prompt DNA at https://promptdna.app"
	if got := p.ClipboardText(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestQuote(t *testing.T) {
	exact := strings.Repeat("é", 120)
	if Quote(exact) != exact {
		t.Error("120 characters should not be truncated")
	}
	long := strings.Repeat("é", 121)
	if got := Quote(long); got != exact+"..." {
		t.Errorf("Quote = %q", got)
	}
}

func TestCard(t *testing.T) {
	c := Card{Text: "Why do we dream?", Profile: profile}

	md := c.Markdown()
	for _, want := range []string{`"Why do we dream?"`, "Dominated by: Curiosity", "A seeker of answers."} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}

	out := c.Render(60)
	for _, want := range []string{"Prompt DNA", "#PromptDNA", "Curiosity", "seeker"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var got string
	orig := clipboardWriteAll
	clipboardWriteAll = func(s string) error {
		got = s
		return err
	}
	t.Cleanup(func() { clipboardWriteAll = orig })
	return &got
}

func TestShare_Clipboard(t *testing.T) {
	copied := stubClipboard(t, nil)
	bus := events.NewBus(8)
	defer bus.Close()

	p := NewPayload("hello", profile, "https://promptdna.app")
	method, notice, err := NewSharer("", bus).Share(context.Background(), p)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if method != MethodClipboard {
		t.Errorf("method = %s", method)
	}
	if *copied != p.ClipboardText() {
		t.Errorf("copied %q", *copied)
	}
	if notice == nil || notice.Title != "Copied to clipboard!" || notice.Description != "Share your Prompt DNA result" {
		t.Errorf("notice = %+v", notice)
	}

	var hist []events.Event
	for i := 0; i < 100 && len(hist) == 0; i++ {
		time.Sleep(time.Millisecond)
		hist = bus.History(5)
	}
	if len(hist) != 1 || hist[0].Type != events.EventShareCompleted {
		t.Fatalf("events = %+v", hist)
	}
}

func TestShare_ClipboardError(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard utility"))

	_, notice, err := NewSharer("", nil).Share(context.Background(), NewPayload("x", profile, "u"))
	if err == nil {
		t.Fatal("expected error")
	}
	if notice == nil || !notice.Destructive {
		t.Errorf("notice = %+v", notice)
	}
}

func TestShare_NativeCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}
	copied := stubClipboard(t, nil)
	out := filepath.Join(t.TempDir(), "shared.txt")

	cmd := `sh -c 'cat > "$0"; printf "\n%s\n%s" "$PROMPTDNA_SHARE_TITLE" "$PROMPTDNA_SHARE_URL" >> "$0"' ` + out
	p := NewPayload("hello", profile, "https://promptdna.app")

	method, notice, err := NewSharer(cmd, nil).Share(context.Background(), p)
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if method != MethodNative || notice != nil {
		t.Errorf("method = %s, notice = %+v", method, notice)
	}
	if *copied != "" {
		t.Error("clipboard should not be used with a share command")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := p.Text + "\nMy Prompt DNA\nhttps://promptdna.app"
	if string(data) != want {
		t.Errorf("shared %q, want %q", data, want)
	}
}

func TestShare_NativeFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("needs sh")
	}

	_, notice, err := NewSharer(`sh -c 'echo nope >&2; exit 3'`, nil).Share(context.Background(), NewPayload("x", profile, "u"))
	if err == nil || !strings.Contains(err.Error(), "nope") {
		t.Fatalf("err = %v", err)
	}
	if notice == nil || notice.Title != "Share failed" {
		t.Errorf("notice = %+v", notice)
	}
}

func TestShare_BadCommand(t *testing.T) {
	_, _, err := NewSharer(`open "unterminated`, nil).Share(context.Background(), NewPayload("x", profile, "u"))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
