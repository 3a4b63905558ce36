// Package share builds the shareable result card and hands results to the
// system share command or the clipboard.
package share

import (
	"fmt"

	"github.com/dohr-michael/promptdna/internal/dna"
)

const (
	// Title is the share sheet title.
	Title = "My Prompt DNA"

	excerptLen = 100
	quoteLen   = 120
)

// Payload is what gets shared.
type Payload struct {
	Title string `json:"title"`
	Text  string `json:"text"`
	URL   string `json:"url"`
}

// NewPayload builds the share payload for an analyzed text.
func NewPayload(text string, p dna.Profile, url string) Payload {
	return Payload{
		Title: Title,
		Text:  fmt.Sprintf("\"%s...\" - %s", excerpt(text, excerptLen), p.Summary),
		URL:   url,
	}
}

// ClipboardText is the text copied when no share command is available.
func (p Payload) ClipboardText() string {
	return fmt.Sprintf("%s\n\n🧬 Discover your Prompt DNA at %s", p.Text, p.URL)
}

// Quote is the card quote: the text, cut to 120 characters with an ellipsis
// when longer.
func Quote(text string) string {
	r := []rune(text)
	if len(r) > quoteLen {
		return string(r[:quoteLen]) + "..."
	}
	return text
}

func excerpt(text string, n int) string {
	r := []rune(text)
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
