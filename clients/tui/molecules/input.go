// Package molecules provides mid-level TUI components.
package molecules

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// SubmitMsg is sent when the user asks to analyze the input.
type SubmitMsg struct {
	Content string
}

// PromptInput wraps a multi-line textarea. ctrl+s or alt+enter submits;
// enter inserts a newline.
type PromptInput struct {
	textarea textarea.Model
	enabled  bool
}

// NewPromptInput creates the input area.
func NewPromptInput(border lipgloss.TerminalColor) PromptInput {
	ta := textarea.New()
	ta.Placeholder = "Paste a prompt, a message, a poem... anything you wrote."
	ta.ShowLineNumbers = false
	ta.Prompt = "┃ "
	ta.SetHeight(6)
	ta.CharLimit = 0
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Prompt = lipgloss.NewStyle().Foreground(border)
	ta.Focus()

	return PromptInput{
		textarea: ta,
		enabled:  true,
	}
}

// SetWidth sets the input width.
func (c *PromptInput) SetWidth(w int) {
	c.textarea.SetWidth(w)
}

// SetEnabled enables or disables the input.
func (c *PromptInput) SetEnabled(enabled bool) {
	c.enabled = enabled
	if enabled {
		c.textarea.Focus()
	} else {
		c.textarea.Blur()
	}
}

// Enabled returns whether the input is active.
func (c *PromptInput) Enabled() bool {
	return c.enabled
}

// Reset clears the input.
func (c *PromptInput) Reset() {
	c.textarea.Reset()
}

// Value returns the current input text.
func (c *PromptInput) Value() string {
	return c.textarea.Value()
}

// SetValue replaces the input text.
func (c *PromptInput) SetValue(s string) {
	c.textarea.SetValue(s)
}

// Update handles key events. Submission is not filtered here: empty input
// is validated by the session so the user gets a notice.
func (c PromptInput) Update(msg tea.Msg) (PromptInput, tea.Cmd) {
	if !c.enabled {
		return c, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyCtrlS || (keyMsg.Type == tea.KeyEnter && keyMsg.Alt) {
			content := c.textarea.Value()
			return c, func() tea.Msg { return SubmitMsg{Content: content} }
		}
	}

	var cmd tea.Cmd
	c.textarea, cmd = c.textarea.Update(msg)
	return c, cmd
}

// View renders the input area.
func (c PromptInput) View() string {
	return c.textarea.View()
}
