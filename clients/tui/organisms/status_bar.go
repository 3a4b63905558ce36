// Package organisms provides the composed panels of the TUI.
package organisms

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/internal/workflow"
)

// StatusBar displays the session, workflow state, key hints and the last notice.
type StatusBar struct {
	sessionID string
	state     workflow.State
	endpoint  string
	notice    *workflow.Notice
	width     int
	style     lipgloss.Style
	errStyle  lipgloss.Style
	okStyle   lipgloss.Style
}

// NewStatusBar creates a status bar.
func NewStatusBar(style, errStyle, okStyle lipgloss.Style) StatusBar {
	return StatusBar{style: style, errStyle: errStyle, okStyle: okStyle}
}

// SetSession updates the session ID.
func (p *StatusBar) SetSession(id string) { p.sessionID = id }

// SetState updates the displayed workflow state.
func (p *StatusBar) SetState(s workflow.State) { p.state = s }

// SetEndpoint records where analyses are sent.
func (p *StatusBar) SetEndpoint(e string) { p.endpoint = e }

// SetNotice shows n until replaced; nil clears it.
func (p *StatusBar) SetNotice(n *workflow.Notice) { p.notice = n }

// Notice returns the displayed notice.
func (p *StatusBar) Notice() *workflow.Notice { return p.notice }

// SetWidth updates the rendering width.
func (p *StatusBar) SetWidth(w int) { p.width = w }

// Hints returns the key hints for a state.
func Hints(s workflow.State) string {
	switch s {
	case workflow.StateAnalyzing:
		return "ctrl+r cancel · ctrl+c quit"
	case workflow.StateResults:
		return "ctrl+y share · ctrl+r decode another prompt · ctrl+c quit"
	default:
		return "ctrl+s analyze · ctrl+c quit"
	}
}

// View renders the notice line (if any) above the status bar.
func (p StatusBar) View() string {
	sid := p.sessionID
	if len(sid) > 8 {
		sid = sid[:8]
	}

	endpoint := ""
	if p.endpoint != "" {
		endpoint = " | " + p.endpoint
	}

	bar := p.style.Width(p.width).Render(
		fmt.Sprintf(" sess:%s | %s%s | %s ", sid, p.state, endpoint, Hints(p.state)))

	if p.notice == nil {
		return bar
	}
	style := p.okStyle
	if p.notice.Destructive {
		style = p.errStyle
	}
	return style.Width(p.width).Render(" "+p.notice.String()) + "\n" + bar
}
