package tui

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/promptdna/clients/tui/atoms"
	"github.com/dohr-michael/promptdna/clients/tui/molecules"
	"github.com/dohr-michael/promptdna/clients/tui/organisms"
	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/share"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

const (
	helixRows  = 8
	helixWidth = 16
	defaultW   = 80
)

// Options configures the TUI.
type Options struct {
	Analyzer    workflow.Analyzer
	Sharer      *share.Sharer
	ShareURL    string
	RevealDelay time.Duration
	Endpoint    string
	Bus         *events.Bus
}

// App is the main TUI application model.
// Layout: HEADER | BODY | STATUS
type App struct {
	session  *workflow.Session
	analyzer workflow.Analyzer
	sharer   *share.Sharer
	shareURL string
	reveal   time.Duration

	input   molecules.PromptInput
	spinner atoms.Spinner
	rotor   atoms.Rotor
	bars    organisms.EmotionBars
	status  organisms.StatusBar

	req    workflow.Request
	cancel context.CancelFunc

	width    int
	quitting bool
}

// NewApp creates the TUI application.
func NewApp(opts Options) *App {
	sharer := opts.Sharer
	if sharer == nil {
		sharer = share.NewSharer("", opts.Bus)
	}

	session := workflow.NewSession(opts.Bus)
	status := organisms.NewStatusBar(StatusBarStyle, ErrorStyle, SuccessStyle)
	status.SetSession(session.ID())
	status.SetEndpoint(opts.Endpoint)
	status.SetWidth(defaultW)

	a := &App{
		session:  session,
		analyzer: opts.Analyzer,
		sharer:   sharer,
		shareURL: opts.ShareURL,
		reveal:   opts.RevealDelay,
		input:    molecules.NewPromptInput(ColorAccent),
		spinner:  atoms.NewSpinner(ColorAccent),
		rotor:    atoms.NewRotor(math.Pi / 10),
		bars:     organisms.NewEmotionBars(barWidth(defaultW)),
		status:   status,
		width:    defaultW,
	}
	a.syncStatus()
	return a
}

// Session exposes the underlying view-model.
func (a *App) Session() *workflow.Session { return a.session }

// Init starts the helix rotation and the spinner.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.rotor.Start(), a.spinner.Init())
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.input.SetWidth(msg.Width - 2)
		a.bars.SetWidth(barWidth(msg.Width))
		a.status.SetWidth(msg.Width)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.abort()
			a.quitting = true
			return a, tea.Quit
		case "ctrl+r":
			a.reset()
			return a, nil
		case "ctrl+y":
			if a.session.State() == workflow.StateResults {
				return a, a.shareCmd()
			}
			return a, nil
		}

		if a.session.State() == workflow.StateInput {
			var cmd tea.Cmd
			a.input, cmd = a.input.Update(msg)
			a.session.SetInput(a.input.Value())
			cmds = append(cmds, cmd)
		}

	case molecules.SubmitMsg:
		cmds = append(cmds, a.submit(msg.Content))

	case AnalysisDoneMsg:
		if !a.finish(msg) {
			break
		}
		if p := a.session.Profile(); p != nil {
			cmds = append(cmds, a.bars.Start(*p))
		}

	case ShareDoneMsg:
		if msg.Err != nil {
			slog.Warn("share failed", "method", msg.Method, "error", msg.Err)
		}
		a.status.SetNotice(msg.Notice)

	case atoms.RotorTickMsg:
		var cmd tea.Cmd
		a.rotor, cmd = a.rotor.Update(msg)
		cmds = append(cmds, cmd)

	case organisms.BarStartMsg, progress.FrameMsg:
		var cmd tea.Cmd
		a.bars, cmd = a.bars.Update(msg)
		cmds = append(cmds, cmd)

	default:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	a.syncStatus()
	return a, tea.Batch(cmds...)
}

func (a *App) submit(text string) tea.Cmd {
	a.session.SetInput(text)
	req, err := a.session.Submit(text)
	if err != nil {
		if !errors.Is(err, workflow.ErrEmptyInput) {
			slog.Debug("submit rejected", "state", a.session.State(), "error", err)
		}
		a.status.SetNotice(a.session.Notice())
		return nil
	}

	a.status.SetNotice(nil)
	a.input.SetEnabled(false)
	a.bars.Clear()

	ctx, cancel := context.WithCancel(context.Background())
	a.req = req
	a.cancel = cancel
	return a.analyzeCmd(ctx, req)
}

// analyzeCmd calls the analyzer off the UI loop and holds the result back
// for the reveal delay.
func (a *App) analyzeCmd(ctx context.Context, req workflow.Request) tea.Cmd {
	analyzer := a.analyzer
	delay := a.reveal
	return func() tea.Msg {
		if analyzer == nil {
			return AnalysisDoneMsg{Req: req, Err: errors.New("no analyzer configured")}
		}
		p, err := analyzer.Analyze(ctx, req.Text)
		if err == nil && p == nil {
			err = dna.ErrMalformedResponse
		}
		if err == nil {
			err = workflow.Pace(ctx, delay)
		}
		return AnalysisDoneMsg{Req: req, Profile: p, Err: err}
	}
}

// finish applies an analysis outcome; results of abandoned requests are dropped.
func (a *App) finish(msg AnalysisDoneMsg) bool {
	var err error
	if msg.Err != nil {
		err = a.session.Fail(msg.Req, msg.Err)
	} else {
		err = a.session.Complete(msg.Req, msg.Profile)
	}
	if err != nil {
		slog.Debug("dropping analysis result", "request", msg.Req.ID, "error", err)
		return false
	}

	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if msg.Err != nil {
		slog.Info("analysis failed", "session", a.session.ID(), "error", msg.Err)
		a.input.SetEnabled(true)
	}
	a.status.SetNotice(a.session.Notice())
	return true
}

func (a *App) reset() {
	a.abort()
	a.session.Reset()
	a.input.Reset()
	a.input.SetEnabled(true)
	a.bars.Clear()
	a.status.SetNotice(nil)
}

func (a *App) abort() {
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
}

func (a *App) shareCmd() tea.Cmd {
	p := a.session.Profile()
	if p == nil {
		return nil
	}
	payload := share.NewPayload(a.session.Input(), *p, a.shareURL)
	sharer := a.sharer
	return func() tea.Msg {
		method, notice, err := sharer.Share(context.Background(), payload)
		return ShareDoneMsg{Method: method, Notice: notice, Err: err}
	}
}

func (a *App) syncStatus() {
	a.status.SetState(a.session.State())
}

// View renders the current step.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}

	var body string
	switch a.session.State() {
	case workflow.StateAnalyzing:
		body = a.analyzingView()
	case workflow.StateResults:
		body = a.resultsView()
	default:
		body = a.inputView()
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, "", a.status.View())
}

func (a *App) inputView() string {
	parts := []string{}
	if a.session.ShowIntro() {
		parts = append(parts, organisms.Intro(a.width, a.rotor.Phase), "")
	}
	parts = append(parts,
		HeadingStyle.Render("Enter your prompt"),
		a.input.View(),
		MutedStyle.Render("ctrl+s or alt+enter to decode your DNA"),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) analyzingView() string {
	center := lipgloss.NewStyle().Width(a.width).Align(lipgloss.Center)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(renderHelix(dna.FallbackColor, a.rotor.Phase)),
		"",
		center.Render(a.spinner.View()+" "+HeadingStyle.Render("Analyzing Your DNA...")),
		center.Render(MutedStyle.Render("Decoding the emotional patterns in your words")),
	)
}

func (a *App) resultsView() string {
	p := a.session.Profile()
	if p == nil {
		return ""
	}
	color := p.Color()
	center := lipgloss.NewStyle().Width(a.width).Align(lipgloss.Center)

	cardWidth := min(a.width, 60)
	return lipgloss.JoinVertical(lipgloss.Left,
		center.Render(renderHelix(color, a.rotor.Phase)),
		center.Render(AccentStyle(color).Render("Your Prompt DNA")),
		center.Render(p.Summary),
		"",
		a.bars.View(),
		"",
		center.Render(share.Card{Text: a.session.Input(), Profile: *p}.Render(cardWidth)),
		center.Render(MutedStyle.Render("ctrl+y share · ctrl+r Decode Another Prompt")),
	)
}
