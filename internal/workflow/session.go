// Package workflow models the input → analyzing → results cycle of one client session.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
)

// State is the step the session is in.
type State string

const (
	StateInput     State = "input"
	StateAnalyzing State = "analyzing"
	StateResults   State = "results"
)

var (
	ErrEmptyInput        = errors.New("empty input")
	ErrBusy              = errors.New("analysis already in progress")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStaleRequest      = errors.New("stale analysis request")
)

// Notice is a user-facing message raised by a transition.
type Notice struct {
	Title       string
	Description string
	Destructive bool
}

func (n Notice) String() string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + ": " + n.Description
}

var (
	noticeEmptyInput = Notice{
		Title:       "Please enter some text",
		Description: "Type something to analyze your emotional DNA",
		Destructive: true,
	}
	noticeFailedTitle   = "Analysis failed"
	noticeFailedDefault = "Please try again"
)

// Request identifies one submitted analysis. Results for older requests are rejected.
type Request struct {
	ID   uint64
	Text string
}

// Session is the per-session view-model. It is owned by a single goroutine
// and is not safe for concurrent use.
type Session struct {
	id        string
	state     State
	input     string
	profile   *dna.Profile
	notice    *Notice
	showIntro bool
	seq       uint64
	pending   uint64
	bus       *events.Bus
}

// NewSession creates a session in the input state. bus may be nil.
func NewSession(bus *events.Bus) *Session {
	return &Session{
		id:        uuid.NewString(),
		state:     StateInput,
		showIntro: true,
		bus:       bus,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// State returns the current step.
func (s *Session) State() State { return s.state }

// Input returns the text being edited or analyzed.
func (s *Session) Input() string { return s.input }

// ShowIntro reports whether the intro banner is still displayed.
func (s *Session) ShowIntro() bool { return s.showIntro && s.state == StateInput }

// Profile returns a copy of the current profile, or nil outside the results state.
func (s *Session) Profile() *dna.Profile {
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Notice returns the last notice raised, if any.
func (s *Session) Notice() *Notice { return s.notice }

// ClearNotice dismisses the current notice.
func (s *Session) ClearNotice() { s.notice = nil }

// SetInput updates the edited text. Edits are ignored outside the input state.
func (s *Session) SetInput(text string) bool {
	if s.state != StateInput {
		return false
	}
	s.input = text
	return true
}

// CanSubmit reports whether Submit would start an analysis.
func (s *Session) CanSubmit() bool {
	return s.state == StateInput && strings.TrimSpace(s.input) != ""
}

// Submit moves input → analyzing. Empty or whitespace-only text is rejected and
// the session stays in the input state.
func (s *Session) Submit(text string) (Request, error) {
	switch s.state {
	case StateAnalyzing:
		return Request{}, ErrBusy
	case StateResults:
		return Request{}, fmt.Errorf("%w: submit from %s", ErrInvalidTransition, s.state)
	}

	s.input = text
	if strings.TrimSpace(text) == "" {
		n := noticeEmptyInput
		s.notice = &n
		return Request{}, ErrEmptyInput
	}

	s.seq++
	s.pending = s.seq
	s.profile = nil
	s.notice = nil
	s.transition(StateAnalyzing, "submit")

	return Request{ID: s.pending, Text: text}, nil
}

// Complete moves analyzing → results with exactly the received profile.
// A nil profile takes the failure path.
func (s *Session) Complete(req Request, profile *dna.Profile) error {
	if err := s.checkPending(req); err != nil {
		return err
	}
	if profile == nil {
		return s.Fail(req, dna.ErrMalformedResponse)
	}

	p := *profile
	s.profile = &p
	s.pending = 0
	s.showIntro = false
	s.transition(StateResults, "success")
	return nil
}

// Fail moves analyzing → input and raises a failure notice. No profile is retained.
func (s *Session) Fail(req Request, cause error) error {
	if err := s.checkPending(req); err != nil {
		return err
	}

	desc := noticeFailedDefault
	if cause != nil && cause.Error() != "" {
		desc = cause.Error()
	}
	s.notice = &Notice{Title: noticeFailedTitle, Description: desc, Destructive: true}
	s.profile = nil
	s.pending = 0
	s.transition(StateInput, "failure")
	return nil
}

// Reset returns to the input state from anywhere, clearing the profile and the input text.
// A pending analysis is abandoned; its result will be rejected as stale.
func (s *Session) Reset() {
	s.profile = nil
	s.input = ""
	s.pending = 0
	s.notice = nil
	s.transition(StateInput, "reset")
}

func (s *Session) checkPending(req Request) error {
	if s.state != StateAnalyzing {
		return fmt.Errorf("%w: result in %s", ErrInvalidTransition, s.state)
	}
	if req.ID == 0 || req.ID != s.pending {
		return ErrStaleRequest
	}
	return nil
}

func (s *Session) transition(to State, reason string) {
	from := s.state
	s.state = to
	s.bus.Publish(events.NewTypedEventWithSession(events.SourceWorkflow, events.WorkflowTransitionPayload{
		From:   string(from),
		To:     string(to),
		Reason: reason,
	}, s.id))
}
