package events

import (
	"encoding/json"
	"time"
)

// EventPayload is the interface all typed payloads implement.
type EventPayload interface {
	EventType() EventType
}

// WorkflowTransitionPayload records one state change of a client session.
type WorkflowTransitionPayload struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Reason string `json:"reason,omitempty"`
}

func (WorkflowTransitionPayload) EventType() EventType { return EventWorkflowTransition }

// AnalysisCompletedPayload is emitted by the analysis function on success.
type AnalysisCompletedPayload struct {
	AnalysisID string        `json:"analysis_id"`
	Provider   string        `json:"provider"`
	Top        string        `json:"top"`
	Color      string        `json:"color"`
	Duration   time.Duration `json:"duration"`
}

func (AnalysisCompletedPayload) EventType() EventType { return EventAnalysisCompleted }

// AnalysisFailedPayload is emitted by the analysis function on failure.
type AnalysisFailedPayload struct {
	AnalysisID string        `json:"analysis_id"`
	Provider   string        `json:"provider"`
	Error      string        `json:"error"`
	Duration   time.Duration `json:"duration"`
}

func (AnalysisFailedPayload) EventType() EventType { return EventAnalysisFailed }

// ModelCallPayload traces one chat model call of a provider.
type ModelCallPayload struct {
	Phase     string `json:"phase"` // "request", "response" or "error"
	Provider  string `json:"provider"`
	Messages  int    `json:"messages,omitempty"`
	TokensIn  int    `json:"tokens_in,omitempty"`
	TokensOut int    `json:"tokens_out,omitempty"`
	Error     string `json:"error,omitempty"`
}

func (ModelCallPayload) EventType() EventType { return EventModelCall }

// ShareCompletedPayload records how a result was shared.
type ShareCompletedPayload struct {
	Method string `json:"method"` // "native" or "clipboard"
	Error  string `json:"error,omitempty"`
}

func (ShareCompletedPayload) EventType() EventType { return EventShareCompleted }

// NewTypedEvent builds an event from a typed payload.
func NewTypedEvent(source EventSource, payload EventPayload) Event {
	return NewTypedEventWithSession(source, payload, "")
}

// NewTypedEventWithSession builds an event bound to a session.
func NewTypedEventWithSession(source EventSource, payload EventPayload, sessionID string) Event {
	return Event{
		ID:        generateEventID(),
		SessionID: sessionID,
		Type:      payload.EventType(),
		Timestamp: time.Now(),
		Source:    source,
		Payload:   toMap(payload),
	}
}

func toMap(v any) map[string]any {
	var result map[string]any
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return result
}

// ExtractPayload decodes an event payload into its typed form.
func ExtractPayload[T EventPayload](e Event) (T, bool) {
	var result T
	if e.Type != result.EventType() {
		return result, false
	}
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, false
	}
	return result, true
}
