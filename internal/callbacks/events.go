// Package callbacks provides Eino callback handlers that bridge to the event bus.
package callbacks

import (
	"context"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	ub "github.com/cloudwego/eino/utils/callbacks"

	"github.com/dohr-michael/promptdna/internal/events"
)

const maxErrorLen = 500

// NewEventBusHandler creates a chat model callback handler that publishes
// model.call events to the bus.
func NewEventBusHandler(bus *events.Bus) callbacks.Handler {
	publish := func(ctx context.Context, payload events.ModelCallPayload) {
		bus.Publish(events.NewTypedEventWithSession(events.SourceModel, payload, events.SessionIDFromContext(ctx)))
	}

	return ub.NewHandlerHelper().
		ChatModel(&ub.ModelCallbackHandler{
			OnStart: func(ctx context.Context, info *callbacks.RunInfo, input *model.CallbackInput) context.Context {
				payload := events.ModelCallPayload{Phase: "request", Provider: info.Name}
				if input != nil {
					payload.Messages = len(input.Messages)
				}
				publish(ctx, payload)
				return ctx
			},
			OnEnd: func(ctx context.Context, info *callbacks.RunInfo, output *model.CallbackOutput) context.Context {
				payload := events.ModelCallPayload{Phase: "response", Provider: info.Name}
				if output == nil {
					publish(ctx, payload)
					return ctx
				}
				switch {
				case output.TokenUsage != nil:
					payload.TokensIn = output.TokenUsage.PromptTokens
					payload.TokensOut = output.TokenUsage.CompletionTokens
				case output.Message != nil && output.Message.ResponseMeta != nil && output.Message.ResponseMeta.Usage != nil:
					payload.TokensIn = output.Message.ResponseMeta.Usage.PromptTokens
					payload.TokensOut = output.Message.ResponseMeta.Usage.CompletionTokens
				}
				publish(ctx, payload)
				return ctx
			},
			OnError: func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
				publish(ctx, events.ModelCallPayload{
					Phase:    "error",
					Provider: info.Name,
					Error:    truncate(err.Error(), maxErrorLen),
				})
				return ctx
			},
		}).
		Handler()
}

// WithHandler attaches handler to ctx for one chat model call named name.
func WithHandler(ctx context.Context, name string, handler callbacks.Handler) context.Context {
	if handler == nil {
		return ctx
	}
	return callbacks.InitCallbacks(ctx, &callbacks.RunInfo{
		Name:      name,
		Component: components.ComponentOfChatModel,
	}, handler)
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "... (truncated)"
}
