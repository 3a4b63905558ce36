package models

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	pdnacb "github.com/dohr-michael/promptdna/internal/callbacks"
	"github.com/dohr-michael/promptdna/internal/dna"
)

// ChatProvider adapts an eino chat model to Provider.
type ChatProvider struct {
	name    string
	chat    model.BaseChatModel
	handler callbacks.Handler
}

// NewChatProvider wraps chat under the given provider name.
func NewChatProvider(name string, chat model.BaseChatModel) *ChatProvider {
	return &ChatProvider{name: name, chat: chat}
}

func (p *ChatProvider) Name() string { return p.name }

func (p *ChatProvider) setHandler(h callbacks.Handler) { p.handler = h }

// Analyze sends the system prompt and text, then parses the reply.
func (p *ChatProvider) Analyze(ctx context.Context, text string) (*dna.Profile, error) {
	ctx = pdnacb.WithHandler(ctx, p.name, p.handler)
	msg, err := p.chat.Generate(ctx, []*schema.Message{
		schema.SystemMessage(SystemPrompt),
		schema.UserMessage(text),
	})
	if err != nil {
		return nil, HandleError(err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty reply from %s", dna.ErrMalformedResponse, p.name)
	}

	slog.Debug("model reply", "provider", p.name, "content", msg.Content)
	return ParseModelOutput(msg.Content)
}
