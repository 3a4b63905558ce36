package models

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	pdnacb "github.com/dohr-michael/promptdna/internal/callbacks"
	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/dna"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider scores text with the Gemini API in JSON response mode.
type GeminiProvider struct {
	name      string
	client    *genai.Client
	modelName string
	maxTokens int32
	temp      *float32
	handler   callbacks.Handler
}

// NewGemini creates a Gemini provider.
func NewGemini(ctx context.Context, name string, cfg config.ProviderConfig, apiKey string) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	p := &GeminiProvider{
		name:      name,
		client:    client,
		modelName: cfg.Model,
		maxTokens: 1024,
	}
	if p.modelName == "" {
		p.modelName = defaultGeminiModel
	}
	if cfg.MaxTokens > 0 {
		p.maxTokens = int32(cfg.MaxTokens)
	}
	if temp, ok := cfg.Options["temperature"].(float64); ok {
		t := float32(temp)
		p.temp = &t
	}
	return p, nil
}

func (p *GeminiProvider) Name() string { return p.name }

func (p *GeminiProvider) setHandler(h callbacks.Handler) { p.handler = h }

// Analyze implements Provider. The call is reported through eino callbacks
// like the eino chat models.
func (p *GeminiProvider) Analyze(ctx context.Context, text string) (_ *dna.Profile, err error) {
	ctx = pdnacb.WithHandler(ctx, p.name, p.handler)
	ctx = callbacks.EnsureRunInfo(ctx, p.name, components.ComponentOfChatModel)

	cbInput := &model.CallbackInput{
		Messages: []*schema.Message{schema.SystemMessage(SystemPrompt), schema.UserMessage(text)},
		Config:   &model.Config{Model: p.modelName, MaxTokens: int(p.maxTokens)},
	}
	ctx = callbacks.OnStart(ctx, cbInput)
	defer func() {
		if err != nil {
			callbacks.OnError(ctx, err)
		}
	}()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt, genai.RoleUser),
		ResponseMIMEType:  "application/json",
		MaxOutputTokens:   p.maxTokens,
		Temperature:       p.temp,
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}
	res, err := p.client.Models.GenerateContent(ctx, p.modelName, contents, cfg)
	if err != nil {
		return nil, HandleError(fmt.Errorf("gemini generate content: %w", err))
	}

	out := res.Text()
	cbOutput := &model.CallbackOutput{
		Message: schema.AssistantMessage(out, nil),
		Config:  cbInput.Config,
	}
	if u := res.UsageMetadata; u != nil {
		cbOutput.TokenUsage = &model.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}
	}
	callbacks.OnEnd(ctx, cbOutput)

	if out == "" {
		return nil, fmt.Errorf("%w: gemini returned empty text", dna.ErrMalformedResponse)
	}
	return ParseModelOutput(out)
}
