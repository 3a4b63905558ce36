package models

import (
	"context"
	"time"

	einoopenai "github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"

	"github.com/dohr-michael/promptdna/internal/config"
)

const defaultOpenAIModel = "gpt-4o-mini"

// NewOpenAI creates a new OpenAI ChatModel.
func NewOpenAI(ctx context.Context, cfg config.ProviderConfig, apiKey string) (model.BaseChatModel, error) {
	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOpenAIModel
	}

	modelConfig := &einoopenai.ChatModelConfig{
		APIKey: apiKey,
		Model:  modelName,
	}

	if cfg.BaseURL != "" {
		modelConfig.BaseURL = cfg.BaseURL
	}

	if cfg.MaxTokens > 0 {
		maxTokens := cfg.MaxTokens
		modelConfig.MaxCompletionTokens = &maxTokens
	}

	if cfg.Timeout.Duration() > 0 {
		modelConfig.Timeout = cfg.Timeout.Duration()
	} else {
		modelConfig.Timeout = 60 * time.Second
	}

	if temp, ok := cfg.Options["temperature"].(float64); ok {
		t := float32(temp)
		modelConfig.Temperature = &t
	}

	return einoopenai.NewChatModel(ctx, modelConfig)
}
