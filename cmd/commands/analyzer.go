package commands

import (
	"context"
	"fmt"

	"github.com/dohr-michael/promptdna/internal/analysis"
	"github.com/dohr-michael/promptdna/internal/config"
	"github.com/dohr-michael/promptdna/internal/models"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

// newAnalyzer returns the remote function client, or with local set, the
// configured model provider called in-process. endpoint describes the target.
func newAnalyzer(ctx context.Context, cfg *config.Config, local bool, model string) (analyzer workflow.Analyzer, endpoint string, err error) {
	if !local {
		client := analysis.NewFunctionClient(cfg.Client)
		return client, client.Endpoint(), nil
	}

	registry := models.NewRegistry(cfg.Models)
	if model == "" {
		model = registry.DefaultName()
	}
	provider, err := registry.Get(ctx, model)
	if err != nil {
		return nil, "", fmt.Errorf("init model %q: %w", model, err)
	}
	return provider, "local:" + provider.Name(), nil
}
