// Package models hosts the LLM providers behind the analysis function.
package models

import (
	"context"

	"github.com/dohr-michael/promptdna/internal/dna"
)

// Provider scores a text into an emotion profile.
type Provider interface {
	Name() string
	Analyze(ctx context.Context, text string) (*dna.Profile, error)
}
