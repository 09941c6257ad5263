// Package ai sends parsed pull-request changes to an LLM backend and decodes
// the model output into validated review comments.
package ai

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Provider is the LLM backend abstraction. Invoke sends a fully built prompt
// and returns the model's raw text output.
type Provider interface {
	Invoke(ctx context.Context, prompt string) (string, error)
	Name() string
}

// ProviderConfig selects and configures an LLM backend.
type ProviderConfig struct {
	Provider       string
	BedrockModelId string
	AWSRegion      string
	OpenAIToken    string
	OpenAIModel    string
}

// NewProvider creates a provider by name.
func NewProvider(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case "bedrock":
		return NewBedrock(ctx, cfg.AWSRegion, cfg.BedrockModelId, logger)
	case "openai":
		return NewOpenAI(cfg.OpenAIToken, cfg.OpenAIModel, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
	}
}
