package llmservice

import (
	"context"
	"fmt"

	"document-chat/internal/config"
)

// Generator streams completion text for a prompt. Fragments arrive in
// order; fn returning an error stops generation. The stream is finite
// and not restartable.
type Generator interface {
	GenerateStream(ctx context.Context, prompt string, fn func(fragment string) error) error
}

// NewGenerator builds the generation backend selected by the config.
func NewGenerator(cfg *config.LLMConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg), nil
	case config.ProviderOpenRouter, config.ProviderOllama:
		return NewLangchainGenerator(cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
