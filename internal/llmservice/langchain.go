package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"

	"document-chat/internal/config"
)

// LangchainGenerator streams completions through langchaingo, covering
// OpenRouter-style OpenAI-compatible endpoints and local Ollama.
type LangchainGenerator struct {
	llm llms.Model
}

func NewLangchainGenerator(cfg *config.LLMConfig) (*LangchainGenerator, error) {
	var llm llms.Model
	var err error
	if cfg.Provider == config.ProviderOllama {
		llm, err = ollama.New(
			ollama.WithServerURL(cfg.BaseURL),
			ollama.WithModel(cfg.Model),
		)
	} else {
		llm, err = openai.New(
			openai.WithBaseURL(cfg.BaseURL),
			openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
			openai.WithModel(cfg.Model),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing LLM: %w", err)
	}
	return &LangchainGenerator{llm: llm}, nil
}

func (g *LangchainGenerator) GenerateStream(ctx context.Context, prompt string, fn func(string) error) error {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}
	_, err := g.llm.GenerateContent(ctx, messages,
		llms.WithStreamingFunc(func(_ context.Context, chunk []byte) error {
			if len(chunk) == 0 {
				return nil
			}
			return fn(string(chunk))
		}),
	)
	return err
}
