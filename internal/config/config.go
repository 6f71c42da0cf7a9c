package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider names accepted for LLM and embedding backends.
const (
	ProviderOpenRouter = "openrouter" // any OpenAI-compatible endpoint
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
)

// Retriever backend names.
const (
	RetrieverMemory  = "memory"
	RetrieverChromem = "chromem"
)

// LLMConfig describes one model endpoint (generation or embedding).
type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	Key      string `yaml:"key"`
}

// RAGConfig tunes the retrieval pipeline.
type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	TopK         int    `yaml:"top_k"`
	Retriever    string `yaml:"retriever"`
}

// ServerConfig configures the HTTP/WebSocket boundary.
type ServerConfig struct {
	Port      string `yaml:"port"`
	UploadDir string `yaml:"upload_dir"`
}

type Config struct {
	LLM       LLMConfig    `yaml:"llm"`
	Embedding LLMConfig    `yaml:"embedding"`
	RAG       RAGConfig    `yaml:"rag"`
	Server    ServerConfig `yaml:"server"`
}

// LoadConfig resolves configuration once at startup. Precedence, highest
// first: process environment, .env file, YAML file, built-in defaults.
func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables are never overwritten.
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// Validate reports missing credentials as a startup-time fatal condition;
// key resolution is never retried at runtime.
func (c *Config) Validate() error {
	if c.LLM.Key == "" && c.LLM.Provider != ProviderOllama {
		return fmt.Errorf("no API key for llm provider %q: set LLM_API_KEY or llm.key", c.LLM.Provider)
	}
	if c.Embedding.Key == "" && c.Embedding.Provider != ProviderOllama {
		return fmt.Errorf("no API key for embedding provider %q: set EMBEDDING_API_KEY or embedding.key", c.Embedding.Provider)
	}
	switch c.RAG.Retriever {
	case RetrieverMemory, RetrieverChromem:
	default:
		return fmt.Errorf("unknown retriever backend %q", c.RAG.Retriever)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderOpenRouter
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderOpenRouter
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 4000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 500
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 8
	}
	if cfg.RAG.Retriever == "" {
		cfg.RAG.Retriever = RetrieverMemory
	}
	if cfg.Server.Port == "" {
		cfg.Server.Port = "8080"
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = "uploads"
	}
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.Key = v
	}
	if v := os.Getenv("EMBEDDING_API_KEY"); v != "" {
		cfg.Embedding.Key = v
	}
	// OPENAI_API_KEY backfills both when the dedicated variables are unset.
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if cfg.LLM.Key == "" {
			cfg.LLM.Key = v
		}
		if cfg.Embedding.Key == "" {
			cfg.Embedding.Key = v
		}
	}
}
