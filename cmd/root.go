package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-chat/internal/chunker"
	"document-chat/internal/config"
	"document-chat/internal/embedding"
	"document-chat/internal/ingest"
	"document-chat/internal/llmservice"
	"document-chat/internal/rag"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "document-chat",
	Short: "Chat with a document: upload it, ask questions, get grounded answers",
	Long: `document-chat answers natural-language questions about an uploaded
document. Summary questions are answered from the full text; specific
questions are answered from the most similar excerpts, with the source
pages cited after the answer.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		if debug {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "configs/config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
}

// pipeline holds the wired capabilities shared by the commands.
type pipeline struct {
	cfg         *config.Config
	ingestor    *ingest.Ingestor
	synthesizer *rag.Synthesizer
}

// buildPipeline loads and validates config, then wires the embedding,
// chunking and generation capabilities. Misconfiguration is fatal here,
// never retried at runtime.
func buildPipeline() *pipeline {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	chk, err := chunker.New(cfg.RAG.ChunkSize, cfg.RAG.ChunkOverlap)
	if err != nil {
		log.Fatal().Err(err).
			Int("chunk_size", cfg.RAG.ChunkSize).
			Int("chunk_overlap", cfg.RAG.ChunkOverlap).
			Msg("Invalid chunking configuration")
	}

	embedder, err := embedding.NewEmbedder(&cfg.Embedding)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing embedder")
	}

	generator, err := llmservice.NewGenerator(&cfg.LLM)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing generator")
	}

	return &pipeline{
		cfg:         cfg,
		ingestor:    ingest.New(chk, embedder),
		synthesizer: rag.NewSynthesizer(embedder, generator, cfg.RAG.TopK),
	}
}
