package cmd

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-chat/internal/server"
	"document-chat/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP/WebSocket chat server",
	Run: func(cmd *cobra.Command, args []string) {
		p := buildPipeline()
		srv := server.New(
			session.NewRegistry(),
			p.ingestor,
			p.synthesizer,
			p.cfg.RAG.Retriever,
			p.cfg.Server.UploadDir,
		)
		if err := srv.Run(p.cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("Server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
