package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-chat/internal/retriever"
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Ingest a document and answer one question about it",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		path, question := args[0], args[1]
		p := buildPipeline()
		ctx := cmd.Context()

		doc, err := p.ingestor.Process(ctx, path, func(status string) {
			log.Info().Msg(status)
		})
		if err != nil {
			log.Fatal().Err(err).Str("file", path).Msg("Error ingesting document")
		}

		rtr, err := retriever.New(ctx, p.cfg.RAG.Retriever, doc)
		if err != nil {
			log.Fatal().Err(err).Msg("Error building retriever")
		}

		stream := p.synthesizer.Answer(ctx, doc, rtr, question)
		for fragment := range stream.C {
			if fragment.Err != nil {
				fmt.Fprintln(os.Stdout)
				log.Fatal().Err(fragment.Err).Msg("Error answering question")
			}
			fmt.Fprint(os.Stdout, fragment.Text)
		}
		fmt.Fprintln(os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
