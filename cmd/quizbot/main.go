package main

import (
	"os"

	"github.com/IT-Nick/group-quiz-bot/internal/cli"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Error().Err(err).Msg("quizbot failed")
		os.Exit(1)
	}
}
