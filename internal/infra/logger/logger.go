package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup настраивает глобальный zerolog и возвращает логгер приложения.
//   - level: trace, debug, info, warn, error
//   - format: "json" для продакшена, "pretty" для консоли
func Setup(level, format string) zerolog.Logger {
	return New(os.Stdout, level, format)
}

// New то же, что Setup, но с произвольным writer
func New(out io.Writer, level, format string) zerolog.Logger {
	writer := out
	if format == "pretty" {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	logger := zerolog.New(writer).With().Timestamp().Str("app", "quizbot").Logger()
	log.Logger = logger

	return logger
}
