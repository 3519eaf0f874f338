package top_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для /top
type QuizEngine interface {
	ShowStandings(ctx context.Context, chatID int64) (string, error)
}

// TopHandler показывает текущую таблицу очков
type TopHandler struct {
	engine QuizEngine
	logger zerolog.Logger
}

// NewTopHandler возвращает структуру обработчика
func NewTopHandler(engine QuizEngine, logger zerolog.Logger) *TopHandler {
	return &TopHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *TopHandler) Handle(c telebot.Context) error {
	chatID := c.Chat().ID

	standings, err := h.engine.ShowStandings(context.Background(), chatID)
	switch {
	case errors.Is(err, quiz.ErrNoActiveSession):
		return c.Send(texts.NoTest)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to show standings")
		return c.Send(texts.InternalError)
	}

	return c.Send(standings)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *TopHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
