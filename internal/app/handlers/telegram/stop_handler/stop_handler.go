package stop_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для /stop
type QuizEngine interface {
	StopSession(ctx context.Context, chatID int64) (string, error)
}

// StopHandler структура для обработки команды /stop
type StopHandler struct {
	engine QuizEngine
	logger zerolog.Logger
}

// NewStopHandler возвращает структуру обработчика
func NewStopHandler(engine QuizEngine, logger zerolog.Logger) *StopHandler {
	return &StopHandler{
		engine: engine,
		logger: logger,
	}
}

// Handle останавливает викторину чата и отправляет промежуточный отчет
func (h *StopHandler) Handle(c telebot.Context) error {
	chatID := c.Chat().ID

	report, err := h.engine.StopSession(context.Background(), chatID)
	switch {
	case errors.Is(err, quiz.ErrNoActiveSession):
		return c.Send(texts.NoActiveSession)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to stop session")
		return c.Send(texts.InternalError)
	}

	return c.Send(report)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StopHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
