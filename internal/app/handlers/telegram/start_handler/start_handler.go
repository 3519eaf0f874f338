package start_handler

import (
	"context"
	"errors"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для /start
type QuizEngine interface {
	StartSession(ctx context.Context, chatID int64) ([]string, error)
	QuestionTime() time.Duration
}

// StartHandler структура для обработки команды /start
type StartHandler struct {
	engine QuizEngine
	logger zerolog.Logger
}

// NewStartHandler возвращает структуру обработчика
func NewStartHandler(engine QuizEngine, logger zerolog.Logger) *StartHandler {
	return &StartHandler{
		engine: engine,
		logger: logger,
	}
}

// Handle сбрасывает выбор чата и показывает клавиатуру предметов
func (h *StartHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	subjects, err := h.engine.StartSession(ctx, chatID)

	var running *quiz.AlreadyRunningError
	switch {
	case errors.As(err, &running):
		return c.Send(texts.AlreadyRunning(running.QuestionsLeft, running.TimeLeft))
	case errors.Is(err, quiz.ErrNoContentAvailable):
		return c.Send(texts.NoContent)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to start session")
		return c.Send(texts.InternalError)
	}

	return c.Send(texts.Welcome(len(subjects), h.engine.QuestionTime()), keyboards.Subjects(subjects))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *StartHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
