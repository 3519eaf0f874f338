package back_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для возврата к предметам
type QuizEngine interface {
	StartSession(ctx context.Context, chatID int64) ([]string, error)
}

// BackHandler возвращает чат от выбора раздела к списку предметов
type BackHandler struct {
	engine QuizEngine
	logger zerolog.Logger
}

// NewBackHandler возвращает структуру обработчика
func NewBackHandler(engine QuizEngine, logger zerolog.Logger) *BackHandler {
	return &BackHandler{
		engine: engine,
		logger: logger,
	}
}

func (h *BackHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	subjects, err := h.engine.StartSession(ctx, chatID)
	switch {
	case errors.Is(err, quiz.ErrAlreadyRunning):
		return c.Respond(&telebot.CallbackResponse{Text: texts.RunningAlert, ShowAlert: true})
	case errors.Is(err, quiz.ErrNoContentAvailable):
		return c.Edit(texts.NoContent)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to reset session")
		return c.Edit(texts.InternalError)
	}

	return c.Edit(texts.ChooseSubject, keyboards.Subjects(subjects))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *BackHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
