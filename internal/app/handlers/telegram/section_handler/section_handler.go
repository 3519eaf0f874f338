package section_handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для запуска раздела
type QuizEngine interface {
	ChooseSection(ctx context.Context, chatID int64, index int) (model.Section, error)
	QuestionTime() time.Duration
}

// SectionHandler обрабатывает нажатие кнопки раздела и запускает викторину
type SectionHandler struct {
	engine QuizEngine
	logger zerolog.Logger
}

// NewSectionHandler возвращает структуру обработчика
func NewSectionHandler(engine QuizEngine, logger zerolog.Logger) *SectionHandler {
	return &SectionHandler{
		engine: engine,
		logger: logger,
	}
}

// Handle запускает раздел. Данные кнопки: номер раздела или "random".
func (h *SectionHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	index := quiz.RandomSection
	if data := c.Data(); data != keyboards.RandomSectionData {
		i, err := strconv.Atoi(data)
		if err != nil || i < 0 {
			return c.Edit(texts.SubjectNotFound)
		}
		index = i
	}

	section, err := h.engine.ChooseSection(ctx, chatID, index)
	switch {
	case errors.Is(err, quiz.ErrAlreadyRunning):
		return c.Respond(&telebot.CallbackResponse{Text: texts.RunningAlert, ShowAlert: true})
	case errors.Is(err, quiz.ErrNoSubjectChosen):
		return c.Respond(&telebot.CallbackResponse{Text: texts.ChooseSubjectPls, ShowAlert: true})
	case errors.Is(err, quiz.ErrUnknownSubject), errors.Is(err, quiz.ErrUnknownSection):
		return c.Edit(texts.SubjectNotFound)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to start section")
		return c.Edit(texts.InternalError)
	}

	return c.Edit(texts.SectionStarted(section.Label(), section.Len(), h.engine.QuestionTime()))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SectionHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
