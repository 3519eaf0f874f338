package subject_handler

import (
	"context"
	"errors"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// QuizEngine часть движка викторины, нужная для выбора предмета
type QuizEngine interface {
	ChooseSubject(ctx context.Context, chatID int64, subject string) (quiz.SubjectChoice, error)
}

// SubjectLister список предметов, по которому строилась клавиатура
type SubjectLister interface {
	Subjects() []string
}

// SubjectHandler обрабатывает нажатие кнопки предмета
type SubjectHandler struct {
	engine   QuizEngine
	subjects SubjectLister
	logger   zerolog.Logger
}

// NewSubjectHandler возвращает структуру обработчика
func NewSubjectHandler(engine QuizEngine, subjects SubjectLister, logger zerolog.Logger) *SubjectHandler {
	return &SubjectHandler{
		engine:   engine,
		subjects: subjects,
		logger:   logger,
	}
}

// Handle запоминает предмет и заменяет клавиатуру на разделы
func (h *SubjectHandler) Handle(c telebot.Context) error {
	ctx := context.Background()
	chatID := c.Chat().ID

	name := keyboards.ResolveSubject(c.Data(), h.subjects.Subjects())
	if name == "" {
		return c.Edit(texts.SubjectNotFound)
	}

	choice, err := h.engine.ChooseSubject(ctx, chatID, name)
	switch {
	case errors.Is(err, quiz.ErrAlreadyRunning):
		return c.Respond(&telebot.CallbackResponse{Text: texts.RunningAlert, ShowAlert: true})
	case errors.Is(err, quiz.ErrUnknownSubject):
		return c.Edit(texts.SubjectNotFound)
	case err != nil:
		h.logger.Error().Err(err).Int64("chat_id", chatID).Str("subject", name).Msg("failed to choose subject")
		return c.Edit(texts.InternalError)
	}

	return c.Edit(texts.SubjectChosen(choice.Subject, choice.Total), keyboards.Sections(choice.Sections))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *SubjectHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
