package poll_answer_handler

import (
	"context"

	"gopkg.in/telebot.v4"
)

// AnswerCollector принимает ответы на опросы викторины
type AnswerCollector interface {
	HandleAnswer(ctx context.Context, pollID string, participantID int64, option int)
}

// PollAnswerHandler передает ответы на quiz-опросы в движок
type PollAnswerHandler struct {
	collector AnswerCollector
}

// NewPollAnswerHandler возвращает структуру обработчика
func NewPollAnswerHandler(collector AnswerCollector) *PollAnswerHandler {
	return &PollAnswerHandler{collector: collector}
}

// Handle учитывает только первый выбранный вариант. Отозванный голос приходит с пустым списком и игнорируется.
func (h *PollAnswerHandler) Handle(c telebot.Context) error {
	answer := c.PollAnswer()
	if answer == nil || answer.Sender == nil || len(answer.Options) == 0 {
		return nil
	}

	h.collector.HandleAnswer(context.Background(), answer.PollID, answer.Sender.ID, answer.Options[0])
	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *PollAnswerHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
