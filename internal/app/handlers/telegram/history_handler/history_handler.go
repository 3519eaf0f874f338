package history_handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

const historyLimit = 10

// ResultsHistory архив завершенных викторин
type ResultsHistory interface {
	History(ctx context.Context, chatID int64, limit int) ([]model.ResultRecord, error)
}

// HistoryHandler структура для обработки команды /history
type HistoryHandler struct {
	results ResultsHistory
	logger  zerolog.Logger
}

// NewHistoryHandler возвращает структуру обработчика. results может быть nil, если архив выключен.
func NewHistoryHandler(results ResultsHistory, logger zerolog.Logger) *HistoryHandler {
	return &HistoryHandler{
		results: results,
		logger:  logger,
	}
}

func (h *HistoryHandler) Handle(c telebot.Context) error {
	if h.results == nil {
		return c.Send("Natijalar arxivi o'chirilgan.")
	}

	chatID := c.Chat().ID
	records, err := h.results.History(context.Background(), chatID, historyLimit)
	if err != nil {
		h.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to load history")
		return c.Send(texts.InternalError)
	}
	if len(records) == 0 {
		return c.Send("Hali natijalar yo'q.")
	}

	return c.Send(render(records))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *HistoryHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

func render(records []model.ResultRecord) string {
	var b strings.Builder
	b.WriteString("📜 So'nggi natijalar:\n")

	for i, rec := range records {
		mark := "✅"
		switch rec.Reason {
		case model.FinishStopped:
			mark = "🛑"
		case model.FinishFailed:
			mark = "⚠️"
		}

		fmt.Fprintf(&b, "\n%d. %s %s | %s (%s) | %d/%d",
			i+1, mark, rec.FinishedAt.Format("02.01 15:04"), rec.Subject, rec.Section.Label(), rec.Answered, rec.Section.Len())
		if len(rec.Scores) > 0 {
			w := rec.Scores[0]
			fmt.Fprintf(&b, " | 🏆 %s (%d)", w.Name, w.Score)
		}
	}

	return b.String()
}
