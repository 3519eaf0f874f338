package telegram

import (
	"context"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// Ограничения Bot API для опросов
const (
	maxQuestionLen = 300
	maxOptionLen   = 100
	maxOptions     = 10
)

// Sender часть *telebot.Bot, которой достаточно для отправки
type Sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// Publisher отправляет вопросы викторины как quiz-опросы Telegram
type Publisher struct {
	bot    Sender
	logger zerolog.Logger
}

// NewPublisher создает новый экземпляр Publisher
func NewPublisher(bot Sender, logger zerolog.Logger) *Publisher {
	return &Publisher{bot: bot, logger: logger}
}

// PublishQuestion отправляет неанонимный quiz-опрос с open_period равным window и возвращает id опроса
func (p *Publisher) PublishQuestion(ctx context.Context, chatID int64, text string, options []string, correct int, window time.Duration) (string, error) {
	const op = "telegram.Publisher.PublishQuestion"

	options, correct = fitOptions(options, correct)

	poll := &tele.Poll{
		Type:          tele.PollQuiz,
		Question:      truncate(text, maxQuestionLen),
		CorrectOption: correct,
		Anonymous:     false,
		OpenPeriod:    int(window / time.Second),
	}
	for _, o := range options {
		poll.Options = append(poll.Options, tele.PollOption{Text: truncate(o, maxOptionLen)})
	}

	msg, err := p.send(ctx, tele.ChatID(chatID), poll)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if msg == nil || msg.Poll == nil {
		return "", fmt.Errorf("%s: telegram returned no poll", op)
	}

	return msg.Poll.ID, nil
}

// SendMessage отправляет текст в чат
func (p *Publisher) SendMessage(ctx context.Context, chatID int64, text string) error {
	const op = "telegram.Publisher.SendMessage"

	if _, err := p.send(ctx, tele.ChatID(chatID), text); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// send повторяет отправку один раз после FloodError
func (p *Publisher) send(ctx context.Context, to tele.Recipient, what interface{}) (*tele.Message, error) {
	msg, err := p.bot.Send(to, what)

	var flood tele.FloodError
	if !errors.As(err, &flood) {
		return msg, err
	}

	wait := time.Duration(flood.RetryAfter) * time.Second
	p.logger.Warn().Str("chat", to.Recipient()).Dur("retry_after", wait).Msg("telegram flood limit, retrying")

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.C:
	}

	return p.bot.Send(to, what)
}

// fitOptions оставляет не больше maxOptions вариантов, верный вариант сохраняется
func fitOptions(options []string, correct int) ([]string, int) {
	if len(options) <= maxOptions {
		return options, correct
	}

	fitted := append([]string(nil), options[:maxOptions]...)
	if correct >= maxOptions {
		fitted[maxOptions-1] = options[correct]
		correct = maxOptions - 1
	}
	return fitted, correct
}

func truncate(s string, limit int) string {
	if s == "" {
		return "-"
	}
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}
