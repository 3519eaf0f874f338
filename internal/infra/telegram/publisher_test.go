package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tele "gopkg.in/telebot.v4"
)

type sentItem struct {
	to   string
	what interface{}
}

type fakeSender struct {
	sent []sentItem
	errs []error
}

func (s *fakeSender) Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error) {
	s.sent = append(s.sent, sentItem{to: to.Recipient(), what: what})
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return nil, err
		}
	}
	if poll, ok := what.(*tele.Poll); ok {
		return &tele.Message{Poll: &tele.Poll{ID: "poll-1", Question: poll.Question}}, nil
	}
	return &tele.Message{Text: what.(string)}, nil
}

func TestPublisher_PublishQuestion(t *testing.T) {
	sender := &fakeSender{}
	pub := NewPublisher(sender, zerolog.Nop())

	pollID, err := pub.PublishQuestion(context.Background(), -100, "[1/2] 2+2?", []string{"3", "4"}, 1, 10*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "poll-1", pollID)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "-100", sender.sent[0].to)

	poll := sender.sent[0].what.(*tele.Poll)
	assert.Equal(t, tele.PollQuiz, poll.Type)
	assert.Equal(t, "[1/2] 2+2?", poll.Question)
	assert.Equal(t, 1, poll.CorrectOption)
	assert.Equal(t, 10, poll.OpenPeriod)
	assert.False(t, poll.Anonymous)
	require.Len(t, poll.Options, 2)
	assert.Equal(t, "4", poll.Options[1].Text)
}

func TestPublisher_TruncatesToBotAPILimits(t *testing.T) {
	sender := &fakeSender{}
	pub := NewPublisher(sender, zerolog.Nop())

	long := strings.Repeat("я", 400)
	options := make([]string, 12)
	for i := range options {
		options[i] = strings.Repeat("b", 150)
	}
	options[11] = "to'g'ri"

	_, err := pub.PublishQuestion(context.Background(), 1, long, options, 11, 10*time.Second)
	require.NoError(t, err)

	poll := sender.sent[0].what.(*tele.Poll)
	assert.Equal(t, maxQuestionLen, utf8.RuneCountInString(poll.Question))
	require.Len(t, poll.Options, maxOptions)
	assert.Equal(t, maxOptionLen, utf8.RuneCountInString(poll.Options[0].Text))
	assert.Equal(t, "to'g'ri", poll.Options[poll.CorrectOption].Text)
}

func TestPublisher_RetriesOnceAfterFlood(t *testing.T) {
	sender := &fakeSender{errs: []error{tele.FloodError{RetryAfter: 0}, nil}}
	pub := NewPublisher(sender, zerolog.Nop())

	require.NoError(t, pub.SendMessage(context.Background(), 5, "salom"))
	assert.Len(t, sender.sent, 2)
}

func TestPublisher_SendError(t *testing.T) {
	boom := errors.New("bad gateway")
	sender := &fakeSender{errs: []error{boom}}
	pub := NewPublisher(sender, zerolog.Nop())

	_, err := pub.PublishQuestion(context.Background(), 5, "q", []string{"a", "b"}, 0, 10*time.Second)
	assert.ErrorIs(t, err, boom)
}
