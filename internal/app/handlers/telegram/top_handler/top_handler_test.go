package top_handler

import (
	"context"
	"testing"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/telegramtest"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEngine struct {
	text string
	err  error
}

func (f fakeEngine) ShowStandings(context.Context, int64) (string, error) {
	return f.text, f.err
}

func TestTopHandler(t *testing.T) {
	c := telegramtest.NewMessage(1, 2, "/top")
	require.NoError(t, NewTopHandler(fakeEngine{err: quiz.ErrNoActiveSession}, zerolog.Nop()).Handle(c))
	require.Len(t, c.Sent(), 1)
	assert.Equal(t, "❌ Test yo'q. /start", c.Sent()[0].Text)

	c = telegramtest.NewMessage(1, 2, "/top")
	require.NoError(t, NewTopHandler(fakeEngine{text: "📊 Reyting"}, zerolog.Nop()).Handle(c))
	require.Len(t, c.Sent(), 1)
	assert.Equal(t, "📊 Reyting", c.Sent()[0].Text)
}
