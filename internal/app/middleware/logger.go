package middleware

import (
	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// Logger возвращает middleware, которое пишет в лог каждое входящее обновление на уровне debug
func Logger(logger zerolog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if e := logger.Debug(); e.Enabled() {
				e = e.Int("update_id", c.Update().ID)
				if chat := c.Chat(); chat != nil {
					e = e.Int64("chat_id", chat.ID)
				}
				if sender := c.Sender(); sender != nil {
					e = e.Int64("user_id", sender.ID)
				}
				switch {
				case c.Callback() != nil:
					e = e.Str("kind", "callback").Str("unique", c.Callback().Unique)
				case c.PollAnswer() != nil:
					e = e.Str("kind", "poll_answer").Str("poll_id", c.PollAnswer().PollID)
				case c.Message() != nil:
					e = e.Str("kind", "message").Str("text", c.Message().Text)
				}
				e.Msg("update received")
			}

			err := next(c)
			if err != nil {
				logger.Warn().Err(err).Int("update_id", c.Update().ID).Msg("handler returned error")
			}
			return err
		}
	}
}
