package middleware

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// Recover перехватывает панику в обработчике, пишет ее в лог и возвращает как ошибку,
// чтобы одна упавшая команда не останавливала бота.
func Recover(logger zerolog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					var e error
					switch x := r.(type) {
					case error:
						e = x
					case string:
						e = errors.New(x)
					default:
						e = fmt.Errorf("unknown panic: %v", x)
					}

					logger.Error().Err(e).Int("update_id", c.Update().ID).Msg("recovered from panic")
					err = e
				}
			}()
			return next(c)
		}
	}
}
