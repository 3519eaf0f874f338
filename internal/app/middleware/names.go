package middleware

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"
)

// NameCache запоминает отображаемые имена участников
type NameCache interface {
	Remember(ctx context.Context, participantID int64, name string) error
}

// RememberSender сохраняет имя отправителя любого обновления, включая ответы на опросы
func RememberSender(names NameCache, logger zerolog.Logger) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if sender := c.Sender(); sender != nil && !sender.IsBot {
				if name := DisplayName(sender); name != "" {
					if err := names.Remember(context.Background(), sender.ID, name); err != nil {
						logger.Warn().Err(err).Int64("user_id", sender.ID).Msg("failed to remember name")
					}
				}
			}
			return next(c)
		}
	}
}

// DisplayName имя пользователя: first_name, иначе @username
func DisplayName(u *tele.User) string {
	if name := strings.TrimSpace(u.FirstName); name != "" {
		return name
	}
	if u.Username != "" {
		return "@" + u.Username
	}
	return ""
}
