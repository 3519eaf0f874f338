package middleware

import (
	tele "gopkg.in/telebot.v4"
)

// AdminOnly пропускает обновления только от администраторов. Проверяется отправитель, а не чат,
// поэтому команды работают и в группах.
func AdminOnly(isAdmin func(userID int64) bool, deny string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if sender := c.Sender(); sender != nil && isAdmin(sender.ID) {
				return next(c)
			}
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: deny, ShowAlert: true})
			}
			return c.Send(deny)
		}
	}
}
