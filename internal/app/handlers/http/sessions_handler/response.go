package sessions_handler

import "github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"

// SessionsResponse структура для ответа
type SessionsResponse struct {
	TotalRunning int                    `json:"total_running"`
	Sessions     []quiz.SessionSnapshot `json:"sessions"`
}
