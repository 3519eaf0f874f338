package sessions_handler

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/quiz"
)

// SessionLister источник снимков сессий
type SessionLister interface {
	ActiveSessions() []quiz.SessionSnapshot
}

// SessionsHandler структура для обработчика
type SessionsHandler struct {
	sessions SessionLister
}

// NewSessionsHandler создает новый экземпляр обработчика
func NewSessionsHandler(sessions SessionLister) *SessionsHandler {
	return &SessionsHandler{sessions: sessions}
}

// ServeHTTP отдает все сессии чатов, идущие викторины первыми
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	snapshots := h.sessions.ActiveSessions()
	sort.Slice(snapshots, func(i, j int) bool {
		ri, rj := snapshots[i].RunID != "", snapshots[j].RunID != ""
		if ri != rj {
			return ri
		}
		return snapshots[i].ChatID < snapshots[j].ChatID
	})

	response := SessionsResponse{Sessions: snapshots}
	for _, s := range snapshots {
		if s.StartedAt != nil {
			response.TotalRunning++
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
