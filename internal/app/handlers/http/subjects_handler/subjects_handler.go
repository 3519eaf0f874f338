package subjects_handler

import (
	"encoding/json"
	"net/http"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/service"
)

// SubjectCounter источник количества вопросов по предметам
type SubjectCounter interface {
	Counts() []service.SubjectInfo
}

type subjectResponse struct {
	Name      string `json:"name"`
	Questions int    `json:"questions"`
}

// SubjectsHandler структура для обработчика
type SubjectsHandler struct {
	bank SubjectCounter
}

// NewSubjectsHandler создает новый экземпляр обработчика
func NewSubjectsHandler(bank SubjectCounter) *SubjectsHandler {
	return &SubjectsHandler{bank: bank}
}

// ServeHTTP отдает загруженные предметы
func (h *SubjectsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	infos := h.bank.Counts()
	response := make([]subjectResponse, 0, len(infos))
	for _, info := range infos {
		response = append(response, subjectResponse{Name: info.Name, Questions: info.Count})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}
