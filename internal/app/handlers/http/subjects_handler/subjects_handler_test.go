package subjects_handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counts []service.SubjectInfo

func (c counts) Counts() []service.SubjectInfo { return c }

func TestSubjectsHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	NewSubjectsHandler(counts{{Name: "Fizika", Count: 120}}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"name":"Fizika","questions":120}]`, rec.Body.String())

	rec = httptest.NewRecorder()
	NewSubjectsHandler(counts{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/subjects", nil))
	assert.JSONEq(t, `[]`, rec.Body.String())
}
