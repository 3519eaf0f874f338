package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	resultColumns = []string{"id", "run_id", "subject", "section_start", "section_end", "answered", "reason",
		"started_at", "finished_at", "participant_id", "name", "score"}
	scoreColumns = []string{"result_id", "position", "participant_id", "name", "score"}
)

func newMockRepository(t *testing.T) (*ResultsRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	return NewResultsRepository(mock), mock
}

func sampleRecord() model.ResultRecord {
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return model.ResultRecord{
		ChatID:     -100,
		RunID:      "run-1",
		Subject:    "Fizika",
		Section:    model.Section{Start: 0, End: 50},
		Answered:   50,
		Reason:     model.FinishCompleted,
		StartedAt:  started,
		FinishedAt: started.Add(20 * time.Minute),
		Scores: []model.ScoreRecord{
			{ParticipantID: 1, Name: "Ali", Score: 40},
			{ParticipantID: 2, Name: "Vali", Score: 31},
		},
	}
}

func TestResultsRepository_Record(t *testing.T) {
	ctx := context.Background()
	rec := sampleRecord()

	t.Run("result and scores in one transaction", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO quiz_results").
			WithArgs(rec.ChatID, rec.RunID, rec.Subject, rec.Section.Start, rec.Section.End, rec.Answered,
				rec.Reason, rec.StartedAt, rec.FinishedAt).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(42)))
		mock.ExpectCopyFrom(pgx.Identifier{"quiz_result_scores"}, scoreColumns).WillReturnResult(2)
		mock.ExpectCommit()

		require.NoError(t, repo.Record(ctx, rec))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no scores skips copy", func(t *testing.T) {
		repo, mock := newMockRepository(t)
		empty := rec
		empty.Scores = nil

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO quiz_results").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(43)))
		mock.ExpectCommit()

		require.NoError(t, repo.Record(ctx, empty))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("copy failure rolls back", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO quiz_results").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(44)))
		mock.ExpectCopyFrom(pgx.Identifier{"quiz_result_scores"}, scoreColumns).
			WillReturnError(errors.New("copy failed"))
		mock.ExpectRollback()

		err := repo.Record(ctx, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres.ResultsRepository.Record: failed to insert scores")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectBegin().WillReturnError(errors.New("pool closed"))

		err := repo.Record(ctx, rec)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to begin transaction")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestResultsRepository_History(t *testing.T) {
	ctx := context.Background()
	rec := sampleRecord()

	t.Run("winner joined when present", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		winnerID, winnerName, winnerScore := int64(1), "Ali", 40
		mock.ExpectQuery(`LEFT JOIN quiz_result_scores s ON s.result_id = r.id AND s.position = 1`).
			WithArgs(rec.ChatID, 5).
			WillReturnRows(pgxmock.NewRows(resultColumns).
				AddRow(int64(2), "run-2", "Tarix", 50, 60, 3, model.FinishStopped,
					rec.StartedAt, rec.FinishedAt, nil, nil, nil).
				AddRow(int64(1), rec.RunID, rec.Subject, rec.Section.Start, rec.Section.End, rec.Answered, rec.Reason,
					rec.StartedAt, rec.FinishedAt, &winnerID, &winnerName, &winnerScore))

		results, err := repo.History(ctx, rec.ChatID, 5)
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, "run-2", results[0].RunID)
		assert.Equal(t, model.Section{Start: 50, End: 60}, results[0].Section)
		assert.Equal(t, model.FinishStopped, results[0].Reason)
		assert.Empty(t, results[0].Scores)

		assert.Equal(t, int64(1), results[1].ID)
		assert.Equal(t, rec.ChatID, results[1].ChatID)
		assert.Equal(t, []model.ScoreRecord{{ParticipantID: 1, Name: "Ali", Score: 40}}, results[1].Scores)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		repo, mock := newMockRepository(t)

		mock.ExpectQuery("FROM quiz_results").WillReturnError(errors.New("timeout"))

		_, err := repo.History(ctx, rec.ChatID, 5)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "postgres.ResultsRepository.History: failed to query history")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
