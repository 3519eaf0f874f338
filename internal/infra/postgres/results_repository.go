package postgres

import (
	"context"
	"fmt"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/jackc/pgx/v5"
)

// DB часть *pgxpool.Pool, нужная архиву
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ResultsRepository архив итогов разделов
type ResultsRepository struct {
	db DB
}

// NewResultsRepository создает новый экземпляр ResultsRepository
func NewResultsRepository(db DB) *ResultsRepository {
	return &ResultsRepository{db: db}
}

// Record сохраняет итог и очки участников в одной транзакции
func (r *ResultsRepository) Record(ctx context.Context, rec model.ResultRecord) error {
	const op = "postgres.ResultsRepository.Record"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}
	defer tx.Rollback(ctx)

	var resultID int64
	err = tx.QueryRow(ctx, `
		INSERT INTO quiz_results (chat_id, run_id, subject, section_start, section_end, answered, reason, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, rec.ChatID, rec.RunID, rec.Subject, rec.Section.Start, rec.Section.End, rec.Answered, rec.Reason, rec.StartedAt, rec.FinishedAt).Scan(&resultID)
	if err != nil {
		return fmt.Errorf("%s: failed to insert result: %w", op, err)
	}

	if len(rec.Scores) > 0 {
		rows := make([][]any, 0, len(rec.Scores))
		for i, s := range rec.Scores {
			rows = append(rows, []any{resultID, i + 1, s.ParticipantID, s.Name, s.Score})
		}
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"quiz_result_scores"},
			[]string{"result_id", "position", "participant_id", "name", "score"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("%s: failed to insert scores: %w", op, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: failed to commit: %w", op, err)
	}
	return nil
}

// History последние limit итогов чата, новые первыми. Очки не загружаются, кроме победителя.
func (r *ResultsRepository) History(ctx context.Context, chatID int64, limit int) ([]model.ResultRecord, error) {
	const op = "postgres.ResultsRepository.History"

	rows, err := r.db.Query(ctx, `
		SELECT r.id, r.run_id, r.subject, r.section_start, r.section_end, r.answered, r.reason, r.started_at, r.finished_at,
		       s.participant_id, s.name, s.score
		FROM quiz_results r
		LEFT JOIN quiz_result_scores s ON s.result_id = r.id AND s.position = 1
		WHERE r.chat_id = $1
		ORDER BY r.finished_at DESC
		LIMIT $2
	`, chatID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query history: %w", op, err)
	}
	defer rows.Close()

	var results []model.ResultRecord
	for rows.Next() {
		rec := model.ResultRecord{ChatID: chatID}
		var (
			winnerID    *int64
			winnerName  *string
			winnerScore *int
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Subject, &rec.Section.Start, &rec.Section.End, &rec.Answered,
			&rec.Reason, &rec.StartedAt, &rec.FinishedAt, &winnerID, &winnerName, &winnerScore); err != nil {
			return nil, fmt.Errorf("%s: failed to scan result: %w", op, err)
		}
		if winnerID != nil {
			rec.Scores = []model.ScoreRecord{{ParticipantID: *winnerID, Name: *winnerName, Score: *winnerScore}}
		}
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: failed to iterate over rows: %w", op, err)
	}
	return results, nil
}
