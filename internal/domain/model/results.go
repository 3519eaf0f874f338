package model

import "time"

// Причины завершения раздела
const (
	FinishCompleted = "completed"
	FinishStopped   = "stopped"
	FinishFailed    = "failed"
)

// ScoreRecord результат одного участника
type ScoreRecord struct {
	ParticipantID int64  `json:"participant_id"`
	Name          string `json:"name"`
	Score         int    `json:"score"`
}

// ResultRecord итог раздела, который уходит в архив
type ResultRecord struct {
	ID         int64         `json:"id,omitempty"`
	ChatID     int64         `json:"chat_id"`
	RunID      string        `json:"run_id"`
	Subject    string        `json:"subject"`
	Section    Section       `json:"section"`
	Answered   int           `json:"answered"`
	Reason     string        `json:"reason"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Scores     []ScoreRecord `json:"scores"`
}
