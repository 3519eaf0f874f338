package quiz

import "context"

// HandleAnswer засчитывает ответ участника на опрос pollID.
// Ответы на неизвестные и устаревшие опросы, а также повторные ответы молча отбрасываются.
func (e *Engine) HandleAnswer(ctx context.Context, pollID string, participantID int64, option int) {
	result, chatID := e.registry.answer(pollID, participantID, option)
	e.metrics.AnswerReceived(result.String())

	switch result {
	case answerStale, answerDuplicate, answerOrphan:
		e.logger.Debug().
			Str("poll_id", pollID).
			Int64("chat_id", chatID).
			Int64("participant_id", participantID).
			Stringer("result", result).
			Msg("answer discarded")
	}
}
