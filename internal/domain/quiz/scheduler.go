package quiz

import (
	"context"
	"errors"
	"fmt"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

const (
	disappearedMessage   = "⚠️ Xatolik: Fan topilmadi."
	publishFailedMessage = "⚠️ Xatolik: savolni yuborib bo'lmadi. Test to'xtatildi.\n/start - Qayta boshlash"
)

// step то, что планировщик прочитал из сессии в начале итерации
type step struct {
	subject  string
	question model.Question
	number   int
	total    int
	done     bool
}

// next читает сессию запуска runID. ok=false, если запуск уже снят.
func (e *Engine) next(chatID int64, runID string) (st step, ok bool) {
	e.registry.withSession(chatID, func(s *session) {
		if s == nil || s.runID != runID {
			return
		}
		ok = true
		st.subject = s.subject
		st.total = s.section.Len()
		if s.current >= s.section.End {
			st.done = true
			return
		}
		st.question = s.questions[s.current]
		st.number = s.current - s.section.Start + 1
	})
	return st, ok
}

// run цикл одного чата. Отмена учитывается в начале итерации и во время ожидания,
// начатая публикация всегда доводится до конца.
func (e *Engine) run(ctx context.Context, chatID int64, runID string) {
	defer e.wg.Done()

	logger := e.logger.With().Int64("chat_id", chatID).Str("run_id", runID).Logger()
	logger.Debug().Msg("scheduler started")
	defer logger.Debug().Msg("scheduler finished")

	for {
		if ctx.Err() != nil {
			return
		}

		st, ok := e.next(chatID, runID)
		if !ok {
			return
		}
		if st.done {
			e.finish(ctx, chatID, runID)
			return
		}

		if _, ok := e.bank.Questions(st.subject); !ok {
			logger.Warn().Str("subject", st.subject).Msg("subject disappeared, session torn down")
			e.abort(ctx, chatID, runID, disappearedMessage, ErrSubjectDisappeared)
			return
		}

		options, correct := e.reshuffle(st.question)
		text := fmt.Sprintf("[%d/%d] %s", st.number, st.total, st.question.Text)

		pollID, err := e.pub.PublishQuestion(context.WithoutCancel(ctx), chatID, text, options, correct, e.questionTime)
		if err != nil {
			logger.Error().Err(err).Int("question", st.number).Msg("failed to publish question")
			e.abort(ctx, chatID, runID, publishFailedMessage, err)
			return
		}

		committed := e.registry.commitQuestion(&pollInstance{
			pollID:   pollID,
			chatID:   chatID,
			runID:    runID,
			correct:  correct,
			answered: make(map[int64]struct{}),
		})
		if !committed {
			logger.Debug().Str("poll_id", pollID).Msg("run retired while publishing, poll not tracked")
			return
		}
		e.metrics.QuestionPublished()

		if err := e.sleep(ctx, e.cycle()); err != nil {
			return
		}
	}
}

// finish штатное завершение раздела
func (e *Engine) finish(ctx context.Context, chatID int64, runID string) {
	s, _ := e.registry.retire(chatID, runID)
	if s == nil {
		return
	}
	e.registry.dropPoll(chatID, runID)

	ctx = context.WithoutCancel(ctx)
	standings := e.resolveNames(ctx, s.board.ranked())
	if err := e.pub.SendMessage(ctx, chatID, renderFinal(s.section, standings)); err != nil {
		e.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send final report")
	}

	e.metrics.SessionFinished(model.FinishCompleted)
	e.record(ctx, s, model.FinishCompleted, standings)
	e.logger.Info().Int64("chat_id", chatID).Str("run_id", runID).Int("participants", len(standings)).Msg("quiz completed")
}

// abort снимает сессию после ошибки, другие чаты не затрагиваются
func (e *Engine) abort(ctx context.Context, chatID int64, runID, message string, cause error) {
	s, _ := e.registry.retire(chatID, runID)
	if s == nil {
		return
	}
	e.registry.dropPoll(chatID, runID)

	ctx = context.WithoutCancel(ctx)
	if err := e.pub.SendMessage(ctx, chatID, message); err != nil {
		e.logger.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send abort message")
	}

	e.metrics.SessionFinished(model.FinishFailed)
	e.record(ctx, s, model.FinishFailed, e.resolveNames(ctx, s.board.ranked()))

	event := e.logger.Warn()
	if !errors.Is(cause, ErrSubjectDisappeared) {
		event = e.logger.Error()
	}
	event.Err(cause).Int64("chat_id", chatID).Str("run_id", runID).Str("subject", s.subject).Msg("quiz aborted")
}
