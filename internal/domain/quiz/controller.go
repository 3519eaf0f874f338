package quiz

import (
	"context"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/google/uuid"
)

// SubjectChoice выбранный предмет и его разделы
type SubjectChoice struct {
	Subject  string
	Total    int
	Sections []model.Section
}

// StartSession сбрасывает прежний выбор чата и возвращает список предметов.
// Если в чате идет викторина, возвращает *AlreadyRunningError.
func (e *Engine) StartSession(ctx context.Context, chatID int64) ([]string, error) {
	var err error
	var subjects []string

	e.registry.withChat(chatID, func(h *handle, s *session) {
		if h != nil {
			err = e.alreadyRunning(s)
			return
		}
		e.registry.dropSession(chatID)

		subjects = e.bank.Subjects()
		if len(subjects) == 0 {
			err = ErrNoContentAvailable
			return
		}
		e.registry.putSession(newSession(chatID))
	})
	if err != nil {
		return nil, err
	}

	return subjects, nil
}

// ChooseSubject запоминает предмет чата и возвращает его разделы
func (e *Engine) ChooseSubject(ctx context.Context, chatID int64, subject string) (SubjectChoice, error) {
	var err error
	var choice SubjectChoice

	e.registry.withChat(chatID, func(h *handle, s *session) {
		if h != nil {
			err = e.alreadyRunning(s)
			return
		}

		questions, ok := e.bank.Questions(subject)
		if !ok {
			err = ErrUnknownSubject
			return
		}

		if s == nil {
			s = newSession(chatID)
			e.registry.putSession(s)
		}
		s.subject = subject
		s.phase = PhaseSelectingSection

		choice = SubjectChoice{
			Subject:  subject,
			Total:    len(questions),
			Sections: model.Sections(len(questions), e.sectionSize),
		}
	})
	if err != nil {
		return SubjectChoice{}, err
	}

	return choice, nil
}

// ChooseSection запускает викторину по разделу index (или RandomSection).
// Вопросы раздела привязываются к сессии в этот момент, перезагрузка банка их уже не меняет.
func (e *Engine) ChooseSection(ctx context.Context, chatID int64, index int) (model.Section, error) {
	var err error
	var section model.Section
	var runID string

	e.registry.withChat(chatID, func(h *handle, s *session) {
		if h != nil {
			err = e.alreadyRunning(s)
			return
		}
		if s == nil || s.subject == "" {
			err = ErrNoSubjectChosen
			return
		}

		questions, ok := e.bank.Questions(s.subject)
		if !ok {
			err = ErrUnknownSubject
			return
		}
		sections := model.Sections(len(questions), e.sectionSize)
		if len(sections) == 0 {
			err = ErrUnknownSubject
			return
		}

		if index == RandomSection {
			index = e.randomIndex(len(sections))
		}
		if index < 0 || index >= len(sections) {
			err = ErrUnknownSection
			return
		}

		section = sections[index]
		runID = uuid.NewString()

		s.questions = questions
		s.section = section
		s.current = section.Start
		s.board = newScoreboard()
		s.phase = PhaseRunning
		s.runID = runID
		s.startedAt = time.Now()

		runCtx, cancel := context.WithCancel(e.baseCtx)
		e.registry.putHandle(chatID, &handle{runID: runID, cancel: cancel, startedAt: s.startedAt})

		e.wg.Add(1)
		go e.run(runCtx, chatID, runID)
	})
	if err != nil {
		return model.Section{}, err
	}

	e.metrics.SessionStarted()
	e.logger.Info().
		Int64("chat_id", chatID).
		Str("run_id", runID).
		Str("section", section.Label()).
		Msg("quiz started")

	return section, nil
}

// StopSession останавливает викторину и возвращает отчет по набранным очкам
func (e *Engine) StopSession(ctx context.Context, chatID int64) (string, error) {
	s, h := e.registry.retire(chatID, "")
	if s == nil {
		return "", ErrNoActiveSession
	}
	if h != nil {
		h.cancel()
	}
	e.registry.dropPoll(chatID, s.runID)

	answered := s.answered()
	standings := e.resolveNames(ctx, s.board.ranked())
	report := renderStopped(answered, s.section, standings)

	if s.phase == PhaseRunning {
		e.metrics.SessionFinished(model.FinishStopped)
		e.record(ctx, s, model.FinishStopped, standings)
	}
	e.logger.Info().
		Int64("chat_id", chatID).
		Str("run_id", s.runID).
		Int("answered", answered).
		Msg("quiz stopped")

	return report, nil
}

// ShowStandings текущая таблица очков чата
func (e *Engine) ShowStandings(ctx context.Context, chatID int64) (string, error) {
	var found bool
	var answered int
	var standings []Standing

	e.registry.withSession(chatID, func(s *session) {
		if s == nil {
			return
		}
		found = true
		answered = s.answered()
		standings = s.board.ranked()
	})
	if !found {
		return "", ErrNoActiveSession
	}

	return renderStandings(answered, e.resolveNames(ctx, standings)), nil
}

// alreadyRunning вызывается под блокировками реестра
func (e *Engine) alreadyRunning(s *session) error {
	left := 0
	if s != nil && s.phase == PhaseRunning {
		left = s.section.End - s.current
	}
	return &AlreadyRunningError{
		QuestionsLeft: left,
		TimeLeft:      time.Duration(left) * e.cycle(),
	}
}

// record сохраняет итог в архив. Ошибка архива не влияет на сессию.
func (e *Engine) record(ctx context.Context, s *session, reason string, standings []Standing) {
	if e.results == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()

	scores := make([]model.ScoreRecord, 0, len(standings))
	for _, st := range standings {
		scores = append(scores, model.ScoreRecord{ParticipantID: st.ParticipantID, Name: st.Name, Score: st.Score})
	}

	err := e.results.Record(ctx, model.ResultRecord{
		ChatID:     s.chatID,
		RunID:      s.runID,
		Subject:    s.subject,
		Section:    s.section,
		Answered:   s.answered(),
		Reason:     reason,
		StartedAt:  s.startedAt,
		FinishedAt: time.Now(),
		Scores:     scores,
	})
	if err != nil {
		e.logger.Error().Err(err).Int64("chat_id", s.chatID).Str("run_id", s.runID).Msg("failed to record result")
	}
}
