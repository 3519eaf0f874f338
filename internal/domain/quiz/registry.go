package quiz

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

// Phase стадия сессии чата. Завершенные сессии в реестре не хранятся.
type Phase int

const (
	PhaseSelectingSubject Phase = iota
	PhaseSelectingSection
	PhaseRunning
)

func (p Phase) String() string {
	switch p {
	case PhaseSelectingSubject:
		return "selecting_subject"
	case PhaseSelectingSection:
		return "selecting_section"
	case PhaseRunning:
		return "running"
	}
	return "unknown"
}

// scoreboard очки участников с порядком первого появления
type scoreboard struct {
	scores map[int64]int
	order  []int64
}

func newScoreboard() *scoreboard {
	return &scoreboard{scores: make(map[int64]int)}
}

func (b *scoreboard) ensure(participantID int64) {
	if _, ok := b.scores[participantID]; ok {
		return
	}
	b.scores[participantID] = 0
	b.order = append(b.order, participantID)
}

func (b *scoreboard) increment(participantID int64) {
	b.ensure(participantID)
	b.scores[participantID]++
}

// ranked сортирует по убыванию очков, при равенстве раньше идет тот, кто раньше появился
func (b *scoreboard) ranked() []Standing {
	standings := make([]Standing, 0, len(b.order))
	for _, id := range b.order {
		standings = append(standings, Standing{ParticipantID: id, Score: b.scores[id]})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		return standings[i].Score > standings[j].Score
	})
	return standings
}

type session struct {
	chatID    int64
	subject   string
	questions []model.Question
	section   model.Section
	current   int
	board     *scoreboard
	phase     Phase
	runID     string
	startedAt time.Time
}

func newSession(chatID int64) *session {
	return &session{chatID: chatID, phase: PhaseSelectingSubject, board: newScoreboard()}
}

func (s *session) answered() int {
	if s.phase != PhaseRunning {
		return 0
	}
	return s.current - s.section.Start
}

// pollInstance опубликованный вопрос, на который сейчас принимаются ответы
type pollInstance struct {
	pollID   string
	chatID   int64
	runID    string
	correct  int
	answered map[int64]struct{}
}

type handle struct {
	runID     string
	cancel    context.CancelFunc
	startedAt time.Time
}

type answerResult int

const (
	answerStale answerResult = iota
	answerDuplicate
	answerOrphan
	answerWrong
	answerCorrect
)

func (r answerResult) String() string {
	switch r {
	case answerDuplicate:
		return "duplicate"
	case answerWrong:
		return "wrong"
	case answerCorrect:
		return "correct"
	}
	return "stale"
}

// registry владеет сессиями, индексом опросов и хендлами планировщиков.
// Порядок захвата блокировок: handleMu -> sessMu и pollMu -> sessMu.
type registry struct {
	handleMu sync.Mutex
	handles  map[int64]*handle

	pollMu     sync.Mutex
	polls      map[string]*pollInstance
	pollByChat map[int64]string

	sessMu   sync.Mutex
	sessions map[int64]*session
}

func newRegistry() *registry {
	return &registry{
		handles:    make(map[int64]*handle),
		polls:      make(map[string]*pollInstance),
		pollByChat: make(map[int64]string),
		sessions:   make(map[int64]*session),
	}
}

// withChat выполняет fn под handleMu и sessMu. h и s равны nil, если их нет.
func (r *registry) withChat(chatID int64, fn func(h *handle, s *session)) {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()
	r.sessMu.Lock()
	defer r.sessMu.Unlock()

	fn(r.handles[chatID], r.sessions[chatID])
}

// withSession выполняет fn под sessMu
func (r *registry) withSession(chatID int64, fn func(s *session)) {
	r.sessMu.Lock()
	defer r.sessMu.Unlock()

	fn(r.sessions[chatID])
}

// putSession и putHandle вызываются только внутри withChat
func (r *registry) putSession(s *session) {
	r.sessions[s.chatID] = s
}

func (r *registry) dropSession(chatID int64) {
	delete(r.sessions, chatID)
}

func (r *registry) putHandle(chatID int64, h *handle) {
	r.handles[chatID] = h
}

// retire атомарно убирает сессию и хендл чата. Пустой runID снимает любой запуск.
// Сессию получает только одна сторона, поэтому отчет отправляется один раз.
func (r *registry) retire(chatID int64, runID string) (*session, *handle) {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()
	r.sessMu.Lock()
	defer r.sessMu.Unlock()

	s, ok := r.sessions[chatID]
	if !ok || (runID != "" && s.runID != runID) {
		return nil, nil
	}
	delete(r.sessions, chatID)

	h, ok := r.handles[chatID]
	if ok && h.runID == s.runID {
		delete(r.handles, chatID)
	} else {
		h = nil
	}
	return s, h
}

// commitQuestion ставит новый опрос вместо прежнего и сдвигает current.
// Если запуск уже снят, ничего не меняет и возвращает false.
func (r *registry) commitQuestion(p *pollInstance) bool {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()
	r.sessMu.Lock()
	defer r.sessMu.Unlock()

	s, ok := r.sessions[p.chatID]
	if !ok || s.runID != p.runID || s.phase != PhaseRunning || s.current >= s.section.End {
		return false
	}

	if prev, ok := r.pollByChat[p.chatID]; ok {
		delete(r.polls, prev)
	}
	r.polls[p.pollID] = p
	r.pollByChat[p.chatID] = p.pollID
	s.current++

	return true
}

// dropPoll убирает опрос чата. Пустой runID убирает любой.
func (r *registry) dropPoll(chatID int64, runID string) {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()

	pollID, ok := r.pollByChat[chatID]
	if !ok {
		return
	}
	if runID != "" && r.polls[pollID].runID != runID {
		return
	}
	delete(r.polls, pollID)
	delete(r.pollByChat, chatID)
}

// answer засчитывает ответ не больше одного раза на участника и опрос
func (r *registry) answer(pollID string, participantID int64, option int) (answerResult, int64) {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()

	p, ok := r.polls[pollID]
	if !ok {
		return answerStale, 0
	}
	if _, dup := p.answered[participantID]; dup {
		return answerDuplicate, p.chatID
	}
	p.answered[participantID] = struct{}{}

	r.sessMu.Lock()
	defer r.sessMu.Unlock()

	s, ok := r.sessions[p.chatID]
	if !ok || s.runID != p.runID {
		return answerOrphan, p.chatID
	}

	if option != p.correct {
		s.board.ensure(participantID)
		return answerWrong, p.chatID
	}
	s.board.increment(participantID)
	return answerCorrect, p.chatID
}

func (r *registry) pollCount() int {
	r.pollMu.Lock()
	defer r.pollMu.Unlock()

	return len(r.polls)
}

// cancelAll снимает все планировщики. Сессии остаются до конца процесса.
func (r *registry) cancelAll() {
	r.handleMu.Lock()
	defer r.handleMu.Unlock()

	for chatID, h := range r.handles {
		h.cancel()
		delete(r.handles, chatID)
	}
}
