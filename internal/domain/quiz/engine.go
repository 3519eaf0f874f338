package quiz

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/rs/zerolog"
)

const (
	DefaultQuestionTime = 10 * time.Second
	DefaultGracePeriod  = 2 * time.Second
	DefaultSectionSize  = 50

	// RandomSection выбор случайного раздела в ChooseSection
	RandomSection = -1

	recordTimeout = 5 * time.Second
)

// QuestionBank источник предметов. Reload выполняется снаружи.
type QuestionBank interface {
	Subjects() []string
	Questions(subject string) ([]model.Question, bool)
}

// Publisher доставка вопросов и сообщений в чат
type Publisher interface {
	PublishQuestion(ctx context.Context, chatID int64, text string, options []string, correct int, window time.Duration) (string, error)
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// NameCache отображаемые имена участников, последняя запись побеждает
type NameCache interface {
	Remember(ctx context.Context, participantID int64, name string) error
	Name(ctx context.Context, participantID int64) (string, bool)
}

// ResultRecorder архив итогов разделов
type ResultRecorder interface {
	Record(ctx context.Context, record model.ResultRecord) error
}

// Observer получает события движка для метрик
type Observer interface {
	SessionStarted()
	SessionFinished(reason string)
	QuestionPublished()
	AnswerReceived(result string)
}

// Options настройки движка. Нулевые QuestionTime и SectionSize заменяются значениями по умолчанию,
// отрицательный GracePeriod тоже.
type Options struct {
	QuestionTime time.Duration
	GracePeriod  time.Duration
	SectionSize  int

	Names   NameCache
	Results ResultRecorder
	Metrics Observer
	Logger  *zerolog.Logger

	// Sleep ожидание между вопросами, должно возвращать ошибку при отмене ctx
	Sleep func(ctx context.Context, d time.Duration) error
	Rand  *rand.Rand
}

// Engine движок групповых викторин: по одному планировщику на чат
type Engine struct {
	bank    QuestionBank
	pub     Publisher
	names   NameCache
	results ResultRecorder
	metrics Observer
	logger  zerolog.Logger

	questionTime time.Duration
	gracePeriod  time.Duration
	sectionSize  int
	sleep        func(ctx context.Context, d time.Duration) error

	rngMu sync.Mutex
	rng   *rand.Rand

	registry *registry

	baseCtx  context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	shutOnce sync.Once
}

// NewEngine создает новый экземпляр Engine
func NewEngine(bank QuestionBank, pub Publisher, opts Options) *Engine {
	baseCtx, cancel := context.WithCancel(context.Background())

	e := &Engine{
		bank:         bank,
		pub:          pub,
		names:        opts.Names,
		results:      opts.Results,
		metrics:      opts.Metrics,
		questionTime: opts.QuestionTime,
		gracePeriod:  opts.GracePeriod,
		sectionSize:  opts.SectionSize,
		sleep:        opts.Sleep,
		rng:          opts.Rand,
		registry:     newRegistry(),
		baseCtx:      baseCtx,
		cancel:       cancel,
	}

	if opts.Logger != nil {
		e.logger = opts.Logger.With().Str("component", "quiz").Logger()
	} else {
		e.logger = zerolog.Nop()
	}
	if e.questionTime <= 0 {
		e.questionTime = DefaultQuestionTime
	}
	if e.gracePeriod < 0 {
		e.gracePeriod = DefaultGracePeriod
	}
	if e.sectionSize <= 0 {
		e.sectionSize = DefaultSectionSize
	}
	if e.sleep == nil {
		e.sleep = sleepContext
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.names == nil {
		e.names = nopNames{}
	}
	if e.metrics == nil {
		e.metrics = nopObserver{}
	}

	return e
}

// QuestionTime окно ответа на один вопрос
func (e *Engine) QuestionTime() time.Duration {
	return e.questionTime
}

// SectionSize ширина раздела
func (e *Engine) SectionSize() int {
	return e.sectionSize
}

// cycle время одного вопроса вместе с ожиданием запоздавших ответов
func (e *Engine) cycle() time.Duration {
	return e.questionTime + e.gracePeriod
}

// Shutdown отменяет все планировщики и ждет их завершения. Отчеты при этом не отправляются.
func (e *Engine) Shutdown() {
	e.shutOnce.Do(func() {
		e.cancel()
		e.registry.cancelAll()
	})
	e.wg.Wait()
}

// SessionSnapshot состояние сессии для служебного HTTP
type SessionSnapshot struct {
	ChatID       int64         `json:"chat_id"`
	Phase        string        `json:"phase"`
	Subject      string        `json:"subject,omitempty"`
	Section      model.Section `json:"section"`
	Answered     int           `json:"answered"`
	Total        int           `json:"total"`
	Participants int           `json:"participants"`
	RunID        string        `json:"run_id,omitempty"`
	StartedAt    *time.Time    `json:"started_at,omitempty"`
}

// ActiveSessions снимок всех сессий
func (e *Engine) ActiveSessions() []SessionSnapshot {
	e.registry.sessMu.Lock()
	defer e.registry.sessMu.Unlock()

	snapshots := make([]SessionSnapshot, 0, len(e.registry.sessions))
	for _, s := range e.registry.sessions {
		snap := SessionSnapshot{
			ChatID:       s.chatID,
			Phase:        s.phase.String(),
			Subject:      s.subject,
			Section:      s.section,
			Answered:     s.answered(),
			Total:        s.section.Len(),
			Participants: len(s.board.order),
			RunID:        s.runID,
		}
		if s.phase == PhaseRunning {
			startedAt := s.startedAt
			snap.StartedAt = &startedAt
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots
}

func (e *Engine) reshuffle(q model.Question) ([]string, int) {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return Reshuffle(q, e.rng)
}

func (e *Engine) randomIndex(n int) int {
	e.rngMu.Lock()
	defer e.rngMu.Unlock()

	return e.rng.Intn(n)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type nopNames struct{}

func (nopNames) Remember(context.Context, int64, string) error { return nil }
func (nopNames) Name(context.Context, int64) (string, bool)    { return "", false }

type nopObserver struct{}

func (nopObserver) SessionStarted()        {}
func (nopObserver) SessionFinished(string) {}
func (nopObserver) QuestionPublished()     {}
func (nopObserver) AnswerReceived(string)  {}
