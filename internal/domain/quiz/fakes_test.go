package quiz

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

const waitTimeout = 2 * time.Second

type fakeBank struct {
	mu       sync.RWMutex
	subjects map[string][]model.Question
}

func newFakeBank(subjects map[string][]model.Question) *fakeBank {
	return &fakeBank{subjects: subjects}
}

func (b *fakeBank) Subjects() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	names := make([]string, 0, len(b.subjects))
	for name := range b.subjects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (b *fakeBank) Questions(subject string) ([]model.Question, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	q, ok := b.subjects[subject]
	return q, ok
}

func (b *fakeBank) remove(subject string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.subjects, subject)
}

type publishedPoll struct {
	chatID  int64
	pollID  string
	text    string
	options []string
	correct int
	window  time.Duration
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakePublisher struct {
	mu         sync.Mutex
	seq        int
	publishErr error

	polls    chan publishedPoll
	messages chan sentMessage
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{
		polls:    make(chan publishedPoll, 64),
		messages: make(chan sentMessage, 64),
	}
}

func (p *fakePublisher) PublishQuestion(ctx context.Context, chatID int64, text string, options []string, correct int, window time.Duration) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.publishErr != nil {
		return "", p.publishErr
	}
	p.seq++
	poll := publishedPoll{
		chatID:  chatID,
		pollID:  fmt.Sprintf("poll-%d", p.seq),
		text:    text,
		options: options,
		correct: correct,
		window:  window,
	}
	p.polls <- poll
	return poll.pollID, nil
}

func (p *fakePublisher) SendMessage(ctx context.Context, chatID int64, text string) error {
	p.messages <- sentMessage{chatID: chatID, text: text}
	return nil
}

func (p *fakePublisher) failWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.publishErr = err
}

func (p *fakePublisher) nextPoll(t *testing.T) publishedPoll {
	t.Helper()
	select {
	case poll := <-p.polls:
		return poll
	case <-time.After(waitTimeout):
		t.Fatal("опрос не был опубликован")
	}
	return publishedPoll{}
}

func (p *fakePublisher) nextMessage(t *testing.T) sentMessage {
	t.Helper()
	select {
	case msg := <-p.messages:
		return msg
	case <-time.After(waitTimeout):
		t.Fatal("сообщение не было отправлено")
	}
	return sentMessage{}
}

// stepper заменяет ожидание между вопросами: планировщик стоит, пока тест не отпустит шаг
type stepper struct {
	ticks chan chan struct{}
}

func newStepper() *stepper {
	return &stepper{ticks: make(chan chan struct{})}
}

func (s *stepper) sleep(ctx context.Context, d time.Duration) error {
	release := make(chan struct{})
	select {
	case s.ticks <- release:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *stepper) wait(t *testing.T) chan struct{} {
	t.Helper()
	select {
	case release := <-s.ticks:
		return release
	case <-time.After(waitTimeout):
		t.Fatal("планировщик не дошел до ожидания")
	}
	return nil
}

type fakeNames struct {
	mu    sync.Mutex
	names map[int64]string
}

func newFakeNames(names map[int64]string) *fakeNames {
	return &fakeNames{names: names}
}

func (n *fakeNames) Remember(ctx context.Context, id int64, name string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.names[id] = name
	return nil
}

func (n *fakeNames) Name(ctx context.Context, id int64) (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	name, ok := n.names[id]
	return name, ok
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []model.ResultRecord
	err     error
}

func (r *fakeRecorder) Record(ctx context.Context, record model.ResultRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records = append(r.records, record)
	return r.err
}

func (r *fakeRecorder) all() []model.ResultRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]model.ResultRecord(nil), r.records...)
}

type countingObserver struct {
	mu        sync.Mutex
	started   int
	finished  map[string]int
	published int
	answers   map[string]int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{finished: map[string]int{}, answers: map[string]int{}}
}

func (o *countingObserver) SessionStarted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *countingObserver) SessionFinished(reason string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished[reason]++
}

func (o *countingObserver) QuestionPublished() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.published++
}

func (o *countingObserver) AnswerReceived(result string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.answers[result]++
}

func (o *countingObserver) answerCount(result string) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.answers[result]
}

var errPublish = errors.New("telegram: bad gateway")

func mathQuestions() []model.Question {
	return []model.Question{
		{Text: "1+1?", Options: []string{"1", "2", "3"}, Correct: 1},
		{Text: "2+2?", Options: []string{"4", "5"}, Correct: 0},
		{Text: "3+3?", Options: []string{"5", "6", "7", "8"}, Correct: 1},
	}
}

type testEnv struct {
	engine   *Engine
	bank     *fakeBank
	pub      *fakePublisher
	steps    *stepper
	names    *fakeNames
	recorder *fakeRecorder
	observer *countingObserver
}

func newTestEnv(t *testing.T, subjects map[string][]model.Question) *testEnv {
	t.Helper()

	env := &testEnv{
		bank:     newFakeBank(subjects),
		pub:      newFakePublisher(),
		steps:    newStepper(),
		names:    newFakeNames(map[int64]string{1: "Ali", 2: "Vali"}),
		recorder: &fakeRecorder{},
		observer: newCountingObserver(),
	}
	env.engine = NewEngine(env.bank, env.pub, Options{
		SectionSize: 2,
		GracePeriod: DefaultGracePeriod,
		Names:       env.names,
		Results:     env.recorder,
		Metrics:     env.observer,
		Sleep:       env.steps.sleep,
		Rand:        rand.New(rand.NewSource(1)),
	})
	t.Cleanup(env.engine.Shutdown)

	return env
}

// startSection проводит чат через выбор предмета и раздела
func (env *testEnv) startSection(t *testing.T, chatID int64, subject string, index int) model.Section {
	t.Helper()
	ctx := context.Background()

	if _, err := env.engine.StartSession(ctx, chatID); err != nil {
		t.Fatalf("StartSession вернул ошибку: %v", err)
	}
	if _, err := env.engine.ChooseSubject(ctx, chatID, subject); err != nil {
		t.Fatalf("ChooseSubject вернул ошибку: %v", err)
	}
	section, err := env.engine.ChooseSection(ctx, chatID, index)
	if err != nil {
		t.Fatalf("ChooseSection вернул ошибку: %v", err)
	}
	return section
}

func wrongOption(poll publishedPoll) int {
	return (poll.correct + 1) % len(poll.options)
}
