package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
)

const MaxNameLength = 40

// State шаг диалога добавления предмета
type State int

const (
	StateIdle State = iota
	StateAwaitingName
	StateAwaitingFile
)

var (
	ErrNotInFlow   = errors.New("add-subject flow is not active")
	ErrInvalidName = errors.New("invalid subject name")
	ErrNotTxt      = errors.New("only .txt files are accepted")
)

// SubjectStore сохраняет новый предмет и перезагружает банк
type SubjectStore interface {
	AddSubject(ctx context.Context, name string, content []byte) (int, error)
}

type conversation struct {
	state State
	name  string
}

// Flow диалог добавления предмета для каждого администратора: имя, затем файл
type Flow struct {
	store SubjectStore

	mu     sync.Mutex
	convos map[int64]*conversation
}

// NewFlow создает новый экземпляр Flow
func NewFlow(store SubjectStore) *Flow {
	return &Flow{
		store:  store,
		convos: make(map[int64]*conversation),
	}
}

// Begin начинает диалог заново
func (f *Flow) Begin(adminID int64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.convos[adminID] = &conversation{state: StateAwaitingName}
}

// State текущий шаг администратора
func (f *Flow) State(adminID int64) State {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.convos[adminID]; ok {
		return c.state
	}
	return StateIdle
}

// ReceiveName принимает имя предмета и переводит диалог к ожиданию файла
func (f *Flow) ReceiveName(adminID int64, name string) (string, error) {
	name = strings.TrimSpace(name)

	f.mu.Lock()
	defer f.mu.Unlock()

	c, ok := f.convos[adminID]
	if !ok || c.state != StateAwaitingName {
		return "", ErrNotInFlow
	}

	if strings.HasPrefix(name, "/") || utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrInvalidName
	}
	if err := repository.ValidateName(name); err != nil {
		return "", ErrInvalidName
	}

	c.name = name
	c.state = StateAwaitingFile
	return name, nil
}

// ReceiveFile сохраняет присланный файл под запомненным именем.
// При ошибке в содержимом диалог остается на шаге файла.
func (f *Flow) ReceiveFile(ctx context.Context, adminID int64, fileName string, content []byte) (string, int, error) {
	const op = "admin.Flow.ReceiveFile"

	f.mu.Lock()
	c, ok := f.convos[adminID]
	if !ok || c.state != StateAwaitingFile {
		f.mu.Unlock()
		return "", 0, ErrNotInFlow
	}
	name := c.name
	f.mu.Unlock()

	if !strings.HasSuffix(strings.ToLower(fileName), ".txt") {
		return name, 0, ErrNotTxt
	}

	count, err := f.store.AddSubject(ctx, name, content)
	if err != nil {
		return name, 0, fmt.Errorf("%s: %w", op, err)
	}

	f.mu.Lock()
	if cur, ok := f.convos[adminID]; ok && cur == c {
		delete(f.convos, adminID)
	}
	f.mu.Unlock()

	return name, count, nil
}

// Cancel прерывает диалог. Возвращает false, если диалога не было.
func (f *Flow) Cancel(adminID int64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, ok := f.convos[adminID]
	delete(f.convos, adminID)
	return ok
}
