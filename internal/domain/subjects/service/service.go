package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/parser"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
	"github.com/rs/zerolog"
)

// MixedSubject псевдо-предмет из всех вопросов, появляется когда загружено больше одного предмета
const MixedSubject = "🎲 Barchasidan"

var (
	ErrEmptySubject = errors.New("subject has no valid questions")
	ErrReserved     = errors.New("subject name is reserved")
)

// Repository источник файлов банка
type Repository interface {
	Load(ctx context.Context) ([]repository.File, error)
	Save(ctx context.Context, name string, content []byte) error
	Delete(ctx context.Context, name string) error
}

// SubjectInfo строка для списка предметов в админке
type SubjectInfo struct {
	Name  string
	Count int
}

// Bank хранит загруженные предметы в памяти. Reload подменяет карту целиком,
// поэтому срезы, выданные через Questions, никогда не меняются.
type Bank struct {
	repo   Repository
	logger zerolog.Logger

	mu       sync.RWMutex
	subjects map[string][]model.Question
	rng      *rand.Rand
}

// NewBank создает новый экземпляр Bank. Для загрузки нужно вызвать Reload.
func NewBank(repo Repository, logger zerolog.Logger) *Bank {
	return &Bank{
		repo:     repo,
		logger:   logger,
		subjects: make(map[string][]model.Question),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Reload перечитывает все предметы и возвращает их количество вместе с псевдо-предметом
func (b *Bank) Reload(ctx context.Context) (int, error) {
	const op = "service.Bank.Reload"

	files, err := b.repo.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	subjects := make(map[string][]model.Question, len(files)+1)
	var all []model.Question
	for _, f := range files {
		questions := parser.Parse(f.Content)
		if len(questions) == 0 {
			b.logger.Warn().Str("subject", f.Name).Msg("subject file has no valid questions, skipped")
			continue
		}
		subjects[f.Name] = questions
		all = append(all, questions...)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(subjects) > 1 {
		b.rng.Shuffle(len(all), func(i, j int) { all[i], all[j] = all[j], all[i] })
		subjects[MixedSubject] = all
	}
	b.subjects = subjects

	b.logger.Info().Strs("subjects", sortedKeys(subjects)).Msg("question bank loaded")
	return len(subjects), nil
}

// Subjects возвращает отсортированный список предметов
func (b *Bank) Subjects() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return sortedKeys(b.subjects)
}

// Questions возвращает вопросы предмета. Срез только для чтения.
func (b *Bank) Questions(name string) ([]model.Question, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	questions, ok := b.subjects[name]
	return questions, ok
}

// Counts количество вопросов по каждому предмету
func (b *Bank) Counts() []SubjectInfo {
	b.mu.RLock()
	defer b.mu.RUnlock()

	infos := make([]SubjectInfo, 0, len(b.subjects))
	for _, name := range sortedKeys(b.subjects) {
		infos = append(infos, SubjectInfo{Name: name, Count: len(b.subjects[name])})
	}
	return infos
}

// AddSubject проверяет и сохраняет новый банк, затем перезагружает предметы.
// Возвращает число разобранных вопросов.
func (b *Bank) AddSubject(ctx context.Context, name string, content []byte) (int, error) {
	const op = "service.Bank.AddSubject"

	if name == MixedSubject {
		return 0, fmt.Errorf("%s: %w", op, ErrReserved)
	}
	if err := repository.ValidateName(name); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	questions := parser.Parse(content)
	if len(questions) == 0 {
		return 0, fmt.Errorf("%s: %w", op, ErrEmptySubject)
	}

	if err := b.repo.Save(ctx, name, content); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if _, err := b.Reload(ctx); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return len(questions), nil
}

// DeleteSubject удаляет файл предмета и перезагружает банк
func (b *Bank) DeleteSubject(ctx context.Context, name string) error {
	const op = "service.Bank.DeleteSubject"

	if name == MixedSubject {
		return fmt.Errorf("%s: %w", op, ErrReserved)
	}
	if err := b.repo.Delete(ctx, name); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := b.Reload(ctx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func sortedKeys(m map[string][]model.Question) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
