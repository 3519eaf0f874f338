package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const mathBank = "1+1?\n==== #2\n==== 3\n++++\n2+2?\n==== 3\n==== #4\n"

func newTestBank(t *testing.T) *Bank {
	t.Helper()
	repo := repository.NewFileRepository(filepath.Join(t.TempDir(), "subjects"))
	return NewBank(repo, zerolog.Nop())
}

func TestBank_SingleSubjectHasNoMixed(t *testing.T) {
	ctx := context.Background()
	bank := newTestBank(t)

	n, err := bank.AddSubject(ctx, "Math", []byte(mathBank))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, []string{"Math"}, bank.Subjects())
	questions, ok := bank.Questions("Math")
	require.True(t, ok)
	assert.Len(t, questions, 2)
}

func TestBank_MixedSubject(t *testing.T) {
	ctx := context.Background()
	bank := newTestBank(t)

	_, err := bank.AddSubject(ctx, "Math", []byte(mathBank))
	require.NoError(t, err)
	_, err = bank.AddSubject(ctx, "Tarix", []byte("Yil?\n==== #1991\n==== 1990\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Math", "Tarix", MixedSubject}, bank.Subjects())

	mixed, ok := bank.Questions(MixedSubject)
	require.True(t, ok)
	assert.Len(t, mixed, 3)

	assert.Equal(t, []SubjectInfo{
		{Name: "Math", Count: 2},
		{Name: "Tarix", Count: 1},
		{Name: MixedSubject, Count: 3},
	}, bank.Counts())

	require.NoError(t, bank.DeleteSubject(ctx, "Tarix"))
	_, ok = bank.Questions(MixedSubject)
	assert.False(t, ok, "псевдо-предмет должен исчезнуть при одном предмете")
}

func TestBank_ReloadKeepsPreviouslyReturnedSlices(t *testing.T) {
	ctx := context.Background()
	bank := newTestBank(t)

	_, err := bank.AddSubject(ctx, "Math", []byte(mathBank))
	require.NoError(t, err)
	before, _ := bank.Questions("Math")

	_, err = bank.AddSubject(ctx, "Math", []byte("Yangi?\n==== #a\n==== b\n"))
	require.NoError(t, err)

	after, _ := bank.Questions("Math")
	assert.Len(t, before, 2)
	assert.Equal(t, "1+1?", before[0].Text)
	assert.Len(t, after, 1)
}

func TestBank_RejectsInvalidContent(t *testing.T) {
	ctx := context.Background()
	bank := newTestBank(t)

	_, err := bank.AddSubject(ctx, "Bo'sh", []byte("faqat matn"))
	assert.ErrorIs(t, err, ErrEmptySubject)

	_, err = bank.AddSubject(ctx, MixedSubject, []byte(mathBank))
	assert.ErrorIs(t, err, ErrReserved)

	_, err = bank.AddSubject(ctx, "../x", []byte(mathBank))
	assert.ErrorIs(t, err, repository.ErrInvalidName)

	err = bank.DeleteSubject(ctx, "Yo'q")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, bank.Subjects())
}
