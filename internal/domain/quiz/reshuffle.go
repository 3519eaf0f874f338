package quiz

import (
	"math/rand"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

// Reshuffle возвращает перемешанную копию вариантов и новый индекс верного.
// Индекс считается по перестановке, а не по тексту, поэтому одинаковые варианты не сбивают ответ.
func Reshuffle(q model.Question, rng *rand.Rand) ([]string, int) {
	perm := rng.Perm(len(q.Options))

	options := make([]string, len(q.Options))
	correct := -1
	for newIdx, oldIdx := range perm {
		options[newIdx] = q.Options[oldIdx]
		if oldIdx == q.Correct {
			correct = newIdx
		}
	}

	return options, correct
}
