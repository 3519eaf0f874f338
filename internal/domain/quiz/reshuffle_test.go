package quiz

import (
	"math/rand"
	"testing"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestReshuffle_KeepsCorrectOption(t *testing.T) {
	q := model.Question{Text: "Poytaxt?", Options: []string{"Toshkent", "Buxoro", "Xiva", "Termiz"}, Correct: 0}

	for seed := int64(0); seed < 50; seed++ {
		options, correct := Reshuffle(q, rand.New(rand.NewSource(seed)))

		assert.ElementsMatch(t, q.Options, options)
		assert.Equal(t, "Toshkent", options[correct], "seed %d", seed)
	}
	// исходный вопрос не меняется
	assert.Equal(t, []string{"Toshkent", "Buxoro", "Xiva", "Termiz"}, q.Options)
}

func TestReshuffle_Deterministic(t *testing.T) {
	q := model.Question{Options: []string{"a", "b", "c"}, Correct: 2}

	o1, c1 := Reshuffle(q, rand.New(rand.NewSource(3)))
	o2, c2 := Reshuffle(q, rand.New(rand.NewSource(3)))
	assert.Equal(t, o1, o2)
	assert.Equal(t, c1, c2)
}
