package quiz

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"github.com/stretchr/testify/assert"
)

func TestGrade_Bands(t *testing.T) {
	cases := []struct {
		percent float64
		want    string
	}{
		{100, "A'lo"},
		{86, "A'lo"},
		{85.9, "Yaxshi"},
		{71, "Yaxshi"},
		{70.9, "Qoniqarli"},
		{56, "Qoniqarli"},
		{55.9, "Yiqildi"},
		{0, "Yiqildi"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Grade(tc.percent), "процент %.1f", tc.percent)
	}
}

func TestScoreboard_StableDescendingOrder(t *testing.T) {
	b := newScoreboard()
	b.increment(30)
	b.ensure(10)
	b.increment(20)
	b.increment(20)
	b.ensure(40)
	b.increment(50)

	ids := make([]int64, 0)
	for _, st := range b.ranked() {
		ids = append(ids, st.ParticipantID)
	}
	// при равенстве очков сохраняется порядок первого появления
	assert.Equal(t, []int64{20, 30, 50, 10, 40}, ids)
}

func TestRender_TopTenWithMedals(t *testing.T) {
	standings := make([]Standing, 0, 12)
	for i := 0; i < 12; i++ {
		standings = append(standings, Standing{ParticipantID: int64(i), Name: fmt.Sprintf("p%d", i), Score: 12 - i})
	}

	text := renderStandings(5, standings)
	lines := strings.Split(strings.TrimSpace(text), "\n")
	assert.Equal(t, "📊 Natijalar (5 savol):", lines[0])
	assert.Len(t, lines, 2+topLimit)
	assert.Equal(t, "🥇 p0: 12", lines[2])
	assert.Equal(t, "🥉 p2: 10", lines[4])
	assert.Equal(t, "4. p3: 9", lines[5])
	assert.NotContains(t, text, "p10")

	final := renderFinal(model.Section{Start: 50, End: 62}, standings)
	assert.True(t, strings.HasPrefix(final, "✅ Bo'lim tugadi! (51-62)\n\n🏆 Natijalar:\n\n🥇 p0: 12/12 (100%) - A'lo\n"))
	assert.Contains(t, final, "10. p9: 3/12 (25%) - Yiqildi\n")
	assert.True(t, strings.HasSuffix(final, "\n/start - Yangi bo'lim"))
}

func TestResolveNames_Fallback(t *testing.T) {
	e := NewEngine(newFakeBank(nil), newFakePublisher(), Options{Names: newFakeNames(map[int64]string{7: "Olim"})})
	t.Cleanup(e.Shutdown)

	standings := e.resolveNames(context.Background(), []Standing{{ParticipantID: 7}, {ParticipantID: 8}})
	assert.Equal(t, "Olim", standings[0].Name)
	assert.Equal(t, "User 8", standings[1].Name)
}
