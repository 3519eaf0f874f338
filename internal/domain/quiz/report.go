package quiz

import (
	"context"
	"fmt"
	"strings"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

const topLimit = 10

var medals = []string{"🥇", "🥈", "🥉"}

// Standing строка таблицы результатов
type Standing struct {
	ParticipantID int64
	Name          string
	Score         int
}

// Grade оценка по проценту верных ответов
func Grade(percent float64) string {
	switch {
	case percent >= 86:
		return "A'lo"
	case percent >= 71:
		return "Yaxshi"
	case percent >= 56:
		return "Qoniqarli"
	default:
		return "Yiqildi"
	}
}

func rank(i int) string {
	if i < len(medals) {
		return medals[i]
	}
	return fmt.Sprintf("%d.", i+1)
}

func percentOf(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(score) / float64(total) * 100
}

// writeGraded пишет не больше topLimit строк с процентом и оценкой
func writeGraded(b *strings.Builder, standings []Standing, total int) {
	if len(standings) == 0 {
		b.WriteString("Hech kim javob bermadi.\n")
		return
	}
	for i, st := range standings[:min(len(standings), topLimit)] {
		percent := percentOf(st.Score, total)
		fmt.Fprintf(b, "%s %s: %d/%d (%.0f%%) - %s\n", rank(i), st.Name, st.Score, total, percent, Grade(percent))
	}
}

func renderFinal(section model.Section, standings []Standing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "✅ Bo'lim tugadi! (%s)\n\n🏆 Natijalar:\n\n", section.Label())
	writeGraded(&b, standings, section.Len())
	b.WriteString("\n/start - Yangi bo'lim")
	return b.String()
}

func renderStopped(answered int, section model.Section, standings []Standing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⏹ Test to'xtatildi!\n📊 %d ta savol\n\n🏆 Natijalar:\n\n", answered)
	writeGraded(&b, standings, section.Len())
	b.WriteString("\n/start - Yangi test")
	return b.String()
}

func renderStandings(answered int, standings []Standing) string {
	if len(standings) == 0 {
		return "Hali javob yo'q."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Natijalar (%d savol):\n\n", answered)
	for i, st := range standings[:min(len(standings), topLimit)] {
		fmt.Fprintf(&b, "%s %s: %d\n", rank(i), st.Name, st.Score)
	}
	return b.String()
}

// resolveNames подставляет имена из кэша. Неизвестные участники выводятся как "User <id>".
func (e *Engine) resolveNames(ctx context.Context, standings []Standing) []Standing {
	for i := range standings {
		name, ok := e.names.Name(ctx, standings[i].ParticipantID)
		if !ok || name == "" {
			name = fmt.Sprintf("User %d", standings[i].ParticipantID)
		}
		standings[i].Name = name
	}
	return standings
}
