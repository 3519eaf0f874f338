package texts

import (
	"fmt"
	"time"
)

const (
	NoContent        = "😔 Hozircha testlar yo'q. Adminni kuting."
	ChooseSubject    = "Fanni tanlang:"
	SubjectNotFound  = "⚠️ Fan topilmadi."
	ChooseSubjectPls = "Iltimos, fanni tanlang!"
	RunningAlert     = "Test davom etmoqda!"
	NoActiveSession  = "❌ Faol test yo'q."
	NoTest           = "❌ Test yo'q. /start"
	InternalError    = "⚠️ Xatolik yuz berdi. Keyinroq urinib ko'ring."
	NotAdmin         = "Siz admin emassiz!"
	Cancelled        = "Bekor qilindi."
)

// Welcome приветствие со списком предметов
func Welcome(subjects int, questionTime time.Duration) string {
	return fmt.Sprintf("🎓 Quiz Bot\n\n📚 %d ta fan mavjud\n⏱ Har bir savol %d sek\n\n%s",
		subjects, int(questionTime.Seconds()), ChooseSubject)
}

// AlreadyRunning подсказка, когда в чате уже идет викторина
func AlreadyRunning(questionsLeft int, timeLeft time.Duration) string {
	if questionsLeft <= 0 {
		return "⚠️ Test davom etmoqda!\n/stop - To'xtatish"
	}
	return fmt.Sprintf("⚠️ Test davom etmoqda!\n⏳ Qolgan: %d ta savol (~%s)\n/stop - To'xtatish",
		questionsLeft, Clock(timeLeft))
}

// SubjectChosen сообщение над клавиатурой разделов
func SubjectChosen(subject string, total int) string {
	return fmt.Sprintf("📚 Fan: %s\n📝 Jammi savollar: %d ta\n\nBo'limni tanlang:", subject, total)
}

// SectionStarted сообщение о начале раздела
func SectionStarted(label string, questions int, questionTime time.Duration) string {
	return fmt.Sprintf("✅ Bo'lim: %s\n📝 %d ta savol\n⏱ Har biri %d sek\n\n🚀 Boshlanmoqda...",
		label, questions, int(questionTime.Seconds()))
}

// Clock длительность в виде м:сс
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
