package model

// Question представляет вопрос из банка. Correct указывает на индекс верного варианта в Options.
type Question struct {
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Correct int      `json:"correct"`
}

// CorrectText возвращает текст верного варианта
func (q Question) CorrectText() string {
	if q.Correct < 0 || q.Correct >= len(q.Options) {
		return ""
	}
	return q.Options[q.Correct]
}
