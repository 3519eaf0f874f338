package parser

import (
	"bytes"
	"strings"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
)

const (
	blockSeparator = "++++"
	optionPrefix   = "===="
	correctMark    = "#"
)

var bom = []byte("\xef\xbb\xbf")

// Parse разбирает текстовый банк вопросов.
//
// Блоки разделяются строкой "++++". Первая строка блока это текст вопроса,
// строки с префиксом "====" это варианты ответа, вариант с "#" в начале считается верным.
// Блоки без текста вопроса или с числом вариантов меньше двух пропускаются.
func Parse(content []byte) []model.Question {
	content = bytes.TrimPrefix(content, bom)
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	var questions []model.Question
	for _, block := range strings.Split(strings.TrimSpace(text), blockSeparator) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		q, ok := parseBlock(block)
		if !ok {
			continue
		}
		questions = append(questions, q)
	}

	return questions
}

func parseBlock(block string) (model.Question, bool) {
	lines := strings.Split(block, "\n")

	q := model.Question{Text: strings.TrimSpace(lines[0])}
	for _, line := range lines[1:] {
		if !strings.HasPrefix(line, optionPrefix) {
			continue
		}

		option := strings.TrimSpace(strings.TrimPrefix(line, optionPrefix))
		if strings.HasPrefix(option, correctMark) {
			// при нескольких отметках побеждает последняя
			q.Correct = len(q.Options)
			option = strings.TrimSpace(strings.TrimPrefix(option, correctMark))
		}
		q.Options = append(q.Options, option)
	}

	if q.Text == "" || len(q.Options) < 2 {
		return model.Question{}, false
	}
	return q, true
}
