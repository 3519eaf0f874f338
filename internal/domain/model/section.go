package model

import "fmt"

// Section полуинтервал [Start, End) по вопросам предмета
type Section struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len количество вопросов в разделе
func (s Section) Len() int {
	return s.End - s.Start
}

// Label подпись раздела для кнопок и сообщений, нумерация с единицы
func (s Section) Label() string {
	return fmt.Sprintf("%d-%d", s.Start+1, s.End)
}

// Sections нарезает предмет длиной total на разделы ширины size. Последний раздел может быть короче.
func Sections(total, size int) []Section {
	if total <= 0 || size <= 0 {
		return nil
	}

	sections := make([]Section, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		sections = append(sections, Section{Start: start, End: min(start+size, total)})
	}
	return sections
}
