package keyboards

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/IT-Nick/group-quiz-bot/internal/domain/model"
	"gopkg.in/telebot.v4"
)

// Уникальные идентификаторы callback кнопок
const (
	UniqueSubject   = "sub"
	UniqueSection   = "sec"
	UniqueBack      = "back_to_subjects"
	UniqueAdminAdd  = "adm_add"
	UniqueAdminDel  = "adm_del"
	UniqueAdminList = "adm_list"
	UniqueReload    = "adm_reload"
	UniqueAdminBack = "adm_back"
	UniqueConfirm   = "confirm_del"

	RandomSectionData = "random"

	// callback_data ограничен 64 байтами вместе с "\f<unique>|"
	maxCallbackData = 64
	keyPrefix       = "#"
)

// SubjectData данные кнопки предмета. Длинные имена заменяются ключом от хэша имени,
// поэтому кнопка не зависит от порядка предметов в момент нажатия.
func SubjectData(unique, name string) string {
	if len(unique)+len(name)+2 <= maxCallbackData && !strings.HasPrefix(name, keyPrefix) {
		return name
	}
	return subjectKey(name)
}

// ResolveSubject обратное к SubjectData преобразование. Пустая строка, если ключа нет в subjects.
func ResolveSubject(data string, subjects []string) string {
	if !strings.HasPrefix(data, keyPrefix) {
		return data
	}
	for _, name := range subjects {
		if subjectKey(name) == data {
			return name
		}
	}
	return ""
}

func subjectKey(name string) string {
	sum := sha1.Sum([]byte(name))
	return keyPrefix + hex.EncodeToString(sum[:])[:8]
}

// Subjects клавиатура предметов, по две кнопки в ряд
func Subjects(subjects []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	var rows []telebot.Row
	var row []telebot.Btn
	for _, name := range subjects {
		row = append(row, markup.Data(name, UniqueSubject, SubjectData(UniqueSubject, name)))
		if len(row) == 2 {
			rows = append(rows, markup.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, markup.Row(row...))
	}

	markup.Inline(rows...)
	return markup
}

// Sections клавиатура разделов по три в ряд, затем случайный раздел и возврат к предметам
func Sections(sections []model.Section) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	var rows []telebot.Row
	var row []telebot.Btn
	for i, s := range sections {
		row = append(row, markup.Data(s.Label(), UniqueSection, strconv.Itoa(i)))
		if len(row) == 3 {
			rows = append(rows, markup.Row(row...))
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, markup.Row(row...))
	}
	rows = append(rows,
		markup.Row(markup.Data("🎲 Tasodifiy", UniqueSection, RandomSectionData)),
		markup.Row(markup.Data("⬅️ Orqaga", UniqueBack)),
	)

	markup.Inline(rows...)
	return markup
}

// AdminMenu главное меню администратора
func AdminMenu() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data("➕ Fan qo'shish", UniqueAdminAdd)),
		markup.Row(markup.Data("🗑 Fan o'chirish", UniqueAdminDel)),
		markup.Row(markup.Data("📋 Fanlar ro'yxati", UniqueAdminList)),
		markup.Row(markup.Data("🔄 Yangilash", UniqueReload)),
	)
	return markup
}

// AdminDelete список предметов для удаления
func AdminDelete(subjects []string) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}

	rows := make([]telebot.Row, 0, len(subjects)+1)
	for _, name := range subjects {
		rows = append(rows, markup.Row(markup.Data("❌ "+name, UniqueConfirm, SubjectData(UniqueConfirm, name))))
	}
	rows = append(rows, AdminBackRow(markup))

	markup.Inline(rows...)
	return markup
}

// AdminBackRow ряд с возвратом в меню администратора
func AdminBackRow(markup *telebot.ReplyMarkup) telebot.Row {
	return markup.Row(markup.Data("⬅️ Admin Menu", UniqueAdminBack))
}
