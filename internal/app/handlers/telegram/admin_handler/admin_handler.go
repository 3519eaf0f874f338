// Package admin_handler обработчики панели администратора: добавление, удаление и перезагрузка предметов.
package admin_handler

import (
	"context"
	"io"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/admin"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/service"
	"gopkg.in/telebot.v4"
)

const menuText = "🛠 Admin paneli:"

// Bank операции банка вопросов, доступные администратору
type Bank interface {
	Subjects() []string
	Counts() []service.SubjectInfo
	Reload(ctx context.Context) (int, error)
	DeleteSubject(ctx context.Context, name string) error
}

// Flow диалог добавления предмета
type Flow interface {
	Begin(adminID int64)
	State(adminID int64) admin.State
	ReceiveName(adminID int64, name string) (string, error)
	ReceiveFile(ctx context.Context, adminID int64, fileName string, content []byte) (string, int, error)
	Cancel(adminID int64) bool
}

// Downloader скачивает присланные файлы, *telebot.Bot подходит
type Downloader interface {
	File(file *telebot.File) (io.ReadCloser, error)
}

// MenuHandler показывает меню администратора по /admin и по кнопке возврата
type MenuHandler struct{}

// NewMenuHandler возвращает структуру обработчика
func NewMenuHandler() *MenuHandler {
	return &MenuHandler{}
}

func (h *MenuHandler) Handle(c telebot.Context) error {
	if c.Callback() != nil {
		return c.Edit(menuText, keyboards.AdminMenu())
	}
	return c.Send(menuText, keyboards.AdminMenu())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *MenuHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// backMarkup клавиатура с единственной кнопкой возврата в меню
func backMarkup() *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	markup.Inline(keyboards.AdminBackRow(markup))
	return markup
}

// deletable предметы, которые можно удалить. Псевдо-предмет не хранится на диске.
func deletable(subjects []string) []string {
	out := make([]string, 0, len(subjects))
	for _, name := range subjects {
		if name != service.MixedSubject {
			out = append(out, name)
		}
	}
	return out
}
