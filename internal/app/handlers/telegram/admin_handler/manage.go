package admin_handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/keyboards"
	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/repository"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

const noSubjects = "😔 Hozircha fanlar yo'q."

// DeleteListHandler показывает предметы для удаления
type DeleteListHandler struct {
	bank Bank
}

// NewDeleteListHandler возвращает структуру обработчика
func NewDeleteListHandler(bank Bank) *DeleteListHandler {
	return &DeleteListHandler{bank: bank}
}

func (h *DeleteListHandler) Handle(c telebot.Context) error {
	subjects := deletable(h.bank.Subjects())
	if len(subjects) == 0 {
		return c.Edit(noSubjects, backMarkup())
	}
	return c.Edit("O'chirish uchun fanni tanlang:", keyboards.AdminDelete(subjects))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *DeleteListHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// ConfirmDeleteHandler удаляет выбранный предмет
type ConfirmDeleteHandler struct {
	bank   Bank
	logger zerolog.Logger
}

// NewConfirmDeleteHandler возвращает структуру обработчика
func NewConfirmDeleteHandler(bank Bank, logger zerolog.Logger) *ConfirmDeleteHandler {
	return &ConfirmDeleteHandler{
		bank:   bank,
		logger: logger,
	}
}

func (h *ConfirmDeleteHandler) Handle(c telebot.Context) error {
	name := keyboards.ResolveSubject(c.Data(), deletable(h.bank.Subjects()))
	if name == "" {
		return c.Edit("❌ Fayl topilmadi.", backMarkup())
	}

	err := h.bank.DeleteSubject(context.Background(), name)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.Edit("❌ Fayl topilmadi.", backMarkup())
	case err != nil:
		h.logger.Error().Err(err).Str("subject", name).Msg("failed to delete subject")
		return c.Edit(texts.InternalError, backMarkup())
	}

	h.logger.Info().Int64("admin_id", c.Sender().ID).Str("subject", name).Msg("subject deleted")
	return c.Edit(fmt.Sprintf("✅ %s o'chirildi.", name), backMarkup())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ConfirmDeleteHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// ListHandler список предметов с количеством вопросов
type ListHandler struct {
	bank Bank
}

// NewListHandler возвращает структуру обработчика
func NewListHandler(bank Bank) *ListHandler {
	return &ListHandler{bank: bank}
}

func (h *ListHandler) Handle(c telebot.Context) error {
	infos := h.bank.Counts()
	if len(infos) == 0 {
		return c.Edit(noSubjects, backMarkup())
	}

	var b strings.Builder
	b.WriteString("📋 Mavjud fanlar:\n\n")
	for i, info := range infos {
		fmt.Fprintf(&b, "%d. %s (%d ta savol)\n", i+1, info.Name, info.Count)
	}

	return c.Edit(strings.TrimSuffix(b.String(), "\n"), backMarkup())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ListHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// ReloadHandler перечитывает предметы с диска
type ReloadHandler struct {
	bank   Bank
	logger zerolog.Logger
}

// NewReloadHandler возвращает структуру обработчика
func NewReloadHandler(bank Bank, logger zerolog.Logger) *ReloadHandler {
	return &ReloadHandler{
		bank:   bank,
		logger: logger,
	}
}

func (h *ReloadHandler) Handle(c telebot.Context) error {
	n, err := h.bank.Reload(context.Background())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to reload subjects")
		return c.Edit(texts.InternalError, backMarkup())
	}
	return c.Edit(fmt.Sprintf("✅ Ma'lumotlar yangilandi. %d ta fan yuklandi.", n), backMarkup())
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *ReloadHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
