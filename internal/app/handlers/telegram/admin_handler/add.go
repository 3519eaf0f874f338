package admin_handler

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/IT-Nick/group-quiz-bot/internal/app/handlers/telegram/texts"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/admin"
	"github.com/IT-Nick/group-quiz-bot/internal/domain/subjects/service"
	"github.com/rs/zerolog"
	"gopkg.in/telebot.v4"
)

// MaxFileSize предел размера файла с вопросами
const MaxFileSize = 1 << 20

// AddHandler начинает диалог добавления предмета
type AddHandler struct {
	flow Flow
}

// NewAddHandler возвращает структуру обработчика
func NewAddHandler(flow Flow) *AddHandler {
	return &AddHandler{flow: flow}
}

func (h *AddHandler) Handle(c telebot.Context) error {
	h.flow.Begin(c.Sender().ID)
	return c.Edit("Yangi fan nomini kiriting (yoki /cancel):")
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *AddHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// NameHandler принимает текст администратора на шагах диалога
type NameHandler struct {
	flow Flow
}

// NewNameHandler возвращает структуру обработчика
func NewNameHandler(flow Flow) *NameHandler {
	return &NameHandler{flow: flow}
}

// Handle обрабатывает текст только у администратора внутри диалога, остальной текст игнорируется
func (h *NameHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	switch h.flow.State(sender.ID) {
	case admin.StateAwaitingName:
		name, err := h.flow.ReceiveName(sender.ID, c.Text())
		if errors.Is(err, admin.ErrInvalidName) {
			return c.Send(fmt.Sprintf("⚠️ Noto'g'ri nom. %d belgidan oshmasin va / bilan boshlanmasin:", admin.MaxNameLength))
		}
		if err != nil {
			return nil
		}
		return c.Send(fmt.Sprintf("Endi '%s' uchun .txt faylni yuboring:", name))
	case admin.StateAwaitingFile:
		return c.Send("Iltimos, .txt fayl yuboring!")
	}

	return nil
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *NameHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

// DocumentHandler принимает файл с вопросами нового предмета
type DocumentHandler struct {
	flow       Flow
	downloader Downloader
	logger     zerolog.Logger
}

// NewDocumentHandler возвращает структуру обработчика
func NewDocumentHandler(flow Flow, downloader Downloader, logger zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{
		flow:       flow,
		downloader: downloader,
		logger:     logger,
	}
}

func (h *DocumentHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	msg := c.Message()
	if sender == nil || msg == nil || msg.Document == nil {
		return nil
	}
	if h.flow.State(sender.ID) != admin.StateAwaitingFile {
		return nil
	}

	doc := msg.Document
	if doc.FileSize > MaxFileSize {
		return c.Send("⚠️ Fayl juda katta!")
	}

	content, err := h.download(&doc.File)
	if err != nil {
		h.logger.Error().Err(err).Int64("admin_id", sender.ID).Str("file", doc.FileName).Msg("failed to download subject file")
		return c.Send(texts.InternalError)
	}
	if len(content) > MaxFileSize {
		return c.Send("⚠️ Fayl juda katta!")
	}

	name, count, err := h.flow.ReceiveFile(context.Background(), sender.ID, doc.FileName, content)
	switch {
	case errors.Is(err, admin.ErrNotTxt):
		return c.Send("Faqat .txt fayl!")
	case errors.Is(err, service.ErrEmptySubject):
		return c.Send("⚠️ Faylda savollar topilmadi. Formatni tekshiring.")
	case errors.Is(err, admin.ErrNotInFlow):
		return nil
	case err != nil:
		h.logger.Error().Err(err).Int64("admin_id", sender.ID).Str("subject", name).Msg("failed to add subject")
		return c.Send(texts.InternalError)
	}

	h.logger.Info().Int64("admin_id", sender.ID).Str("subject", name).Int("questions", count).Msg("subject added")
	return c.Send(fmt.Sprintf("✅ '%s' muvaffaqiyatli qo'shildi! (%d ta savol)", name, count))
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *DocumentHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}

func (h *DocumentHandler) download(file *telebot.File) ([]byte, error) {
	const op = "admin_handler.DocumentHandler.download"

	rc, err := h.downloader.File(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rc.Close()

	content, err := io.ReadAll(io.LimitReader(rc, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return content, nil
}

// CancelHandler прерывает диалог добавления предмета
type CancelHandler struct {
	flow Flow
}

// NewCancelHandler возвращает структуру обработчика
func NewCancelHandler(flow Flow) *CancelHandler {
	return &CancelHandler{flow: flow}
}

func (h *CancelHandler) Handle(c telebot.Context) error {
	sender := c.Sender()
	if sender == nil || !h.flow.Cancel(sender.ID) {
		return nil
	}
	return c.Send(texts.Cancelled)
}

// GetHandlerFunc возвращает обработчик в формате telebot.HandlerFunc
func (h *CancelHandler) GetHandlerFunc() telebot.HandlerFunc {
	return func(c telebot.Context) error {
		return h.Handle(c)
	}
}
