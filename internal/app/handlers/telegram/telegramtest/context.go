// Package telegramtest подменяет telebot.Context в тестах обработчиков.
package telegramtest

import (
	"sync"

	"gopkg.in/telebot.v4"
)

// Reply одно отправленное или отредактированное сообщение
type Reply struct {
	Text   string
	Markup *telebot.ReplyMarkup
}

// Context реализует только те методы telebot.Context, которые используют обработчики.
// Вызов остальных методов паникует на nil интерфейсе.
type Context struct {
	telebot.Context

	ChatValue       *telebot.Chat
	SenderValue     *telebot.User
	MessageValue    *telebot.Message
	CallbackValue   *telebot.Callback
	PollAnswerValue *telebot.PollAnswer

	mu        sync.Mutex
	sent      []Reply
	edited    []Reply
	responses []*telebot.CallbackResponse
}

// NewMessage контекст текстового сообщения в чате chatID от пользователя userID
func NewMessage(chatID, userID int64, text string) *Context {
	chat := &telebot.Chat{ID: chatID}
	sender := &telebot.User{ID: userID, FirstName: "User"}
	return &Context{
		ChatValue:    chat,
		SenderValue:  sender,
		MessageValue: &telebot.Message{Chat: chat, Sender: sender, Text: text},
	}
}

// NewCallback контекст нажатия inline кнопки с данными data
func NewCallback(chatID, userID int64, unique, data string) *Context {
	c := NewMessage(chatID, userID, "")
	c.CallbackValue = &telebot.Callback{
		Sender:  c.SenderValue,
		Message: c.MessageValue,
		Unique:  unique,
		Data:    data,
	}
	return c
}

func (c *Context) Chat() *telebot.Chat             { return c.ChatValue }
func (c *Context) Sender() *telebot.User           { return c.SenderValue }
func (c *Context) Message() *telebot.Message       { return c.MessageValue }
func (c *Context) Callback() *telebot.Callback     { return c.CallbackValue }
func (c *Context) PollAnswer() *telebot.PollAnswer { return c.PollAnswerValue }

func (c *Context) Text() string {
	if c.MessageValue == nil {
		return ""
	}
	return c.MessageValue.Text
}

func (c *Context) Data() string {
	if c.CallbackValue != nil {
		return c.CallbackValue.Data
	}
	return ""
}

func (c *Context) Send(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sent = append(c.sent, newReply(what, opts))
	return nil
}

func (c *Context) Edit(what interface{}, opts ...interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.edited = append(c.edited, newReply(what, opts))
	return nil
}

func (c *Context) Respond(resp ...*telebot.CallbackResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(resp) == 0 {
		resp = []*telebot.CallbackResponse{{}}
	}
	c.responses = append(c.responses, resp...)
	return nil
}

// Sent отправленные сообщения
func (c *Context) Sent() []Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Reply(nil), c.sent...)
}

// Edited отредактированные сообщения
func (c *Context) Edited() []Reply {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Reply(nil), c.edited...)
}

// Responses ответы на callback
func (c *Context) Responses() []*telebot.CallbackResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*telebot.CallbackResponse(nil), c.responses...)
}

func newReply(what interface{}, opts []interface{}) Reply {
	r := Reply{}
	if s, ok := what.(string); ok {
		r.Text = s
	}
	for _, o := range opts {
		if m, ok := o.(*telebot.ReplyMarkup); ok {
			r.Markup = m
		}
	}
	return r
}
