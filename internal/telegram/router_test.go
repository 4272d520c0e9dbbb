package telegram

import (
	"context"
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kerhoff/giftmate/pkg/logger"
)

type recordingSender struct {
	messages []tgbotapi.MessageConfig
	requests int
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if m, ok := c.(tgbotapi.MessageConfig); ok {
		s.messages = append(s.messages, m)
	}
	return tgbotapi.Message{}, nil
}

func (s *recordingSender) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.requests++
	return &tgbotapi.APIResponse{Ok: true}, nil
}

type commandFunc func(args []string) error

func (f commandFunc) Handle(_ context.Context, _ Sender, _ *tgbotapi.Message, args []string) error {
	return f(args)
}

type callbackFunc func(payload string) error

func (f callbackFunc) HandleCallback(_ context.Context, _ Sender, _ *tgbotapi.CallbackQuery, payload string) error {
	return f(payload)
}

func command(chatID int64, text string) *tgbotapi.Message {
	cmd, _, _ := strings.Cut(text, " ")
	return &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: chatID},
		From: &tgbotapi.User{ID: 7, UserName: "alice"},
		Text: text,
		Entities: []tgbotapi.MessageEntity{
			{Type: "bot_command", Offset: 0, Length: len(cmd)},
		},
	}
}

func TestRouter_DispatchesCommands(t *testing.T) {
	r := NewRouter(logger.Discard(), 0)
	var got []string
	r.RegisterCommand("wish", commandFunc(func(args []string) error {
		got = args
		return nil
	}))

	bot := &recordingSender{}
	r.HandleMessage(context.Background(), bot, command(1, "/wish Gadgets | Camera"))
	assert.Equal(t, []string{"Gadgets", "|", "Camera"}, got)
	assert.Empty(t, bot.messages)

	r.HandleMessage(context.Background(), bot, command(1, "/nope"))
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0].Text, "Unknown command")
}

func TestRouter_ReportsHandlerErrors(t *testing.T) {
	r := NewRouter(logger.Discard(), 0)
	r.RegisterCommand("boom", commandFunc(func([]string) error { return errors.New("boom") }))

	bot := &recordingSender{}
	r.HandleMessage(context.Background(), bot, command(1, "/boom"))
	require.Len(t, bot.messages, 1)
	assert.Contains(t, bot.messages[0].Text, "error occurred")
}

func TestRouter_RestrictsChat(t *testing.T) {
	r := NewRouter(logger.Discard(), 42)
	calls := 0
	r.RegisterCommand("friends", commandFunc(func([]string) error {
		calls++
		return nil
	}))

	bot := &recordingSender{}
	r.HandleMessage(context.Background(), bot, command(1, "/friends"))
	assert.Zero(t, calls)
	assert.Empty(t, bot.messages)

	r.HandleMessage(context.Background(), bot, command(42, "/friends"))
	assert.Equal(t, 1, calls)
}

func TestRouter_Callbacks(t *testing.T) {
	r := NewRouter(logger.Discard(), 0)
	var payload string
	r.RegisterCallback("bought", callbackFunc(func(p string) error {
		payload = p
		return nil
	}))

	bot := &recordingSender{}
	r.HandleCallbackQuery(context.Background(), bot, &tgbotapi.CallbackQuery{
		ID:      "cb1",
		Data:    "bought:item-1",
		Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 5}},
	})
	assert.Equal(t, "item-1", payload)
	assert.Equal(t, 1, bot.requests)
}

func TestRouter_HandleUpdate(t *testing.T) {
	r := NewRouter(logger.Discard(), 0)
	var wished, bought []string
	r.RegisterCommand("wish", commandFunc(func(args []string) error {
		wished = args
		return nil
	}))
	r.RegisterCommand("boom", commandFunc(func([]string) error {
		panic("handler bug")
	}))
	r.RegisterCallback("bought", callbackFunc(func(payload string) error {
		bought = append(bought, payload)
		return nil
	}))

	bot := &recordingSender{}
	ctx := context.Background()
	r.HandleUpdate(ctx, bot, tgbotapi.Update{Message: command(1, "/wish Camera")})
	assert.Equal(t, []string{"Camera"}, wished)

	r.HandleUpdate(ctx, bot, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID: "q", Data: "bought:item-1", Message: &tgbotapi.Message{Chat: &tgbotapi.Chat{ID: 1}},
	}})
	assert.Equal(t, []string{"item-1"}, bought)

	assert.NotPanics(t, func() {
		r.HandleUpdate(ctx, bot, tgbotapi.Update{UpdateID: 9, Message: command(1, "/boom")})
	})
	r.HandleUpdate(ctx, bot, tgbotapi.Update{})
	assert.Empty(t, bot.messages)
}
