package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"
)

// Router handles message routing and command parsing
type Router struct {
	logger    *logrus.Logger
	chatID    int64
	handlers  map[string]CommandHandler
	callbacks map[string]CallbackHandler
}

// CommandHandler defines the interface for command handlers
type CommandHandler interface {
	Handle(ctx context.Context, bot Sender, message *tgbotapi.Message, args []string) error
}

// CallbackHandler handles inline keyboard presses whose data is
// "<prefix>:<payload>".
type CallbackHandler interface {
	HandleCallback(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery, payload string) error
}

// NewRouter creates a new message router. A non-zero chatID limits the
// router to that chat.
func NewRouter(logger *logrus.Logger, chatID int64) *Router {
	return &Router{
		logger:    logger,
		chatID:    chatID,
		handlers:  make(map[string]CommandHandler),
		callbacks: make(map[string]CallbackHandler),
	}
}

// RegisterCommand registers a command handler
func (r *Router) RegisterCommand(command string, handler CommandHandler) {
	r.handlers[command] = handler
	r.logger.Debugf("Registered command: %s", command)
}

// RegisterCallback registers a callback handler for a data prefix
func (r *Router) RegisterCallback(prefix string, handler CallbackHandler) {
	r.callbacks[prefix] = handler
	r.logger.Debugf("Registered callback: %s", prefix)
}

func (r *Router) allowed(chatID int64) bool {
	return r.chatID == 0 || r.chatID == chatID
}

// HandleMessage handles incoming messages
func (r *Router) HandleMessage(ctx context.Context, bot Sender, message *tgbotapi.Message) {
	fields := logrus.Fields{
		"chat_id":    message.Chat.ID,
		"message_id": message.MessageID,
	}
	if message.From != nil {
		fields["user_id"] = message.From.ID
		fields["username"] = message.From.UserName
	}
	log := r.logger.WithFields(fields)

	if !r.allowed(message.Chat.ID) {
		log.Warn("Ignoring message from foreign chat")
		return
	}

	// Only process text commands
	if message.Text == "" || !message.IsCommand() {
		return
	}

	command := message.Command()
	args := strings.Fields(message.CommandArguments())
	log = log.WithField("command", command)
	log.Info("Received command")

	handler, exists := r.handlers[command]
	if !exists {
		log.Warn("Unknown command")
		r.reply(bot, message.Chat.ID, "❓ Unknown command. Use /help to see available commands.")
		return
	}

	if err := handler.Handle(ctx, bot, message, args); err != nil {
		log.WithError(err).Error("Command handler failed")
		r.reply(bot, message.Chat.ID, "❌ An error occurred while processing your command. Please try again.")
	}
}

// HandleUpdate routes a message or an inline button press. A panicking handler
// is logged and does not take the bot down.
func (r *Router) HandleUpdate(ctx context.Context, bot Sender, update tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.WithField("update_id", update.UpdateID).Errorf("Panic in update handler: %v", p)
		}
	}()

	switch {
	case update.Message != nil:
		r.HandleMessage(ctx, bot, update.Message)
	case update.CallbackQuery != nil:
		r.HandleCallbackQuery(ctx, bot, update.CallbackQuery)
	}
}

// HandleCallbackQuery handles callback queries from inline keyboards
func (r *Router) HandleCallbackQuery(ctx context.Context, bot Sender, query *tgbotapi.CallbackQuery) {
	log := r.logger.WithFields(logrus.Fields{
		"callback_id": query.ID,
		"data":        query.Data,
	})

	// Answer the callback query to remove loading state
	if _, err := bot.Request(tgbotapi.NewCallback(query.ID, "")); err != nil {
		log.WithError(err).Warn("Failed to answer callback query")
	}

	if query.Message == nil || !r.allowed(query.Message.Chat.ID) {
		log.Warn("Ignoring callback from foreign chat")
		return
	}

	prefix, payload, _ := strings.Cut(query.Data, ":")
	handler, exists := r.callbacks[prefix]
	if !exists {
		log.Warn("Unknown callback")
		return
	}

	if err := handler.HandleCallback(ctx, bot, query, payload); err != nil {
		log.WithError(err).Error("Callback handler failed")
		r.reply(bot, query.Message.Chat.ID, "❌ An error occurred. Please try again.")
	}
}

func (r *Router) reply(bot Sender, chatID int64, text string) {
	if _, err := bot.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		r.logger.WithError(err).Error("Failed to send message")
	}
}
