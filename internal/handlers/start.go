package handlers

import (
	"context"
	"fmt"
	"html"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/telegram"
)

const commandsText = `<b>Wishlist</b>
• /wishlist - Show your wishlist
• /wish &lt;category&gt; | &lt;item&gt; - Add a wish
• /bought &lt;item-id&gt; - Mark a wish as purchased

<b>Friends</b>
• /friends - List your friends
• /ideas &lt;friend name&gt; - Show gift ideas for a friend
• /birthdays - Upcoming birthdays

<b>Suggestions</b>
• /suggest loves | hobbies | age | budget | occasion
  <i>age: Child, Teenager, Adult, Senior. budget: Limited, Medium, High.</i>`

// send sends an HTML formatted message and wraps the error.
func send(bot telegram.Sender, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func esc(s string) string {
	return html.EscapeString(s)
}

// StartHandler handles the /start command
type StartHandler struct {
	logger *logrus.Logger
}

// NewStartHandler creates a new start command handler
func NewStartHandler(logger *logrus.Logger) *StartHandler {
	return &StartHandler{
		logger: logger,
	}
}

// Handle processes the /start command
func (h *StartHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	welcome := "🎁 <b>Welcome to GiftMate!</b>\n\n" +
		"I keep your wishlist, your friends' birthdays and gift ideas in one place.\n\n" +
		commandsText

	if err := send(bot, message.Chat.ID, welcome); err != nil {
		return err
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent start message")
	return nil
}

// HelpHandler handles the /help command
type HelpHandler struct {
	logger *logrus.Logger
}

func NewHelpHandler(logger *logrus.Logger) *HelpHandler {
	return &HelpHandler{logger: logger}
}

func (h *HelpHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if err := send(bot, message.Chat.ID, "📚 <b>GiftMate Help</b>\n\n"+commandsText); err != nil {
		return err
	}

	h.logger.WithField("chat_id", message.Chat.ID).Info("Sent help message")
	return nil
}
