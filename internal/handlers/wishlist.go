package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/service"
	"github.com/Kerhoff/giftmate/internal/telegram"
)

// BoughtCallback is the inline keyboard prefix for marking a wish purchased.
const BoughtCallback = "bought"

// splitPipe rejoins command arguments and splits them on "|".
func splitPipe(args []string) []string {
	parts := strings.Split(strings.Join(args, " "), "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ---------------------------------------------------------------------------
// WishlistHandler – /wishlist
// ---------------------------------------------------------------------------

// WishlistHandler shows every category with its items. Items that are not
// yet purchased get an inline button to mark them bought.
type WishlistHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishlistHandler creates a new WishlistHandler.
func NewWishlistHandler(svc *service.Service, logger *logrus.Logger) *WishlistHandler {
	return &WishlistHandler{svc: svc, logger: logger}
}

// Handle processes the /wishlist command.
func (h *WishlistHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	categories, err := h.svc.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🎁 <b>Your Wishlist</b>\n")

	var rows [][]tgbotapi.InlineKeyboardButton
	for _, category := range categories {
		sb.WriteString(fmt.Sprintf("\n<b>%s</b> (%d)\n", esc(category.Name), len(category.Items)))
		for _, item := range category.Items {
			sb.WriteString("  • " + esc(item.Name))
			if item.Price != "" {
				sb.WriteString(" — <i>" + esc(item.Price) + "</i>")
			}
			if item.Purchased {
				sb.WriteString(" ✅")
			} else {
				sb.WriteString(fmt.Sprintf("\n    <code>%s</code>", item.ID))
				rows = append(rows, tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("✅ "+item.Name, BoughtCallback+":"+item.ID),
				))
			}
			sb.WriteString("\n")
		}
		if len(category.Items) == 0 {
			sb.WriteString("  <i>(empty)</i>\n")
		}
	}
	if len(categories) == 0 {
		sb.WriteString("\n<i>No categories yet.</i>\n")
	}

	msg := tgbotapi.NewMessage(message.Chat.ID, sb.String())
	msg.ParseMode = tgbotapi.ModeHTML
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send wishlist: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// WishHandler – /wish <category> | <item>
// ---------------------------------------------------------------------------

// WishHandler adds an item to a category picked by name.
type WishHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewWishHandler creates a new WishHandler.
func NewWishHandler(svc *service.Service, logger *logrus.Logger) *WishHandler {
	return &WishHandler{svc: svc, logger: logger}
}

// Handle processes the /wish command.
func (h *WishHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	parts := splitPipe(args)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return send(bot, message.Chat.ID, "❌ Usage: <code>/wish Gadgets | Noise cancelling headphones</code>")
	}

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	var target *models.Category
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if c.IsPurchased() {
			continue
		}
		names = append(names, esc(c.Name))
		if strings.EqualFold(c.Name, parts[0]) {
			target = c
		}
	}
	if target == nil {
		return send(bot, message.Chat.ID, fmt.Sprintf("❌ No category named <b>%s</b>. Try one of: %s",
			esc(parts[0]), strings.Join(names, ", ")))
	}

	item, err := h.svc.AddItem(ctx, target.ID, models.ItemFields{Name: parts[1]})
	if err != nil {
		return fmt.Errorf("add item: %w", err)
	}
	if item == nil {
		return send(bot, message.Chat.ID, "❌ That category was just deleted.")
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id":     message.Chat.ID,
		"category_id": target.ID,
		"item_id":     item.ID,
	}).Info("Wish added")

	return send(bot, message.Chat.ID, fmt.Sprintf("🎁 Added <b>%s</b> to %s\n<code>%s</code>",
		esc(item.Name), esc(target.Name), item.ID))
}

// ---------------------------------------------------------------------------
// BoughtHandler – /bought <item-id>
// ---------------------------------------------------------------------------

// BoughtHandler moves an item into the "Purchased" category. It serves both
// the command and the inline button.
type BoughtHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBoughtHandler creates a new BoughtHandler.
func NewBoughtHandler(svc *service.Service, logger *logrus.Logger) *BoughtHandler {
	return &BoughtHandler{svc: svc, logger: logger}
}

// Handle processes the /bought command.
func (h *BoughtHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	if len(args) != 1 {
		return send(bot, message.Chat.ID, "❌ Usage: <code>/bought &lt;item-id&gt;</code>")
	}
	return h.markPurchased(ctx, bot, message.Chat.ID, args[0])
}

// HandleCallback processes the inline "bought" button.
func (h *BoughtHandler) HandleCallback(ctx context.Context, bot telegram.Sender, query *tgbotapi.CallbackQuery, payload string) error {
	return h.markPurchased(ctx, bot, query.Message.Chat.ID, payload)
}

func (h *BoughtHandler) markPurchased(ctx context.Context, bot telegram.Sender, chatID int64, itemID string) error {
	item, err := h.svc.MarkPurchased(ctx, itemID)
	if err != nil {
		return fmt.Errorf("mark purchased: %w", err)
	}
	if item == nil {
		return send(bot, chatID, "❌ Item not found. It may already be purchased.")
	}

	h.logger.WithFields(logrus.Fields{
		"chat_id": chatID,
		"item_id": itemID,
	}).Info("Wish purchased")

	return send(bot, chatID, fmt.Sprintf("✅ <b>%s</b> moved to %s", esc(item.Name), models.PurchasedCategoryName))
}
