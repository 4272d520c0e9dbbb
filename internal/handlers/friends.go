package handlers

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/service"
	"github.com/Kerhoff/giftmate/internal/telegram"
)

// FriendsHandler handles the /friends command
type FriendsHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewFriendsHandler creates a new FriendsHandler.
func NewFriendsHandler(svc *service.Service, logger *logrus.Logger) *FriendsHandler {
	return &FriendsHandler{svc: svc, logger: logger}
}

func (h *FriendsHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	friends, err := h.svc.Friends(ctx)
	if err != nil {
		return fmt.Errorf("list friends: %w", err)
	}
	if len(friends) == 0 {
		return send(bot, message.Chat.ID, "👥 <i>No friends yet.</i>")
	}

	var sb strings.Builder
	sb.WriteString("👥 <b>Friends</b>\n\n")
	for _, f := range friends {
		sb.WriteString("• " + esc(f.Name))
		if f.Birthday != nil {
			sb.WriteString(fmt.Sprintf(" 🎂 %s %d", f.Birthday.Month.String()[:3], f.Birthday.Day))
		}
		if f.Interests != "" {
			sb.WriteString(" — <i>" + esc(f.Interests) + "</i>")
		}
		sb.WriteString("\n")
	}
	return send(bot, message.Chat.ID, sb.String())
}

// IdeasHandler handles /ideas <friend name>
type IdeasHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewIdeasHandler creates a new IdeasHandler.
func NewIdeasHandler(svc *service.Service, logger *logrus.Logger) *IdeasHandler {
	return &IdeasHandler{svc: svc, logger: logger}
}

func (h *IdeasHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		return send(bot, message.Chat.ID, "❌ Usage: <code>/ideas Alice</code>")
	}

	friends, err := h.svc.Friends(ctx)
	if err != nil {
		return fmt.Errorf("list friends: %w", err)
	}

	for _, f := range friends {
		if !strings.EqualFold(f.Name, name) {
			continue
		}

		ideas, err := h.svc.GiftIdeas(ctx, f.ID)
		if err != nil {
			return fmt.Errorf("list gift ideas: %w", err)
		}
		if len(ideas) == 0 {
			return send(bot, message.Chat.ID, fmt.Sprintf("💡 No gift ideas for <b>%s</b> yet.", esc(f.Name)))
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("💡 <b>Gift ideas for %s</b>\n\n", esc(f.Name)))
		for _, idea := range ideas {
			sb.WriteString("• " + esc(idea.Name))
			if idea.Price != "" {
				sb.WriteString(" — <i>" + esc(idea.Price) + "</i>")
			}
			if len(idea.Tags) > 0 {
				sb.WriteString(" #" + esc(strings.Join(idea.Tags, " #")))
			}
			sb.WriteString("\n")
		}
		return send(bot, message.Chat.ID, sb.String())
	}

	return send(bot, message.Chat.ID, fmt.Sprintf("❌ No friend named <b>%s</b>.", esc(name)))
}
