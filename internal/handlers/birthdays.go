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

// BirthdaysHandler handles the /birthdays command
type BirthdaysHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewBirthdaysHandler creates a new BirthdaysHandler.
func NewBirthdaysHandler(svc *service.Service, logger *logrus.Logger) *BirthdaysHandler {
	return &BirthdaysHandler{svc: svc, logger: logger}
}

func (h *BirthdaysHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	entries, err := h.svc.UpcomingBirthdays(ctx)
	if err != nil {
		return fmt.Errorf("upcoming birthdays: %w", err)
	}
	if len(entries) == 0 {
		return send(bot, message.Chat.ID, "🎂 <i>No birthdays saved yet.</i>")
	}

	var sb strings.Builder
	sb.WriteString("🎂 <b>Upcoming Birthdays</b>\n\n")
	for _, e := range entries {
		when := fmt.Sprintf("in %d days", e.DaysUntil)
		switch e.DaysUntil {
		case 0:
			when = "today 🎉"
		case 1:
			when = "tomorrow"
		}
		sb.WriteString(fmt.Sprintf("• %s — %s %d, %s\n",
			esc(e.Friend.Name), e.Next.Month.String()[:3], e.Next.Day, when))
	}
	return send(bot, message.Chat.ID, sb.String())
}
