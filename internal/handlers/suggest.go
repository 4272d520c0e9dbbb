package handlers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/giftmate/internal/models"
	"github.com/Kerhoff/giftmate/internal/service"
	"github.com/Kerhoff/giftmate/internal/suggest"
	"github.com/Kerhoff/giftmate/internal/telegram"
)

// SuggestHandler handles /suggest loves | hobbies | age | budget | occasion.
// Only the first field is required; the answer arrives asynchronously.
type SuggestHandler struct {
	svc    *service.Service
	logger *logrus.Logger
}

// NewSuggestHandler creates a new SuggestHandler.
func NewSuggestHandler(svc *service.Service, logger *logrus.Logger) *SuggestHandler {
	return &SuggestHandler{svc: svc, logger: logger}
}

// parseSuggestArgs builds a request from the pipe separated fields.
func parseSuggestArgs(args []string) (suggest.Request, error) {
	parts := splitPipe(args)
	field := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	req := suggest.NewRequest(field(0), field(1))
	if v := field(2); v != "" {
		age, err := suggest.ParseAgeGroup(v)
		if err != nil {
			return req, err
		}
		req.Age = age
	}
	if v := field(3); v != "" {
		budget, err := suggest.ParseBudget(v)
		if err != nil {
			return req, err
		}
		req.Budget = budget
	}
	if v := field(4); v != "" {
		req.Occasion = v
	}
	return req, req.Validate()
}

func (h *SuggestHandler) Handle(ctx context.Context, bot telegram.Sender, message *tgbotapi.Message, args []string) error {
	req, err := parseSuggestArgs(args)
	if err != nil {
		return send(bot, message.Chat.ID, "❌ "+esc(err.Error())+
			"\nUsage: <code>/suggest coffee | hiking | Adult | Medium | Birthday</code>")
	}

	if err := send(bot, message.Chat.ID, "🤔 Thinking about gift ideas..."); err != nil {
		return err
	}

	chatID := message.Chat.ID
	// The update context ends with the bot, not with this handler.
	h.svc.RequestSuggestionsAsync(ctx, req, func(suggestions []models.Suggestion, err error) {
		// Runs on the serial context: build the reply here, send it elsewhere.
		var text string
		if err != nil {
			h.logger.WithError(err).WithField("chat_id", chatID).Warn("Gift suggestion failed")
			text = "❌ " + esc(suggestionErrorText(err))
		} else {
			text = formatSuggestions(suggestions)
		}
		go func() {
			if sendErr := send(bot, chatID, text); sendErr != nil {
				h.logger.WithError(sendErr).WithField("chat_id", chatID).Error("Failed to send suggestions")
			}
		}()
	})
	return nil
}

func suggestionErrorText(err error) string {
	var serr *suggest.Error
	switch {
	case errors.Is(err, service.ErrSuggestionsDisabled):
		return "Gift suggestions are not configured."
	case errors.As(err, &serr) && serr.Kind == suggest.KindHTTPStatus:
		return fmt.Sprintf("The suggestion service answered with status %d.", serr.StatusCode)
	case errors.As(err, &serr) && serr.Kind == suggest.KindNetwork:
		return "Could not reach the suggestion service."
	default:
		return "Could not get suggestions right now."
	}
}

func formatSuggestions(suggestions []models.Suggestion) string {
	if len(suggestions) == 0 {
		return "🤷 No ideas this time. Try different interests."
	}
	var sb strings.Builder
	sb.WriteString("💡 <b>Gift ideas</b>\n\n")
	for i, s := range suggestions {
		sb.WriteString(fmt.Sprintf("%d. <b>%s</b>", i+1, esc(s.Name)))
		if s.ApproximatePrice != "" {
			sb.WriteString(" — <i>" + esc(s.ApproximatePrice) + "</i>")
		}
		if s.Description != "" {
			sb.WriteString("\n   " + esc(s.Description))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
