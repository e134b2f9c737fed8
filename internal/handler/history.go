package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
	tg "github.com/ricardo-pereira-dev/mathlab-enhanced/internal/telegram"
)

// handleHistory re-renders the persisted transcript.
func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	msgs := h.chat.LoadHistory(ctx, user)
	if len(msgs) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "💬 Ainda não tens conversas guardadas.",
		})
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("💬 As tuas últimas %d conversas:\n\n", len(msgs)/2))
	for _, m := range msgs {
		icon := "🧑"
		if m.Sender == domain.SenderAssistant {
			icon = "🤖"
		}
		sb.WriteString(fmt.Sprintf("%s %s — %s\n", icon, m.Timestamp.Format("02/01 15:04"), m.Text))
	}

	tg.SendLongMessage(ctx, b, chatID, sb.String(), nil)
}
