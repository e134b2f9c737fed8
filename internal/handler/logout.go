package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
)

// handleLogout tears down the in-memory session: transcript and staged
// files are dropped. Persisted conversations survive for the next /start.
func (h *Handler) handleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	h.chat.EndSession(user.ID)
	h.ingest.Clear(user.ID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "👋 Sessão terminada. Usa /start quando quiseres voltar a estudar.",
	})
}
