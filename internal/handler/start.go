package handler

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
)

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	if user.Grade == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"👋 Olá, *%s*! Sou o teu tutor de matemática.\n\n"+
					"Para começarmos, escolhe o teu ano letivo:",
				user.FirstName,
			),
			ParseMode:   models.ParseModeMarkdown,
			ReplyMarkup: gradeKeyboard(),
		})
		return
	}

	history := h.chat.LoadHistory(ctx, user)

	welcomeText := fmt.Sprintf(
		"👋 Olá, *%s*! Sou o teu tutor de matemática do %s.\n\n"+
			"📋 *Comandos:*\n"+
			"/ano — Mudar o ano letivo\n"+
			"/ficheiros — Ficheiros PDF em fila\n"+
			"/analisar — Analisar os ficheiros em fila\n"+
			"/historico — Ver conversas anteriores\n"+
			"/sair — Terminar a sessão\n\n"+
			"Faz uma pergunta de matemática para começarmos!",
		user.FirstName, user.Grade,
	)
	if len(history) > 0 {
		welcomeText += fmt.Sprintf("\n\n💬 Recuperei as tuas últimas %d conversas. Usa /historico para as veres.", len(history)/2)
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      welcomeText,
		ParseMode: models.ParseModeMarkdown,
	})
}
