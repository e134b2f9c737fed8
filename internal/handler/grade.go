package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
	tg "github.com/ricardo-pereira-dev/mathlab-enhanced/internal/telegram"
)

func gradeKeyboard() *models.InlineKeyboardMarkup {
	return tg.InlineKeyboard(
		tg.ButtonRow(
			tg.InlineButton("7º Ano (12-13 anos)", "grade_7"),
		),
		tg.ButtonRow(
			tg.InlineButton("8º Ano (13-14 anos)", "grade_8"),
		),
		tg.ButtonRow(
			tg.InlineButton("9º Ano (14-15 anos)", "grade_9"),
		),
	)
}

func (h *Handler) handleGrade(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	current := "ainda não definido"
	if user.Grade != "" {
		current = user.Grade.String()
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        fmt.Sprintf("🎓 Ano letivo atual: %s.\n\nEscolhe o novo ano:", current),
		ReplyMarkup: gradeKeyboard(),
	})
}

func (h *Handler) handleGradeSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: update.CallbackQuery.ID,
	})

	grade, ok := domain.ParseGrade(strings.TrimPrefix(update.CallbackQuery.Data, "grade_"))
	if !ok {
		return
	}

	if err := h.userService.SetGrade(ctx, user, grade); err != nil {
		slog.Error("set grade", "error", err, "user_id", user.ID)
		return
	}

	if update.CallbackQuery.Message.Message == nil {
		return
	}
	msg := update.CallbackQuery.Message.Message

	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:    msg.Chat.ID,
		MessageID: msg.ID,
		Text: fmt.Sprintf(
			"✅ Ano letivo definido: %s.\n\nFaz uma pergunta de matemática para começarmos!",
			grade,
		),
	})
}
