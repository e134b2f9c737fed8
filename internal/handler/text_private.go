package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
	tg "github.com/ricardo-pereira-dev/mathlab-enhanced/internal/telegram"
)

// HandleTextPrivate processes one chat turn: a private text message or a
// photo with caption becomes a question for the grade's tutor webhook.
func (h *Handler) HandleTextPrivate(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" {
		return
	}

	msg := update.Message

	// Skip commands
	if strings.HasPrefix(msg.Text, "/") {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := msg.Chat.ID

	// Ask for the grade first; the fallback endpoint would answer, but a
	// fresh user should get 7º/8º/9º material on purpose, not by default.
	if user.Grade == "" {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:      chatID,
			Text:        "🎓 Antes de começarmos, escolhe o teu ano letivo:",
			ReplyMarkup: gradeKeyboard(),
		})
		return
	}

	text := msg.Text
	if msg.Caption != "" {
		text = msg.Caption
	}

	image, ok := h.extractImage(ctx, b, chatID, msg)
	if !ok {
		return
	}
	if text == "" && image == nil {
		return
	}

	h.userService.UpdateLastInteraction(ctx, user.ID)

	stopTyping := tg.StartTyping(ctx, b, chatID)
	defer stopTyping()

	statusMsg, _ := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "💭 A pensar...",
	})

	reply, err := h.chat.Submit(ctx, user, text, image)
	if err != nil {
		h.replyAfterError(ctx, b, chatID, statusMsg, reply, err)
		return
	}

	if statusMsg != nil {
		b.DeleteMessage(ctx, &bot.DeleteMessageParams{
			ChatID:    chatID,
			MessageID: statusMsg.ID,
		})
	}

	tg.SendLongMessage(ctx, b, chatID, reply.Text, nil)
}

// extractImage validates and resolves an attached photo. The second
// return value is false when the message should not be processed further.
func (h *Handler) extractImage(ctx context.Context, b *bot.Bot, chatID int64, msg *models.Message) (*domain.ImageAttachment, bool) {
	if len(msg.Photo) == 0 {
		return nil, true
	}

	// Highest resolution variant is last
	photo := msg.Photo[len(msg.Photo)-1]
	if int64(photo.FileSize) > config.MaxImageSize {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ A imagem deve ter menos de 5 MB.",
		})
		return nil, false
	}

	url, err := tg.GetFileURL(ctx, b, photo.FileID)
	if err != nil {
		slog.Error("resolve photo url", "error", err)
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "❌ Não consegui ler a imagem. Tenta novamente.",
		})
		return nil, false
	}

	return &domain.ImageAttachment{
		URL:  url,
		Name: fmt.Sprintf("foto_%s.jpg", photo.FileUniqueID),
		Size: int64(photo.FileSize),
	}, true
}

func (h *Handler) replyAfterError(ctx context.Context, b *bot.Bot, chatID int64, statusMsg *models.Message, reply *domain.ChatMessage, err error) {
	switch {
	case errors.Is(err, domain.ErrRequestInFlight):
		if statusMsg != nil {
			tg.EditLongMessage(ctx, b, chatID, statusMsg.ID, "⏳ Aguarda a resposta à pergunta anterior.")
		}
	case errors.Is(err, domain.ErrEmptyMessage):
		if statusMsg != nil {
			b.DeleteMessage(ctx, &bot.DeleteMessageParams{ChatID: chatID, MessageID: statusMsg.ID})
		}
	default:
		slog.Error("chat submit failed", "error", err, "chat_id", chatID)
		notice := "❌ Erro ao enviar mensagem. Tenta novamente."
		if errors.Is(err, domain.ErrWebhookNotConfigured) {
			notice = "❌ O tutor não está configurado para o teu ano letivo. Contacta o administrador."
		}
		if statusMsg != nil {
			tg.EditLongMessage(ctx, b, chatID, statusMsg.ID, notice)
		}
		// The canned apology was appended to the transcript; show it too.
		if reply != nil {
			tg.SendLongMessage(ctx, b, chatID, reply.Text, nil)
		}
	}
}
