package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/service"
	tg "github.com/ricardo-pereira-dev/mathlab-enhanced/internal/telegram"
	"github.com/shopspring/decimal"
)

// HandleDocument stages a PDF sent as a Telegram document.
func (h *Handler) HandleDocument(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Chat.Type != "private" || update.Message.Document == nil {
		return
	}

	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	doc := update.Message.Document
	chatID := update.Message.Chat.ID

	res := h.ingest.Stage(user.ID, []service.FileInput{{
		Name:           doc.FileName,
		MimeType:       doc.MimeType,
		Size:           doc.FileSize,
		TelegramFileID: doc.FileID,
	}})

	switch {
	case len(res.Skipped) > 0:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("📄 Apenas ficheiros PDF são suportados — %s foi ignorado.", res.Skipped[0]),
		})
	case len(res.TooLarge) > 0:
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   fmt.Sprintf("❌ %s excede o limite de 10 MB.", res.TooLarge[0]),
		})
	case len(res.Staged) > 0:
		f := res.Staged[0]
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text: fmt.Sprintf(
				"✅ %s em fila (%s MB).\n\nUsa /analisar para começar a análise ou /ficheiros para gerir a fila.",
				f.Name, sizeMB(f.Size),
			),
		})
	}
}

func (h *Handler) handleFiles(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID
	files := h.ingest.Files(user.ID)
	if len(files) == 0 {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   "📂 Não tens ficheiros em fila. Envia um PDF para o analisar.",
		})
		return
	}

	text, keyboard := renderFileList(files)
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleFileRemove(ctx context.Context, b *bot.Bot, update *models.Update) {
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

	fileID := strings.TrimPrefix(update.CallbackQuery.Data, "rmfile_")
	h.ingest.Remove(user.ID, fileID)

	if update.CallbackQuery.Message.Message == nil {
		return
	}
	msg := update.CallbackQuery.Message.Message

	files := h.ingest.Files(user.ID)
	if len(files) == 0 {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      "📂 A fila de ficheiros está vazia.",
		})
		return
	}

	text, keyboard := renderFileList(files)
	b.EditMessageText(ctx, &bot.EditMessageTextParams{
		ChatID:      msg.Chat.ID,
		MessageID:   msg.ID,
		Text:        text,
		ReplyMarkup: keyboard,
	})
}

func (h *Handler) handleAnalyze(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	user := middleware.GetUser(ctx)
	if user == nil {
		return
	}

	chatID := update.Message.Chat.ID

	statusMsg, _ := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   "📤 A preparar a análise...",
	})

	onProgress := func(f domain.StagedFile) {
		if statusMsg == nil {
			return
		}
		switch f.Status {
		case domain.FileUploading:
			b.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: statusMsg.ID,
				Text:      fmt.Sprintf("📤 A analisar %s... %d%%", f.Name, f.Progress),
			})
		case domain.FileCompleted:
			b.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: statusMsg.ID,
				Text:      fmt.Sprintf("✅ %s analisado.", f.Name),
			})
		}
	}

	results, err := h.ingest.UploadAll(user, onProgress)
	if err != nil {
		if errors.Is(err, domain.ErrUploadInProgress) {
			if statusMsg != nil {
				b.EditMessageText(ctx, &bot.EditMessageTextParams{
					ChatID:    chatID,
					MessageID: statusMsg.ID,
					Text:      "⏳ Já existe uma análise em curso. Aguarda que termine.",
				})
			}
			return
		}
		slog.Error("upload all", "error", err, "user_id", user.ID)
		return
	}

	if len(results) == 0 {
		if statusMsg != nil {
			b.EditMessageText(ctx, &bot.EditMessageTextParams{
				ChatID:    chatID,
				MessageID: statusMsg.ID,
				Text:      "ℹ️ Não há ficheiros prontos para analisar. Envia um PDF primeiro.",
			})
		}
		return
	}

	files := h.ingest.Files(user.ID)
	names := make(map[string]string, len(files))
	for _, f := range files {
		names[f.ID] = f.Name
	}

	for _, res := range results {
		tg.SendLongMessage(ctx, b, chatID, renderAnalysis(names[res.FileID], &res), nil)
	}
}

// renderFileList builds the queue view. It is sent without a parse mode,
// so the text must stay plain (file names would break Markdown anyway).
func renderFileList(files []domain.StagedFile) (string, *models.InlineKeyboardMarkup) {
	var sb strings.Builder
	sb.WriteString("📂 Ficheiros em fila:\n\n")

	var rows [][]models.InlineKeyboardButton
	for i, f := range files {
		sb.WriteString(fmt.Sprintf("%d. %s %s — %s MB\n", i+1, statusIcon(f.Status), f.Name, sizeMB(f.Size)))
		rows = append(rows, tg.ButtonRow(
			tg.InlineButton(fmt.Sprintf("🗑 Remover %s", f.Name), "rmfile_"+f.ID),
		))
	}

	return sb.String(), tg.InlineKeyboard(rows...)
}

func renderAnalysis(fileName string, res *domain.AnalysisResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📊 *Análise de %s*\n\n", fileName))
	sb.WriteString(fmt.Sprintf("📚 Tópicos: %s\n", strings.Join(res.Topics, ", ")))
	sb.WriteString(fmt.Sprintf("📈 Dificuldade: %s\n", res.Difficulty))
	sb.WriteString(fmt.Sprintf("✏️ Exercícios: %d\n\n", res.ExerciseCount))
	sb.WriteString(res.Summary)
	sb.WriteString("\n\n💡 *Sugestões:*\n")
	for _, s := range res.Suggestions {
		sb.WriteString("• " + s + "\n")
	}
	return sb.String()
}

func statusIcon(status domain.FileStatus) string {
	switch status {
	case domain.FileReady:
		return "⏸"
	case domain.FileUploading:
		return "📤"
	case domain.FileCompleted:
		return "✅"
	case domain.FileFailed:
		return "❌"
	}
	return "❔"
}

// sizeMB formats a byte count as megabytes with two decimal places,
// matching the web client's display.
func sizeMB(size int64) string {
	return decimal.NewFromInt(size).Div(decimal.NewFromInt(1 << 20)).StringFixed(2)
}
