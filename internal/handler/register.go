package handler

import (
	"github.com/go-telegram/bot"
)

// Register registers all command and callback handlers on the bot instance.
func (h *Handler) Register() {
	// Commands
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypePrefix, h.handleStart)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ano", bot.MatchTypePrefix, h.handleGrade)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/ficheiros", bot.MatchTypePrefix, h.handleFiles)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/analisar", bot.MatchTypePrefix, h.handleAnalyze)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/historico", bot.MatchTypePrefix, h.handleHistory)
	h.bot.RegisterHandler(bot.HandlerTypeMessageText, "/sair", bot.MatchTypePrefix, h.handleLogout)

	// Grade selection callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "grade_", bot.MatchTypePrefix, h.handleGradeSelect)

	// File removal callbacks
	h.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "rmfile_", bot.MatchTypePrefix, h.handleFileRemove)
}
