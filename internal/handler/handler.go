package handler

import (
	"github.com/go-telegram/bot"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/service"
)

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot         *bot.Bot
	userService *service.UserService
	chat        *service.ChatService
	ingest      *service.IngestService
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot         *bot.Bot
	UserService *service.UserService
	Chat        *service.ChatService
	Ingest      *service.IngestService
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:         deps.Bot,
		userService: deps.UserService,
		chat:        deps.Chat,
		ingest:      deps.Ingest,
	}
}
