package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	mathlab "github.com/ricardo-pereira-dev/mathlab-enhanced"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/config"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/handler"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/middleware"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/repository"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/service"
)

func main() {
	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if len(cfg.WebhookURLs()) == 0 {
		slog.Warn("no tutor webhook configured; chat requests will fail until one is set")
	}

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Run migrations
	migrationsFS, err := fs.Sub(mathlab.MigrationsFS, "migrations")
	if err != nil {
		slog.Error("failed to load embedded migrations", "error", err)
		os.Exit(1)
	}
	if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo(pool)
	conversationRepo := repository.NewConversationRepo(pool)
	rateLimitRepo := repository.NewRateLimitRepo(pool)

	// Initialize services
	userService := service.NewUserService(userRepo)
	tutorWebhook := service.NewTutorWebhook(cfg.WebhookURLs())
	chatService := service.NewChatService(tutorWebhook, conversationRepo)
	analyzer := service.NewAnalyzer(nil)
	ingestService := service.NewIngestService(analyzer, config.UploadTickInterval)

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Logging(),
			middleware.RateLimit(rateLimitRepo),
			middleware.UserLoader(userService, cfg),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil || update.Message == nil {
				return
			}
			if update.Message.Document != nil {
				h.HandleDocument(ctx, b, update)
				return
			}
			h.HandleTextPrivate(ctx, b, update)
		}),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:         b,
		UserService: userService,
		Chat:        chatService,
		Ingest:      ingestService,
	})

	// Register all handlers
	h.Register()

	// Start stale rate-limit window cleanup goroutine
	go func() {
		ticker := time.NewTicker(config.StaleRateLimitCleanup)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := rateLimitRepo.CleanupStale(context.Background()); err != nil {
					slog.Error("cleanup stale rate limits", "error", err)
				}
			}
		}
	}()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}
