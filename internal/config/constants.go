package config

import "time"

const (
	// Conversation history
	HistoryLimit = 50

	// Tutor webhook request timeout
	WebhookTimeout = 30 * time.Second

	// Attachment limits
	MaxImageSize = 5 << 20  // 5 MB
	MaxPDFSize   = 10 << 20 // 10 MB

	// Simulated upload transfer
	UploadProgressStep = 10
	UploadTickInterval = 300 * time.Millisecond

	// Telegram limits
	MaxTelegramMessageLen = 4096

	// Rate limits (per minute)
	RateLimitPerMinute = 6

	// Stale rate-limit window cleanup
	StaleRateLimitCleanup = 60 * time.Second
	StaleRateLimitAge     = 3 * time.Minute

	// History persistence deadline (best-effort background save)
	PersistTimeout = 10 * time.Second
)
