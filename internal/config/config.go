package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Grade-specific n8n webhook endpoints. At least one must be set;
	// the 7th-grade endpoint doubles as the fallback for unknown grades.
	Grade7WebhookURL string `env:"N8N_7TH_GRADE_URL"`
	Grade8WebhookURL string `env:"N8N_8TH_GRADE_URL"`
	Grade9WebhookURL string `env:"N8N_9TH_GRADE_URL"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}

// WebhookURLs returns the grade→endpoint mapping, omitting unset grades.
func (c *Config) WebhookURLs() map[domain.Grade]string {
	urls := make(map[domain.Grade]string)
	if c.Grade7WebhookURL != "" {
		urls[domain.Grade7] = c.Grade7WebhookURL
	}
	if c.Grade8WebhookURL != "" {
		urls[domain.Grade8] = c.Grade8WebhookURL
	}
	if c.Grade9WebhookURL != "" {
		urls[domain.Grade9] = c.Grade9WebhookURL
	}
	return urls
}
