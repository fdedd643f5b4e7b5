package app

import (
	"time"

	"github.com/yungbote/whisperback-backend/internal/pkg/envutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

type Config struct {
	Port        string
	Environment string

	// AppBaseURL backs checkout success/cancel URLs when the request
	// carries no Origin header.
	AppBaseURL string

	// Retention horizons: short while unpaid, extended once paid.
	UnpaidTTL time.Duration
	PaidTTL   time.Duration

	// GenerationTimeout bounds the whole three-step pipeline.
	GenerationTimeout time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:              envutil.String("PORT", "8080"),
		Environment:       envutil.String("APP_ENV", "development"),
		AppBaseURL:        envutil.String("APP_BASE_URL", "http://localhost:3000"),
		UnpaidTTL:         time.Duration(envutil.Int("WHISPER_TTL_DAYS", 7)) * 24 * time.Hour,
		PaidTTL:           time.Duration(envutil.Int("PAID_WHISPER_TTL_DAYS", 365)) * 24 * time.Hour,
		GenerationTimeout: time.Duration(envutil.Int("GENERATION_TIMEOUT_SECONDS", 240)) * time.Second,
	}
	log.Info("Config loaded",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"unpaid_ttl", cfg.UnpaidTTL.String(),
		"paid_ttl", cfg.PaidTTL.String(),
		"generation_timeout", cfg.GenerationTimeout.String(),
	)
	return cfg
}
