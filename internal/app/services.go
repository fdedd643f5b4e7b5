package app

import (
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
	"github.com/yungbote/whisperback-backend/internal/services"
)

type Services struct {
	Generation services.GenerationService
	Checkout   services.CheckoutService
	Webhook    services.WebhookService
	Whisper    services.WhisperService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients) Services {
	log.Info("Wiring services...")
	strategy := services.DefaultGenerationStrategy()
	return Services{
		Generation: services.NewGenerationService(log, clients.AI, clients.Store, strategy, cfg.UnpaidTTL, cfg.GenerationTimeout),
		Checkout:   services.NewCheckoutService(log, clients.Payments, cfg.AppBaseURL),
		Webhook:    services.NewWebhookService(log, clients.Payments, clients.Store, cfg.PaidTTL),
		Whisper:    services.NewWhisperService(log, clients.Store),
	}
}
