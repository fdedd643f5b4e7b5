package app

import (
	"github.com/yungbote/whisperback-backend/internal/http"
	httpH "github.com/yungbote/whisperback-backend/internal/http/handlers"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Generate *httpH.GenerateHandler
	Checkout *httpH.CheckoutHandler
	Webhook  *httpH.WebhookHandler
	Whisper  *httpH.WhisperHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:   httpH.NewHealthHandler(),
		Generate: httpH.NewGenerateHandler(log, services.Generation),
		Checkout: httpH.NewCheckoutHandler(log, services.Checkout),
		Webhook:  httpH.NewWebhookHandler(log, services.Webhook),
		Whisper:  httpH.NewWhisperHandler(log, services.Whisper),
	}
}

func wireServer(log *logger.Logger, handlers Handlers) *http.Server {
	return http.NewServer(http.RouterConfig{
		Log:             log,
		HealthHandler:   handlers.Health,
		GenerateHandler: handlers.Generate,
		CheckoutHandler: handlers.Checkout,
		WebhookHandler:  handlers.Webhook,
		WhisperHandler:  handlers.Whisper,
	})
}
