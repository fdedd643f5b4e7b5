package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/whisperback-backend/internal/http/response"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
	"github.com/yungbote/whisperback-backend/internal/services"
)

// Webhook deliveries are small JSON events; anything bigger is abuse.
const maxWebhookBody = 1 << 20

type WebhookHandler struct {
	log     *logger.Logger
	webhook services.WebhookService
}

func NewWebhookHandler(log *logger.Logger, webhook services.WebhookService) *WebhookHandler {
	return &WebhookHandler{
		log:     log.With("handler", "WebhookHandler"),
		webhook: webhook,
	}
}

// Handle receives payment backend notifications. The signature is checked
// against the raw body, so the payload must not pass through any binding.
func (h *WebhookHandler) Handle(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "unreadable payload")
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if sig == "" {
		response.RespondError(c, http.StatusBadRequest, "No signature")
		return
	}

	if err := h.webhook.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		// Both verification failures and store errors come back as 400 so
		// the backend retries delivery; detail stays in the logs.
		h.log.Warn("Webhook rejected", "error", err)
		response.RespondError(c, http.StatusBadRequest, "webhook error")
		return
	}

	response.RespondOK(c, gin.H{"received": true})
}
