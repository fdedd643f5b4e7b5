package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/whisperback-backend/internal/http/response"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
	"github.com/yungbote/whisperback-backend/internal/services"
)

type CheckoutHandler struct {
	log      *logger.Logger
	checkout services.CheckoutService
}

func NewCheckoutHandler(log *logger.Logger, checkout services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		log:      log.With("handler", "CheckoutHandler"),
		checkout: checkout,
	}
}

type checkoutRequest struct {
	WhisperID string `json:"whisperId"`
}

func (h *CheckoutHandler) CreateSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "Whisper ID required")
		return
	}

	url, err := h.checkout.CreateSession(c.Request.Context(), req.WhisperID, c.GetHeader("Origin"))
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			response.RespondError(c, http.StatusBadRequest, "Whisper ID required")
			return
		}
		h.log.Error("CreateSession failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "Failed to create checkout")
		return
	}

	response.RespondOK(c, gin.H{"url": url})
}
