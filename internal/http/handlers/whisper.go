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

type WhisperHandler struct {
	log     *logger.Logger
	whisper services.WhisperService
}

func NewWhisperHandler(log *logger.Logger, whisper services.WhisperService) *WhisperHandler {
	return &WhisperHandler{
		log:     log.With("handler", "WhisperHandler"),
		whisper: whisper,
	}
}

func (h *WhisperHandler) GetWhisper(c *gin.Context) {
	view, err := h.whisper.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			// "Never existed" and "expired" collapse to the same answer.
			response.RespondError(c, http.StatusNotFound, "Whisper not found or expired")
		case errors.Is(err, apperr.ErrInvalidArgument):
			response.RespondError(c, http.StatusBadRequest, "Whisper ID required")
		default:
			h.log.Error("GetWhisper failed", "error", err)
			response.RespondError(c, http.StatusInternalServerError, "Failed to fetch whisper")
		}
		return
	}

	response.RespondOK(c, view)
}
