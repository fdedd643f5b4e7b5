package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/whisperback-backend/internal/domain"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
	"github.com/yungbote/whisperback-backend/internal/services"
)

type GenerateHandler struct {
	log        *logger.Logger
	generation services.GenerationService
}

func NewGenerateHandler(log *logger.Logger, generation services.GenerationService) *GenerateHandler {
	return &GenerateHandler{
		log:        log.With("handler", "GenerateHandler"),
		generation: generation,
	}
}

type generateRequest struct {
	Occasion     string      `json:"occasion"`
	Mode         domain.Mode `json:"mode"`
	IncludeVerse bool        `json:"includeVerse"`
}

type generateResponse struct {
	Success     bool   `json:"success"`
	ID          string `json:"id"`
	Message     string `json:"message"`
	Quote       string `json:"quote"`
	ImageURL    string `json:"imageUrl"`
	AudioBase64 string `json:"audioBase64"`
}

type generateErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, generateErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.generation.Generate(c.Request.Context(), services.GenerateInput{
		Occasion:     req.Occasion,
		Mode:         req.Mode,
		IncludeVerse: req.IncludeVerse,
	})
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidArgument) {
			c.JSON(http.StatusBadRequest, generateErrorResponse{Error: "occasion required"})
			return
		}
		h.log.Error("Generate failed", "error", err)
		c.JSON(http.StatusInternalServerError, generateErrorResponse{Error: "Generation failed"})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Success:     true,
		ID:          result.ID,
		Message:     result.Message,
		Quote:       result.Quote,
		ImageURL:    result.ImageURL,
		AudioBase64: result.AudioBase64,
	})
}
