package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/whisperback-backend/internal/http/handlers"
	httpMW "github.com/yungbote/whisperback-backend/internal/http/middleware"
	"github.com/yungbote/whisperback-backend/internal/http/response"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler   *httpH.HealthHandler
	GenerateHandler *httpH.GenerateHandler
	CheckoutHandler *httpH.CheckoutHandler
	WebhookHandler  *httpH.WebhookHandler
	WhisperHandler  *httpH.WhisperHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	// Wrong verbs answer 405, not 404.
	r.HandleMethodNotAllowed = true
	r.NoMethod(func(c *gin.Context) {
		response.RespondError(c, http.StatusMethodNotAllowed, "Method not allowed")
	})
	r.NoRoute(func(c *gin.Context) {
		response.RespondError(c, http.StatusNotFound, "not found")
	})

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.GenerateHandler != nil {
		r.POST("/generate", cfg.GenerateHandler.Generate)
	}
	if cfg.CheckoutHandler != nil {
		r.POST("/checkout", cfg.CheckoutHandler.CreateSession)
	}
	if cfg.WebhookHandler != nil {
		r.POST("/webhook", cfg.WebhookHandler.Handle)
	}
	if cfg.WhisperHandler != nil {
		r.GET("/whisper/:id", cfg.WhisperHandler.GetWhisper)
	}

	return r
}
