package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/whisperback-backend/internal/clients/payments"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

// CheckoutService creates one-time payment sessions scoped to a whisper.
type CheckoutService interface {
	// CreateSession returns the redirect URL for the hosted checkout page.
	CreateSession(ctx context.Context, whisperID, origin string) (string, error)
}

type checkoutService struct {
	log      *logger.Logger
	payments payments.Client
	// baseURL backs success/cancel URLs when the request carries no Origin.
	baseURL string
}

func NewCheckoutService(log *logger.Logger, pay payments.Client, baseURL string) CheckoutService {
	return &checkoutService{
		log:      log.With("service", "CheckoutService"),
		payments: pay,
		baseURL:  baseURL,
	}
}

func (s *checkoutService) CreateSession(ctx context.Context, whisperID, origin string) (string, error) {
	whisperID = strings.TrimSpace(whisperID)
	if whisperID == "" {
		return "", fmt.Errorf("%w: whisper id required", apperr.ErrInvalidArgument)
	}
	if strings.TrimSpace(origin) == "" {
		origin = s.baseURL
	}

	sess, err := s.payments.CreateCheckoutSession(ctxutil.Default(ctx), payments.CheckoutParams{
		WhisperID: whisperID,
		Origin:    origin,
	})
	if err != nil {
		// Backend detail stays in the logs; callers get the generic failure.
		s.log.Error("Checkout session creation failed", "whisper_id", whisperID, "error", err)
		return "", apperr.ErrPaymentBackend
	}

	s.log.Info("Checkout session created", "whisper_id", whisperID, "session_id", sess.ID)
	return sess.URL, nil
}
