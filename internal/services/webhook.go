package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/whisperback-backend/internal/clients/payments"
	redisclient "github.com/yungbote/whisperback-backend/internal/clients/redis"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

// WebhookService applies asynchronous payment notifications. Handling is
// idempotent and best-effort: after a delivery verifies, a missing or
// already-paid record is acknowledged rather than errored, so the
// payment backend's retry policy is never defeated.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, sigHeader string) error
}

type webhookService struct {
	log      *logger.Logger
	payments payments.Client
	store    redisclient.WhisperStore
	paidTTL  time.Duration

	now func() time.Time
}

func NewWebhookService(log *logger.Logger, pay payments.Client, store redisclient.WhisperStore, paidTTL time.Duration) WebhookService {
	return &webhookService{
		log:      log.With("service", "WebhookService"),
		payments: pay,
		store:    store,
		paidTTL:  paidTTL,
		now:      time.Now,
	}
}

func (s *webhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	ctx = ctxutil.Default(ctx)

	ev, err := s.payments.VerifyEvent(payload, sigHeader)
	if err != nil {
		s.log.Warn("Webhook signature rejected", "error", err)
		return fmt.Errorf("%w: %v", apperr.ErrSignatureVerification, err)
	}

	if ev.Type != payments.EventCheckoutCompleted {
		s.log.Debug("Ignoring webhook event", "type", ev.Type)
		return nil
	}
	if ev.WhisperID == "" {
		s.log.Warn("Completed checkout without whisper correlation", "session_id", ev.SessionID)
		return nil
	}

	w, err := s.store.Get(ctx, ev.WhisperID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			// Record expired before payment settled; nothing to unlock.
			s.log.Warn("Paid whisper missing from store", "whisper_id", ev.WhisperID)
			return nil
		}
		return fmt.Errorf("load whisper %s: %w", ev.WhisperID, err)
	}

	if !w.MarkPaid(s.now().UTC(), ev.CustomerEmail) {
		s.log.Info("Whisper already paid; redelivery ignored", "whisper_id", w.ID)
		return nil
	}

	if err := s.store.Put(ctx, w, s.paidTTL); err != nil {
		return fmt.Errorf("persist paid whisper %s: %w", w.ID, err)
	}

	s.log.Info("Whisper unlocked", "whisper_id", w.ID, "session_id", ev.SessionID)
	return nil
}
