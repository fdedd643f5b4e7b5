package services

import (
	"context"
	"fmt"
	"strings"

	redisclient "github.com/yungbote/whisperback-backend/internal/clients/redis"
	"github.com/yungbote/whisperback-backend/internal/domain"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

// WhisperService reads whispers back for display, enforcing the
// monetization boundary: audio is redacted until the record is paid.
type WhisperService interface {
	Get(ctx context.Context, id string) (*domain.View, error)
}

type whisperService struct {
	log   *logger.Logger
	store redisclient.WhisperStore
}

func NewWhisperService(log *logger.Logger, store redisclient.WhisperStore) WhisperService {
	return &whisperService{
		log:   log.With("service", "WhisperService"),
		store: store,
	}
}

func (s *whisperService) Get(ctx context.Context, id string) (*domain.View, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("%w: whisper id required", apperr.ErrInvalidArgument)
	}

	w, err := s.store.Get(ctxutil.Default(ctx), id)
	if err != nil {
		return nil, err
	}

	v := domain.ViewOf(w)
	return &v, nil
}
