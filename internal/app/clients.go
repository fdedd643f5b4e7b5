package app

import (
	"fmt"

	"github.com/yungbote/whisperback-backend/internal/clients/gemini"
	"github.com/yungbote/whisperback-backend/internal/clients/payments"
	redisclient "github.com/yungbote/whisperback-backend/internal/clients/redis"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

type Clients struct {
	AI       gemini.Client
	Payments payments.Client
	Store    redisclient.WhisperStore
}

func wireClients(log *logger.Logger) (Clients, error) {
	log.Info("Wiring clients...")

	ai, err := gemini.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init gemini client: %w", err)
	}

	pay, err := payments.NewClient(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init payments client: %w", err)
	}

	store, err := redisclient.NewWhisperStore(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init whisper store: %w", err)
	}

	return Clients{
		AI:       ai,
		Payments: pay,
		Store:    store,
	}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Store != nil {
		_ = c.Store.Close()
	}
}
