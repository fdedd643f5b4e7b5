package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/whisperback-backend/internal/domain"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

const keyPrefix = "whisper:"

// WhisperStore is the durable asset store. Records expire by TTL; an
// expired record is indistinguishable from one that never existed.
type WhisperStore interface {
	// Put upserts the full record under its id with the given retention.
	Put(ctx context.Context, w *domain.Whisper, ttl time.Duration) error
	// Get returns the record or apperr.ErrNotFound. Callers never see the
	// raw encoding; decoding happens here or not at all.
	Get(ctx context.Context, id string) (*domain.Whisper, error)
	Close() error
}

// commands is the slice of the redis API the store needs; it keeps the
// adapter testable without a live server.
type commands interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Get(ctx context.Context, key string) *goredis.StringCmd
}

type whisperStore struct {
	log    *logger.Logger
	rdb    commands
	closer func() error
}

func NewWhisperStore(log *logger.Logger) (WhisperStore, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &whisperStore{
		log:    log.With("service", "WhisperStore"),
		rdb:    rdb,
		closer: rdb.Close,
	}, nil
}

func newWhisperStoreWith(log *logger.Logger, rdb commands) *whisperStore {
	return &whisperStore{log: log, rdb: rdb, closer: func() error { return nil }}
}

func storeKey(id string) string {
	return keyPrefix + id
}

func (s *whisperStore) Put(ctx context.Context, w *domain.Whisper, ttl time.Duration) error {
	if w == nil || strings.TrimSpace(w.ID) == "" {
		return fmt.Errorf("whisper record with id required")
	}
	raw, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode whisper: %w", err)
	}
	if err := s.rdb.Set(ctx, storeKey(w.ID), raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *whisperStore) Get(ctx context.Context, id string) (*domain.Whisper, error) {
	raw, err := s.rdb.Get(ctx, storeKey(id)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var w domain.Whisper
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, fmt.Errorf("decode whisper %q: %w", id, err)
	}
	return &w, nil
}

func (s *whisperStore) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}
