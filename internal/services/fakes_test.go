package services

import (
	"context"
	"sync"
	"time"

	"github.com/yungbote/whisperback-backend/internal/clients/gemini"
	"github.com/yungbote/whisperback-backend/internal/clients/payments"
	"github.com/yungbote/whisperback-backend/internal/domain"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

func testLogger(t interface{ Fatalf(string, ...any) }) *logger.Logger {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

// fakeAI scripts the three generation steps.
type fakeAI struct {
	jsonOut map[string]any
	jsonErr error

	imageOut gemini.ImageGeneration
	imageErr error

	speechOut gemini.SpeechGeneration
	speechErr error

	lastSystem      string
	lastUser        string
	lastImagePrompt string
	lastSpeechText  string
	lastVoice       string
}

func (f *fakeAI) GenerateJSON(_ context.Context, system, user string, _ map[string]any) (map[string]any, error) {
	f.lastSystem = system
	f.lastUser = user
	return f.jsonOut, f.jsonErr
}

func (f *fakeAI) GenerateImage(_ context.Context, prompt string) (gemini.ImageGeneration, error) {
	f.lastImagePrompt = prompt
	return f.imageOut, f.imageErr
}

func (f *fakeAI) GenerateSpeech(_ context.Context, text, voiceName string) (gemini.SpeechGeneration, error) {
	f.lastSpeechText = text
	f.lastVoice = voiceName
	return f.speechOut, f.speechErr
}

// fakeStore is an in-memory WhisperStore that records TTLs.
type fakeStore struct {
	mu      sync.Mutex
	records map[string]domain.Whisper
	ttls    map[string]time.Duration
	putErr  error
	getErr  error
	puts    int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		records: map[string]domain.Whisper{},
		ttls:    map[string]time.Duration{},
	}
}

func (s *fakeStore) Put(_ context.Context, w *domain.Whisper, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.records[w.ID] = *w
	s.ttls[w.ID] = ttl
	return nil
}

func (s *fakeStore) Get(_ context.Context, id string) (*domain.Whisper, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	w, ok := s.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := w
	return &cp, nil
}

func (s *fakeStore) Close() error { return nil }

// fakePayments scripts session creation and webhook verification.
type fakePayments struct {
	session    payments.CheckoutSession
	sessionErr error
	lastParams payments.CheckoutParams

	event     payments.Event
	verifyErr error
	verified  int
}

func (f *fakePayments) CreateCheckoutSession(_ context.Context, p payments.CheckoutParams) (payments.CheckoutSession, error) {
	f.lastParams = p
	if f.sessionErr != nil {
		return payments.CheckoutSession{}, f.sessionErr
	}
	return f.session, nil
}

func (f *fakePayments) VerifyEvent(_ []byte, _ string) (payments.Event, error) {
	f.verified++
	if f.verifyErr != nil {
		return payments.Event{}, f.verifyErr
	}
	return f.event, nil
}
