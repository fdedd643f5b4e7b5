package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/whisperback-backend/internal/clients/gemini"
	"github.com/yungbote/whisperback-backend/internal/clients/payments"
	"github.com/yungbote/whisperback-backend/internal/domain"
	httpH "github.com/yungbote/whisperback-backend/internal/http/handlers"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
	"github.com/yungbote/whisperback-backend/internal/services"
)

type scriptedAI struct{}

func (scriptedAI) GenerateJSON(context.Context, string, string, map[string]any) (map[string]any, error) {
	return map[string]any{
		"message":     "You will walk in calm.",
		"quote":       "Courage is quiet.",
		"imagePrompt": "dawn over still water",
	}, nil
}

func (scriptedAI) GenerateImage(context.Context, string) (gemini.ImageGeneration, error) {
	return gemini.ImageGeneration{Base64: "aW1n", MimeType: "image/png"}, nil
}

func (scriptedAI) GenerateSpeech(context.Context, string, string) (gemini.SpeechGeneration, error) {
	return gemini.SpeechGeneration{Base64: "YXVkaW8=", MimeType: "audio/wav"}, nil
}

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*domain.Whisper
	ttls    map[string]time.Duration
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[string]*domain.Whisper{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Put(_ context.Context, w *domain.Whisper, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.records[w.ID] = &cp
	m.ttls[w.ID] = ttl
	return nil
}

func (m *memoryStore) Get(_ context.Context, id string) (*domain.Whisper, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.records[id]
	if !ok {
		return nil, apperr.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memoryStore) Close() error { return nil }

// stubPayments verifies any payload whose signature header is "valid" and
// emits a completed-checkout event correlated to whisperID.
type stubPayments struct {
	whisperID string
	email     string
}

func (s *stubPayments) CreateCheckoutSession(_ context.Context, p payments.CheckoutParams) (payments.CheckoutSession, error) {
	return payments.CheckoutSession{ID: "cs_test_1", URL: "https://pay.example.com/cs_test_1"}, nil
}

func (s *stubPayments) VerifyEvent(_ []byte, sigHeader string) (payments.Event, error) {
	if sigHeader != "valid" {
		return payments.Event{}, apperr.ErrSignatureVerification
	}
	return payments.Event{
		Type:          payments.EventCheckoutCompleted,
		SessionID:     "cs_test_1",
		WhisperID:     s.whisperID,
		CustomerEmail: s.email,
	}, nil
}

func newTestRouter(t *testing.T, pay payments.Client, store *memoryStore) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}

	strategy := services.DefaultGenerationStrategy()
	generation := services.NewGenerationService(log, scriptedAI{}, store, strategy, 7*24*time.Hour, time.Minute)
	checkout := services.NewCheckoutService(log, pay, "http://localhost:3000")
	webhook := services.NewWebhookService(log, pay, store, 365*24*time.Hour)
	whisper := services.NewWhisperService(log, store)

	return NewRouter(RouterConfig{
		Log:             log,
		HealthHandler:   httpH.NewHealthHandler(),
		GenerateHandler: httpH.NewGenerateHandler(log, generation),
		CheckoutHandler: httpH.NewCheckoutHandler(log, checkout),
		WebhookHandler:  httpH.NewWebhookHandler(log, webhook),
		WhisperHandler:  httpH.NewWhisperHandler(log, whisper),
	})
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		t.Fatalf("encode: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouterMethodNotAllowed(t *testing.T) {
	store := newMemoryStore()
	r := newTestRouter(t, &stubPayments{}, store)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/generate"},
		{http.MethodGet, "/checkout"},
		{http.MethodGet, "/webhook"},
		{http.MethodPost, "/whisper/w1"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: got=%d want=405", tc.method, tc.path, rec.Code)
		}
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	r := newTestRouter(t, &stubPayments{}, newMemoryStore())
	if rec := getPath(r, "/nope"); rec.Code != http.StatusNotFound {
		t.Fatalf("status: got=%d want=404", rec.Code)
	}
}

func TestRouterHealthcheck(t *testing.T) {
	r := newTestRouter(t, &stubPayments{}, newMemoryStore())
	if rec := getPath(r, "/healthcheck"); rec.Code != http.StatusOK {
		t.Fatalf("status: got=%d want=200", rec.Code)
	}
}

// Full purchase journey: generate, read (audio withheld), open checkout,
// receive the completed-payment webhook, read again (audio unlocked).
func TestRouterPurchaseFlow(t *testing.T) {
	store := newMemoryStore()
	pay := &stubPayments{email: "buyer@example.com"}
	r := newTestRouter(t, pay, store)

	// Generate.
	rec := postJSON(t, r, "/generate", gin.H{
		"occasion": "first day at a new job",
		"mode":     "encouragement",
	}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var gen struct {
		Success     bool   `json:"success"`
		ID          string `json:"id"`
		AudioBase64 string `json:"audioBase64"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &gen); err != nil {
		t.Fatalf("decode generate: %v", err)
	}
	if !gen.Success || gen.ID == "" {
		t.Fatalf("generate body: %s", rec.Body.String())
	}
	if gen.AudioBase64 != "YXVkaW8=" {
		t.Fatalf("generate audio: got=%q", gen.AudioBase64)
	}
	pay.whisperID = gen.ID

	// Reader sees no audio before payment.
	rec = getPath(r, "/whisper/"+gen.ID)
	if rec.Code != http.StatusOK {
		t.Fatalf("whisper pre-pay: got=%d", rec.Code)
	}
	var pre map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &pre); err != nil {
		t.Fatalf("decode whisper: %v", err)
	}
	if pre["audioBase64"] != nil || pre["isPaid"] != false {
		t.Fatalf("pre-pay view: %s", rec.Body.String())
	}

	// Checkout returns the redirect URL.
	rec = postJSON(t, r, "/checkout", gin.H{"whisperId": gen.ID}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("checkout: got=%d body=%s", rec.Code, rec.Body.String())
	}
	var co struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &co); err != nil {
		t.Fatalf("decode checkout: %v", err)
	}
	if co.URL != "https://pay.example.com/cs_test_1" {
		t.Fatalf("checkout url: %q", co.URL)
	}

	// Provider delivers the completed-payment event.
	rec = postJSON(t, r, "/webhook", gin.H{"type": "checkout.session.completed"},
		map[string]string{"Stripe-Signature": "valid"})
	if rec.Code != http.StatusOK {
		t.Fatalf("webhook: got=%d body=%s", rec.Code, rec.Body.String())
	}

	// Audio is now unlocked and retention extended.
	rec = getPath(r, "/whisper/"+gen.ID)
	var post map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &post); err != nil {
		t.Fatalf("decode whisper: %v", err)
	}
	if post["isPaid"] != true || post["audioBase64"] != "YXVkaW8=" {
		t.Fatalf("post-pay view: %s", rec.Body.String())
	}
	store.mu.Lock()
	ttl := store.ttls[gen.ID]
	email := store.records[gen.ID].CustomerEmail
	store.mu.Unlock()
	if ttl != 365*24*time.Hour {
		t.Fatalf("paid ttl: got=%v want=%v", ttl, 365*24*time.Hour)
	}
	if email != "buyer@example.com" {
		t.Fatalf("customer email: got=%q", email)
	}
}

func TestRouterWebhookBadSignature(t *testing.T) {
	store := newMemoryStore()
	r := newTestRouter(t, &stubPayments{whisperID: "w1"}, store)

	rec := postJSON(t, r, "/webhook", gin.H{"type": "checkout.session.completed"},
		map[string]string{"Stripe-Signature": "forged"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got=%d want=400", rec.Code)
	}
}

func TestRouterWebhookRedelivery(t *testing.T) {
	store := newMemoryStore()
	pay := &stubPayments{email: "buyer@example.com"}
	r := newTestRouter(t, pay, store)

	rec := postJSON(t, r, "/generate", gin.H{"occasion": "exam week", "mode": "mantra"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("generate: got=%d", rec.Code)
	}
	var gen struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &gen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	pay.whisperID = gen.ID

	for i := 0; i < 2; i++ {
		rec = postJSON(t, r, "/webhook", gin.H{"type": "checkout.session.completed"},
			map[string]string{"Stripe-Signature": "valid"})
		if rec.Code != http.StatusOK {
			t.Fatalf("webhook delivery %d: got=%d", i+1, rec.Code)
		}
	}

	store.mu.Lock()
	w := store.records[gen.ID]
	store.mu.Unlock()
	if !w.IsPaid || w.PaidAt == nil {
		t.Fatalf("record not unlocked: %+v", w)
	}
}
