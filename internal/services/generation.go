package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/whisperback-backend/internal/clients/gemini"
	redisclient "github.com/yungbote/whisperback-backend/internal/clients/redis"
	"github.com/yungbote/whisperback-backend/internal/domain"
	"github.com/yungbote/whisperback-backend/internal/pkg/apperr"
	"github.com/yungbote/whisperback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

type GenerateInput struct {
	Occasion     string
	Mode         domain.Mode
	IncludeVerse bool
}

type GenerateResult struct {
	ID          string
	Message     string
	Quote       string
	ImageURL    string
	AudioBase64 string
}

// GenerationService runs the three-step generation pipeline and persists
// the assembled record. The steps are strictly sequential: each needs
// the previous step's output, and nothing is written unless all three
// succeed.
type GenerationService interface {
	Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error)
}

type generationService struct {
	log      *logger.Logger
	ai       gemini.Client
	store    redisclient.WhisperStore
	strategy GenerationStrategy

	unpaidTTL time.Duration
	timeout   time.Duration

	now   func() time.Time
	newID func() string
}

func NewGenerationService(log *logger.Logger, ai gemini.Client, store redisclient.WhisperStore, strategy GenerationStrategy, unpaidTTL, timeout time.Duration) GenerationService {
	return &generationService{
		log:       log.With("service", "GenerationService"),
		ai:        ai,
		store:     store,
		strategy:  strategy,
		unpaidTTL: unpaidTTL,
		timeout:   timeout,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *generationService) Generate(ctx context.Context, in GenerateInput) (*GenerateResult, error) {
	occasion := strings.TrimSpace(in.Occasion)
	if occasion == "" {
		return nil, fmt.Errorf("%w: occasion required", apperr.ErrInvalidArgument)
	}

	ctx = ctxutil.Default(ctx)
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	// Step 1: structured text generation.
	content, err := s.ai.GenerateJSON(ctx,
		s.strategy.SystemInstruction(occasion, in.Mode),
		s.strategy.UserPrompt(occasion, in.Mode, in.IncludeVerse),
		s.strategy.Schema,
	)
	if err != nil {
		s.log.Error("Content generation failed", "mode", in.Mode, "error", err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrContentGeneration, err)
	}
	message := stringField(content, "message")
	quote := stringField(content, "quote")
	imagePrompt := stringField(content, "imagePrompt")
	if message == "" || quote == "" || imagePrompt == "" {
		s.log.Error("Content generation returned incomplete structure", "mode", in.Mode)
		return nil, fmt.Errorf("%w: incomplete structured content", apperr.ErrContentGeneration)
	}

	// Step 2: image generation from the model's own prompt.
	image, err := s.ai.GenerateImage(ctx, s.strategy.ImagePrompt(imagePrompt))
	if err != nil {
		s.log.Error("Image generation failed", "mode", in.Mode, "error", err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrImageGeneration, err)
	}

	// Step 3: speech synthesis of the message.
	speech, err := s.ai.GenerateSpeech(ctx, message, s.strategy.VoiceFor(in.Mode))
	if err != nil {
		s.log.Error("Audio generation failed", "mode", in.Mode, "error", err)
		return nil, fmt.Errorf("%w: %v", apperr.ErrAudioGeneration, err)
	}

	w := &domain.Whisper{
		ID:           s.newID(),
		Occasion:     occasion,
		Mode:         in.Mode,
		IncludeVerse: in.IncludeVerse,
		Message:      message,
		Quote:        quote,
		ImageData:    image.Base64,
		AudioData:    speech.Base64,
		IsPaid:       false,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.store.Put(ctx, w, s.unpaidTTL); err != nil {
		s.log.Error("Persisting whisper failed", "whisper_id", w.ID, "error", err)
		return nil, fmt.Errorf("persist whisper: %w", err)
	}

	s.log.Info("Whisper generated", "whisper_id", w.ID, "mode", w.Mode, "include_verse", w.IncludeVerse)

	return &GenerateResult{
		ID:          w.ID,
		Message:     w.Message,
		Quote:       w.Quote,
		ImageURL:    domain.ImageDataURL(w.ImageData),
		AudioBase64: w.AudioData,
	}, nil
}

func stringField(m map[string]any, key string) string {
	v, _ := m[key].(string)
	return strings.TrimSpace(v)
}
