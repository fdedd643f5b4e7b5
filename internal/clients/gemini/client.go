package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/yungbote/whisperback-backend/internal/pkg/ctxutil"
	"github.com/yungbote/whisperback-backend/internal/pkg/httpx"
	"github.com/yungbote/whisperback-backend/internal/pkg/logger"
)

// ImageGeneration is a generated raster image, kept base64-encoded
// because both the store and the API responses want it that way.
type ImageGeneration struct {
	Base64   string
	MimeType string
}

// SpeechGeneration is synthesized audio for a single utterance.
type SpeechGeneration struct {
	Base64   string
	MimeType string
}

// Client is the generative backend used by the whisper pipeline.
type Client interface {
	// GenerateJSON runs a structured-output text generation constrained to schema.
	GenerateJSON(ctx context.Context, system string, user string, schema map[string]any) (map[string]any, error)

	// GenerateImage renders a single image for prompt.
	GenerateImage(ctx context.Context, prompt string) (ImageGeneration, error)

	// GenerateSpeech synthesizes text with the given prebuilt voice.
	GenerateSpeech(ctx context.Context, text string, voiceName string) (SpeechGeneration, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	textModel  string
	imageModel string
	ttsModel   string
	httpClient *http.Client

	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	apiKey := strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	if apiKey == "" {
		return nil, fmt.Errorf("missing GOOGLE_API_KEY")
	}

	baseURL := strings.TrimSpace(os.Getenv("GEMINI_BASE_URL"))
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	textModel := strings.TrimSpace(os.Getenv("GEMINI_MODEL"))
	if textModel == "" {
		textModel = "gemini-3-flash-preview"
	}
	imageModel := strings.TrimSpace(os.Getenv("GEMINI_IMAGE_MODEL"))
	if imageModel == "" {
		imageModel = "gemini-2.5-flash-image"
	}
	ttsModel := strings.TrimSpace(os.Getenv("GEMINI_TTS_MODEL"))
	if ttsModel == "" {
		ttsModel = "gemini-2.5-pro-preview-tts"
	}

	timeoutSec := 90
	if v := os.Getenv("GEMINI_TIMEOUT_SECONDS"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed > 0 {
			timeoutSec = parsed
		}
	}

	maxRetries := 2
	if v := os.Getenv("GEMINI_MAX_RETRIES"); v != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && parsed >= 0 {
			maxRetries = parsed
		}
	}

	return &client{
		log:        log.With("service", "GeminiClient"),
		baseURL:    baseURL,
		apiKey:     apiKey,
		textModel:  textModel,
		imageModel: imageModel,
		ttsModel:   ttsModel,
		httpClient: &http.Client{Timeout: time.Duration(timeoutSec) * time.Second},
		maxRetries: maxRetries,
	}, nil
}

type geminiHTTPError struct {
	StatusCode int
	Body       string
}

func (e *geminiHTTPError) Error() string {
	return fmt.Sprintf("gemini http %d: %s", e.StatusCode, e.Body)
}

func (e *geminiHTTPError) HTTPStatusCode() int {
	if e == nil {
		return 0
	}
	return e.StatusCode
}

// -------------------- Wire types --------------------

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generationConfig struct {
	ResponseMimeType   string         `json:"responseMimeType,omitempty"`
	ResponseSchema     map[string]any `json:"responseSchema,omitempty"`
	Temperature        *float64       `json:"temperature,omitempty"`
	ResponseModalities []string       `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig  `json:"speechConfig,omitempty"`
}

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r *generateContentResponse) firstText() string {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return p.Text
			}
		}
	}
	return ""
}

func (r *generateContentResponse) firstInlineData() *inlineData {
	for _, cand := range r.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return p.InlineData
			}
		}
	}
	return nil
}

// -------------------- HTTP plumbing --------------------

func (c *client) doOnce(ctx context.Context, path string, body any) (*http.Response, []byte, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("x-goog-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}

	raw, readErr := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if readErr != nil {
		return resp, nil, readErr
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, raw, &geminiHTTPError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	return resp, raw, nil
}

func (c *client) generate(ctx context.Context, model string, reqBody generateContentRequest) (*generateContentResponse, error) {
	ctx = ctxutil.Default(ctx)
	path := "/v1beta/models/" + model + ":generateContent"
	backoff := 1 * time.Second

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		resp, raw, err := c.doOnce(ctx, path, reqBody)
		if err == nil {
			var out generateContentResponse
			if uErr := json.Unmarshal(raw, &out); uErr != nil {
				return nil, fmt.Errorf("gemini decode error: %w", uErr)
			}
			return &out, nil
		}

		if !httpx.IsRetryableError(err) {
			return nil, err
		}
		if attempt == c.maxRetries {
			return nil, err
		}

		sleepFor := httpx.RetryAfterDuration(resp, backoff, 10*time.Second)
		sleepFor = httpx.JitterSleep(sleepFor)

		c.log.Warn("Gemini request retrying",
			"model", model,
			"attempt", attempt+1,
			"max_retries", c.maxRetries,
			"sleep", sleepFor.String(),
			"error", err.Error(),
		)

		time.Sleep(sleepFor)
		backoff *= 2
	}

	return nil, fmt.Errorf("unreachable retry loop")
}

// -------------------- Operations --------------------

func (c *client) GenerateJSON(ctx context.Context, system string, user string, schema map[string]any) (map[string]any, error) {
	temp := 1.0
	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: user}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   schema,
			Temperature:      &temp,
		},
	}
	if strings.TrimSpace(system) != "" {
		req.SystemInstruction = &content{Parts: []part{{Text: system}}}
	}

	resp, err := c.generate(ctx, c.textModel, req)
	if err != nil {
		return nil, err
	}

	text := resp.firstText()
	if text == "" {
		return nil, fmt.Errorf("gemini returned no content text")
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(text), &out); err != nil {
		return nil, fmt.Errorf("gemini structured output did not parse: %w", err)
	}
	return out, nil
}

func (c *client) GenerateImage(ctx context.Context, prompt string) (ImageGeneration, error) {
	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	resp, err := c.generate(ctx, c.imageModel, req)
	if err != nil {
		return ImageGeneration{}, err
	}

	data := resp.firstInlineData()
	if data == nil {
		return ImageGeneration{}, fmt.Errorf("gemini returned no image payload")
	}

	mime := data.MimeType
	if mime == "" {
		mime = "image/png"
	}
	return ImageGeneration{Base64: data.Data, MimeType: mime}, nil
}

func (c *client) GenerateSpeech(ctx context.Context, text string, voiceName string) (SpeechGeneration, error) {
	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: voiceName},
				},
			},
		},
	}

	resp, err := c.generate(ctx, c.ttsModel, req)
	if err != nil {
		return SpeechGeneration{}, err
	}

	data := resp.firstInlineData()
	if data == nil {
		return SpeechGeneration{}, fmt.Errorf("gemini returned no audio payload")
	}

	mime := data.MimeType
	if mime == "" {
		mime = "audio/wav"
	}
	return SpeechGeneration{Base64: data.Data, MimeType: mime}, nil
}
