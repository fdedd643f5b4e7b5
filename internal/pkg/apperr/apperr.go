package apperr

import (
	"errors"
	"net/http"
)

// Sentinels for every failure class the API surfaces. Upstream detail is
// wrapped with %w so handlers can map to a status without leaking it.
var (
	// ErrInvalidArgument is a generic sentinel for missing or malformed input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNotFound covers both never-created and expired records; the store
	// cannot tell them apart and neither should callers.
	ErrNotFound = errors.New("not found")
	// ErrContentGeneration means the text backend returned no usable structured content.
	ErrContentGeneration = errors.New("content generation failed")
	// ErrImageGeneration means the image backend returned no image payload.
	ErrImageGeneration = errors.New("image generation failed")
	// ErrAudioGeneration means the speech backend returned no audio payload.
	ErrAudioGeneration = errors.New("audio generation failed")
	// ErrPaymentBackend means checkout session creation failed upstream.
	ErrPaymentBackend = errors.New("payment backend failure")
	// ErrSignatureVerification means a webhook delivery failed authenticity checks.
	ErrSignatureVerification = errors.New("signature verification failed")
)

// Status maps an error chain to the HTTP status the API contract requires.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrSignatureVerification):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
