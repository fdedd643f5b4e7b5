package domain

import "time"

// Mode selects the tone archetype and the voice used for synthesis.
type Mode string

const (
	ModeEncouragement Mode = "encouragement"
	ModeMantra        Mode = "mantra"
	ModeASMR          Mode = "asmr"
)

// Whisper is the persisted asset record: one generated bundle of
// message, quote, image and audio tied to a single user request.
// Audio stays locked behind IsPaid.
type Whisper struct {
	ID            string     `json:"id"`
	Occasion      string     `json:"occasion"`
	Mode          Mode       `json:"mode"`
	IncludeVerse  bool       `json:"includeVerse"`
	Message       string     `json:"message"`
	Quote         string     `json:"quote"`
	ImageData     string     `json:"imageData"` // base64 PNG
	AudioData     string     `json:"audioData"` // base64 audio
	IsPaid        bool       `json:"isPaid"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CustomerEmail string     `json:"customerEmail,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// MarkPaid flips the record into its paid state. Calling it on an
// already-paid record is a no-op so webhook redelivery cannot move
// PaidAt or overwrite the original customer email.
func (w *Whisper) MarkPaid(at time.Time, customerEmail string) bool {
	if w == nil || w.IsPaid {
		return false
	}
	w.IsPaid = true
	w.PaidAt = &at
	w.CustomerEmail = customerEmail
	return true
}

// View is the redacted projection returned to API callers. AudioBase64
// is nil until the whisper is paid; everything else is always visible.
type View struct {
	ID          string  `json:"id"`
	Message     string  `json:"message"`
	Quote       string  `json:"quote"`
	ImageURL    string  `json:"imageUrl"`
	AudioBase64 *string `json:"audioBase64"`
	IsPaid      bool    `json:"isPaid"`
	Mode        Mode    `json:"mode"`
}

// ViewOf builds the projection, enforcing the monetization boundary.
func ViewOf(w *Whisper) View {
	v := View{
		ID:       w.ID,
		Message:  w.Message,
		Quote:    w.Quote,
		ImageURL: ImageDataURL(w.ImageData),
		IsPaid:   w.IsPaid,
		Mode:     w.Mode,
	}
	if w.IsPaid {
		audio := w.AudioData
		v.AudioBase64 = &audio
	}
	return v
}

// ImageDataURL renders stored image bytes as a browser-displayable data URL.
func ImageDataURL(imageData string) string {
	return "data:image/png;base64," + imageData
}
