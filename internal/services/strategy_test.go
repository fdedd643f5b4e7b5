package services

import (
	"strings"
	"testing"

	"github.com/yungbote/whisperback-backend/internal/domain"
)

func TestSystemInstructionTonePerMode(t *testing.T) {
	t.Parallel()
	s := DefaultGenerationStrategy()

	cases := []struct {
		mode domain.Mode
		want string
	}{
		{domain.ModeEncouragement, "Confident, warm, encouraging"},
		{domain.ModeMantra, "Rhythmic, grounding, spiritual"},
		{domain.ModeASMR, "Soft, slow, protective"},
		{domain.Mode("bogus"), "Confident, warm, encouraging"},
	}
	for _, tc := range cases {
		got := s.SystemInstruction("a hard week", tc.mode)
		if !strings.Contains(got, tc.want) {
			t.Fatalf("mode %q: instruction %q missing %q", tc.mode, got, tc.want)
		}
		if !strings.Contains(got, "a hard week") {
			t.Fatalf("mode %q: occasion not embedded", tc.mode)
		}
	}
}

func TestUserPromptQuoteDirective(t *testing.T) {
	t.Parallel()
	s := DefaultGenerationStrategy()

	withVerse := s.UserPrompt("x", domain.ModeMantra, true)
	if !strings.Contains(withVerse, "Bible verse") {
		t.Fatalf("verse directive missing: %q", withVerse)
	}
	without := s.UserPrompt("x", domain.ModeMantra, false)
	if !strings.Contains(without, "philosophical wisdom") {
		t.Fatalf("secular directive missing: %q", without)
	}
	if strings.Contains(without, "Bible verse") {
		t.Fatalf("secular prompt mentions verses: %q", without)
	}
}

func TestSchemaRequiresAllFields(t *testing.T) {
	t.Parallel()
	s := DefaultGenerationStrategy()

	required, ok := s.Schema["required"].([]string)
	if !ok {
		t.Fatalf("schema required: got=%T", s.Schema["required"])
	}
	want := map[string]bool{"message": true, "quote": true, "imagePrompt": true}
	if len(required) != len(want) {
		t.Fatalf("required fields: got=%v", required)
	}
	for _, f := range required {
		if !want[f] {
			t.Fatalf("unexpected required field %q", f)
		}
	}
}
