package services

import (
	"fmt"
	"strings"

	"github.com/yungbote/whisperback-backend/internal/domain"
)

// GenerationStrategy holds everything variant-specific about the
// pipeline: persona, tone directives, output schema, image styling and
// the mode→voice table. The pipeline code stays fixed while variants
// swap this value.
type GenerationStrategy struct {
	Persona            string
	ToneDirectives     map[domain.Mode]string
	DefaultTone        string
	ScriptureDirective string
	SecularDirective   string
	ImagePromptSuffix  string
	Schema             map[string]any
	Voices             map[domain.Mode]string
	DefaultVoice       string
}

// DefaultGenerationStrategy is the authoritative variant.
func DefaultGenerationStrategy() GenerationStrategy {
	return GenerationStrategy{
		Persona: strings.Join([]string{
			"You are NEXUS-7, an elite emotional intelligence engine.",
			"Create profound, comforting messages.",
			"Rules:",
			"1. Analyze the emotional need behind: '%s'",
			"2. Be positive and affirming",
			"3. Keep it concise",
		}, "\n"),
		ToneDirectives: map[domain.Mode]string{
			domain.ModeEncouragement: "Style: Confident, warm, encouraging.",
			domain.ModeMantra:        "Style: Rhythmic, grounding, spiritual.",
			domain.ModeASMR:          "Style: Soft, slow, protective.",
		},
		DefaultTone:        "Style: Confident, warm, encouraging.",
		ScriptureDirective: "Include a specific Bible verse (KJV/ESV/NIV) in the quote field.",
		SecularDirective:   "Use philosophical wisdom for the quote.",
		ImagePromptSuffix:  "cinematic minimalist 9:16 aspect ratio no text",
		Schema: map[string]any{
			"type": "OBJECT",
			"properties": map[string]any{
				"message": map[string]any{
					"type":        "STRING",
					"description": "The core spoken message. Minimal, profound, punchy.",
				},
				"quote": map[string]any{
					"type":        "STRING",
					"description": "A relevant short quote or bible verse.",
				},
				"imagePrompt": map[string]any{
					"type":        "STRING",
					"description": "Cinematic, minimalist image prompt.",
				},
			},
			"required": []string{"message", "quote", "imagePrompt"},
		},
		Voices: map[domain.Mode]string{
			domain.ModeEncouragement: "Fenrir",
			domain.ModeMantra:        "Kore",
			domain.ModeASMR:          "Puck",
		},
		DefaultVoice: "Fenrir",
	}
}

// SystemInstruction composes persona plus the mode's tone directive.
func (s GenerationStrategy) SystemInstruction(occasion string, mode domain.Mode) string {
	tone, ok := s.ToneDirectives[mode]
	if !ok {
		tone = s.DefaultTone
	}
	return fmt.Sprintf(s.Persona, occasion) + " " + tone
}

// UserPrompt composes the generation request for the structured text call.
func (s GenerationStrategy) UserPrompt(occasion string, mode domain.Mode, includeVerse bool) string {
	quoteDirective := s.SecularDirective
	if includeVerse {
		quoteDirective = s.ScriptureDirective
	}
	return strings.Join([]string{
		fmt.Sprintf("User needs: %q", occasion),
		fmt.Sprintf("Style: %s", mode),
		quoteDirective,
		"",
		"Create a whisper with:",
		"- message: 2-3 empathetic sentences",
		"- quote: An inspiring quote or verse",
		"- imagePrompt: Minimalist visual description for AI image",
		"",
		"Output as JSON only.",
	}, "\n")
}

// ImagePrompt appends the fixed aesthetic qualifiers.
func (s GenerationStrategy) ImagePrompt(imagePrompt string) string {
	return strings.TrimSpace(imagePrompt) + " " + s.ImagePromptSuffix
}

// VoiceFor resolves the synthesis voice, with one explicit default for
// unrecognized modes.
func (s GenerationStrategy) VoiceFor(mode domain.Mode) string {
	if v, ok := s.Voices[mode]; ok {
		return v
	}
	return s.DefaultVoice
}
