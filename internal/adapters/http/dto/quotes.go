package dto

import (
	"github.com/jsamuelsen/quote-reader/internal/app"
	"github.com/jsamuelsen/quote-reader/internal/domain"
)

// QuoteRequest is the body of POST /api/quotes.
// An empty subject is rejected by the pipeline, not the binder.
type QuoteRequest struct {
	Subject string `json:"subject" validate:"max=500"`
}

// QuoteItem is a quote on the wire.
type QuoteItem struct {
	Quote   string `json:"quote"`
	Context string `json:"context"`
}

// QuoteResponse is the body returned by POST /api/quotes.
type QuoteResponse struct {
	Quotes   []QuoteItem `json:"quotes"`
	IsPerson bool        `json:"isPerson"`
	Source   string      `json:"source"`
}

// NewQuoteResponse converts a pipeline result to its wire form.
func NewQuoteResponse(r *domain.QuoteResult) QuoteResponse {
	items := make([]QuoteItem, 0, len(r.Quotes))
	for _, q := range r.Quotes {
		items = append(items, QuoteItem{Quote: q.Text, Context: q.Context})
	}

	return QuoteResponse{
		Quotes:   items,
		IsPerson: r.IsPerson,
		Source:   string(r.Source),
	}
}

// SpeechRequest is the body of POST /api/tts.
type SpeechRequest struct {
	Text        string `json:"text"                  validate:"max=5000"`
	VoiceID     string `json:"voiceId,omitempty"     validate:"omitempty,max=64"`
	ModelName   string `json:"modelName,omitempty"   validate:"omitempty,max=128"`
	StylePrompt string `json:"stylePrompt,omitempty" validate:"omitempty,max=1000"`
}

// ToInput converts the request to the speech service input.
func (r SpeechRequest) ToInput() app.SpeechInput {
	return app.SpeechInput{
		Text:        r.Text,
		VoiceID:     r.VoiceID,
		ModelName:   r.ModelName,
		StylePrompt: r.StylePrompt,
	}
}

// SpeechResponse carries a data URL or the browser sentinel.
type SpeechResponse struct {
	AudioData string `json:"audioData"`
}

// VoiceItem is a voice on the wire.
type VoiceItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Gender      string `json:"gender"`
}

// VoicesResponse is the body returned by GET /api/voices.
type VoicesResponse struct {
	Voices []VoiceItem `json:"voices"`
}

// NewVoicesResponse converts catalog voices to their wire form.
func NewVoicesResponse(voices []domain.Voice) VoicesResponse {
	items := make([]VoiceItem, 0, len(voices))
	for _, v := range voices {
		items = append(items, VoiceItem{
			ID:          v.ID,
			Name:        v.Name,
			Description: v.Description,
			Gender:      string(v.Gender),
		})
	}

	return VoicesResponse{Voices: items}
}

// SettingsRequest is the body of POST /api/settings.
type SettingsRequest struct {
	VoiceID string `json:"voiceId"`
}

// SettingsResponse reports whether the settings were accepted.
type SettingsResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// NewSettingsResponse converts a settings result to its wire form.
func NewSettingsResponse(r app.SettingsResult) SettingsResponse {
	return SettingsResponse{Success: r.Success, Message: r.Message}
}
