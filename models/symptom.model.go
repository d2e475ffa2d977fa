package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SymptomCheckRequest is the body of POST /api/symptoms/check.
type SymptomCheckRequest struct {
	Symptoms string `json:"symptoms"`
	Duration string `json:"duration"`
	Age      string `json:"age"`
}

// SymptomCheckResponse carries the advisor's answer as text, expected to hold
// a JSON document {"medicine": [...], "precautions": "..."}.
type SymptomCheckResponse struct {
	Suggestion string `json:"suggestion"`
}

// MedicineSuggestionRequest is the body of POST /api/medicine-suggestions.
type MedicineSuggestionRequest struct {
	Symptoms string `json:"symptoms"`
	Duration string `json:"duration"`
}

// MedicineSuggestionResponse lists suggested medicine names.
type MedicineSuggestionResponse struct {
	Medicines []string `json:"medicines"`
}

// Advice is the structured form of a symptom check suggestion.
type Advice struct {
	Medicine    []string `json:"medicine"`
	Precautions string   `json:"precautions"`
}

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// ParseAdvice strips Markdown code fences from an advisor answer and decodes it.
func ParseAdvice(text string) (Advice, error) {
	var advice Advice
	cleaned := strings.TrimSpace(fenceReplacer.Replace(text))
	if err := json.Unmarshal([]byte(cleaned), &advice); err != nil {
		return Advice{}, fmt.Errorf("decode advice: %w", err)
	}
	if advice.Medicine == nil {
		return Advice{}, fmt.Errorf("decode advice: missing medicine list")
	}
	return advice, nil
}
