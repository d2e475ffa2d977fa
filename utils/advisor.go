package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrAdvisorUnavailable is returned when no AI endpoint is configured.
var ErrAdvisorUnavailable = errors.New("advisor endpoint not configured")

// Advisor sends prompts to an external AI text endpoint.
// The endpoint accepts {"prompt": "..."} and answers {"text": "..."}.
type Advisor struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

// NewAdvisor returns an Advisor. A nil client uses http.DefaultClient.
func NewAdvisor(endpoint, apiKey string, client *http.Client) *Advisor {
	if client == nil {
		client = http.DefaultClient
	}
	return &Advisor{endpoint: endpoint, apiKey: apiKey, client: client}
}

// Ask returns the endpoint's text answer for prompt.
func (a *Advisor) Ask(ctx context.Context, prompt string) (string, error) {
	if a.endpoint == "" {
		return "", ErrAdvisorUnavailable
	}

	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build advisor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if a.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call advisor: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("advisor returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode advisor response: %w", err)
	}
	return out.Text, nil
}

// SymptomPrompt builds the prompt used by the symptom checker.
func SymptomPrompt(symptoms, duration, age string) string {
	var b strings.Builder
	b.WriteString("You are a careful pharmacist assistant. ")
	fmt.Fprintf(&b, "A patient aged %s reports: %s. Duration: %s. ", age, symptoms, duration)
	b.WriteString(`Answer only with JSON of the form {"medicine": ["name", ...], "precautions": "text"} `)
	b.WriteString("listing common over-the-counter medicines and precautions.")
	return b.String()
}

// MedicinePrompt builds the prompt used for plain medicine suggestions.
func MedicinePrompt(symptoms, duration string) string {
	return SymptomPrompt(symptoms, duration, "unknown")
}
