// Package symptoms asks the pharmacy's advisor which medicines and
// precautions fit a shopper's symptoms.
package symptoms

import (
	"context"
	"strconv"
	"strings"

	"go-pharmacy/models"
	"go-pharmacy/storefront/apperr"

	"go.uber.org/zap"
)

// MaxAge is the oldest age accepted by Check.
const MaxAge = 120

// Advisor is the part of the pharmacy API the checker calls.
type Advisor interface {
	CheckSymptoms(ctx context.Context, req models.SymptomCheckRequest) (string, error)
	MedicineSuggestions(ctx context.Context, symptoms, duration string) ([]string, error)
}

// Query is a symptom check as entered by the shopper.
type Query struct {
	Symptoms string `json:"symptoms"`
	Duration string `json:"duration"`
	Age      string `json:"age"`
}

// Checker runs symptom checks.
type Checker struct {
	advisor Advisor
	logger  *zap.Logger
}

// New returns a Checker that asks advisor.
func New(advisor Advisor, logger *zap.Logger) *Checker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Checker{advisor: advisor, logger: logger}
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperr.Invalid(field, "please fill in all fields")
	}
	return nil
}

// Validate trims q and checks that every field is set and the age is a
// whole number of years.
func (q Query) Validate() (models.SymptomCheckRequest, error) {
	req := models.SymptomCheckRequest{
		Symptoms: strings.TrimSpace(q.Symptoms),
		Duration: strings.TrimSpace(q.Duration),
		Age:      strings.TrimSpace(q.Age),
	}
	for _, err := range []error{
		required("symptoms", req.Symptoms),
		required("duration", req.Duration),
		required("age", req.Age),
	} {
		if err != nil {
			return models.SymptomCheckRequest{}, err
		}
	}
	age, err := strconv.Atoi(req.Age)
	if err != nil || age < 0 || age > MaxAge {
		return models.SymptomCheckRequest{}, apperr.Invalid("age", "age must be a whole number between 0 and 120")
	}
	return req, nil
}

// Check asks for advice on q. An answer that cannot be decoded is reported
// as a MalformedResponse.
func (c *Checker) Check(ctx context.Context, q Query) (models.Advice, error) {
	req, err := q.Validate()
	if err != nil {
		return models.Advice{}, err
	}

	text, err := c.advisor.CheckSymptoms(ctx, req)
	if err != nil {
		c.logger.Warn("symptom check failed", zap.Error(err))
		return models.Advice{}, err
	}

	advice, err := models.ParseAdvice(text)
	if err != nil {
		c.logger.Warn("symptom check answer not understood", zap.Error(err))
		return models.Advice{}, apperr.Wrap(apperr.MalformedResponse, "the advice came back in an invalid format", err)
	}
	return advice, nil
}

// Suggest lists medicine names for symptoms lasting duration.
func (c *Checker) Suggest(ctx context.Context, symptoms, duration string) ([]string, error) {
	symptoms, duration = strings.TrimSpace(symptoms), strings.TrimSpace(duration)
	if err := required("symptoms", symptoms); err != nil {
		return nil, err
	}
	if err := required("duration", duration); err != nil {
		return nil, err
	}

	names, err := c.advisor.MedicineSuggestions(ctx, symptoms, duration)
	if err != nil {
		c.logger.Warn("medicine suggestions failed", zap.Error(err))
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}
