package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go-pharmacy/models"
	"go-pharmacy/utils"

	"go.uber.org/zap"
)

const advisorTimeout = 30 * time.Second

// SymptomController proxies symptom questions to the AI advisor
type SymptomController struct {
	Advisor Advisor
	Logger  *zap.Logger
}

// NewSymptomController creates a new SymptomController
func NewSymptomController(advisor Advisor, logger *zap.Logger) *SymptomController {
	return &SymptomController{Advisor: advisor, Logger: logger}
}

// Check returns the advisor's raw suggestion for the reported symptoms
func (sc *SymptomController) Check(w http.ResponseWriter, r *http.Request) {
	var req models.SymptomCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" || strings.TrimSpace(req.Duration) == "" || strings.TrimSpace(req.Age) == "" {
		utils.RespondError(w, http.StatusBadRequest, "Please fill in all fields: symptoms, duration, and age.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), advisorTimeout)
	defer cancel()

	text, err := sc.Advisor.Ask(ctx, utils.SymptomPrompt(req.Symptoms, req.Duration, req.Age))
	if err != nil {
		sc.Logger.Error("symptom check", zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, "Failed to get information. Please try again.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.SymptomCheckResponse{Suggestion: text})
}

// MedicineSuggestions returns the medicine names suggested for the symptoms
func (sc *SymptomController) MedicineSuggestions(w http.ResponseWriter, r *http.Request) {
	var req models.MedicineSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Symptoms) == "" || strings.TrimSpace(req.Duration) == "" {
		utils.RespondError(w, http.StatusBadRequest, "symptoms and duration are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), advisorTimeout)
	defer cancel()

	text, err := sc.Advisor.Ask(ctx, utils.MedicinePrompt(req.Symptoms, req.Duration))
	if err != nil {
		sc.Logger.Error("medicine suggestions", zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, "Failed to fetch medicine suggestions. Please try again.")
		return
	}
	advice, err := models.ParseAdvice(text)
	if err != nil {
		sc.Logger.Warn("advisor returned unparseable answer", zap.Error(err))
		utils.RespondError(w, http.StatusBadGateway, "Invalid AI response format.")
		return
	}
	utils.RespondJSON(w, http.StatusOK, models.MedicineSuggestionResponse{Medicines: advice.Medicine})
}
