package web

import (
	"net/http"

	"go-pharmacy/storefront/apperr"
	"go-pharmacy/storefront/symptoms"
	"go-pharmacy/utils"
)

func (s *Server) checkSymptoms(w http.ResponseWriter, r *http.Request) {
	var q symptoms.Query
	if err := decode(r, &q); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	advice, err := s.symptoms.Check(ctx, q)
	if apperr.Is(err, apperr.MalformedResponse) {
		utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
			"invalidFormat": true,
			"error":         "Invalid response format from the advisor.",
		})
		return
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, advice)
}

func (s *Server) medicineSuggestions(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Symptoms string `json:"symptoms"`
		Duration string `json:"duration"`
	}
	if err := decode(r, &body); err != nil {
		s.fail(w, r, err)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()
	names, err := s.symptoms.Suggest(ctx, body.Symptoms, body.Duration)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{"medicines": names})
}
