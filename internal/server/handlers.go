package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/quantive/appmatch/internal/matching"
	"github.com/quantive/appmatch/pkg/models"
)

// Prompt length bounds for the interactive flow.
const (
	minPromptLength = 10
	maxPromptLength = 2000
	maxAnswerLength = 1000
)

// writeJSON writes a JSON response with proper error handling.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// handleHealth handles health check requests.
func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": s.version,
	})
}

// handleLabels serves the label and tag catalogs for clients building UIs.
func (s *Service) handleLabels(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"labels": models.LabelCatalog,
		"tags":   models.TagCatalog,
	})
}

// StartRequest is the request body for starting an interactive session.
type StartRequest struct {
	PromptText string `json:"prompt_text"`
}

// handleStart starts a new interactive matching session.
func (s *Service) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.PromptText) < minPromptLength || len(req.PromptText) > maxPromptLength {
		http.Error(w, "prompt_text must be between 10 and 2000 characters", http.StatusBadRequest)
		return
	}

	result := s.machine.Start(r.Context(), req.PromptText)
	writeJSON(w, http.StatusOK, result)
}

// ContinueRequest is the request body for continuing a session.
type ContinueRequest struct {
	Session    models.SessionState `json:"session"`
	AnswerText string              `json:"answer_text"`
}

// handleContinue applies the user's answer to an existing session.
func (s *Service) handleContinue(w http.ResponseWriter, r *http.Request) {
	var req ContinueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.AnswerText == "" || len(req.AnswerText) > maxAnswerLength {
		http.Error(w, "answer_text must be between 1 and 1000 characters", http.StatusBadRequest)
		return
	}

	result := s.machine.Continue(r.Context(), req.Session, req.AnswerText)
	writeJSON(w, http.StatusOK, result)
}

// FinalizeRequest is the request body for running the final match.
type FinalizeRequest struct {
	Session models.SessionState `json:"session"`
	TopK    int                 `json:"top_k"`
	TopN    int                 `json:"top_n"`
}

// FinalizeResponse carries the composed prompt and the ranked results.
type FinalizeResponse struct {
	FinalPrompt string               `json:"final_prompt"`
	Results     []models.MatchResult `json:"results"`
}

// handleFinalize runs the final match on a valid session.
func (s *Service) handleFinalize(w http.ResponseWriter, r *http.Request) {
	var req FinalizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	topK, topN := s.limits(req.TopK, req.TopN)
	finalPrompt, results, err := s.matchSvc.FinalizeSession(r.Context(), req.Session, topK, topN)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FinalizeResponse{
		FinalPrompt: finalPrompt,
		Results:     results,
	})
}

// MatchRequest is the request body for the one-shot matching flow.
type MatchRequest struct {
	BuyerPrompt string `json:"buyer_prompt"`
	TopK        int    `json:"top_k"`
	TopN        int    `json:"top_n"`
}

// MatchResponse carries the parsed query and the ranked results.
type MatchResponse struct {
	BuyerStruct models.BuyerQuery    `json:"buyer_struct"`
	Results     []models.MatchResult `json:"results"`
}

// handleMatch runs the one-shot matching pipeline on a single buyer prompt.
func (s *Service) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(req.BuyerPrompt) < minPromptLength || len(req.BuyerPrompt) > maxPromptLength {
		http.Error(w, "buyer_prompt must be between 10 and 2000 characters", http.StatusBadRequest)
		return
	}

	topK, topN := s.limits(req.TopK, req.TopN)
	query, results, err := s.matchSvc.MatchPrompt(r.Context(), req.BuyerPrompt, topK, topN)
	if err != nil {
		s.writeMatchError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, MatchResponse{
		BuyerStruct: query,
		Results:     results,
	})
}

// writeMatchError maps matching errors onto HTTP statuses: input errors are
// the caller's fault, everything else is an upstream failure.
func (s *Service) writeMatchError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, matching.ErrSessionNotReady):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	case errors.Is(err, matching.ErrNoCriteria):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		log.Error().Err(err).Msg("match pipeline failed")
		http.Error(w, err.Error(), http.StatusBadGateway)
	}
}

// limits resolves request-supplied top_k/top_n against configured defaults.
func (s *Service) limits(topK, topN int) (int, int) {
	if topK <= 0 {
		topK = s.config.TopK
	}
	if topN <= 0 {
		topN = s.config.TopN
	}
	return topK, topN
}
