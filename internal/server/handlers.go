package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/dispatch"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/pkg/models"
)

// maxDepthCap bounds recursive decomposition per request.
const maxDepthCap = 5

// analyzeRequest is the POST /analyze body.
type analyzeRequest struct {
	Goal      string   `json:"goal"`
	Context   string   `json:"context"`
	MaxDepth  int      `json:"max_depth"`
	RomaMode  string   `json:"roma_mode"`
	OrchMode  string   `json:"orch_mode"`
	Provider  string   `json:"provider"`
	Providers []string `json:"providers"`
}

// analyzeResponse is the POST /analyze reply.
type analyzeResponse struct {
	Answer     string                 `json:"answer"`
	WasAtomic  bool                   `json:"was_atomic"`
	Subtasks   []models.SubtaskRecord `json:"subtasks"`
	DurationMS int64                  `json:"duration_ms"`
	Provider   string                 `json:"provider"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if body.Goal == "" {
		writeError(w, http.StatusBadRequest, "goal is required")
		return
	}

	req, err := s.buildRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := s.dispatcher.Dispatch(r.Context(), req)
	if err != nil {
		status, msg := classifyDispatchError(err)
		writeError(w, status, msg)
		return
	}

	subtasks := outcome.Subtasks
	if subtasks == nil {
		subtasks = []models.SubtaskRecord{}
	}

	writeJSON(w, http.StatusOK, analyzeResponse{
		Answer:     outcome.Answer,
		WasAtomic:  outcome.Atomic,
		Subtasks:   subtasks,
		DurationMS: outcome.Duration.Milliseconds(),
		Provider:   outcome.Provider,
	})
}

// buildRequest validates and normalizes the request body into a solve
// request. The provider list keeps its declared order: it is the
// canonical merge order downstream.
func (s *Server) buildRequest(body analyzeRequest) (models.SolveRequest, error) {
	depth := body.MaxDepth
	if depth <= 0 {
		depth = 1
	}
	if depth > maxDepthCap {
		depth = maxDepthCap
	}

	analysisTier := models.TierKeen
	if body.RomaMode != "" {
		analysisTier = models.Tier(body.RomaMode)
		if !analysisTier.Valid() {
			return models.SolveRequest{}, fmt.Errorf("unknown roma_mode %q", body.RomaMode)
		}
	}

	var orchTier models.Tier
	if body.OrchMode != "" {
		orchTier = models.Tier(body.OrchMode)
		if !orchTier.Valid() {
			return models.SolveRequest{}, fmt.Errorf("unknown orch_mode %q", body.OrchMode)
		}
	}

	var providers []models.Provider
	switch {
	case len(body.Providers) > 0:
		for _, p := range body.Providers {
			providers = append(providers, models.Provider(p))
		}
	case body.Provider != "":
		providers = []models.Provider{models.Provider(body.Provider)}
	default:
		providers = []models.Provider{s.cfg.DefaultProvider()}
	}

	return models.SolveRequest{
		Goal:         body.Goal,
		Context:      body.Context,
		MaxDepth:     depth,
		AnalysisTier: analysisTier,
		OrchTier:     orchTier,
		Providers:    providers,
	}, nil
}

// classifyDispatchError maps dispatch failures onto HTTP statuses.
func classifyDispatchError(err error) (int, string) {
	switch {
	case errors.Is(err, resolve.ErrUnknownProvider):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, config.ErrMissingCredential):
		return http.StatusServiceUnavailable, err.Error()
	case errors.Is(err, dispatch.ErrTimedOut):
		return http.StatusGatewayTimeout, err.Error()
	default:
		return http.StatusInternalServerError, fmt.Sprintf("solve failed: %v", err)
	}
}

// resetResponse is the POST /reset reply.
type resetResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	n := s.breaker.ResetAll()
	log.Printf("[server] reset %d circuit(s)", n)

	writeJSON(w, http.StatusOK, resetResponse{
		Status:  "reset",
		Message: fmt.Sprintf("cleared %d circuit(s)", n),
	})
}

// healthResponse is the GET /health reply.
type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
	Model    string `json:"model"`
	SDK      string `json:"sdk"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	provider := s.cfg.DefaultProvider()

	writeJSON(w, http.StatusOK, healthResponse{
		Status:   "ok",
		Provider: string(provider),
		Model:    s.resolver.Model(models.TierKeen, provider),
		SDK:      sdkMarker,
	})
}

// errorResponse is the JSON error body.
type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
