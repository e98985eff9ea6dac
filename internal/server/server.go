// Package server exposes the dispatch orchestrator over HTTP.
package server

import (
	"context"
	"net/http"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/pkg/models"
)

// sdkMarker identifies the engine implementation in /health responses.
const sdkMarker = "roma-go"

// Dispatcher runs one solve request end to end.
type Dispatcher interface {
	Dispatch(ctx context.Context, req models.SolveRequest) (models.AggregateOutcome, error)
}

// BreakerResetter is the circuit breaker's reset hook.
type BreakerResetter interface {
	ResetAll() int
}

// Server wires the HTTP surface to the dispatcher.
type Server struct {
	cfg        *config.Config
	dispatcher Dispatcher
	resolver   *resolve.TierResolver
	breaker    BreakerResetter
}

// New creates a Server.
func New(cfg *config.Config, dispatcher Dispatcher, resolver *resolve.TierResolver, breaker BreakerResetter) *Server {
	return &Server{
		cfg:        cfg,
		dispatcher: dispatcher,
		resolver:   resolver,
		breaker:    breaker,
	}
}

// Handler returns the HTTP handler for all gateway endpoints.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /reset", s.handleReset)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}
