package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/dispatch"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/pkg/models"
)

type fakeDispatcher struct {
	lastReq models.SolveRequest
	outcome models.AggregateOutcome
	err     error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, req models.SolveRequest) (models.AggregateOutcome, error) {
	f.lastReq = req
	if f.err != nil {
		return models.AggregateOutcome{}, f.err
	}
	return f.outcome, nil
}

type fakeBreaker struct {
	cleared int
}

func (f *fakeBreaker) ResetAll() int { return f.cleared }

func newTestServer(d Dispatcher, b BreakerResetter) *Server {
	cfg := config.Default()
	return New(cfg, d, resolve.NewTierResolver(cfg), b)
}

func postJSON(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAnalyze_Atomic(t *testing.T) {
	d := &fakeDispatcher{outcome: models.AggregateOutcome{
		Answer:   "the answer",
		Atomic:   true,
		Provider: "anthropic",
		Duration: 1500 * time.Millisecond,
	}}
	srv := newTestServer(d, &fakeBreaker{})

	rec := postJSON(t, srv.Handler(), "/analyze",
		`{"goal": "analyze BTC", "context": "bull market", "roma_mode": "keen", "provider": "anthropic"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Answer != "the answer" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if !resp.WasAtomic {
		t.Error("was_atomic = false, want true")
	}
	if resp.Subtasks == nil || len(resp.Subtasks) != 0 {
		t.Errorf("subtasks = %#v, want empty non-nil", resp.Subtasks)
	}
	if resp.DurationMS != 1500 {
		t.Errorf("duration_ms = %d, want 1500", resp.DurationMS)
	}
	if resp.Provider != "anthropic" {
		t.Errorf("provider = %q", resp.Provider)
	}

	if got := d.lastReq.Prompt(); got != "analyze BTC\n\nMarket context:\nbull market" {
		t.Errorf("prompt = %q", got)
	}
	if d.lastReq.AnalysisTier != models.TierKeen {
		t.Errorf("analysis tier = %q", d.lastReq.AnalysisTier)
	}
	if d.lastReq.MaxDepth != 1 {
		t.Errorf("max_depth = %d, want default 1", d.lastReq.MaxDepth)
	}
}

func TestAnalyze_MultiProviderMergedAnswer(t *testing.T) {
	d := &fakeDispatcher{outcome: models.AggregateOutcome{
		Answer:   "[a]\nA1\n\n---\n\n[b]\nB1",
		Atomic:   true,
		Provider: "a + b",
		Duration: 2 * time.Second,
	}}
	srv := newTestServer(d, &fakeBreaker{})

	rec := postJSON(t, srv.Handler(), "/analyze",
		`{"goal": "g", "providers": ["anthropic", "openai"], "provider": "grok"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp analyzeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Answer != "[a]\nA1\n\n---\n\n[b]\nB1" {
		t.Errorf("answer = %q", resp.Answer)
	}
	if resp.Provider != "a + b" {
		t.Errorf("provider = %q", resp.Provider)
	}

	// providers list wins over the singular provider field
	want := []models.Provider{models.ProviderAnthropic, models.ProviderOpenAI}
	if len(d.lastReq.Providers) != len(want) {
		t.Fatalf("providers = %v, want %v", d.lastReq.Providers, want)
	}
	for i, p := range want {
		if d.lastReq.Providers[i] != p {
			t.Errorf("providers[%d] = %q, want %q", i, d.lastReq.Providers[i], p)
		}
	}
}

func TestAnalyze_DefaultProvider(t *testing.T) {
	d := &fakeDispatcher{outcome: models.AggregateOutcome{Answer: "ok"}}
	srv := newTestServer(d, &fakeBreaker{})

	rec := postJSON(t, srv.Handler(), "/analyze", `{"goal": "g"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	if len(d.lastReq.Providers) != 1 || d.lastReq.Providers[0] != models.ProviderOpenRouter {
		t.Errorf("providers = %v, want [openrouter]", d.lastReq.Providers)
	}
}

func TestAnalyze_MaxDepthClamped(t *testing.T) {
	d := &fakeDispatcher{outcome: models.AggregateOutcome{Answer: "ok"}}
	srv := newTestServer(d, &fakeBreaker{})

	tests := []struct {
		body string
		want int
	}{
		{`{"goal": "g", "max_depth": 0}`, 1},
		{`{"goal": "g", "max_depth": -3}`, 1},
		{`{"goal": "g", "max_depth": 3}`, 3},
		{`{"goal": "g", "max_depth": 99}`, 5},
	}
	for _, tt := range tests {
		rec := postJSON(t, srv.Handler(), "/analyze", tt.body)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d for %s", rec.Code, tt.body)
		}
		if d.lastReq.MaxDepth != tt.want {
			t.Errorf("max_depth = %d, want %d for %s", d.lastReq.MaxDepth, tt.want, tt.body)
		}
	}
}

func TestAnalyze_BadRequests(t *testing.T) {
	d := &fakeDispatcher{outcome: models.AggregateOutcome{Answer: "ok"}}
	srv := newTestServer(d, &fakeBreaker{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"goal": `},
		{"missing goal", `{"context": "c"}`},
		{"unknown roma_mode", `{"goal": "g", "roma_mode": "turbo"}`},
		{"unknown orch_mode", `{"goal": "g", "orch_mode": "turbo"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv.Handler(), "/analyze", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAnalyze_ErrorStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"unknown provider", fmt.Errorf("provider %q: %w", "nope", resolve.ErrUnknownProvider), http.StatusBadRequest},
		{"missing credential", fmt.Errorf("provider %q: %w", "anthropic", config.ErrMissingCredential), http.StatusServiceUnavailable},
		{"timeout", fmt.Errorf("%w after 85s", dispatch.ErrTimedOut), http.StatusGatewayTimeout},
		{"solve failed", fmt.Errorf("%w: boom", dispatch.ErrSolveFailed), http.StatusInternalServerError},
		{"all providers failed", dispatch.ErrAllProvidersFailed, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(&fakeDispatcher{err: tt.err}, &fakeBreaker{})
			rec := postJSON(t, srv.Handler(), "/analyze", `{"goal": "g"}`)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error body: %v", err)
			}
			if resp.Error == "" {
				t.Error("error body is empty")
			}
		})
	}
}

func TestReset(t *testing.T) {
	srv := newTestServer(&fakeDispatcher{}, &fakeBreaker{cleared: 3})

	rec := postJSON(t, srv.Handler(), "/reset", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp resetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "reset" {
		t.Errorf("status = %q, want reset", resp.Status)
	}
	if !strings.Contains(resp.Message, "3") {
		t.Errorf("message = %q, want cleared count", resp.Message)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(&fakeDispatcher{}, &fakeBreaker{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Provider != "openrouter" {
		t.Errorf("provider = %q, want default openrouter", resp.Provider)
	}
	if resp.Model == "" {
		t.Error("model is empty")
	}
	if resp.SDK != "roma-go" {
		t.Errorf("sdk = %q, want roma-go", resp.SDK)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&fakeDispatcher{}, &fakeBreaker{})

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /analyze status = %d, want 405", rec.Code)
	}
}
