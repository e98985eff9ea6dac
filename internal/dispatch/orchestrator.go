// Package dispatch is the request dispatch core: it resolves tiers and
// providers into role assignments, fans solve units out under one
// deadline, and folds their results back into a single deterministic
// outcome.
package dispatch

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/sentientlabs/romagate/internal/engine"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/internal/roles"
	"github.com/sentientlabs/romagate/pkg/models"
)

// State tracks a dispatch through its lifecycle.
type State string

const (
	// StatePending means the dispatch has been accepted but not launched.
	StatePending State = "pending"
	// StateRunning means units have been launched.
	StateRunning State = "running"
	// StateCompleted means at least one unit resolved in time.
	StateCompleted State = "completed"
	// StateTimedOut means the deadline elapsed before any usable result.
	StateTimedOut State = "timed_out"
	// StateFailed means the dispatch failed before or during solving.
	StateFailed State = "failed"
)

// tierDeadlines is how long the caller waits per analysis tier.
var tierDeadlines = map[models.Tier]time.Duration{
	models.TierBlitz: 35 * time.Second,
	models.TierSharp: 55 * time.Second,
	models.TierKeen:  85 * time.Second,
	models.TierSmart: 120 * time.Second,
}

// defaultDeadline applies to unrecognized tiers.
const defaultDeadline = 85 * time.Second

// DeadlineFor returns the wait deadline for an analysis tier.
func DeadlineFor(tier models.Tier) time.Duration {
	if d, ok := tierDeadlines[tier]; ok {
		return d
	}
	return defaultDeadline
}

// Record summarizes one finished dispatch for observers.
type Record struct {
	ID       string
	Provider string
	Tier     models.Tier
	State    State
	Duration time.Duration
}

// Orchestrator runs solve units under tier-derived deadlines.
//
// Timeouts are soft: the deadline stops the caller from waiting, never
// the unit from working. The wrapped engine is assumed uncooperative
// with preemption, so an expired dispatch abandons its units and
// discards whatever they eventually produce. Result values therefore
// must not be treated as exclusively owned by the request that
// launched them.
type Orchestrator struct {
	resolver  *resolve.TierResolver
	unit      SolveUnit
	deadlines map[models.Tier]time.Duration
	recorder  func(Record)
}

// Option configures an Orchestrator. Use With* functions to create
// Options.
type Option func(*Orchestrator)

// WithDeadlines overrides the per-tier wait deadlines. Tiers absent
// from the map keep their defaults.
func WithDeadlines(overrides map[models.Tier]time.Duration) Option {
	return func(o *Orchestrator) {
		for tier, d := range overrides {
			o.deadlines[tier] = d
		}
	}
}

// WithRecorder sets a callback invoked once per finished dispatch.
// The callback must not block.
func WithRecorder(fn func(Record)) Option {
	return func(o *Orchestrator) { o.recorder = fn }
}

// New creates an Orchestrator over a resolver and an engine.
func New(resolver *resolve.TierResolver, eng engine.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver:  resolver,
		unit:      NewSolveUnit(eng),
		deadlines: make(map[models.Tier]time.Duration, len(tierDeadlines)),
	}
	for tier, d := range tierDeadlines {
		o.deadlines[tier] = d
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) deadlineFor(tier models.Tier) time.Duration {
	if d, ok := o.deadlines[tier]; ok {
		return d
	}
	return defaultDeadline
}

// launched pairs a provider's label and role assignment, ready to run.
type launched struct {
	label string
	roles models.RoleAssignment
}

// unitResult carries one unit's raw result or failure back to the
// dispatch loop.
type unitResult struct {
	idx   int
	label string
	raw   engine.RawResult
	err   error
}

// Dispatch runs one solve request end to end and returns the final
// outcome. Single-provider requests return that provider's outcome
// directly; multi-provider requests return the canonical-order merge
// of every provider that succeeded in time.
func (o *Orchestrator) Dispatch(ctx context.Context, req models.SolveRequest) (models.AggregateOutcome, error) {
	if len(req.Providers) == 0 {
		return models.AggregateOutcome{}, ErrNoProviders
	}

	id := uuid.New().String()[:8]
	start := time.Now()
	state := StatePending

	analysisTier := req.AnalysisTier
	orchTier := req.OrchTier
	if orchTier == "" {
		orchTier = roles.DeriveOrchTier(analysisTier)
	}

	// Resolve every provider before launching anything: configuration
	// errors reject the request with no dispatch attempted.
	units := make([]launched, 0, len(req.Providers))
	for _, provider := range req.Providers {
		analysisEC, label, err := o.resolver.Resolve(analysisTier, provider)
		if err != nil {
			return models.AggregateOutcome{}, err
		}
		orchEC, _, err := o.resolver.Resolve(orchTier, provider)
		if err != nil {
			return models.AggregateOutcome{}, err
		}
		units = append(units, launched{
			label: label,
			roles: roles.Assemble(analysisEC, orchEC),
		})
	}

	deadline := o.deadlineFor(analysisTier)
	labelSummary := units[0].label
	if len(units) > 1 {
		labelSummary = fmt.Sprintf("%s (+%d)", units[0].label, len(units)-1)
	}
	defer func() {
		if o.recorder != nil {
			o.recorder(Record{
				ID:       id,
				Provider: labelSummary,
				Tier:     analysisTier,
				State:    state,
				Duration: time.Since(start),
			})
		}
	}()

	// Units are launched on a context detached from the caller's: a
	// client disconnect or an expired deadline stops the waiting, not
	// the work.
	unitCtx := context.WithoutCancel(ctx)
	state = StateRunning

	var (
		agg models.AggregateOutcome
		err error
	)
	if len(units) == 1 {
		agg, state, err = o.dispatchSingle(unitCtx, id, req, units[0], deadline)
	} else {
		agg, state, err = o.dispatchMulti(unitCtx, id, req, units, deadline)
	}
	if err != nil {
		return models.AggregateOutcome{}, err
	}

	agg.Duration = time.Since(start)
	return agg, nil
}

// dispatchSingle launches exactly one unit and waits for it or the
// deadline, whichever comes first.
func (o *Orchestrator) dispatchSingle(ctx context.Context, id string, req models.SolveRequest, lu launched, deadline time.Duration) (models.AggregateOutcome, State, error) {
	// Buffered so the abandoned sender never blocks after a timeout.
	results := make(chan unitResult, 1)
	go o.runUnit(ctx, 0, lu, req, results)

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case r := <-results:
		if r.err != nil {
			log.Printf("[dispatch] %s provider %s failed: %v", id, r.label, r.err)
			return models.AggregateOutcome{}, StateFailed, r.err
		}
		outcome := Normalize(r.raw)
		return models.AggregateOutcome{
			Answer:   outcome.Answer,
			Atomic:   outcome.Atomic,
			Subtasks: outcome.Subtasks,
			Provider: r.label,
		}, StateCompleted, nil

	case <-timer.C:
		// Soft cancellation: return immediately and leave the unit
		// running. Its eventual result lands in the buffered channel
		// and is discarded.
		log.Printf("[dispatch] %s provider %s abandoned after %s", id, lu.label, deadline)
		return models.AggregateOutcome{}, StateTimedOut,
			fmt.Errorf("%w after %s (tier %s)", ErrTimedOut, deadline, req.AnalysisTier)
	}
}

// dispatchMulti launches one unit per provider under a single shared
// deadline, then merges whatever succeeded in canonical order.
func (o *Orchestrator) dispatchMulti(ctx context.Context, id string, req models.SolveRequest, units []launched, deadline time.Duration) (models.AggregateOutcome, State, error) {
	results := make(chan unitResult, len(units))
	for i, lu := range units {
		go o.runUnit(ctx, i, lu, req, results)
	}

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	// Collect until every unit resolved or the deadline fired. The
	// slice is indexed by launch position so completion order never
	// leaks into the response.
	resolved := make([]*unitResult, len(units))
	received := 0

collect:
	for received < len(units) {
		select {
		case r := <-results:
			received++
			if r.err != nil {
				// One provider failing never aborts its siblings.
				log.Printf("[dispatch] %s provider %s failed: %v", id, r.label, r.err)
			}
			resolved[r.idx] = &r
		case <-timer.C:
			log.Printf("[dispatch] %s abandoned %d of %d units after %s",
				id, len(units)-received, len(units), deadline)
			break collect
		}
	}

	ordered := make([]LabeledOutcome, 0, len(units))
	for _, r := range resolved {
		if r == nil || r.err != nil {
			continue
		}
		ordered = append(ordered, LabeledOutcome{
			Label:   r.label,
			Outcome: Normalize(r.raw),
		})
	}

	if len(ordered) == 0 {
		return models.AggregateOutcome{}, StateFailed,
			fmt.Errorf("%w: %d providers", ErrAllProvidersFailed, len(units))
	}

	return Merge(ordered), StateCompleted, nil
}

// runUnit invokes one solve unit and reports into the results channel.
// The channel is buffered for every launched unit, so a send after the
// dispatch has moved on simply parks the discarded result.
func (o *Orchestrator) runUnit(ctx context.Context, idx int, lu launched, req models.SolveRequest, results chan<- unitResult) {
	raw, err := o.unit.Invoke(ctx, lu.roles, req.Prompt(), req.MaxDepth)
	results <- unitResult{idx: idx, label: lu.label, raw: raw, err: err}
}
