package dispatch

import (
	"context"
	"fmt"

	"github.com/sentientlabs/romagate/internal/engine"
	"github.com/sentientlabs/romagate/pkg/models"
)

// SolveUnit is a stateless invocation wrapper around one engine solve.
// It adds no retries and no timeout of its own: all timing discipline
// lives in the orchestrator. Units with disjoint role assignments are
// safe to invoke concurrently.
type SolveUnit struct {
	engine engine.Engine
}

// NewSolveUnit creates a SolveUnit over an engine.
func NewSolveUnit(eng engine.Engine) SolveUnit {
	return SolveUnit{engine: eng}
}

// Invoke runs one solve and returns the raw, unnormalized result.
// Engine failures are wrapped as ErrSolveFailed.
func (u SolveUnit) Invoke(ctx context.Context, roles models.RoleAssignment, prompt string, maxDepth int) (engine.RawResult, error) {
	raw, err := u.engine.Solve(ctx, prompt, maxDepth, roles)
	if err != nil {
		return engine.RawResult{}, fmt.Errorf("%w: %w", ErrSolveFailed, err)
	}
	return raw, nil
}
