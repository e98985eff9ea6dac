package models

// SolveRequest is one inbound analyze call, immutable once built.
type SolveRequest struct {
	// Goal is the objective to solve.
	Goal string
	// Context is free-form background text appended to the goal.
	Context string
	// MaxDepth bounds recursive decomposition.
	MaxDepth int
	// AnalysisTier selects models for the executor and aggregator roles.
	AnalysisTier Tier
	// OrchTier selects models for the atomizer and planner roles.
	// When empty it is derived one step down from AnalysisTier.
	OrchTier Tier
	// Providers is the ordered, non-empty set of providers to dispatch to.
	Providers []Provider
}

// Prompt combines the goal and market context into the full prompt the
// engine solves.
func (r SolveRequest) Prompt() string {
	return r.Goal + "\n\nMarket context:\n" + r.Context
}

// MultiProvider returns true when the request fans out to two or more
// providers.
func (r SolveRequest) MultiProvider() bool {
	return len(r.Providers) > 1
}
