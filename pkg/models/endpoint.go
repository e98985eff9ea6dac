package models

// EndpointConfig describes a concrete model endpoint for one role.
// It is built once per request and never mutated or shared afterwards.
type EndpointConfig struct {
	// Provider is the upstream provider this endpoint belongs to.
	Provider Provider
	// Model is the provider-specific model identifier.
	Model string
	// APIKey is the credential used to call the endpoint.
	APIKey string
	// BaseURL overrides the provider's default API base, if set.
	BaseURL string
	// Temperature is the sampling temperature for this role.
	Temperature float64
	// MaxTokens caps the output token budget for this role.
	MaxTokens int
}

// Role names one of the four functional stages of a solve.
type Role string

const (
	// RoleAtomizer decides whether a goal is atomic or needs decomposition.
	RoleAtomizer Role = "atomizer"
	// RolePlanner breaks a non-atomic goal into subtasks.
	RolePlanner Role = "planner"
	// RoleExecutor answers an atomic goal or subtask.
	RoleExecutor Role = "executor"
	// RoleAggregator combines subtask results into a final answer.
	RoleAggregator Role = "aggregator"
)

// RoleAssignment maps each solve role to its endpoint configuration.
// Atomizer and planner carry the orchestration endpoint; executor and
// aggregator carry the analysis endpoint.
type RoleAssignment map[Role]EndpointConfig
