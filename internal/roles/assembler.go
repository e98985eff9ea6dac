// Package roles assigns endpoint configurations to the four solve roles.
package roles

import "github.com/sentientlabs/romagate/pkg/models"

// rolePolicy is the fixed per-role temperature and token budget. It is
// not configurable at runtime.
type rolePolicy struct {
	temperature float64
	maxTokens   int
}

var rolePolicies = map[models.Role]rolePolicy{
	models.RoleAtomizer:   {temperature: 0.1, maxTokens: 1000},
	models.RolePlanner:    {temperature: 0.3, maxTokens: 3000},
	models.RoleExecutor:   {temperature: 0.5, maxTokens: 2000},
	models.RoleAggregator: {temperature: 0.2, maxTokens: 4000},
}

// orchTierDerivation maps an analysis tier to the default orchestration
// tier. Orchestration calls are latency-sensitive and sequential, so
// they run one tier cheaper than the analysis calls they serve.
var orchTierDerivation = map[models.Tier]models.Tier{
	models.TierBlitz: models.TierBlitz,
	models.TierSharp: models.TierBlitz,
	models.TierKeen:  models.TierSharp,
	models.TierSmart: models.TierKeen,
}

// DeriveOrchTier returns the default orchestration tier for an analysis
// tier. Unknown tiers derive as keen does.
func DeriveOrchTier(analysis models.Tier) models.Tier {
	if t, ok := orchTierDerivation[analysis]; ok {
		return t
	}
	return orchTierDerivation[models.TierKeen]
}

// Assemble produces the four-role assignment from an analysis endpoint
// and an orchestration endpoint. Atomizer and planner get the
// orchestration endpoint; executor and aggregator get the analysis
// endpoint. Each role's copy carries its own temperature and token
// budget from the fixed policy table.
func Assemble(analysis, orchestration models.EndpointConfig) models.RoleAssignment {
	assignment := make(models.RoleAssignment, len(rolePolicies))
	for role, policy := range rolePolicies {
		ec := analysis
		if role == models.RoleAtomizer || role == models.RolePlanner {
			ec = orchestration
		}
		ec.Temperature = policy.temperature
		ec.MaxTokens = policy.maxTokens
		assignment[role] = ec
	}
	return assignment
}
