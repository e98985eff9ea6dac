// Package resolve maps a quality tier and provider identity to a
// concrete model endpoint configuration.
package resolve

import (
	"errors"
	"fmt"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/pkg/models"
)

// ErrUnknownProvider is returned when a provider identity is outside
// the supported set.
var ErrUnknownProvider = errors.New("unknown provider")

// TierResolver turns (tier, provider) pairs into endpoint configs using
// the process configuration snapshot. It holds no mutable state: the
// same inputs always resolve to the same config.
type TierResolver struct {
	cfg *config.Config
}

// NewTierResolver creates a TierResolver over a configuration snapshot.
func NewTierResolver(cfg *config.Config) *TierResolver {
	return &TierResolver{cfg: cfg}
}

// Resolve maps a tier and optional provider override to an endpoint
// config and the provider label it belongs to. An empty provider means
// the configured default provider.
//
// The temperature and token budget are left zero here; the role
// assembler applies the per-role policy on top.
func (r *TierResolver) Resolve(tier models.Tier, override models.Provider) (models.EndpointConfig, string, error) {
	provider := override
	if provider == "" {
		provider = r.cfg.DefaultProvider()
	}

	if !provider.Valid() {
		return models.EndpointConfig{}, "", fmt.Errorf("provider %q: %w", provider, ErrUnknownProvider)
	}

	key, err := r.cfg.Credential(provider)
	if err != nil {
		return models.EndpointConfig{}, "", err
	}

	model := r.cfg.ModelOverride(provider, tier)
	if model == "" {
		model = defaultModelFor(provider, tier)
	}

	ec := models.EndpointConfig{
		Provider: provider,
		Model:    model,
		APIKey:   key,
		BaseURL:  baseURLFor(provider),
	}
	return ec, string(provider), nil
}

// Model returns the model name a tier/provider cell resolves to,
// without requiring a credential. Used for reporting, not dispatch.
func (r *TierResolver) Model(tier models.Tier, provider models.Provider) string {
	if model := r.cfg.ModelOverride(provider, tier); model != "" {
		return model
	}
	return defaultModelFor(provider, tier)
}
