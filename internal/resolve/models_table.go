package resolve

import "github.com/sentientlabs/romagate/pkg/models"

// defaultModels is the built-in tier x provider model table. Every cell
// can be overridden per-deployment through configuration; these names
// are the fallbacks when no override is set.
var defaultModels = map[models.Provider]map[models.Tier]string{
	models.ProviderAnthropic: {
		models.TierBlitz: "claude-3-5-haiku-20241022",
		models.TierSharp: "claude-3-5-haiku-20241022",
		models.TierKeen:  "claude-sonnet-4-5",
		models.TierSmart: "claude-opus-4-1",
	},
	models.ProviderOpenAI: {
		models.TierBlitz: "gpt-4o-mini",
		models.TierSharp: "gpt-4o",
		models.TierKeen:  "gpt-4.1",
		models.TierSmart: "o3",
	},
	models.ProviderGrok: {
		models.TierBlitz: "x-ai/grok-3-mini",
		models.TierSharp: "x-ai/grok-3-mini",
		models.TierKeen:  "x-ai/grok-3",
		models.TierSmart: "x-ai/grok-4",
	},
	models.ProviderOpenRouter: {
		models.TierBlitz: "anthropic/claude-3-5-haiku",
		models.TierSharp: "openai/gpt-4o",
		models.TierKeen:  "anthropic/claude-sonnet-4-5",
		models.TierSmart: "anthropic/claude-opus-4-1",
	},
	models.ProviderHuggingFace: {
		models.TierBlitz: "meta-llama/Llama-3.1-8B-Instruct",
		models.TierSharp: "meta-llama/Llama-3.3-70B-Instruct",
		models.TierKeen:  "Qwen/Qwen2.5-72B-Instruct",
		models.TierSmart: "deepseek-ai/DeepSeek-R1",
	},
}

// Base URLs for providers that route through an OpenAI-compatible
// gateway rather than their own first-party endpoint.
const (
	openRouterBaseURL  = "https://openrouter.ai/api/v1"
	huggingFaceBaseURL = "https://router.huggingface.co/v1"
)

// baseURLFor returns the API base URL for a provider, or "" when the
// provider SDK's own default applies.
func baseURLFor(provider models.Provider) string {
	switch provider {
	case models.ProviderGrok, models.ProviderOpenRouter:
		return openRouterBaseURL
	case models.ProviderHuggingFace:
		return huggingFaceBaseURL
	default:
		return ""
	}
}

// defaultModelFor returns the built-in model name for a provider/tier
// cell. Unknown tiers resolve to the keen cell.
func defaultModelFor(provider models.Provider, tier models.Tier) string {
	table, ok := defaultModels[provider]
	if !ok {
		return ""
	}
	if m, ok := table[tier]; ok {
		return m
	}
	return table[models.TierKeen]
}
