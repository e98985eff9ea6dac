package models

// Provider identifies an upstream model provider.
type Provider string

const (
	// ProviderAnthropic is the direct Anthropic API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderOpenAI is the direct OpenAI API.
	ProviderOpenAI Provider = "openai"
	// ProviderGrok is xAI Grok, reached through the OpenRouter gateway.
	ProviderGrok Provider = "grok"
	// ProviderOpenRouter is the OpenRouter gateway (supports all models).
	ProviderOpenRouter Provider = "openrouter"
	// ProviderHuggingFace is the Hugging Face inference router.
	ProviderHuggingFace Provider = "huggingface"
)

// Valid returns true if the provider is in the supported set.
func (p Provider) Valid() bool {
	switch p {
	case ProviderAnthropic, ProviderOpenAI, ProviderGrok, ProviderOpenRouter, ProviderHuggingFace:
		return true
	default:
		return false
	}
}

// SupportedProviders lists every provider the gateway can dispatch to.
func SupportedProviders() []Provider {
	return []Provider{
		ProviderAnthropic,
		ProviderOpenAI,
		ProviderGrok,
		ProviderOpenRouter,
		ProviderHuggingFace,
	}
}
