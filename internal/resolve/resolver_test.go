package resolve

import (
	"errors"
	"reflect"
	"testing"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/pkg/models"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Credentials = config.CredentialsConfig{
		Anthropic:   "sk-ant-test",
		OpenAI:      "sk-oai-test",
		OpenRouter:  "sk-or-test",
		HuggingFace: "hf-test",
	}
	return cfg
}

func TestResolve_Purity(t *testing.T) {
	// Resolving the same pair twice yields identical configs.
	r := NewTierResolver(testConfig())

	for _, tier := range models.AllTiers() {
		for _, provider := range models.SupportedProviders() {
			first, label1, err := r.Resolve(tier, provider)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", tier, provider, err)
			}
			second, label2, err := r.Resolve(tier, provider)
			if err != nil {
				t.Fatalf("Resolve(%s, %s) again: %v", tier, provider, err)
			}
			if !reflect.DeepEqual(first, second) || label1 != label2 {
				t.Errorf("Resolve(%s, %s) not stable: %+v vs %+v", tier, provider, first, second)
			}
		}
	}
}

func TestResolve_DefaultProvider(t *testing.T) {
	cfg := testConfig()
	cfg.Provider.Default = "anthropic"
	r := NewTierResolver(cfg)

	ec, label, err := r.Resolve(models.TierKeen, "")
	if err != nil {
		t.Fatalf("Resolve with empty provider: %v", err)
	}
	if label != "anthropic" {
		t.Errorf("label = %q, want %q", label, "anthropic")
	}
	if ec.Provider != models.ProviderAnthropic {
		t.Errorf("Provider = %q, want anthropic", ec.Provider)
	}
	if ec.APIKey != "sk-ant-test" {
		t.Errorf("APIKey = %q, want the anthropic credential", ec.APIKey)
	}
}

func TestResolve_UnknownProvider(t *testing.T) {
	r := NewTierResolver(testConfig())

	_, _, err := r.Resolve(models.TierKeen, models.Provider("gemini"))
	if !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Resolve(gemini) error = %v, want ErrUnknownProvider", err)
	}
}

func TestResolve_MissingCredential(t *testing.T) {
	cfg := config.Default()
	r := NewTierResolver(cfg)

	_, _, err := r.Resolve(models.TierKeen, models.ProviderOpenAI)
	if !errors.Is(err, config.ErrMissingCredential) {
		t.Errorf("Resolve without key error = %v, want ErrMissingCredential", err)
	}
}

func TestResolve_ModelOverridePrecedence(t *testing.T) {
	cfg := testConfig()
	cfg.Models = map[string]map[string]string{
		"openai": {"blitz": "gpt-custom-fast"},
	}
	r := NewTierResolver(cfg)

	overridden, _, err := r.Resolve(models.TierBlitz, models.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if overridden.Model != "gpt-custom-fast" {
		t.Errorf("Model = %q, want override %q", overridden.Model, "gpt-custom-fast")
	}

	// Cells without an override keep the built-in default.
	fallback, _, err := r.Resolve(models.TierSharp, models.ProviderOpenAI)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if fallback.Model != "gpt-4o" {
		t.Errorf("Model = %q, want built-in default %q", fallback.Model, "gpt-4o")
	}
}

func TestResolve_BaseURLs(t *testing.T) {
	r := NewTierResolver(testConfig())

	tests := []struct {
		name     string
		provider models.Provider
		want     string
	}{
		{"anthropic has no base url", models.ProviderAnthropic, ""},
		{"openai has no base url", models.ProviderOpenAI, ""},
		{"grok routes through openrouter", models.ProviderGrok, "https://openrouter.ai/api/v1"},
		{"openrouter gateway", models.ProviderOpenRouter, "https://openrouter.ai/api/v1"},
		{"huggingface router", models.ProviderHuggingFace, "https://router.huggingface.co/v1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ec, _, err := r.Resolve(models.TierKeen, tt.provider)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if ec.BaseURL != tt.want {
				t.Errorf("BaseURL = %q, want %q", ec.BaseURL, tt.want)
			}
		})
	}
}

func TestResolve_EveryCellHasAModel(t *testing.T) {
	r := NewTierResolver(testConfig())

	for _, tier := range models.AllTiers() {
		for _, provider := range models.SupportedProviders() {
			ec, _, err := r.Resolve(tier, provider)
			if err != nil {
				t.Fatalf("Resolve(%s, %s): %v", tier, provider, err)
			}
			if ec.Model == "" {
				t.Errorf("Resolve(%s, %s) produced empty model name", tier, provider)
			}
		}
	}
}
