package models

import "testing"

func TestProvider_Valid(t *testing.T) {
	tests := []struct {
		name     string
		provider Provider
		want     bool
	}{
		{"anthropic is valid", ProviderAnthropic, true},
		{"openai is valid", ProviderOpenAI, true},
		{"grok is valid", ProviderGrok, true},
		{"openrouter is valid", ProviderOpenRouter, true},
		{"huggingface is valid", ProviderHuggingFace, true},
		{"empty string is invalid", Provider(""), false},
		{"unknown provider is invalid", Provider("gemini"), false},
		{"uppercase is invalid", Provider("OPENAI"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.provider.Valid(); got != tt.want {
				t.Errorf("Provider(%q).Valid() = %v, want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestSupportedProviders_AllValid(t *testing.T) {
	for _, p := range SupportedProviders() {
		if !p.Valid() {
			t.Errorf("SupportedProviders() contains invalid provider %q", p)
		}
	}
}

func TestSolveRequest_Prompt(t *testing.T) {
	req := SolveRequest{Goal: "Will BTC close above 65k?", Context: "spot at 64.8k"}
	want := "Will BTC close above 65k?\n\nMarket context:\nspot at 64.8k"
	if got := req.Prompt(); got != want {
		t.Errorf("Prompt() = %q, want %q", got, want)
	}
}

func TestSolveRequest_MultiProvider(t *testing.T) {
	single := SolveRequest{Providers: []Provider{ProviderOpenAI}}
	if single.MultiProvider() {
		t.Error("single provider request reported as multi-provider")
	}

	multi := SolveRequest{Providers: []Provider{ProviderOpenAI, ProviderGrok}}
	if !multi.MultiProvider() {
		t.Error("two provider request not reported as multi-provider")
	}
}
