// Package config provides API key management utilities.
package config

import (
	"errors"
	"fmt"

	"github.com/sentientlabs/romagate/pkg/models"
)

// ErrMissingCredential is returned when no API key is configured for a
// provider.
var ErrMissingCredential = errors.New("no API key configured")

// Credential returns the API key for a provider.
// Grok is reached through OpenRouter, so it accepts either the
// OpenRouter key or a direct xAI key.
func (c *Config) Credential(provider models.Provider) (string, error) {
	var key string
	switch provider {
	case models.ProviderAnthropic:
		key = c.Credentials.Anthropic
	case models.ProviderOpenAI:
		key = c.Credentials.OpenAI
	case models.ProviderGrok:
		key = c.Credentials.OpenRouter
		if key == "" {
			key = c.Credentials.XAI
		}
	case models.ProviderOpenRouter:
		key = c.Credentials.OpenRouter
	case models.ProviderHuggingFace:
		key = c.Credentials.HuggingFace
	}

	if key == "" {
		return "", fmt.Errorf("provider %q: %w", provider, ErrMissingCredential)
	}
	return key, nil
}

// MaskAPIKey returns a masked version of an API key for display.
// Shows the first 7 and last 4 characters.
func MaskAPIKey(key string) string {
	if key == "" {
		return "(not set)"
	}

	if len(key) <= 15 {
		return "***"
	}

	return key[:7] + "..." + key[len(key)-4:]
}
