package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sentientlabs/romagate/internal/config"
	"github.com/sentientlabs/romagate/internal/resolve"
	"github.com/sentientlabs/romagate/pkg/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Display the effective gateway configuration.

Configuration is stored at ~/.config/romagate/config.yaml
Project-specific overrides can be placed in .romagate.yaml
API keys come from the environment (ANTHROPIC_API_KEY, OPENAI_API_KEY,
OPENROUTER_API_KEY, XAI_API_KEY, HF_API_KEY).`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		displayConfig(cfg)
	},
}

// displayConfig prints the effective configuration with keys masked.
func displayConfig(cfg *config.Config) {
	fmt.Printf("server.addr: %s\n", cfg.Server.Addr)
	fmt.Printf("provider.default: %s\n", cfg.Provider.Default)
	fmt.Printf("breaker.threshold: %d\n", cfg.Breaker.Threshold)
	fmt.Printf("breaker.cooldown: %s\n", cfg.Breaker.Cooldown)
	fmt.Printf("history.enabled: %t\n", cfg.History.Enabled)

	fmt.Printf("credentials.anthropic: %s\n", config.MaskAPIKey(cfg.Credentials.Anthropic))
	fmt.Printf("credentials.openai: %s\n", config.MaskAPIKey(cfg.Credentials.OpenAI))
	fmt.Printf("credentials.openrouter: %s\n", config.MaskAPIKey(cfg.Credentials.OpenRouter))
	fmt.Printf("credentials.xai: %s\n", config.MaskAPIKey(cfg.Credentials.XAI))
	fmt.Printf("credentials.huggingface: %s\n", config.MaskAPIKey(cfg.Credentials.HuggingFace))

	resolver := resolve.NewTierResolver(cfg)
	defaultProvider := cfg.DefaultProvider()
	for _, tier := range models.AllTiers() {
		fmt.Printf("models.%s.%s: %s\n", defaultProvider, tier, resolver.Model(tier, defaultProvider))
	}
}
