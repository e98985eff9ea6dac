package engine

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/sentientlabs/romagate/internal/breaker"
	"github.com/sentientlabs/romagate/pkg/models"
)

// RoleClient is a text-in/text-out completion client bound to one
// role's endpoint configuration.
type RoleClient interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// ClientFactory builds a RoleClient from an endpoint configuration.
// The roma engine calls it once per role per solve.
type ClientFactory func(ec models.EndpointConfig) (RoleClient, error)

// NewClientFactory returns the production factory: Anthropic endpoints
// use the Anthropic SDK, everything else speaks the OpenAI-compatible
// protocol. Every client is gated by the provider's circuit breaker.
func NewClientFactory(b *breaker.Breaker) ClientFactory {
	return func(ec models.EndpointConfig) (RoleClient, error) {
		var (
			client RoleClient
			err    error
		)
		if ec.Provider == models.ProviderAnthropic {
			client, err = newAnthropicClient(ec)
		} else {
			client, err = newOpenAICompatClient(ec)
		}
		if err != nil {
			return nil, err
		}
		return &breakerClient{inner: client, breaker: b, name: string(ec.Provider)}, nil
	}
}

// breakerClient gates an inner client behind the circuit breaker.
type breakerClient struct {
	inner   RoleClient
	breaker *breaker.Breaker
	name    string
}

func (c *breakerClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if err := c.breaker.Allow(c.name); err != nil {
		return "", err
	}

	out, err := c.inner.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		c.breaker.Failure(c.name)
		return "", err
	}
	c.breaker.Success(c.name)
	return out, nil
}

// anthropicClient calls the Anthropic Messages API directly.
type anthropicClient struct {
	inner       anthropic.Client
	model       anthropic.Model
	temperature float64
	maxTokens   int64
}

// newAnthropicClient creates a client for an anthropic endpoint.
// Setting ROMAGATE_USE_BEDROCK routes calls through AWS Bedrock using
// the ambient AWS credential chain instead of the API key.
func newAnthropicClient(ec models.EndpointConfig) (*anthropicClient, error) {
	var opts []option.RequestOption

	if os.Getenv("ROMAGATE_USE_BEDROCK") != "" {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if region := os.Getenv("ROMAGATE_BEDROCK_REGION"); region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(region))
		}
		opts = append(opts, bedrock.WithLoadDefaultConfig(context.Background(), loadOpts...))
	} else {
		opts = append(opts, option.WithAPIKey(ec.APIKey))
	}

	return &anthropicClient{
		inner:       anthropic.NewClient(opts...),
		model:       anthropic.Model(ec.Model),
		temperature: ec.Temperature,
		maxTokens:   int64(ec.MaxTokens),
	}, nil
}

func (c *anthropicClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Text: systemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic call: %w", err)
	}

	var result strings.Builder
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			result.WriteString(variant.Text)
		}
	}
	return result.String(), nil
}

// openAICompatClient calls any OpenAI-compatible endpoint: OpenAI
// itself, OpenRouter (also fronting Grok), and the Hugging Face router.
type openAICompatClient struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
}

func newOpenAICompatClient(ec models.EndpointConfig) (*openAICompatClient, error) {
	opts := []openai.Option{
		openai.WithToken(ec.APIKey),
		openai.WithModel(ec.Model),
	}
	if ec.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(ec.BaseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("create %s client: %w", ec.Provider, err)
	}

	return &openAICompatClient{
		llm:         client,
		temperature: ec.Temperature,
		maxTokens:   ec.MaxTokens,
	}, nil
}

func (c *openAICompatClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	messages := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(systemPrompt)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(userPrompt)},
		},
	}

	callOpts := []llms.CallOption{
		llms.WithTemperature(c.temperature),
	}
	if c.maxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(c.maxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", fmt.Errorf("completion call: %w", err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		return "", fmt.Errorf("completion returned no choices")
	}
	return resp.Choices[0].Content, nil
}
