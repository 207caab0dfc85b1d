package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/config"
)

// NewProvider builds the provider selected by cfg.Provider. It returns (nil, nil)
// when the provider has no credential, which callers treat as degraded mode.
func NewProvider(ctx context.Context, cfg config.AIConfig, logger zerolog.Logger) (Provider, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	var (
		provider Provider
		err      error
	)
	switch cfg.Provider {
	case config.ProviderArk:
		chatModel, modelErr := cfg.NewChatModel(ctx)
		if modelErr != nil {
			return nil, fmt.Errorf("failed to create chat model: %w", modelErr)
		}
		provider, err = NewArkClient(ctx, chatModel, logger)
	default:
		provider, err = NewOpenAIClient(OpenAIOptions{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			MaxRetries: cfg.MaxRetries,
		}, logger)
	}
	if err != nil {
		return nil, err
	}

	return WithBreaker(provider, cfg.BreakerFailures, cfg.BreakerCooldown, logger), nil
}

// ParamsFromConfig maps configuration onto per-request generation settings.
func ParamsFromConfig(cfg config.AIConfig) Params {
	return Params{
		Model:            cfg.ModelName(),
		MaxTokens:        cfg.MaxTokens,
		Temperature:      cfg.Temperature,
		PresencePenalty:  cfg.PresencePenalty,
		FrequencyPenalty: cfg.FrequencyPenalty,
	}
}
