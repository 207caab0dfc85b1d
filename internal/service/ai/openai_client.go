package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/model/chat"
)

// OpenAIOptions configures the OpenAI chat completions client.
type OpenAIOptions struct {
	APIKey     string
	BaseURL    string
	MaxRetries int
}

// OpenAIClient implements Provider on top of the OpenAI chat completions API.
type OpenAIClient struct {
	client openai.Client
	logger zerolog.Logger
}

// NewOpenAIClient builds a client for the given key. An empty key is rejected
// so that callers can treat a nil provider as degraded mode.
func NewOpenAIClient(opts OpenAIOptions, logger zerolog.Logger) (*OpenAIClient, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("openai: %w", ErrProviderDisabled)
	}

	requestOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}

	return &OpenAIClient{
		client: openai.NewClient(requestOpts...),
		logger: logger.With().Str("provider", "openai").Logger(),
	}, nil
}

// Name returns the provider name for this client.
func (c *OpenAIClient) Name() string {
	return "openai"
}

// Complete sends one chat completion request and returns the first choice's text.
func (c *OpenAIClient) Complete(ctx context.Context, messages []chat.PromptMessage, params Params) (string, error) {
	converted, err := convertMessagesToOpenAI(messages)
	if err != nil {
		return "", err
	}

	req := openai.ChatCompletionNewParams{
		Model:            openai.ChatModel(params.Model),
		Messages:         converted,
		Temperature:      openai.Float(params.Temperature),
		PresencePenalty:  openai.Float(params.PresencePenalty),
		FrequencyPenalty: openai.Float(params.FrequencyPenalty),
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(int64(params.MaxTokens))
	}

	c.logger.Debug().Str("model", params.Model).Int("message_count", len(converted)).Msg("sending chat completion")

	completion, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && rejectedRequest(apiErr.StatusCode) {
			return "", fmt.Errorf("openai request failed: %w: %w", ErrInvalidRequest, err)
		}
		return "", fmt.Errorf("openai request failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := completion.Choices[0].Message.Content
	if content == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug().Int("content_length", len(content)).Msg("chat completion received")
	return content, nil
}

// rejectedRequest reports statuses the API uses for a malformed or oversized
// request. Auth, rate-limit and server errors stay provider failures.
func rejectedRequest(status int) bool {
	switch status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}

// convertMessagesToOpenAI maps role strings onto the SDK's message unions.
// Roles the API would reject are reported as ErrUnsupportedRole.
func convertMessagesToOpenAI(messages []chat.PromptMessage) ([]openai.ChatCompletionMessageParamUnion, error) {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, openai.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		case "developer":
			out = append(out, openai.DeveloperMessage(msg.Content))
		default:
			return nil, fmt.Errorf("message %d role %q: %w", i, msg.Role, ErrUnsupportedRole)
		}
	}
	return out, nil
}
