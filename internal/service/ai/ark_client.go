package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/everkind/backend/internal/model/chat"
)

// ArkClient runs composed messages through an eino chain backed by a chat model.
// Generation parameters are fixed on the model when it is constructed, so the
// per-call Params only feed logging.
type ArkClient struct {
	chain  compose.Runnable[[]*schema.Message, *schema.Message]
	logger zerolog.Logger
}

// NewArkClient compiles a single-node chain around chatModel.
func NewArkClient(ctx context.Context, chatModel model.ChatModel, logger zerolog.Logger) (*ArkClient, error) {
	if chatModel == nil {
		return nil, fmt.Errorf("ark: %w", ErrProviderDisabled)
	}

	chain := compose.NewChain[[]*schema.Message, *schema.Message]()
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &ArkClient{
		chain:  runnable,
		logger: logger.With().Str("provider", "ark").Logger(),
	}, nil
}

// Name returns the provider name for this client.
func (c *ArkClient) Name() string {
	return "ark"
}

// Complete invokes the chain and returns the generated message content.
func (c *ArkClient) Complete(ctx context.Context, messages []chat.PromptMessage, params Params) (string, error) {
	input, err := buildSchemaMessages(messages)
	if err != nil {
		return "", err
	}

	response, err := c.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyCompletion
	}

	c.logger.Debug().Str("model", params.Model).Int("content_length", len(response.Content)).Msg("chain response received")
	return response.Content, nil
}

func buildSchemaMessages(messages []chat.PromptMessage) ([]*schema.Message, error) {
	out := make([]*schema.Message, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case chat.RoleSystem:
			out = append(out, schema.SystemMessage(msg.Content))
		case chat.RoleUser:
			out = append(out, schema.UserMessage(msg.Content))
		case chat.RoleAssistant:
			out = append(out, schema.AssistantMessage(msg.Content, nil))
		default:
			return nil, fmt.Errorf("message %d role %q: %w", i, msg.Role, ErrUnsupportedRole)
		}
	}
	return out, nil
}
