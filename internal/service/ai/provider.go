package ai

import (
	"context"
	"errors"

	"github.com/everkind/backend/internal/model/chat"
)

var (
	ErrEmptyCompletion  = errors.New("provider returned no completion text")
	ErrUnsupportedRole  = errors.New("unsupported message role")
	ErrCircuitOpen      = errors.New("provider circuit is open")
	ErrProviderDisabled = errors.New("provider not configured")
	// ErrInvalidRequest marks a request the provider rejected because of its content.
	ErrInvalidRequest   = errors.New("provider rejected the request")
)

// CallerFault reports whether err was caused by the request itself rather than
// by the provider, so it says nothing about provider health.
func CallerFault(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, ErrUnsupportedRole) ||
		errors.Is(err, ErrInvalidRequest)
}

// Params are the generation settings sent with every completion request.
type Params struct {
	Model            string
	MaxTokens        int
	Temperature      float64
	PresencePenalty  float64
	FrequencyPenalty float64
}

// Provider is an external text-completion service.
type Provider interface {
	Name() string
	Complete(ctx context.Context, messages []chat.PromptMessage, params Params) (string, error)
}
