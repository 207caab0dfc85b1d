package ai

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/everkind/backend/internal/model/chat"
)

// BreakerProvider fails fast while the wrapped provider keeps failing.
type BreakerProvider struct {
	next Provider
	cb   *gobreaker.CircuitBreaker
}

// WithBreaker wraps next in a circuit breaker that opens after failures
// consecutive errors and stays open for cooldown. failures == 0 returns next unchanged.
func WithBreaker(next Provider, failures uint32, cooldown time.Duration, logger zerolog.Logger) Provider {
	if next == nil || failures == 0 {
		return next
	}

	settings := gobreaker.Settings{
		Name:        next.Name(),
		MaxRequests: 1,
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().Str("provider", name).Str("from", from.String()).Str("to", to.String()).Msg("provider circuit state changed")
		},
		// Errors caused by one caller's request must not trip the circuit for everyone.
		IsSuccessful: func(err error) bool {
			return err == nil || CallerFault(err)
		},
	}

	return &BreakerProvider{next: next, cb: gobreaker.NewCircuitBreaker(settings)}
}

// Name returns the wrapped provider's name.
func (b *BreakerProvider) Name() string {
	return b.next.Name()
}

// Complete forwards to the wrapped provider unless the circuit is open.
func (b *BreakerProvider) Complete(ctx context.Context, messages []chat.PromptMessage, params Params) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, messages, params)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", ErrCircuitOpen
	}
	if err != nil {
		return "", err
	}
	return out.(string), nil
}

// State exposes the breaker state for health reporting and tests.
func (b *BreakerProvider) State() gobreaker.State {
	return b.cb.State()
}
