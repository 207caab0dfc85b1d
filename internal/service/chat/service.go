package chat

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/everkind/backend/internal/analysis/mood"
	"github.com/everkind/backend/internal/logger"
	"github.com/everkind/backend/internal/model/chat"
	"github.com/everkind/backend/internal/observability"
	"github.com/everkind/backend/internal/service/ai"
)

// ErrStoreUnavailable wraps unexpected session store failures.
var ErrStoreUnavailable = errors.New("session store unavailable")

// Options wires the orchestrator's collaborators. Provider may be nil, which
// puts the service in degraded mode: every reply is a fallback.
type Options struct {
	Provider ai.Provider
	Store    Store
	Params   ai.Params
	Template string
	Timeout  time.Duration
	Logger   zerolog.Logger
	Metrics  *observability.Metrics
	Tracer   trace.Tracer
	// NewID mints conversation ids; defaults to uuid.NewString.
	NewID func() string
	// Now defaults to time.Now.
	Now func() time.Time
}

// Service turns chat requests into replies and records successful exchanges.
type Service struct {
	provider ai.Provider
	store    Store
	params   ai.Params
	template string
	timeout  time.Duration
	logger   zerolog.Logger
	metrics  *observability.Metrics
	tracer   trace.Tracer
	newID    func() string
	now      func() time.Time
}

// NewService builds the orchestrator. A nil Store gets an unbounded MemoryStore.
func NewService(opts Options) *Service {
	svc := &Service{
		provider: opts.Provider,
		store:    opts.Store,
		params:   opts.Params,
		template: opts.Template,
		timeout:  opts.Timeout,
		logger:   logger.Component(opts.Logger, "chat"),
		metrics:  opts.Metrics,
		tracer:   opts.Tracer,
		newID:    opts.NewID,
		now:      opts.Now,
	}
	if svc.store == nil {
		svc.store = NewMemoryStore(0, 0)
	}
	if svc.tracer == nil {
		svc.tracer = noop.NewTracerProvider().Tracer("")
	}
	if svc.newID == nil {
		svc.newID = uuid.NewString
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc
}

// Configured reports whether a completion provider is present.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// Respond produces a reply for req. It never fails: any provider problem
// yields a fallback reply under a fresh id that is not recorded.
func (s *Service) Respond(ctx context.Context, req chat.ChatRequest) chat.ChatResponse {
	id := s.newID()
	userMood := req.Mood()

	if s.provider == nil {
		s.logger.Warn().Str("conversation_id", id).Msg("no completion provider configured, answering in degraded mode")
		s.metrics.CountResponse(observability.OutcomeFallbackUnconfigured)
		return s.reply(ai.Fallback(userMood), id)
	}

	messages := ai.Compose(s.template, req.ConversationHistory, req.Message, userMood)
	event := s.logger.Info().
		Str("conversation_id", id).
		Int("history", len(req.ConversationHistory)).
		Str("preview", logger.Preview(req.Message))
	if userMood != nil {
		event = event.Str("mood", *userMood).Bool("mood_known", mood.Parse(*userMood).Known())
	}
	event.Msg("dispatching chat request")

	text, err := s.complete(ctx, messages)
	if err == nil {
		err = s.record(ctx, id, messages, text)
	}
	if err != nil {
		fallbackID := s.newID()
		s.logger.Error().Err(err).
			Str("conversation_id", id).
			Str("fallback_id", fallbackID).
			Msg("provider failed, returning fallback reply")
		s.metrics.CountResponse(observability.OutcomeFallbackError)
		return s.reply(ai.Fallback(userMood), fallbackID)
	}

	s.logger.Info().Str("conversation_id", id).Str("preview", logger.Preview(text)).Msg("chat response generated")
	s.metrics.CountResponse(observability.OutcomeProvider)
	return s.reply(text, id)
}

// Lookup returns the composed messages of a recorded exchange.
func (s *Service) Lookup(ctx context.Context, id string) ([]chat.PromptMessage, bool, error) {
	record, ok, err := s.store.Lookup(ctx, id)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if !ok {
		return nil, false, nil
	}
	return record.Messages, true, nil
}

func (s *Service) complete(ctx context.Context, messages []chat.PromptMessage) (string, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	ctx, span := s.tracer.Start(ctx, "ai.complete", trace.WithAttributes(
		attribute.String("ai.provider", s.provider.Name()),
		attribute.String("ai.model", s.params.Model),
		attribute.Int("ai.message_count", len(messages)),
	))
	defer span.End()

	start := s.now()
	text, err := s.provider.Complete(ctx, messages, s.params)
	elapsed := s.now().Sub(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.metrics.ObserveProvider(s.provider.Name(), observability.ResultError, elapsed)
		return "", err
	}
	if text == "" {
		span.SetStatus(codes.Error, ai.ErrEmptyCompletion.Error())
		s.metrics.ObserveProvider(s.provider.Name(), observability.ResultError, elapsed)
		return "", ai.ErrEmptyCompletion
	}

	s.metrics.ObserveProvider(s.provider.Name(), observability.ResultSuccess, elapsed)
	return text, nil
}

func (s *Service) record(ctx context.Context, id string, messages []chat.PromptMessage, text string) error {
	err := s.store.Insert(ctx, id, chat.SessionRecord{
		Messages:     messages,
		LastResponse: text,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	s.metrics.SetSessions(s.store.Len())
	return nil
}

func (s *Service) reply(text, id string) chat.ChatResponse {
	return chat.ChatResponse{
		Response:       text,
		ConversationID: id,
		Timestamp:      s.now().UTC(),
	}
}
