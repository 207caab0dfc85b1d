package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/everkind/backend/internal/config"
	"github.com/everkind/backend/internal/handler"
	"github.com/everkind/backend/internal/logger"
	"github.com/everkind/backend/internal/observability"
	"github.com/everkind/backend/internal/service/ai"
	"github.com/everkind/backend/internal/service/chat"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("failed to load .env file, continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build logger")
	}
	log.Logger = appLogger

	if err := cfg.Validate(); err != nil {
		if cfg.StrictStartup {
			appLogger.Fatal().Err(err).Msg("startup failed")
		}
		appLogger.Warn().Err(err).Msg("provider credential missing, chat runs in degraded mode")
	}

	appLogger.Info().
		Str("version", config.APIVersion).
		Str("environment", cfg.Environment).
		Str("provider", cfg.AI.Provider).
		Str("model", cfg.AI.ModelName()).
		Strs("cors_origins", cfg.Server.AllowedOrigins).
		Msg("starting EverKind Therapeutic API")

	shutdownTracing, err := observability.Setup(ctx, observability.TracingOptions{
		ServiceName:    config.ServiceName,
		ServiceVersion: config.APIVersion,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Telemetry.OTLPEndpoint,
		SamplingRate:   cfg.Telemetry.SamplingRate,
	}, appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("failed to initialise tracing")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	provider, err := ai.NewProvider(ctx, cfg.AI, appLogger)
	if err != nil {
		if cfg.StrictStartup {
			appLogger.Fatal().Err(err).Msg("failed to initialise completion provider")
		}
		appLogger.Error().Err(err).Msg("failed to initialise completion provider, continuing in degraded mode")
	} else if provider != nil {
		appLogger.Info().Str("provider", provider.Name()).Msg("completion provider initialised")
	}

	metrics := observability.NewMetrics(cfg.Telemetry.MetricsNamespace)
	store := chat.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL)

	chatService := chat.NewService(chat.Options{
		Provider: provider,
		Store:    store,
		Params:   ai.ParamsFromConfig(cfg.AI),
		Template: cfg.AI.SystemPrompt,
		Timeout:  cfg.AI.Timeout,
		Logger:   appLogger,
		Metrics:  metrics,
		Tracer:   observability.Tracer(),
	})

	router := handler.NewRouter(handler.Options{
		Chat:           chatService,
		Logger:         appLogger,
		Metrics:        metrics,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		TrustedHosts:   cfg.Server.TrustedHosts,
		EnforceHosts:   cfg.IsProduction(),
		EnableDocs:     cfg.IsDevelopment(),
	})

	startServer(ctx, cfg.Server, router, appLogger)
	appLogger.Info().Msg("shutting down EverKind Therapeutic API")
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, appLogger zerolog.Logger) {
	addr := serverCfg.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	appLogger.Info().Str("addr", addr).Msg("EverKind backend listening")
	if err := runServer(ctx, srv); err != nil {
		appLogger.Fatal().Err(err).Msg("server error")
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
