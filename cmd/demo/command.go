package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/everkind/backend/internal/config"
	"github.com/everkind/backend/internal/logger"
	"github.com/everkind/backend/internal/service/ai"
	"github.com/everkind/backend/internal/service/chat"
)

type demoFlags struct {
	envFile string
	mood    string
	message string
}

func newRootCommand() *cobra.Command {
	flags := &demoFlags{}

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted conversation against the EverKind chat service",
		Long: `demo drives the chat service in-process, without the HTTP layer.
Without --message it plays the built-in script; with it, it sends one turn.
When no provider credential is configured every reply is a fallback.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := buildService(cmd.Context(), flags.envFile)
			if err != nil {
				return err
			}
			if flags.message != "" {
				return runSingle(cmd.Context(), cmd.OutOrStdout(), svc, flags.message, flags.mood)
			}
			return runScript(cmd.Context(), cmd.OutOrStdout(), svc)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", ".env", "Environment file to load before reading configuration")
	cmd.Flags().StringVar(&flags.mood, "mood", "", "Mood to attach to --message")
	cmd.Flags().StringVarP(&flags.message, "message", "m", "", "Send a single custom message instead of the script")

	return cmd
}

func buildService(ctx context.Context, envFile string) (*chat.Service, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	// Only problems are worth printing between the styled transcript lines.
	log, err := logger.NewWithWriter(os.Stderr, "warn", "console")
	if err != nil {
		return nil, err
	}

	provider, err := ai.NewProvider(ctx, cfg.AI, log)
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}

	return chat.NewService(chat.Options{
		Provider: provider,
		Store:    chat.NewMemoryStore(cfg.Session.MaxEntries, cfg.Session.TTL),
		Params:   ai.ParamsFromConfig(cfg.AI),
		Template: cfg.AI.SystemPrompt,
		Timeout:  cfg.AI.Timeout,
		Logger:   log,
	}), nil
}
