// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/askboard/askboard/internal/auth"
	authpg "github.com/askboard/askboard/internal/auth/postgres"
	"github.com/askboard/askboard/internal/config"
	"github.com/askboard/askboard/internal/httpapi"
	"github.com/askboard/askboard/internal/logging"
	"github.com/askboard/askboard/internal/moderation"
	"github.com/askboard/askboard/internal/observability"
	"github.com/askboard/askboard/internal/qna"
	qnapg "github.com/askboard/askboard/internal/qna/postgres"
	"github.com/askboard/askboard/internal/store"
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long: `Start the HTTP API server, the metrics/health endpoint, and the
connection to PostgreSQL and the moderation provider.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), cmd, autoMigrate)
		},
	}

	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", false, "run pending migrations before serving")
	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, autoMigrate bool) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetDefault("askboard", version, cfg.Log.Format)

	slog.Info("starting api server",
		"addr", cfg.Server.Addr,
		"log_format", cfg.Log.Format,
	)

	if autoMigrate {
		if err := runAutoMigrate(cfg.Database.URL); err != nil {
			return err
		}
	}

	pool, err := store.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	slog.Info("connected to database")

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Observability server carries the metrics registry, so it comes up
	// before the components that register collectors on it.
	obsServer := observability.NewServer(cfg.Server.ObservabilityAddr, func() bool {
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer pingCancel()
		return pool.Ping(pingCtx) == nil
	})
	obsErrChan, err := obsServer.Start()
	if err != nil {
		return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, obsErrChan, "observability")

	moderator, err := moderation.NewClient(moderation.Config{
		Endpoint: cfg.Moderation.Endpoint,
		APIKey:   cfg.Moderation.APIKey,
		Policy: moderation.Policy{
			MaxRetries: cfg.Moderation.MaxRetries,
			BaseDelay:  cfg.Moderation.BaseDelay,
		},
		Metrics: moderation.NewMetrics(obsServer.Registry()),
	})
	if err != nil {
		return err
	}

	codec, err := auth.NewTokenCodec(cfg.Auth.Key)
	if err != nil {
		return err
	}

	authSvc, err := auth.NewService(authpg.NewAccountRepository(pool), auth.NewArgon2idHasher(), codec, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	qnaSvc, err := qna.NewService(qnapg.NewQuestionRepository(pool), qnapg.NewAnswerRepository(pool), moderator)
	if err != nil {
		return err
	}

	apiServer, err := httpapi.NewServer(httpapi.ServerConfig{
		Addr:    cfg.Server.Addr,
		Auth:    authSvc,
		QnA:     qnaSvc,
		Codec:   codec,
		Logger:  slog.Default(),
		Metrics: obsServer.Metrics(),
	})
	if err != nil {
		return err
	}

	apiErrChan, err := apiServer.Start()
	if err != nil {
		stopObservability(obsServer)
		return oops.Code("HTTP_START_FAILED").Wrap(err)
	}
	go monitorServerErrors(ctx, cancel, apiErrChan, "api")

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("API server started")
	slog.Info("api server ready", "addr", apiServer.Addr())

	// Wait for shutdown signal or server failure
	select {
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig)
	case <-ctx.Done():
		slog.Info("context cancelled, shutting down")
	}

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping api server", "error", err)
	}
	if err := obsServer.Stop(shutdownCtx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// runAutoMigrate applies pending migrations before serving.
func runAutoMigrate(databaseURL string) error {
	migrator, err := store.NewMigrator(databaseURL)
	if err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}
	defer func() {
		if closeErr := migrator.Close(); closeErr != nil {
			slog.Warn("error closing migrator", "error", closeErr)
		}
	}()

	if err := migrator.Up(); err != nil {
		return oops.Code("MIGRATION_FAILED").Wrap(err)
	}

	slog.Info("migrations applied")
	return nil
}

func stopObservability(obsServer *observability.Server) {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
		slog.Warn("failed to stop observability server during cleanup", "error", stopErr)
	}
}

// monitorServerErrors monitors a server's error channel and cancels the context on error.
// This ensures that server failures trigger graceful shutdown of the entire process.
// It exits when either an error is received, the channel is closed, or the context is cancelled.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			// Channel closed, server stopped gracefully
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
		// Context cancelled, exit monitoring
	}
}
