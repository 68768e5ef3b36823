// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package main is the meeting pool API that fronts a pool of Zoom
// accounts: it creates and ends meetings with automatic account failover,
// signs meeting SDK join tokens, and exposes an admin surface over pool
// usage state.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"golang.org/x/sync/errgroup"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/handlers"
	"github.com/wellnesshq/meeting-pool-service/internal/infrastructure/messaging"
	"github.com/wellnesshq/meeting-pool-service/internal/infrastructure/zoom/api"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
	"github.com/wellnesshq/meeting-pool-service/internal/pool"
	"github.com/wellnesshq/meeting-pool-service/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	env := parseEnv()
	flags := parseFlags(env.Port)

	logging.InitStructureLogConfig()

	rawAccounts, err := loadAccounts(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error loading pool accounts")
		os.Exit(1)
	}
	accounts, excluded := pool.ValidateAccounts(rawAccounts)
	slog.With("pool_size", len(accounts), "excluded", len(excluded)).Info("pool accounts loaded")

	accountPool := pool.NewPool(accounts)

	zoomClient := api.NewClient(api.Config{
		BaseURL: env.ZoomBaseURL,
		AuthURL: env.ZoomAuthURL,
	})

	messageBuilder, natsConn, err := setupMessaging(env)
	if err != nil {
		slog.With(logging.ErrKey, err).Error("error connecting to NATS")
		os.Exit(1)
	}

	meetingService := service.NewMeetingPoolService(accountPool, zoomClient, messageBuilder)
	meetingHandler := handlers.NewMeetingsHandler(meetingService)
	httpServer := setupHTTPServer(flags, meetingHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.With("addr", httpServer.Addr).Info("starting http server")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		// Blocks until SIGINT or SIGTERM is received, or the server
		// goroutine fails.
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		slog.Info("shutting down http server")
		err := httpServer.Shutdown(shutdownCtx)

		if natsConn != nil {
			if drainErr := natsConn.Drain(); drainErr != nil {
				slog.With(logging.ErrKey, drainErr).Warn("error draining NATS connection")
			}
		}
		return err
	})

	if err := g.Wait(); err != nil {
		slog.With(logging.ErrKey, err).Error("server error")
		os.Exit(1)
	}
	slog.Info("graceful shutdown complete")
}

// setupMessaging connects to NATS when NATS_URL is configured; otherwise
// lifecycle events are logged and dropped.
func setupMessaging(env environment) (domain.MessageBuilder, *nats.Conn, error) {
	if env.NatsURL == "" {
		slog.Info("NATS_URL not set, meeting lifecycle events disabled")
		return &messaging.NoopMessageBuilder{}, nil, nil
	}

	natsConn, err := nats.Connect(
		env.NatsURL,
		nats.Name("meeting-pool-service"),
		nats.Timeout(10*time.Second),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, nil, err
	}

	slog.With("nats_url", env.NatsURL).Info("connected to NATS")
	return messaging.NewMessageBuilder(natsConn), natsConn, nil
}
