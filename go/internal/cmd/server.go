package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/autoadvance"
	"github.com/mkelleher/rinkdraft/go/internal/draft/gateway"
	"github.com/mkelleher/rinkdraft/go/internal/httpapi"
)

func setupServer(config *Config, services *Services, verifier auth.Verifier, manager *gateway.ConnectionManager) *http.Server {
	wsHandler := gateway.NewHandler(manager, services.DraftRepo, verifier)
	apiServer := httpapi.NewServer(services.Drafts, services.Teams, services.Picks, services.Players, services.Presence)
	router := httpapi.NewRouter(apiServer, verifier, wsHandler, config.Server.AllowedOrigins)

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", config.Server.Port),
		Handler: router,
	}
}

// run starts the HTTP server, the event gateway, and the autoadvance worker,
// and blocks until the context is cancelled or one of them fails.
func run(ctx context.Context, server *http.Server, manager *gateway.ConnectionManager, consumer *gateway.EventConsumer, worker *autoadvance.Worker) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		if err := manager.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := consumer.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}
