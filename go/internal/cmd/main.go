package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/autoadvance"
	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
	"github.com/mkelleher/rinkdraft/go/internal/draft/gateway"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("LOG_PRETTY") == "true" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	config, err := loadConfig(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := setupDatabase(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()

	pub, err := events.NewNATSPublisher(config.NATS.URL, config.NATS.SubjectPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to NATS")
	}
	defer pub.Close()

	clock := clockwork.NewRealClock()
	draftConfig := draft.Config{
		Rounds:      config.Draft.Rounds,
		TimePerPick: config.Draft.TimePerPick,
	}
	services := setupServices(pool, pub, clock, draftConfig)

	manager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	consumer, err := gateway.NewEventConsumer(manager, config.NATS.URL, config.NATS.SubjectPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create event consumer")
	}

	worker := autoadvance.NewWorker(services.Drafts, clock,
		autoadvance.WithInterval(config.Draft.AdvanceInterval))

	verifier := auth.NewStaticVerifier(config.verifierTokens())
	server := setupServer(config, services, verifier, manager)

	if err := run(ctx, server, manager, consumer, worker); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}
