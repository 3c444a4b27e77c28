package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
	"github.com/mkelleher/rinkdraft/go/internal/draft/pick"
	"github.com/mkelleher/rinkdraft/go/internal/player"
	"github.com/mkelleher/rinkdraft/go/internal/presence"
	"github.com/mkelleher/rinkdraft/go/internal/teams"
)

// Services bundles the app layers the transports depend on.
type Services struct {
	Drafts   *draft.App
	Teams    *teams.App
	Picks    *pick.App
	Players  *player.App
	Presence *presence.App

	DraftRepo *draft.Repository
}

func setupServices(pool *pgxpool.Pool, pub events.Publisher, clock clockwork.Clock, config draft.Config) *Services {
	draftRepo := draft.NewRepository(pool)
	teamRepo := teams.NewRepository(pool)
	pickRepo := pick.NewRepository(pool)
	playerRepo := player.NewRepository(pool)
	presenceRepo := presence.NewRepository(pool)

	playerApp := player.NewApp(playerRepo)
	draftApp := draft.NewApp(draftRepo, teamRepo, pub, clock, config)
	teamsApp := teams.NewApp(teamRepo, draftRepo)
	pickApp := pick.NewApp(pickRepo, draftRepo, teamRepo, playerRepo, pub, clock, config)
	presenceApp := presence.NewApp(presenceRepo, clock)

	return &Services{
		Drafts:    draftApp,
		Teams:     teamsApp,
		Picks:     pickApp,
		Players:   playerApp,
		Presence:  presenceApp,
		DraftRepo: draftRepo,
	}
}
