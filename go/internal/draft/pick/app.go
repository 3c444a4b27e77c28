package pick

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	draft "github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
	"github.com/mkelleher/rinkdraft/go/internal/draft/order"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// PickRepository defines what the app layer needs from the pick repository.
type PickRepository interface {
	ClaimPickSlot(ctx context.Context, draftID, teamID, playerID uuid.UUID, expectedPickNum, rounds int, now time.Time) (ClaimResult, error)
	IsPlayerPicked(ctx context.Context, draftID, playerID uuid.UUID) (bool, error)
	ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error)
	ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.DraftablePlayer, error)
	CountPicksByPosition(ctx context.Context, draftID uuid.UUID) (map[models.Position]int, error)
	ListRosterEntries(ctx context.Context, draftID uuid.UUID) ([]RosterEntry, error)
	ListRecentPicks(ctx context.Context, draftID uuid.UUID, limit int) ([]RecentPick, error)
}

// DraftRepository defines what the app layer needs from the draft repository.
type DraftRepository interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// TeamRepository defines what the app layer needs from the teams repository.
type TeamRepository interface {
	ListTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error)
}

// PlayerRepository defines what the app layer needs from the player repository.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error)
}

// App implements the pick assignment protocol and the pick-derived queries.
type App struct {
	repo    PickRepository
	drafts  DraftRepository
	teams   TeamRepository
	players PlayerRepository
	pub     events.Publisher
	clock   clockwork.Clock
	config  draft.Config
}

func NewApp(repo PickRepository, drafts DraftRepository, teams TeamRepository, players PlayerRepository, pub events.Publisher, clock clockwork.Clock, config draft.Config) *App {
	return &App{
		repo:    repo,
		drafts:  drafts,
		teams:   teams,
		players: players,
		pub:     pub,
		clock:   clock,
		config:  config,
	}
}

// MakePick validates a pick attempt for a draft's current slot, records it
// exactly once, and advances the draft pointer.
//
// Preconditions run in order: authenticated caller, draft in DURING status,
// caller's team on the clock, player still available. The captured pick
// number is then handed to the repository, whose single claim transaction
// re-verifies everything under the draft row lock. A competing caller who
// already moved the turn forward yields AlreadyAdvanced=true, a success with
// no pick recorded, since the outcome the caller wanted already happened.
func (a *App) MakePick(ctx context.Context, req MakePickRequest) (*MakePickResult, error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	d, err := a.drafts.GetDraft(ctx, req.DraftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusDuring {
		return nil, draft.ErrDraftNotActive
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, req.DraftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, draft.ErrNoTeams
	}

	captured := d.CurrentPickNum
	slot := order.Resolve(captured, len(teams))
	onClock := teams[slot.TeamIndex]
	if onClock.UserID != identity.UserID {
		return nil, ErrNotYourTurn
	}

	player, err := a.players.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}

	picked, err := a.repo.IsPlayerPicked(ctx, req.DraftID, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if picked {
		return nil, ErrPlayerAlreadyPicked
	}

	now := a.clock.Now()
	claim, err := a.repo.ClaimPickSlot(ctx, req.DraftID, onClock.ID, req.PlayerID, captured, a.config.Rounds, now)
	if err != nil {
		return nil, err
	}

	switch claim.Outcome {
	case OutcomeAlreadyAdvanced:
		return &MakePickResult{AlreadyAdvanced: true}, nil
	case OutcomeSlotTaken:
		return nil, ErrPickSlotTaken
	case OutcomePlayerTaken:
		return nil, ErrPlayerAlreadyPicked
	case OutcomeStateChanged:
		return nil, ErrDraftStateChanged
	}

	a.emit(ctx, req.DraftID, events.EventTypePickMade, events.PickMadePayload{
		PickID:     claim.Pick.ID.String(),
		PickNum:    captured,
		Round:      slot.Round,
		TeamID:     onClock.ID.String(),
		TeamName:   onClock.Name,
		PlayerID:   player.ID.String(),
		PlayerName: player.Name,
		MadeAt:     now,
	})

	if claim.Completed {
		a.emit(ctx, req.DraftID, events.EventTypeDraftCompleted, events.DraftCompletedPayload{
			DraftID:     req.DraftID.String(),
			CompletedAt: now,
			TotalPicks:  captured,
		})
	} else {
		nextSlot := order.Resolve(claim.NextPickNum, len(teams))
		a.emit(ctx, req.DraftID, events.EventTypePickStarted, events.PickStartedPayload{
			PickNum:        claim.NextPickNum,
			Round:          nextSlot.Round,
			TeamID:         teams[nextSlot.TeamIndex].ID.String(),
			StartedAt:      claim.NextStartedAt,
			TimePerPickSec: int(a.config.TimePerPick.Seconds()),
		})
	}

	log.Info().
		Str("draft_id", req.DraftID.String()).
		Str("team_id", onClock.ID.String()).
		Str("player_id", player.ID.String()).
		Int("pick_num", captured).
		Bool("draft_completed", claim.Completed).
		Msg("pick made")

	return &MakePickResult{
		Pick:           claim.Pick,
		DraftCompleted: claim.Completed,
	}, nil
}

// GetAvailablePlayers returns players not yet picked in the draft, sorted by
// name.
func (a *App) GetAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.DraftablePlayer, error) {
	return a.repo.ListAvailablePlayers(ctx, draftID)
}

// GetDraftStats summarizes pick totals and position-group counts.
func (a *App) GetDraftStats(ctx context.Context, draftID uuid.UUID) (*DraftStats, error) {
	d, err := a.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	counts, err := a.repo.CountPicksByPosition(ctx, draftID)
	if err != nil {
		return nil, err
	}

	stats := &DraftStats{
		MaxPicks:    order.MaxPicks(len(teams), a.config.Rounds),
		CurrentPick: d.CurrentPickNum,
	}
	for pos, n := range counts {
		stats.TotalPicks += n
		switch pos.Group() {
		case models.GroupDefense:
			stats.Defense += n
		case models.GroupGoalies:
			stats.Goalies += n
		default:
			stats.Forwards += n
		}
	}
	return stats, nil
}

// GetDraftRosters returns each team's picks grouped by position group,
// ordered by draft order.
func (a *App) GetDraftRosters(ctx context.Context, draftID uuid.UUID) ([]TeamRoster, error) {
	teams, err := a.teams.ListTeamsByDraft(ctx, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	entries, err := a.repo.ListRosterEntries(ctx, draftID)
	if err != nil {
		return nil, err
	}

	rosters := make([]TeamRoster, len(teams))
	index := make(map[uuid.UUID]*TeamRoster, len(teams))
	for i, t := range teams {
		rosters[i] = TeamRoster{
			TeamID:     t.ID,
			TeamName:   t.Name,
			UserID:     t.UserID,
			DraftOrder: t.DraftOrder,
		}
		index[t.ID] = &rosters[i]
	}

	for _, e := range entries {
		roster, ok := index[e.TeamID]
		if !ok {
			continue
		}
		player := RosterPlayer{
			Name:      e.PlayerName,
			Position:  e.Position,
			AvatarURL: e.AvatarURL,
			PickNum:   e.PickNum,
		}
		switch e.Position.Group() {
		case models.GroupDefense:
			roster.Defense = append(roster.Defense, player)
		case models.GroupGoalies:
			roster.Goalies = append(roster.Goalies, player)
		default:
			roster.Forwards = append(roster.Forwards, player)
		}
	}
	return rosters, nil
}

// GetRecentPicks returns the most recent picks with display info, newest
// first. A non-positive limit defaults to 10.
func (a *App) GetRecentPicks(ctx context.Context, draftID uuid.UUID, limit int) ([]RecentPick, error) {
	if limit <= 0 {
		limit = 10
	}
	return a.repo.ListRecentPicks(ctx, draftID, limit)
}

func (a *App) emit(ctx context.Context, draftID uuid.UUID, eventType events.EventType, payload any) {
	event, err := events.NewDraftEvent(draftID, eventType, payload)
	if err != nil {
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to build draft event")
		return
	}
	if err := a.pub.Publish(ctx, event); err != nil {
		log.Error().Err(err).
			Str("draft_id", draftID.String()).
			Str("event_type", string(eventType)).
			Msg("failed to publish draft event")
	}
}
