package draft

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
	"github.com/mkelleher/rinkdraft/go/internal/draft/order"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// DraftRepository defines what the app layer needs from the draft repository.
type DraftRepository interface {
	CreateDraftWithHostTeam(ctx context.Context, req CreateDraftRequest, hostUserID, hostTeamName string) (*models.Draft, *models.DraftTeam, error)
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	GetDraftSummary(ctx context.Context, id uuid.UUID) (*models.DraftSummary, error)
	ListDraftsForUser(ctx context.Context, userID string) ([]models.DraftSummary, error)
	MarkStarted(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	MarkFinished(ctx context.Context, id uuid.UUID, now time.Time) (bool, error)
	AdvancePick(ctx context.Context, id uuid.UUID, rounds int, now time.Time) (AdvanceResult, error)
	FetchDueDrafts(ctx context.Context, cutoff time.Time, limit int) ([]DueDraft, error)
}

// TeamRepository defines what the app layer needs from the teams repository.
type TeamRepository interface {
	ListTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error)
	ReassignOrder(ctx context.Context, draftID uuid.UUID, orderedTeamIDs []uuid.UUID) error
}

// App owns the draft lifecycle: PRE -> DURING -> POST transitions and the
// current-pick pointer.
type App struct {
	repo   DraftRepository
	teams  TeamRepository
	pub    events.Publisher
	clock  clockwork.Clock
	config Config
}

func NewApp(repo DraftRepository, teams TeamRepository, pub events.Publisher, clock clockwork.Clock, config Config) *App {
	return &App{
		repo:   repo,
		teams:  teams,
		pub:    pub,
		clock:  clock,
		config: config,
	}
}

// Config exposes the draft constants to collaborators.
func (a *App) Config() Config {
	return a.config
}

// CreateDraft creates a draft in PRE status and the host's own team at draft
// order 1, atomically. The caller becomes the host.
func (a *App) CreateDraft(ctx context.Context, req CreateDraftRequest) (*models.Draft, error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	teamName := req.HostTeamName
	if teamName == "" {
		name := identity.DisplayName
		if name == "" {
			name = "Host"
		}
		teamName = fmt.Sprintf("%s's Team", name)
	}

	draft, _, err := a.repo.CreateDraftWithHostTeam(ctx, req, identity.UserID, teamName)
	if err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	log.Info().
		Str("draft_id", draft.ID.String()).
		Str("host_user_id", identity.UserID).
		Msg("draft created")
	return draft, nil
}

// GetDraft retrieves a draft with its team count.
func (a *App) GetDraft(ctx context.Context, id uuid.UUID) (*models.DraftSummary, error) {
	return a.repo.GetDraftSummary(ctx, id)
}

// ListUserDrafts returns the drafts the caller hosts or participates in.
func (a *App) ListUserDrafts(ctx context.Context) ([]models.DraftSummary, error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}
	return a.repo.ListDraftsForUser(ctx, identity.UserID)
}

// StartDraft transitions a PRE draft to DURING. Host-only; requires at least
// one team and a scheduled start time that has passed.
func (a *App) StartDraft(ctx context.Context, id uuid.UUID) error {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}

	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	if d.HostUserID != identity.UserID {
		return ErrNotHost
	}
	if d.Status != models.DraftStatusPre {
		return ErrInvalidState
	}

	now := a.clock.Now()
	if now.Before(d.StartTime) {
		return ErrStartTooEarly
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return ErrNoTeams
	}

	ok, err := a.repo.MarkStarted(ctx, id, now)
	if err != nil {
		return err
	}
	if !ok {
		// Status changed between the read and the conditional update.
		return ErrInvalidState
	}

	a.emit(ctx, id, events.EventTypeDraftStarted, events.DraftStartedPayload{
		DraftID:     id.String(),
		StartedAt:   now,
		TotalRounds: a.config.Rounds,
		TotalPicks:  order.MaxPicks(len(teams), a.config.Rounds),
	})
	a.emitPickStarted(ctx, id, 1, teams, now)

	log.Info().Str("draft_id", id.String()).Int("teams", len(teams)).Msg("draft started")
	return nil
}

// FinishDraft transitions a DURING draft to POST before the final slot is
// reached. Host-only.
func (a *App) FinishDraft(ctx context.Context, id uuid.UUID) error {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}

	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	if d.HostUserID != identity.UserID {
		return ErrNotHost
	}
	if d.Status != models.DraftStatusDuring {
		return ErrInvalidState
	}

	now := a.clock.Now()
	ok, err := a.repo.MarkFinished(ctx, id, now)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalidState
	}

	a.emit(ctx, id, events.EventTypeDraftCompleted, events.DraftCompletedPayload{
		DraftID:     id.String(),
		CompletedAt: now,
	})

	log.Info().Str("draft_id", id.String()).Msg("draft finished by host")
	return nil
}

// RandomizeOrder shuffles the draft order of all teams while the draft is
// still in PRE status. Host-only.
func (a *App) RandomizeOrder(ctx context.Context, id uuid.UUID) error {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}

	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return err
	}
	if d.HostUserID != identity.UserID {
		return ErrNotHost
	}
	if d.Status != models.DraftStatusPre {
		return ErrInvalidState
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return ErrNoTeams
	}

	ids := make([]uuid.UUID, len(teams))
	for i, t := range teams {
		ids[i] = t.ID
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if err := a.teams.ReassignOrder(ctx, id, ids); err != nil {
		return fmt.Errorf("failed to reassign draft order: %w", err)
	}

	idStrings := make([]string, len(ids))
	for i, teamID := range ids {
		idStrings[i] = teamID.String()
	}
	a.emit(ctx, id, events.EventTypeOrderShuffled, events.OrderShuffledPayload{
		DraftID:    id.String(),
		TeamIDs:    idStrings,
		ShuffledAt: a.clock.Now(),
	})

	log.Info().Str("draft_id", id.String()).Int("teams", len(teams)).Msg("draft order shuffled")
	return nil
}

// AdvancePick moves the draft to the next slot, or to POST when the final
// slot has been played. Callable by anyone, including the timeout worker; no
// identity is required.
func (a *App) AdvancePick(ctx context.Context, id uuid.UUID) (AdvanceResult, error) {
	now := a.clock.Now()
	result, err := a.repo.AdvancePick(ctx, id, a.config.Rounds, now)
	if err != nil {
		return AdvanceResult{}, err
	}

	if result.Completed {
		a.emit(ctx, id, events.EventTypeDraftCompleted, events.DraftCompletedPayload{
			DraftID:     id.String(),
			CompletedAt: now,
		})
		log.Info().Str("draft_id", id.String()).Msg("draft completed")
		return result, nil
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, id)
	if err == nil {
		a.emitPickStarted(ctx, id, result.PickNum, teams, result.StartedAt)
	}
	return result, nil
}

// GetCurrentPick reports the slot currently on the clock, or nil when the
// draft is not in DURING status.
func (a *App) GetCurrentPick(ctx context.Context, id uuid.UUID) (*CurrentPick, error) {
	d, err := a.repo.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusDuring {
		return nil, nil
	}

	teams, err := a.teams.ListTeamsByDraft(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	if len(teams) == 0 {
		return nil, nil
	}

	slot := order.Resolve(d.CurrentPickNum, len(teams))
	startedAt := a.clock.Now()
	if d.CurrentPickStartedAt != nil {
		startedAt = *d.CurrentPickStartedAt
	}

	return &CurrentPick{
		PickNum:   d.CurrentPickNum,
		Round:     slot.Round,
		Team:      teams[slot.TeamIndex],
		StartedAt: startedAt,
	}, nil
}

// ListDueDrafts returns drafts whose current pick clock has run out.
func (a *App) ListDueDrafts(ctx context.Context, limit int) ([]DueDraft, error) {
	cutoff := a.clock.Now().Add(-a.config.TimePerPick)
	return a.repo.FetchDueDrafts(ctx, cutoff, limit)
}

func (a *App) emitPickStarted(ctx context.Context, draftID uuid.UUID, pickNum int, teams []models.DraftTeam, startedAt time.Time) {
	if len(teams) == 0 {
		return
	}
	slot := order.Resolve(pickNum, len(teams))
	a.emit(ctx, draftID, events.EventTypePickStarted, events.PickStartedPayload{
		PickNum:        pickNum,
		Round:          slot.Round,
		TeamID:         teams[slot.TeamIndex].ID.String(),
		StartedAt:      startedAt,
		TimePerPickSec: int(a.config.TimePerPick.Seconds()),
	})
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
