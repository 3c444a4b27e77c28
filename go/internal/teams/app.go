package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// TeamRepository defines what the app layer needs from the teams repository.
type TeamRepository interface {
	CreateTeam(ctx context.Context, draftID uuid.UUID, userID, name string) (*models.DraftTeam, error)
	GetTeamByDraftAndUser(ctx context.Context, draftID uuid.UUID, userID string) (*models.DraftTeam, error)
	ListTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error)
	ReassignOrder(ctx context.Context, draftID uuid.UUID, orderedTeamIDs []uuid.UUID) error
}

// DraftGetter defines what the app layer needs from the draft repository.
type DraftGetter interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// App handles draft participation: joining a draft and team lookups.
type App struct {
	repo   TeamRepository
	drafts DraftGetter
}

func NewApp(repo TeamRepository, drafts DraftGetter) *App {
	return &App{
		repo:   repo,
		drafts: drafts,
	}
}

// JoinDraft creates a team for the caller at the next draft-order position.
// Joining is only open while the draft is in PRE status; positions are fixed
// once the draft begins.
func (a *App) JoinDraft(ctx context.Context, draftID uuid.UUID, teamName string) (*models.DraftTeam, error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	d, err := a.drafts.GetDraft(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if d.Status != models.DraftStatusPre {
		return nil, ErrDraftLocked
	}

	if teamName == "" {
		name := identity.DisplayName
		if name == "" {
			name = "Guest"
		}
		teamName = fmt.Sprintf("%s's Team", name)
	}

	team, err := a.repo.CreateTeam(ctx, draftID, identity.UserID, teamName)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("draft_id", draftID.String()).
		Str("team_id", team.ID.String()).
		Int("draft_order", team.DraftOrder).
		Msg("user joined draft")
	return team, nil
}

// IsUserInDraft reports whether the caller already has a team in the draft.
// An unauthenticated caller is simply not in the draft.
func (a *App) IsUserInDraft(ctx context.Context, draftID uuid.UUID) (bool, error) {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return false, nil
	}

	_, err = a.repo.GetTeamByDraftAndUser(ctx, draftID, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to look up team: %w", err)
	}
	return true, nil
}

// ListTeams returns a draft's teams sorted by draft order.
func (a *App) ListTeams(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	return a.repo.ListTeamsByDraft(ctx, draftID)
}
