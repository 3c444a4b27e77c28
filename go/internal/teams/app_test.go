package teams_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/models"
	"github.com/mkelleher/rinkdraft/go/internal/teams"
)

type fakeTeamRepo struct {
	teams []models.DraftTeam
}

func (r *fakeTeamRepo) CreateTeam(_ context.Context, draftID uuid.UUID, userID, name string) (*models.DraftTeam, error) {
	for _, t := range r.teams {
		if t.DraftID == draftID && t.UserID == userID {
			return nil, teams.ErrAlreadyJoined
		}
	}
	team := models.DraftTeam{
		ID:         uuid.New(),
		DraftID:    draftID,
		UserID:     userID,
		Name:       name,
		DraftOrder: len(r.teams) + 1,
	}
	r.teams = append(r.teams, team)
	return &team, nil
}

func (r *fakeTeamRepo) GetTeamByDraftAndUser(_ context.Context, draftID uuid.UUID, userID string) (*models.DraftTeam, error) {
	for _, t := range r.teams {
		if t.DraftID == draftID && t.UserID == userID {
			team := t
			return &team, nil
		}
	}
	return nil, teams.ErrTeamNotFound
}

func (r *fakeTeamRepo) ListTeamsByDraft(_ context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	var out []models.DraftTeam
	for _, t := range r.teams {
		if t.DraftID == draftID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTeamRepo) ReassignOrder(context.Context, uuid.UUID, []uuid.UUID) error {
	return nil
}

type fakeDraftGetter struct {
	draft *models.Draft
}

func (g *fakeDraftGetter) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	if g.draft == nil || g.draft.ID != id {
		return nil, draft.ErrDraftNotFound
	}
	copied := *g.draft
	return &copied, nil
}

func identityCtx(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID, DisplayName: userID})
}

func newTestApp(status models.DraftStatus) (*teams.App, *fakeTeamRepo, uuid.UUID) {
	repo := &fakeTeamRepo{}
	draftID := uuid.New()
	getter := &fakeDraftGetter{draft: &models.Draft{ID: draftID, HostUserID: "host", Status: status}}
	return teams.NewApp(repo, getter), repo, draftID
}

func TestJoinDraft(t *testing.T) {
	app, _, draftID := newTestApp(models.DraftStatusPre)

	team, err := app.JoinDraft(identityCtx("guest"), draftID, "Bench Warmers")
	require.NoError(t, err)

	assert.Equal(t, "guest", team.UserID)
	assert.Equal(t, "Bench Warmers", team.Name)
	assert.Equal(t, 1, team.DraftOrder)
}

func TestJoinDraftAssignsNextPosition(t *testing.T) {
	app, _, draftID := newTestApp(models.DraftStatusPre)

	first, err := app.JoinDraft(identityCtx("alpha"), draftID, "")
	require.NoError(t, err)
	second, err := app.JoinDraft(identityCtx("bravo"), draftID, "")
	require.NoError(t, err)

	assert.Equal(t, 1, first.DraftOrder)
	assert.Equal(t, 2, second.DraftOrder)
	assert.Equal(t, "alpha's Team", first.Name)
}

func TestJoinDraftTwice(t *testing.T) {
	app, repo, draftID := newTestApp(models.DraftStatusPre)

	_, err := app.JoinDraft(identityCtx("guest"), draftID, "Bench Warmers")
	require.NoError(t, err)

	_, err = app.JoinDraft(identityCtx("guest"), draftID, "Bench Warmers Again")
	assert.ErrorIs(t, err, teams.ErrAlreadyJoined)
	assert.Len(t, repo.teams, 1)
}

func TestJoinDraftAfterStart(t *testing.T) {
	app, _, draftID := newTestApp(models.DraftStatusDuring)

	_, err := app.JoinDraft(identityCtx("guest"), draftID, "Too Late")
	assert.ErrorIs(t, err, teams.ErrDraftLocked)
}

func TestJoinDraftRequiresIdentity(t *testing.T) {
	app, _, draftID := newTestApp(models.DraftStatusPre)

	_, err := app.JoinDraft(context.Background(), draftID, "Nobody")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestIsUserInDraft(t *testing.T) {
	app, _, draftID := newTestApp(models.DraftStatusPre)

	joined, err := app.IsUserInDraft(identityCtx("guest"), draftID)
	require.NoError(t, err)
	assert.False(t, joined)

	_, err = app.JoinDraft(identityCtx("guest"), draftID, "Bench Warmers")
	require.NoError(t, err)

	joined, err = app.IsUserInDraft(identityCtx("guest"), draftID)
	require.NoError(t, err)
	assert.True(t, joined)

	// No identity means not in the draft, not an error.
	joined, err = app.IsUserInDraft(context.Background(), draftID)
	require.NoError(t, err)
	assert.False(t, joined)
}
