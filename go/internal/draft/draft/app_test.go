package draft_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/draft/events"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// fakeStore is an in-memory stand-in for the draft and team repositories.
type fakeStore struct {
	mu     sync.Mutex
	drafts map[uuid.UUID]*models.Draft
	teams  map[uuid.UUID][]models.DraftTeam
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		drafts: make(map[uuid.UUID]*models.Draft),
		teams:  make(map[uuid.UUID][]models.DraftTeam),
	}
}

func (s *fakeStore) CreateDraftWithHostTeam(_ context.Context, req draft.CreateDraftRequest, hostUserID, hostTeamName string) (*models.Draft, *models.DraftTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := &models.Draft{
		ID:         uuid.New(),
		Name:       req.Name,
		StartTime:  req.StartTime,
		HostUserID: hostUserID,
		Status:     models.DraftStatusPre,
	}
	team := models.DraftTeam{
		ID:         uuid.New(),
		DraftID:    d.ID,
		UserID:     hostUserID,
		Name:       hostTeamName,
		DraftOrder: 1,
	}
	s.drafts[d.ID] = d
	s.teams[d.ID] = []models.DraftTeam{team}
	return d, &team, nil
}

func (s *fakeStore) GetDraft(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return nil, draft.ErrDraftNotFound
	}
	copied := *d
	return &copied, nil
}

func (s *fakeStore) GetDraftSummary(ctx context.Context, id uuid.UUID) (*models.DraftSummary, error) {
	d, err := s.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.DraftSummary{Draft: *d, TeamCount: len(s.teams[id])}, nil
}

func (s *fakeStore) ListDraftsForUser(_ context.Context, userID string) ([]models.DraftSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.DraftSummary
	for id, d := range s.drafts {
		member := d.HostUserID == userID
		for _, t := range s.teams[id] {
			if t.UserID == userID {
				member = true
			}
		}
		if member {
			out = append(out, models.DraftSummary{Draft: *d, TeamCount: len(s.teams[id])})
		}
	}
	return out, nil
}

func (s *fakeStore) MarkStarted(_ context.Context, id uuid.UUID, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Status != models.DraftStatusPre {
		return false, nil
	}
	d.Status = models.DraftStatusDuring
	d.CurrentPickNum = 1
	started := now
	d.CurrentPickStartedAt = &started
	return true, nil
}

func (s *fakeStore) MarkFinished(_ context.Context, id uuid.UUID, _ time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok || d.Status != models.DraftStatusDuring {
		return false, nil
	}
	d.Status = models.DraftStatusPost
	return true, nil
}

func (s *fakeStore) AdvancePick(_ context.Context, id uuid.UUID, rounds int, now time.Time) (draft.AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.drafts[id]
	if !ok {
		return draft.AdvanceResult{}, draft.ErrDraftNotFound
	}
	if d.Status != models.DraftStatusDuring {
		return draft.AdvanceResult{}, draft.ErrDraftNotActive
	}

	next := d.CurrentPickNum + 1
	if next > len(s.teams[id])*rounds {
		d.Status = models.DraftStatusPost
		return draft.AdvanceResult{Completed: true, PickNum: d.CurrentPickNum}, nil
	}
	d.CurrentPickNum = next
	started := now
	d.CurrentPickStartedAt = &started
	return draft.AdvanceResult{PickNum: next, StartedAt: now}, nil
}

func (s *fakeStore) FetchDueDrafts(_ context.Context, cutoff time.Time, limit int) ([]draft.DueDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []draft.DueDraft
	for id, d := range s.drafts {
		if d.Status != models.DraftStatusDuring || d.CurrentPickStartedAt == nil {
			continue
		}
		if !d.CurrentPickStartedAt.After(cutoff) {
			due = append(due, draft.DueDraft{DraftID: id, PickNum: d.CurrentPickNum, StartedAt: *d.CurrentPickStartedAt})
		}
		if len(due) == limit {
			break
		}
	}
	return due, nil
}

func (s *fakeStore) ListTeamsByDraft(_ context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.DraftTeam(nil), s.teams[draftID]...), nil
}

func (s *fakeStore) ReassignOrder(_ context.Context, draftID uuid.UUID, orderedTeamIDs []uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[uuid.UUID]models.DraftTeam)
	for _, t := range s.teams[draftID] {
		byID[t.ID] = t
	}
	reordered := make([]models.DraftTeam, 0, len(orderedTeamIDs))
	for i, id := range orderedTeamIDs {
		t := byID[id]
		t.DraftOrder = i + 1
		reordered = append(reordered, t)
	}
	s.teams[draftID] = reordered
	return nil
}

func (s *fakeStore) addTeam(draftID uuid.UUID, userID, name string) models.DraftTeam {
	s.mu.Lock()
	defer s.mu.Unlock()

	team := models.DraftTeam{
		ID:         uuid.New(),
		DraftID:    draftID,
		UserID:     userID,
		Name:       name,
		DraftOrder: len(s.teams[draftID]) + 1,
	}
	s.teams[draftID] = append(s.teams[draftID], team)
	return team
}

// capturePublisher records every published event.
type capturePublisher struct {
	mu     sync.Mutex
	events []*events.DraftEvent
}

func (p *capturePublisher) Publish(_ context.Context, event *events.DraftEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) types() []events.EventType {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]events.EventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

func identityCtx(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID, DisplayName: userID})
}

func newTestApp(t *testing.T) (*draft.App, *fakeStore, *capturePublisher, *clockwork.FakeClock) {
	t.Helper()
	store := newFakeStore()
	pub := &capturePublisher{}
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC))
	app := draft.NewApp(store, store, pub, clock, draft.DefaultConfig())
	return app, store, pub, clock
}

func createTestDraft(t *testing.T, app *draft.App, store *fakeStore, clock clockwork.Clock) *models.Draft {
	t.Helper()
	d, err := app.CreateDraft(identityCtx("host"), draft.CreateDraftRequest{
		Name:      "Friday Night Draft",
		StartTime: clock.Now(),
	})
	require.NoError(t, err)
	return d
}

func TestCreateDraft(t *testing.T) {
	app, store, _, clock := newTestApp(t)

	d, err := app.CreateDraft(identityCtx("host"), draft.CreateDraftRequest{
		Name:      "Friday Night Draft",
		StartTime: clock.Now(),
	})
	require.NoError(t, err)

	assert.Equal(t, models.DraftStatusPre, d.Status)
	assert.Equal(t, "host", d.HostUserID)

	teams, err := store.ListTeamsByDraft(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "host", teams[0].UserID)
	assert.Equal(t, 1, teams[0].DraftOrder)
	assert.Equal(t, "host's Team", teams[0].Name)
}

func TestCreateDraftRequiresIdentity(t *testing.T) {
	app, _, _, clock := newTestApp(t)

	_, err := app.CreateDraft(context.Background(), draft.CreateDraftRequest{
		Name:      "No one's draft",
		StartTime: clock.Now(),
	})
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestStartDraft(t *testing.T) {
	app, store, pub, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	store.addTeam(d.ID, "guest", "Guest Squad")

	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	got, err := store.GetDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusDuring, got.Status)
	assert.Equal(t, 1, got.CurrentPickNum)
	require.NotNil(t, got.CurrentPickStartedAt)
	assert.Equal(t, clock.Now(), *got.CurrentPickStartedAt)

	assert.Equal(t, []events.EventType{events.EventTypeDraftStarted, events.EventTypePickStarted}, pub.types())
}

func TestStartDraftOnlyHost(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)

	err := app.StartDraft(identityCtx("guest"), d.ID)
	assert.ErrorIs(t, err, draft.ErrNotHost)
}

func TestStartDraftBeforeScheduledTime(t *testing.T) {
	app, _, _, clock := newTestApp(t)

	d, err := app.CreateDraft(identityCtx("host"), draft.CreateDraftRequest{
		Name:      "Later Tonight",
		StartTime: clock.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	err = app.StartDraft(identityCtx("host"), d.ID)
	assert.ErrorIs(t, err, draft.ErrStartTooEarly)

	clock.Advance(time.Hour)
	assert.NoError(t, app.StartDraft(identityCtx("host"), d.ID))
}

func TestStartDraftTwice(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)

	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))
	err := app.StartDraft(identityCtx("host"), d.ID)
	assert.ErrorIs(t, err, draft.ErrInvalidState)
}

func TestFinishDraft(t *testing.T) {
	app, store, pub, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	require.NoError(t, app.FinishDraft(identityCtx("host"), d.ID))

	got, err := store.GetDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPost, got.Status)
	assert.Contains(t, pub.types(), events.EventTypeDraftCompleted)
}

func TestFinishDraftRequiresActiveDraft(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)

	err := app.FinishDraft(identityCtx("host"), d.ID)
	assert.ErrorIs(t, err, draft.ErrInvalidState)
}

func TestAdvancePickMovesPointer(t *testing.T) {
	app, store, pub, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	store.addTeam(d.ID, "guest", "Guest Squad")
	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	clock.Advance(50 * time.Second)
	result, err := app.AdvancePick(context.Background(), d.ID)
	require.NoError(t, err)

	assert.False(t, result.Completed)
	assert.Equal(t, 2, result.PickNum)
	assert.Equal(t, clock.Now(), result.StartedAt)
	assert.Contains(t, pub.types(), events.EventTypePickStarted)
}

func TestAdvancePickCompletesDraft(t *testing.T) {
	app, store, pub, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	// One team, ten rounds: advance through every slot.
	for pickNum := 1; pickNum < 10; pickNum++ {
		result, err := app.AdvancePick(context.Background(), d.ID)
		require.NoError(t, err)
		require.False(t, result.Completed)
	}

	result, err := app.AdvancePick(context.Background(), d.ID)
	require.NoError(t, err)
	assert.True(t, result.Completed)

	got, err := store.GetDraft(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DraftStatusPost, got.Status)
	assert.Contains(t, pub.types(), events.EventTypeDraftCompleted)

	_, err = app.AdvancePick(context.Background(), d.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotActive)
}

func TestAdvancePickRequiresActiveDraft(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)

	_, err := app.AdvancePick(context.Background(), d.ID)
	assert.ErrorIs(t, err, draft.ErrDraftNotActive)
}

func TestRandomizeOrder(t *testing.T) {
	app, store, pub, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	store.addTeam(d.ID, "guest1", "Squad One")
	store.addTeam(d.ID, "guest2", "Squad Two")
	store.addTeam(d.ID, "guest3", "Squad Three")

	require.NoError(t, app.RandomizeOrder(identityCtx("host"), d.ID))

	teams, err := store.ListTeamsByDraft(context.Background(), d.ID)
	require.NoError(t, err)
	require.Len(t, teams, 4)

	seen := make(map[int]bool)
	for _, team := range teams {
		seen[team.DraftOrder] = true
	}
	for pos := 1; pos <= 4; pos++ {
		assert.True(t, seen[pos], "position %d missing after shuffle", pos)
	}
	assert.Contains(t, pub.types(), events.EventTypeOrderShuffled)
}

func TestRandomizeOrderOnlyBeforeStart(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	err := app.RandomizeOrder(identityCtx("host"), d.ID)
	assert.ErrorIs(t, err, draft.ErrInvalidState)
}

func TestGetCurrentPick(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	guest := store.addTeam(d.ID, "guest", "Guest Squad")

	current, err := app.GetCurrentPick(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Nil(t, current, "no pick on the clock before the draft starts")

	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	current, err = app.GetCurrentPick(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 1, current.PickNum)
	assert.Equal(t, 1, current.Round)
	assert.Equal(t, "host", current.Team.UserID)

	// Two teams: picks 2 and 3 both belong to the second team (snake turn).
	_, err = app.AdvancePick(context.Background(), d.ID)
	require.NoError(t, err)
	current, err = app.GetCurrentPick(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, guest.ID, current.Team.ID)

	_, err = app.AdvancePick(context.Background(), d.ID)
	require.NoError(t, err)
	current, err = app.GetCurrentPick(context.Background(), d.ID)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, 2, current.Round)
	assert.Equal(t, guest.ID, current.Team.ID)
}

func TestListDueDrafts(t *testing.T) {
	app, store, _, clock := newTestApp(t)
	d := createTestDraft(t, app, store, clock)
	require.NoError(t, app.StartDraft(identityCtx("host"), d.ID))

	due, err := app.ListDueDrafts(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, due, "pick clock has not expired yet")

	clock.Advance(draft.DefaultConfig().TimePerPick)
	due, err = app.ListDueDrafts(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, d.ID, due[0].DraftID)
	assert.Equal(t, 1, due[0].PickNum)
}
