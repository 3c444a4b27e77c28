package presence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/presence"
)

type fakePresenceRepo struct {
	lastSeen map[string]time.Time
}

func newFakePresenceRepo() *fakePresenceRepo {
	return &fakePresenceRepo{lastSeen: make(map[string]time.Time)}
}

func (r *fakePresenceRepo) Upsert(_ context.Context, _ uuid.UUID, userID string, seenAt time.Time) error {
	r.lastSeen[userID] = seenAt
	return nil
}

func (r *fakePresenceRepo) DeleteStale(_ context.Context, _ uuid.UUID, cutoff time.Time) (int64, error) {
	var swept int64
	for userID, seen := range r.lastSeen {
		if !seen.After(cutoff) {
			delete(r.lastSeen, userID)
			swept++
		}
	}
	return swept, nil
}

func (r *fakePresenceRepo) ListSeenSince(_ context.Context, _ uuid.UUID, cutoff time.Time) ([]string, error) {
	var out []string
	for userID, seen := range r.lastSeen {
		if seen.After(cutoff) {
			out = append(out, userID)
		}
	}
	return out, nil
}

func (r *fakePresenceRepo) Delete(_ context.Context, _ uuid.UUID, userID string) error {
	delete(r.lastSeen, userID)
	return nil
}

func identityCtx(userID string) context.Context {
	return auth.WithIdentity(context.Background(), auth.Identity{UserID: userID})
}

func TestHeartbeatMarksUserOnline(t *testing.T) {
	repo := newFakePresenceRepo()
	clock := clockwork.NewFakeClock()
	app := presence.NewApp(repo, clock)
	draftID := uuid.New()

	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))

	online, err := app.GetOnlineUsers(context.Background(), draftID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, online)
}

func TestHeartbeatRequiresIdentity(t *testing.T) {
	app := presence.NewApp(newFakePresenceRepo(), clockwork.NewFakeClock())

	err := app.Heartbeat(context.Background(), uuid.New())
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestUserGoesOfflineAfterThreshold(t *testing.T) {
	repo := newFakePresenceRepo()
	clock := clockwork.NewFakeClock()
	app := presence.NewApp(repo, clock)
	draftID := uuid.New()

	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))

	clock.Advance(presence.OnlineThreshold - time.Second)
	online, err := app.GetOnlineUsers(context.Background(), draftID)
	require.NoError(t, err)
	assert.Contains(t, online, "alice", "still online just under the threshold")

	clock.Advance(2 * time.Second)
	online, err = app.GetOnlineUsers(context.Background(), draftID)
	require.NoError(t, err)
	assert.NotContains(t, online, "alice")
}

func TestHeartbeatSweepsStaleRows(t *testing.T) {
	repo := newFakePresenceRepo()
	clock := clockwork.NewFakeClock()
	app := presence.NewApp(repo, clock)
	draftID := uuid.New()

	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))

	// Alice's row outlives the online threshold but survives until a later
	// heartbeat crosses the stale threshold and sweeps it.
	clock.Advance(presence.StaleThreshold / 2)
	require.NoError(t, app.Heartbeat(identityCtx("bob"), draftID))
	assert.Contains(t, repo.lastSeen, "alice")

	clock.Advance(presence.StaleThreshold / 2)
	require.NoError(t, app.Heartbeat(identityCtx("bob"), draftID))
	assert.NotContains(t, repo.lastSeen, "alice", "stale row swept")
	assert.Contains(t, repo.lastSeen, "bob")
}

func TestHeartbeatRefreshesPresence(t *testing.T) {
	repo := newFakePresenceRepo()
	clock := clockwork.NewFakeClock()
	app := presence.NewApp(repo, clock)
	draftID := uuid.New()

	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))
	clock.Advance(presence.OnlineThreshold)
	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))

	online, err := app.GetOnlineUsers(context.Background(), draftID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, online)
}

func TestRemovePresence(t *testing.T) {
	repo := newFakePresenceRepo()
	clock := clockwork.NewFakeClock()
	app := presence.NewApp(repo, clock)
	draftID := uuid.New()

	require.NoError(t, app.Heartbeat(identityCtx("alice"), draftID))
	require.NoError(t, app.RemovePresence(identityCtx("alice"), draftID))

	online, err := app.GetOnlineUsers(context.Background(), draftID)
	require.NoError(t, err)
	assert.Empty(t, online)
}
