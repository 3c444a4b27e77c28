package presence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
)

const (
	// OnlineThreshold is how recent a heartbeat must be for a user to count
	// as online.
	OnlineThreshold = 30 * time.Second
	// StaleThreshold is how old a heartbeat must be before the row is swept.
	StaleThreshold = 60 * time.Second
)

// PresenceRepository defines what the app layer needs from the presence
// repository.
type PresenceRepository interface {
	Upsert(ctx context.Context, draftID uuid.UUID, userID string, seenAt time.Time) error
	DeleteStale(ctx context.Context, draftID uuid.UUID, cutoff time.Time) (int64, error)
	ListSeenSince(ctx context.Context, draftID uuid.UUID, cutoff time.Time) ([]string, error)
	Delete(ctx context.Context, draftID uuid.UUID, userID string) error
}

// App tracks which users are active in a draft room.
type App struct {
	repo  PresenceRepository
	clock clockwork.Clock
}

func NewApp(repo PresenceRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// Heartbeat records that the calling user is active in the draft and sweeps
// rows whose last heartbeat is older than StaleThreshold. Piggybacking the
// sweep on heartbeats keeps the table bounded without a dedicated janitor.
func (a *App) Heartbeat(ctx context.Context, draftID uuid.UUID) error {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}

	now := a.clock.Now()
	if err := a.repo.Upsert(ctx, draftID, identity.UserID, now); err != nil {
		return err
	}

	swept, err := a.repo.DeleteStale(ctx, draftID, now.Add(-StaleThreshold))
	if err != nil {
		// The heartbeat itself landed, so log and move on.
		log.Warn().Err(err).Str("draft_id", draftID.String()).Msg("presence sweep failed")
		return nil
	}
	if swept > 0 {
		log.Debug().
			Str("draft_id", draftID.String()).
			Int64("swept", swept).
			Msg("swept stale presence rows")
	}
	return nil
}

// GetOnlineUsers returns the ids of users seen within OnlineThreshold.
func (a *App) GetOnlineUsers(ctx context.Context, draftID uuid.UUID) ([]string, error) {
	return a.repo.ListSeenSince(ctx, draftID, a.clock.Now().Add(-OnlineThreshold))
}

// RemovePresence drops the calling user's presence row, for an explicit
// leave rather than waiting for the row to go stale.
func (a *App) RemovePresence(ctx context.Context, draftID uuid.UUID) error {
	identity, err := auth.FromContext(ctx)
	if err != nil {
		return err
	}
	return a.repo.Delete(ctx, draftID, identity.UserID)
}
