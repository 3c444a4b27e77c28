package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles draft presence persistence.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Upsert records a heartbeat for a user in a draft, creating the presence
// row on first contact.
func (r *Repository) Upsert(ctx context.Context, draftID uuid.UUID, userID string, seenAt time.Time) error {
	query := `
		INSERT INTO draft_presence (id, draft_id, user_id, last_seen)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (draft_id, user_id) DO UPDATE SET last_seen = EXCLUDED.last_seen`

	_, err := r.pool.Exec(ctx, query, uuid.New(), draftID, userID, seenAt)
	if err != nil {
		return fmt.Errorf("failed to upsert presence: %w", err)
	}
	return nil
}

// DeleteStale removes presence rows for a draft last seen at or before the
// cutoff. Returns the number of rows removed.
func (r *Repository) DeleteStale(ctx context.Context, draftID uuid.UUID, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM draft_presence WHERE draft_id = $1 AND last_seen <= $2`,
		draftID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stale presence: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListSeenSince returns the user ids with a heartbeat in a draft strictly
// after the cutoff.
func (r *Repository) ListSeenSince(ctx context.Context, draftID uuid.UUID, cutoff time.Time) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT user_id FROM draft_presence WHERE draft_id = $1 AND last_seen > $2 ORDER BY user_id`,
		draftID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list presence: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan presence row: %w", err)
		}
		userIDs = append(userIDs, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate presence rows: %w", err)
	}
	return userIDs, nil
}

// Delete removes a single user's presence row for a draft. Deleting a row
// that does not exist is not an error.
func (r *Repository) Delete(ctx context.Context, draftID uuid.UUID, userID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM draft_presence WHERE draft_id = $1 AND user_id = $2`,
		draftID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete presence: %w", err)
	}
	return nil
}
