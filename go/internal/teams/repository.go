package teams

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkelleher/rinkdraft/go/internal/models"
	"github.com/mkelleher/rinkdraft/go/internal/sqlutil"
)

// uniqueViolation is the Postgres error code raised when an insert hits a
// unique index, here the one-team-per-(draft, user) constraint.
const uniqueViolation = "23505"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const teamColumns = `id, draft_id, user_id, name, draft_order, created_at`

// CreateTeam inserts a team at the next draft-order position. The draft row
// is locked first so concurrent joins cannot claim the same position.
func (r *Repository) CreateTeam(ctx context.Context, draftID uuid.UUID, userID, name string) (*models.DraftTeam, error) {
	team := &models.DraftTeam{}
	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var dummy uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM drafts WHERE id = $1 FOR UPDATE`, draftID).Scan(&dummy); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("draft %s: %w", draftID, pgx.ErrNoRows)
			}
			return fmt.Errorf("failed to lock draft: %w", err)
		}

		var count int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM draft_teams WHERE draft_id = $1`, draftID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count teams: %w", err)
		}

		err := tx.QueryRow(ctx, `
			INSERT INTO draft_teams (id, draft_id, user_id, name, draft_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+teamColumns,
			uuid.New(), draftID, userID, name, count+1).
			Scan(&team.ID, &team.DraftID, &team.UserID, &team.Name, &team.DraftOrder, &team.CreatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return ErrAlreadyJoined
			}
			return fmt.Errorf("failed to create team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return team, nil
}

// GetTeamByDraftAndUser returns the user's team in a draft.
func (r *Repository) GetTeamByDraftAndUser(ctx context.Context, draftID uuid.UUID, userID string) (*models.DraftTeam, error) {
	team := &models.DraftTeam{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM draft_teams WHERE draft_id = $1 AND user_id = $2`,
		draftID, userID).
		Scan(&team.ID, &team.DraftID, &team.UserID, &team.Name, &team.DraftOrder, &team.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ListTeamsByDraft returns a draft's teams sorted by draft order.
func (r *Repository) ListTeamsByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftTeam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+teamColumns+` FROM draft_teams WHERE draft_id = $1 ORDER BY draft_order`,
		draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.DraftTeam
	for rows.Next() {
		var t models.DraftTeam
		if err := rows.Scan(&t.ID, &t.DraftID, &t.UserID, &t.Name, &t.DraftOrder, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ReassignOrder rewrites draft-order positions 1..N following the given team
// id sequence, in one transaction holding the draft row lock. Two shuffles
// racing each other therefore serialize instead of interleaving per-team
// updates; the (draft_id, draft_order) unique index is deferred to commit.
func (r *Repository) ReassignOrder(ctx context.Context, draftID uuid.UUID, orderedTeamIDs []uuid.UUID) error {
	return sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var dummy uuid.UUID
		if err := tx.QueryRow(ctx, `SELECT id FROM drafts WHERE id = $1 FOR UPDATE`, draftID).Scan(&dummy); err != nil {
			return fmt.Errorf("failed to lock draft: %w", err)
		}

		for i, teamID := range orderedTeamIDs {
			tag, err := tx.Exec(ctx,
				`UPDATE draft_teams SET draft_order = $3 WHERE id = $1 AND draft_id = $2`,
				teamID, draftID, i+1)
			if err != nil {
				return fmt.Errorf("failed to update draft order: %w", err)
			}
			if tag.RowsAffected() == 0 {
				return fmt.Errorf("team %s: %w", teamID, ErrTeamNotFound)
			}
		}
		return nil
	})
}
