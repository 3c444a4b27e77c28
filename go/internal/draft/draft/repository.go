package draft

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkelleher/rinkdraft/go/internal/models"
	"github.com/mkelleher/rinkdraft/go/internal/sqlutil"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const draftColumns = `id, name, start_time, host_user_id, status, current_pick_num, current_pick_started_at, created_at, updated_at`

// CreateDraftWithHostTeam atomically creates a draft in PRE status and the
// host's team at draft order 1.
func (r *Repository) CreateDraftWithHostTeam(ctx context.Context, req CreateDraftRequest, hostUserID, hostTeamName string) (*models.Draft, *models.DraftTeam, error) {
	var draft *models.Draft
	team := &models.DraftTeam{}
	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			INSERT INTO drafts (id, name, start_time, host_user_id, status, current_pick_num)
			VALUES ($1, $2, $3, $4, $5, 1)
			RETURNING `+draftColumns,
			uuid.New(), req.Name, req.StartTime, hostUserID, models.DraftStatusPre)

		var err error
		draft, err = scanDraft(row)
		if err != nil {
			return fmt.Errorf("failed to create draft: %w", err)
		}

		err = tx.QueryRow(ctx, `
			INSERT INTO draft_teams (id, draft_id, user_id, name, draft_order)
			VALUES ($1, $2, $3, $4, 1)
			RETURNING id, draft_id, user_id, name, draft_order, created_at`,
			uuid.New(), draft.ID, hostUserID, hostTeamName).
			Scan(&team.ID, &team.DraftID, &team.UserID, &team.Name, &team.DraftOrder, &team.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create host team: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return draft, team, nil
}

// GetDraft retrieves a draft by ID.
func (r *Repository) GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+draftColumns+` FROM drafts WHERE id = $1`, id)
	draft, err := scanDraft(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}
	return draft, nil
}

// GetDraftSummary retrieves a draft together with its team count.
func (r *Repository) GetDraftSummary(ctx context.Context, id uuid.UUID) (*models.DraftSummary, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT d.id, d.name, d.start_time, d.host_user_id, d.status,
		       d.current_pick_num, d.current_pick_started_at, d.created_at, d.updated_at,
		       COUNT(t.id)
		FROM drafts d
		LEFT JOIN draft_teams t ON t.draft_id = d.id
		WHERE d.id = $1
		GROUP BY d.id`, id)

	var s models.DraftSummary
	err := row.Scan(&s.ID, &s.Name, &s.StartTime, &s.HostUserID, &s.Status,
		&s.CurrentPickNum, &s.CurrentPickStartedAt, &s.CreatedAt, &s.UpdatedAt,
		&s.TeamCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, fmt.Errorf("failed to get draft summary: %w", err)
	}
	return &s, nil
}

// ListDraftsForUser returns every draft the user hosts or participates in,
// with team counts and the user's own team name.
func (r *Repository) ListDraftsForUser(ctx context.Context, userID string) ([]models.DraftSummary, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.id, d.name, d.start_time, d.host_user_id, d.status,
		       d.current_pick_num, d.current_pick_started_at, d.created_at, d.updated_at,
		       COUNT(t.id),
		       COALESCE(MAX(t.name) FILTER (WHERE t.user_id = $1), '')
		FROM drafts d
		LEFT JOIN draft_teams t ON t.draft_id = d.id
		WHERE d.host_user_id = $1
		   OR EXISTS (SELECT 1 FROM draft_teams mt WHERE mt.draft_id = d.id AND mt.user_id = $1)
		GROUP BY d.id
		ORDER BY d.start_time DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts for user: %w", err)
	}
	defer rows.Close()

	var out []models.DraftSummary
	for rows.Next() {
		var s models.DraftSummary
		if err := rows.Scan(&s.ID, &s.Name, &s.StartTime, &s.HostUserID, &s.Status,
			&s.CurrentPickNum, &s.CurrentPickStartedAt, &s.CreatedAt, &s.UpdatedAt,
			&s.TeamCount, &s.UserTeamName); err != nil {
			return nil, fmt.Errorf("failed to scan draft summary: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// MarkStarted transitions a PRE draft to DURING with the pick pointer reset
// to slot 1. Returns false if the draft was not in PRE status.
func (r *Repository) MarkStarted(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drafts
		SET status = $2, current_pick_num = 1, current_pick_started_at = $3, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, models.DraftStatusDuring, now, models.DraftStatusPre)
	if err != nil {
		return false, fmt.Errorf("failed to start draft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkFinished transitions a DURING draft to POST, leaving the pick pointer
// and start time frozen at their last DURING values. Returns false if the
// draft was not in DURING status.
func (r *Repository) MarkFinished(ctx context.Context, id uuid.UUID, now time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE drafts
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4`,
		id, models.DraftStatusPost, now, models.DraftStatusDuring)
	if err != nil {
		return false, fmt.Errorf("failed to finish draft: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// AdvancePick moves the current-pick pointer forward by one, or transitions
// the draft to POST when the pointer would pass the final slot. The draft
// row is locked for the duration so racing advances serialize.
func (r *Repository) AdvancePick(ctx context.Context, id uuid.UUID, rounds int, now time.Time) (AdvanceResult, error) {
	var result AdvanceResult
	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var status models.DraftStatus
		var currentPick int
		err := tx.QueryRow(ctx,
			`SELECT status, current_pick_num FROM drafts WHERE id = $1 FOR UPDATE`, id).
			Scan(&status, &currentPick)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrDraftNotFound
			}
			return fmt.Errorf("failed to lock draft: %w", err)
		}
		if status != models.DraftStatusDuring {
			return ErrDraftNotActive
		}

		var teamCount int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM draft_teams WHERE draft_id = $1`, id).Scan(&teamCount); err != nil {
			return fmt.Errorf("failed to count teams: %w", err)
		}

		result, err = advanceLocked(ctx, tx, id, currentPick, teamCount, rounds, now)
		return err
	})
	if err != nil {
		return AdvanceResult{}, err
	}
	return result, nil
}

// advanceLocked applies the pointer advance inside a transaction that
// already holds the draft row lock.
func advanceLocked(ctx context.Context, tx pgx.Tx, id uuid.UUID, currentPick, teamCount, rounds int, now time.Time) (AdvanceResult, error) {
	next := currentPick + 1
	if next > teamCount*rounds {
		_, err := tx.Exec(ctx, `
			UPDATE drafts SET status = $2, updated_at = $3 WHERE id = $1`,
			id, models.DraftStatusPost, now)
		if err != nil {
			return AdvanceResult{}, fmt.Errorf("failed to complete draft: %w", err)
		}
		return AdvanceResult{Completed: true, PickNum: currentPick}, nil
	}

	_, err := tx.Exec(ctx, `
		UPDATE drafts
		SET current_pick_num = $2, current_pick_started_at = $3, updated_at = $3
		WHERE id = $1`,
		id, next, now)
	if err != nil {
		return AdvanceResult{}, fmt.Errorf("failed to advance pick: %w", err)
	}
	return AdvanceResult{PickNum: next, StartedAt: now}, nil
}

// FetchDueDrafts returns DURING drafts whose current pick started at or
// before the cutoff, oldest first.
func (r *Repository) FetchDueDrafts(ctx context.Context, cutoff time.Time, limit int) ([]DueDraft, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, current_pick_num, current_pick_started_at
		FROM drafts
		WHERE status = $1 AND current_pick_started_at <= $2
		ORDER BY current_pick_started_at
		LIMIT $3`,
		models.DraftStatusDuring, cutoff, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch due drafts: %w", err)
	}
	defer rows.Close()

	var due []DueDraft
	for rows.Next() {
		var d DueDraft
		if err := rows.Scan(&d.DraftID, &d.PickNum, &d.StartedAt); err != nil {
			return nil, fmt.Errorf("failed to scan due draft: %w", err)
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

func scanDraft(row pgx.Row) (*models.Draft, error) {
	var d models.Draft
	err := row.Scan(&d.ID, &d.Name, &d.StartTime, &d.HostUserID, &d.Status,
		&d.CurrentPickNum, &d.CurrentPickStartedAt, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
