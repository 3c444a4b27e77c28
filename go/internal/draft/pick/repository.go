package pick

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	draft "github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/models"
	"github.com/mkelleher/rinkdraft/go/internal/sqlutil"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ClaimPickSlot records a pick for the expected slot and advances the draft
// pointer, all in one transaction holding the draft row lock. The store's
// serialization does the heavy lifting: once the row is locked, the slot,
// player and status checks are authoritative, so exactly one racing caller
// can win a contested slot. Losing the race to a pointer that already moved
// is reported as OutcomeAlreadyAdvanced rather than an error.
func (r *Repository) ClaimPickSlot(ctx context.Context, draftID, teamID, playerID uuid.UUID, expectedPickNum, rounds int, now time.Time) (ClaimResult, error) {
	var result ClaimResult
	err := sqlutil.Run(ctx, r.pool, func(tx pgx.Tx) error {
		var status models.DraftStatus
		var currentPick int
		err := tx.QueryRow(ctx,
			`SELECT status, current_pick_num FROM drafts WHERE id = $1 FOR UPDATE`, draftID).
			Scan(&status, &currentPick)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return draft.ErrDraftNotFound
			}
			return fmt.Errorf("failed to lock draft: %w", err)
		}

		// The pointer moving past the expected slot means a concurrent caller
		// already handled this turn; that is the benign race.
		if currentPick != expectedPickNum {
			result = ClaimResult{Outcome: OutcomeAlreadyAdvanced}
			return nil
		}

		var slotFilled bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM draft_picks WHERE draft_id = $1 AND pick_num = $2)`,
			draftID, expectedPickNum).Scan(&slotFilled)
		if err != nil {
			return fmt.Errorf("failed to check pick slot: %w", err)
		}
		if slotFilled {
			result = ClaimResult{Outcome: OutcomeSlotTaken}
			return nil
		}

		if status != models.DraftStatusDuring {
			result = ClaimResult{Outcome: OutcomeStateChanged}
			return nil
		}

		var playerTaken bool
		err = tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2)`,
			draftID, playerID).Scan(&playerTaken)
		if err != nil {
			return fmt.Errorf("failed to check player availability: %w", err)
		}
		if playerTaken {
			result = ClaimResult{Outcome: OutcomePlayerTaken}
			return nil
		}

		p := &models.DraftPick{}
		err = tx.QueryRow(ctx, `
			INSERT INTO draft_picks (id, draft_id, team_id, player_id, pick_num, picked_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, draft_id, team_id, player_id, pick_num, picked_at`,
			uuid.New(), draftID, teamID, playerID, expectedPickNum, now).
			Scan(&p.ID, &p.DraftID, &p.TeamID, &p.PlayerID, &p.PickNum, &p.PickedAt)
		if err != nil {
			return fmt.Errorf("failed to insert pick: %w", err)
		}

		var teamCount int
		if err := tx.QueryRow(ctx,
			`SELECT COUNT(*) FROM draft_teams WHERE draft_id = $1`, draftID).Scan(&teamCount); err != nil {
			return fmt.Errorf("failed to count teams: %w", err)
		}

		result = ClaimResult{Outcome: OutcomePicked, Pick: p}
		next := expectedPickNum + 1
		if next > teamCount*rounds {
			// Final slot played: freeze the pointer and complete the draft.
			_, err = tx.Exec(ctx,
				`UPDATE drafts SET status = $2, updated_at = $3 WHERE id = $1`,
				draftID, models.DraftStatusPost, now)
			if err != nil {
				return fmt.Errorf("failed to complete draft: %w", err)
			}
			result.Completed = true
			result.NextPickNum = expectedPickNum
		} else {
			_, err = tx.Exec(ctx, `
				UPDATE drafts
				SET current_pick_num = $2, current_pick_started_at = $3, updated_at = $3
				WHERE id = $1`,
				draftID, next, now)
			if err != nil {
				return fmt.Errorf("failed to advance pick: %w", err)
			}
			result.NextPickNum = next
			result.NextStartedAt = now
		}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	return result, nil
}

// IsPlayerPicked reports whether the player is already assigned to a team in
// this draft.
func (r *Repository) IsPlayerPicked(ctx context.Context, draftID, playerID uuid.UUID) (bool, error) {
	var picked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM draft_picks WHERE draft_id = $1 AND player_id = $2)`,
		draftID, playerID).Scan(&picked)
	if err != nil {
		return false, fmt.Errorf("failed to check player availability: %w", err)
	}
	return picked, nil
}

// ListPicksByDraft returns a draft's picks ordered by pick number.
func (r *Repository) ListPicksByDraft(ctx context.Context, draftID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, draft_id, team_id, player_id, pick_num, picked_at
		FROM draft_picks
		WHERE draft_id = $1
		ORDER BY pick_num`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var p models.DraftPick
		if err := rows.Scan(&p.ID, &p.DraftID, &p.TeamID, &p.PlayerID, &p.PickNum, &p.PickedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}

// ListAvailablePlayers returns catalog players not yet picked in this draft,
// sorted by name.
func (r *Repository) ListAvailablePlayers(ctx context.Context, draftID uuid.UUID) ([]models.DraftablePlayer, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.id, p.name, p.position, p.avatar_url, p.created_at
		FROM draftable_players p
		WHERE NOT EXISTS (
			SELECT 1 FROM draft_picks dp WHERE dp.draft_id = $1 AND dp.player_id = p.id
		)
		ORDER BY p.name`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	defer rows.Close()

	var players []models.DraftablePlayer
	for rows.Next() {
		var p models.DraftablePlayer
		if err := rows.Scan(&p.ID, &p.Name, &p.Position, &p.AvatarURL, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// CountPicksByPosition returns how many picked players the draft has per
// position code.
func (r *Repository) CountPicksByPosition(ctx context.Context, draftID uuid.UUID) (map[models.Position]int, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT p.position, COUNT(*)
		FROM draft_picks dp
		JOIN draftable_players p ON p.id = dp.player_id
		WHERE dp.draft_id = $1
		GROUP BY p.position`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to count picks by position: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Position]int)
	for rows.Next() {
		var pos models.Position
		var n int
		if err := rows.Scan(&pos, &n); err != nil {
			return nil, fmt.Errorf("failed to scan position count: %w", err)
		}
		counts[pos] = n
	}
	return counts, rows.Err()
}

// ListRosterEntries returns one row per pick with team and player display
// info, ordered by draft order then pick number.
func (r *Repository) ListRosterEntries(ctx context.Context, draftID uuid.UUID) ([]RosterEntry, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name, t.user_id, t.draft_order, p.name, p.position, p.avatar_url, dp.pick_num
		FROM draft_picks dp
		JOIN draft_teams t ON t.id = dp.team_id
		JOIN draftable_players p ON p.id = dp.player_id
		WHERE dp.draft_id = $1
		ORDER BY t.draft_order, dp.pick_num`, draftID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster entries: %w", err)
	}
	defer rows.Close()

	var entries []RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(&e.TeamID, &e.TeamName, &e.UserID, &e.DraftOrder,
			&e.PlayerName, &e.Position, &e.AvatarURL, &e.PickNum); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListRecentPicks returns the most recent picks, newest first.
func (r *Repository) ListRecentPicks(ctx context.Context, draftID uuid.UUID, limit int) ([]RecentPick, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT dp.pick_num, t.name, p.name, p.position, p.avatar_url
		FROM draft_picks dp
		JOIN draft_teams t ON t.id = dp.team_id
		JOIN draftable_players p ON p.id = dp.player_id
		WHERE dp.draft_id = $1
		ORDER BY dp.pick_num DESC
		LIMIT $2`, draftID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent picks: %w", err)
	}
	defer rows.Close()

	var picks []RecentPick
	for rows.Next() {
		var p RecentPick
		if err := rows.Scan(&p.PickNum, &p.TeamName, &p.Name, &p.Position, &p.AvatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan recent pick: %w", err)
		}
		picks = append(picks, p)
	}
	return picks, rows.Err()
}
