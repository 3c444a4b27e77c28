package player

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const playerColumns = `id, name, position, avatar_url, created_at`

// GetPlayer retrieves a catalog entry by ID.
func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error) {
	p := &models.DraftablePlayer{}
	err := r.pool.QueryRow(ctx,
		`SELECT `+playerColumns+` FROM draftable_players WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Position, &p.AvatarURL, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return p, nil
}

// ListPlayers returns the whole catalog sorted by name.
func (r *Repository) ListPlayers(ctx context.Context) ([]models.DraftablePlayer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+playerColumns+` FROM draftable_players ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list players: %w", err)
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

// SeedPlayers inserts catalog entries, skipping names already present.
// Returns how many rows were inserted.
func (r *Repository) SeedPlayers(ctx context.Context, players []models.DraftablePlayer) (int, error) {
	inserted := 0
	for _, p := range players {
		id := p.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		tag, err := r.pool.Exec(ctx, `
			INSERT INTO draftable_players (id, name, position, avatar_url)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING`,
			id, p.Name, p.Position, p.AvatarURL)
		if err != nil {
			return inserted, fmt.Errorf("failed to seed player %q: %w", p.Name, err)
		}
		if tag.RowsAffected() == 1 {
			inserted++
		}
	}
	return inserted, nil
}
