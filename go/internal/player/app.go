package player

import (
	"context"

	"github.com/google/uuid"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// PlayerRepository defines what the app layer needs from the player repository.
type PlayerRepository interface {
	GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error)
	ListPlayers(ctx context.Context) ([]models.DraftablePlayer, error)
}

// App exposes the draftable-player catalog. The catalog is read-only
// reference data shared by every draft.
type App struct {
	repo PlayerRepository
}

func NewApp(repo PlayerRepository) *App {
	return &App{repo: repo}
}

// GetPlayer retrieves a catalog entry by ID.
func (a *App) GetPlayer(ctx context.Context, id uuid.UUID) (*models.DraftablePlayer, error) {
	return a.repo.GetPlayer(ctx, id)
}

// ListPlayers returns the whole catalog sorted by name.
func (a *App) ListPlayers(ctx context.Context) ([]models.DraftablePlayer, error) {
	return a.repo.ListPlayers(ctx)
}
