package gateway

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/models"
)

// DraftGetter resolves a draft so the handler can reject subscriptions to
// drafts that do not exist.
type DraftGetter interface {
	GetDraft(ctx context.Context, id uuid.UUID) (*models.Draft, error)
}

// Handler upgrades authenticated clients onto a draft's event stream.
type Handler struct {
	manager  *ConnectionManager
	drafts   DraftGetter
	verifier auth.Verifier
}

func NewHandler(manager *ConnectionManager, drafts DraftGetter, verifier auth.Verifier) *Handler {
	return &Handler{manager: manager, drafts: drafts, verifier: verifier}
}

// ServeWS handles GET /ws/drafts/{draftID}. Browsers cannot set headers on
// WebSocket requests, so the token rides in a query parameter.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		http.Error(w, "invalid draft id", http.StatusBadRequest)
		return
	}

	token := r.URL.Query().Get("token")
	identity, err := h.verifier.Verify(r.Context(), token)
	if err != nil {
		http.Error(w, "unauthenticated", http.StatusUnauthorized)
		return
	}

	if _, err := h.drafts.GetDraft(r.Context(), draftID); err != nil {
		if errors.Is(err, draft.ErrDraftNotFound) {
			http.Error(w, "draft not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("failed to load draft for subscription")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if err := h.manager.Subscribe(w, r, identity.UserID, draftID); err != nil {
		// Upgrade failures already wrote a response.
		log.Error().Err(err).Str("draft_id", draftID.String()).Msg("websocket upgrade failed")
	}
}
