package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/draft"
	"github.com/mkelleher/rinkdraft/go/internal/draft/pick"
	"github.com/mkelleher/rinkdraft/go/internal/player"
	"github.com/mkelleher/rinkdraft/go/internal/presence"
	"github.com/mkelleher/rinkdraft/go/internal/teams"
)

// Server holds the app layers behind the JSON API.
type Server struct {
	drafts   *draft.App
	teams    *teams.App
	picks    *pick.App
	players  *player.App
	presence *presence.App
}

func NewServer(drafts *draft.App, t *teams.App, picks *pick.App, players *player.App, pres *presence.App) *Server {
	return &Server{
		drafts:   drafts,
		teams:    t,
		picks:    picks,
		players:  players,
		presence: pres,
	}
}

type createDraftRequest struct {
	Name         string    `json:"name"`
	StartTime    time.Time `json:"start_time"`
	HostTeamName string    `json:"host_team_name"`
}

func (s *Server) createDraft(w http.ResponseWriter, r *http.Request) {
	var req createDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	d, err := s.drafts.CreateDraft(r.Context(), draft.CreateDraftRequest{
		Name:         req.Name,
		StartTime:    req.StartTime,
		HostTeamName: req.HostTeamName,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, d)
}

func (s *Server) listDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := s.drafts.ListUserDrafts(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, drafts)
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	summary, err := s.drafts.GetDraft(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

type joinDraftRequest struct {
	TeamName string `json:"team_name"`
}

func (s *Server) joinDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	var req joinDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	team, err := s.teams.JoinDraft(r.Context(), draftID, req.TeamName)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, team)
}

func (s *Server) startDraft(w http.ResponseWriter, r *http.Request) {
	s.hostAction(w, r, s.drafts.StartDraft)
}

func (s *Server) finishDraft(w http.ResponseWriter, r *http.Request) {
	s.hostAction(w, r, s.drafts.FinishDraft)
}

func (s *Server) randomizeOrder(w http.ResponseWriter, r *http.Request) {
	s.hostAction(w, r, s.drafts.RandomizeOrder)
}

func (s *Server) hostAction(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id uuid.UUID) error) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	if err := fn(r.Context(), draftID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) advancePick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	result, err := s.drafts.AdvancePick(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

type makePickRequest struct {
	PlayerID uuid.UUID `json:"player_id"`
}

func (s *Server) makePick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	var req makePickRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.PlayerID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "player_id is required")
		return
	}

	result, err := s.picks.MakePick(r.Context(), pick.MakePickRequest{
		DraftID:  draftID,
		PlayerID: req.PlayerID,
	})
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) currentPick(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	current, err := s.drafts.GetCurrentPick(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		CurrentPick *draft.CurrentPick `json:"current_pick"`
	}{CurrentPick: current})
}

func (s *Server) availablePlayers(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	players, err := s.picks.GetAvailablePlayers(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

func (s *Server) listPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.players.ListPlayers(r.Context())
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, players)
}

func (s *Server) draftStats(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	stats, err := s.picks.GetDraftStats(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) draftRosters(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	rosters, err := s.picks.GetDraftRosters(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rosters)
}

func (s *Server) recentPicks(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	picks, err := s.picks.GetRecentPicks(r.Context(), draftID, limit)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, picks)
}

func (s *Server) listTeams(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	teamList, err := s.teams.ListTeams(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, teamList)
}

func (s *Server) membership(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	joined, err := s.teams.IsUserInDraft(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, struct {
		Joined bool `json:"joined"`
	}{Joined: joined})
}

func (s *Server) heartbeat(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	if err := s.presence.Heartbeat(r.Context(), draftID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) removePresence(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	if err := s.presence.RemovePresence(r.Context(), draftID); err != nil {
		respondAppError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) onlineUsers(w http.ResponseWriter, r *http.Request) {
	draftID, ok := draftIDParam(w, r)
	if !ok {
		return
	}
	userIDs, err := s.presence.GetOnlineUsers(r.Context(), draftID)
	if err != nil {
		respondAppError(w, err)
		return
	}
	if userIDs == nil {
		userIDs = []string{}
	}
	respondJSON(w, http.StatusOK, struct {
		UserIDs []string `json:"user_ids"`
	}{UserIDs: userIDs})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func draftIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid draft id")
		return uuid.Nil, false
	}
	return draftID, true
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, struct {
		Error string `json:"error"`
	}{Error: message})
}

// respondAppError maps app-layer sentinel errors onto HTTP statuses.
func respondAppError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, auth.ErrUnauthenticated):
		respondError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, draft.ErrNotHost):
		respondError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, draft.ErrDraftNotFound),
		errors.Is(err, teams.ErrTeamNotFound),
		errors.Is(err, player.ErrPlayerNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, draft.ErrInvalidState),
		errors.Is(err, draft.ErrDraftNotActive),
		errors.Is(err, draft.ErrStartTooEarly),
		errors.Is(err, draft.ErrNoTeams),
		errors.Is(err, teams.ErrAlreadyJoined),
		errors.Is(err, teams.ErrDraftLocked),
		errors.Is(err, pick.ErrNotYourTurn),
		errors.Is(err, pick.ErrPickSlotTaken),
		errors.Is(err, pick.ErrPlayerAlreadyPicked),
		errors.Is(err, pick.ErrDraftStateChanged):
		respondError(w, http.StatusConflict, err.Error())
	default:
		log.Error().Err(err).Msg("request failed")
		respondError(w, http.StatusInternalServerError, "internal error")
	}
}
