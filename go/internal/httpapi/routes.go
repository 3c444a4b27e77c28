package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"github.com/mkelleher/rinkdraft/go/internal/auth"
	"github.com/mkelleher/rinkdraft/go/internal/draft/gateway"
)

// NewRouter assembles the full HTTP surface: the JSON API under /api, the
// WebSocket gateway under /ws, and the health check.
func NewRouter(server *Server, verifier auth.Verifier, ws *gateway.Handler, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/healthz", healthz)

	// The gateway authenticates via query token inside the handler.
	r.Get("/ws/drafts/{draftID}", ws.ServeWS)

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth(verifier))

		r.Post("/drafts", server.createDraft)
		r.Get("/drafts", server.listDrafts)
		r.Get("/players", server.listPlayers)

		r.Route("/drafts/{draftID}", func(r chi.Router) {
			r.Get("/", server.getDraft)
			r.Post("/join", server.joinDraft)
			r.Post("/start", server.startDraft)
			r.Post("/randomize", server.randomizeOrder)
			r.Post("/finish", server.finishDraft)
			r.Post("/advance", server.advancePick)

			r.Post("/picks", server.makePick)
			r.Get("/picks/recent", server.recentPicks)
			r.Get("/current-pick", server.currentPick)
			r.Get("/players/available", server.availablePlayers)
			r.Get("/stats", server.draftStats)
			r.Get("/rosters", server.draftRosters)

			r.Get("/teams", server.listTeams)
			r.Get("/membership", server.membership)

			r.Post("/heartbeat", server.heartbeat)
			r.Delete("/presence", server.removePresence)
			r.Get("/online", server.onlineUsers)
		})
	})

	return r
}
