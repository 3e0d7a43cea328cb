package api

import (
	"context"
	"net/http"

	game "dive-server/src"
	"dive-server/src/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Deps are the collaborators the HTTP surface needs. Game and Metrics may be
// nil.
type Deps struct {
	Store    store.Store
	Game     *game.GameServer
	Counters *Counters
	Metrics  *MetricsHandler
}

// NewRouter builds the full HTTP router: the score endpoints at the root and
// under /api/v1, admin and metrics routes, the websocket and the web client.
func NewRouter(cfg Config, deps Deps) chi.Router {
	if deps.Counters == nil {
		deps.Counters = &Counters{}
	}
	if deps.Metrics == nil {
		var gs GameStats
		if deps.Game != nil {
			gs = deps.Game
		}
		deps.Metrics = NewMetricsHandler(gs, deps.Counters)
	}

	r := chi.NewRouter()

	// Middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{cfg.AllowedOrigin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         86400,
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		errorJSON(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		errorJSON(w, http.StatusNotFound, "not found")
	})

	sh := NewScoreHandler(deps.Store, deps.Counters)
	if deps.Game != nil {
		gs := deps.Game
		sh.OnStored = func(store.Score) { go gs.BroadcastLeaderboard(context.Background()) }
	}
	ah := NewAdminHandler(cfg, deps.Store)

	// Original public contract
	r.Post("/score", sh.Submit)
	r.Get("/leaderboard", sh.Leaderboard)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", health)
		api.Route("/v1", func(sub chi.Router) {
			sub.Get("/health", health)
			sh.Routes(sub)
			ah.Routes(sub)
			deps.Metrics.Routes(sub)
		})
	})

	if deps.Game != nil {
		r.HandleFunc("/ws", deps.Game.HandleConnections)
	}
	if cfg.StaticDir != "" {
		r.Handle("/*", game.StaticFileServer(cfg.StaticDir, "/index.html"))
	}
	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "status": "ok"})
}
