// Package http exposes the playoff core as a JSON API.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/preston-bernstein/nba-playoffs-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-playoffs-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-playoffs-service/internal/metrics"
)

// Routes bundles the handlers mounted by NewRouter. Session and Admin are optional.
type Routes struct {
	API     *handlers.Handler
	Session *handlers.SessionHandler
	Admin   *handlers.AdminHandler
	Logger  *slog.Logger
	Metrics *metrics.Recorder
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(rt Routes) nethttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.Logging(rt.Logger, rt.Metrics))

	h := rt.API
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/games/{id}", h.GameByID)
	r.Get("/notifications", h.Notifications)
	r.Post("/roster/validate", h.ValidateRoster)

	r.Route("/playoffs", func(r chi.Router) {
		r.Get("/bracket", h.Bracket)
		r.Get("/series/{id}", h.Series)
		r.Post("/simulate", h.Simulate)
		r.Post("/play", h.Play)
		r.Get("/history", h.HistoryDates)
		r.Get("/history/{date}", h.History)
	})

	if s := rt.Session; s != nil {
		r.Route("/session", func(r chi.Router) {
			r.Get("/", s.View)
			r.Post("/series/{id}", s.OpenSeries)
			r.Delete("/series", s.CloseSeries)
			r.Post("/games/{id}", s.OpenGame)
			r.Delete("/games", s.CloseGame)
			r.Post("/dismiss", s.Dismiss)
		})
	}

	if rt.Admin != nil {
		r.Post("/admin/snapshots", rt.Admin.ArchiveBracket)
	}
	return r
}
