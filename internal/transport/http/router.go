package httptransport

import (
	"expvar"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"scrap-rally/internal/arena"
	"scrap-rally/internal/config"
)

func NewRouter(coord *arena.Coordinator, lb Leaderboarder, cfg config.ServerConfig) *chi.Mux {
	rooms := NewRoomHandlers(coord)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(APILogMiddleware()).Get("/healthz", HealthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APILogMiddleware())

		r.Get("/tracks", rooms.Tracks())
		r.Get("/leaderboard", LeaderboardHandler(lb))

		r.Route("/rooms", func(r chi.Router) {
			r.Get("/", rooms.List())
			r.Post("/", rooms.Create())

			r.Route("/{room_id}", func(r chi.Router) {
				r.Get("/", rooms.Snapshot())
				r.Get("/events", EventsSSEHandler(coord, cfg.SSEPingInterval))

				r.Post("/join", rooms.Join())
				r.Post("/leave", rooms.Leave())
				r.Post("/ready", rooms.Ready())
				r.Put("/settings", rooms.UpdateSettings())
				r.Post("/start", rooms.Start())

				r.Post("/card", rooms.SubmitCard())
				r.Post("/skip", rooms.DrawAndSkip())
				r.Post("/param", rooms.SubmitParameter())
				r.Post("/discard", rooms.SubmitDiscard())
				r.Post("/kick", rooms.Kick())
			})
		})

		r.Get("/debug/vars", expvar.Handler().ServeHTTP)
	})

	return r
}

func LogRoutes(r chi.Router) {
	err := chi.Walk(r, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		log.Debug().Str("method", method).Str("route", route).Msg("route registered")
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Msg("route walk failed")
	}
}
