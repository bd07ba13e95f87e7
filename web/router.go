package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every route of the service.
func NewRouter(h *Handlers, allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/api/ws", h.ServeWs)

	r.Route("/api", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(60 * time.Second))

		r.Get("/countries", h.GetCountries)
		r.Get("/countries/{country}/leagues", h.GetCountryLeagues)
		r.Get("/dashboard", h.GetDashboard)

		r.Get("/selection", h.GetSelection)
		r.Put("/selection/country", h.PutSelectedCountry)
		r.Put("/selection/league", h.PutActiveLeague)

		r.Get("/favorites", h.GetFavorites)
		r.Post("/favorites/{leagueID}", h.ToggleFavorite)

		r.Get("/leagues/{leagueID}/matches", h.GetMatches)
		r.Get("/leagues/{leagueID}/results", h.GetResults)
		r.Get("/teams", h.GetTeams)
		r.Get("/teams/{teamID}/squad", h.GetSquad)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Login)
			r.Post("/signup", h.Signup)
			r.Post("/logout", h.Logout)
			r.Get("/session", h.GetSession)
		})

		r.Get("/chat/{conversationID}/messages", h.GetMessages)
		r.Post("/chat/{conversationID}/messages", h.PostMessage)

		r.Get("/workflows", h.GetWorkflows)
	})

	return r
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration", time.Since(start),
				"requestID", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}
