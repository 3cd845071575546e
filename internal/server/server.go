package server

import (
	"net/http"

	"github.com/habitd/habitd/internal/config"
	"github.com/habitd/habitd/internal/storage"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	store         storage.Store
	cfg           *config.Config
	authProviders map[string]*AuthProvider
	sessionCookie *securecookie.SecureCookie
}

func New(store storage.Store, cfg *config.Config) (*Server, error) {
	s := &Server{store: store, cfg: cfg}

	if cfg.AuthEnabled {
		providers, sessionCookie, err := ConfigureOIDCProviders(cfg)
		if err != nil {
			return nil, err
		}
		s.authProviders = providers
		s.sessionCookie = sessionCookie
	}

	return s, nil
}

// Close stops the per-provider state-store janitors.
func (s *Server) Close() {
	for _, p := range s.authProviders {
		p.state.Stop()
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(metricsMiddleware)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/version", s.getVersionInfo)

	if s.cfg.AuthEnabled {
		r.Get("/auth/login", s.simpleLogin)
		r.Get("/auth/login/{id}", s.login)
		r.Get("/auth/callback/{id}", s.callback)
		r.Post("/auth/logout", s.logout)
		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)
			r.Post("/auth/apikeys", s.createAPIKey)
		})
	}

	r.Route("/habits", func(r chi.Router) {
		if s.cfg.AuthEnabled {
			r.Use(s.authMiddleware)
			r.Use(s.userAwareMetricsMiddleware)
		}
		r.Post("/", s.createHabit)
		r.Get("/", s.listHabits)
		r.Get("/{habit_id}", s.getHabit)
		r.Put("/{habit_id}", s.updateHabit)
		r.Delete("/{habit_id}", s.deleteHabit)
		r.Get("/{habit_id}/summary", s.getHabitSummary)
		r.Post("/{habit_id}/complete", s.completeHabit)
		r.Post("/{habit_id}/uncomplete", s.uncompleteHabit)
	})

	return r
}
