package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kapu/collabhub-go/internal/dashboard"
	"github.com/kapu/collabhub-go/internal/session"
	"github.com/kapu/collabhub-go/internal/social"
	"github.com/kapu/collabhub-go/internal/steps"
	"go.uber.org/zap"
)

// HealthCheck probes one backing service.
type HealthCheck func(ctx context.Context) error

// Deps collects handler dependencies. YouTubeOAuth and Health are optional.
type Deps struct {
	Sessions     *session.Manager
	Registry     *steps.Registry
	Dashboards   dashboard.Source
	Social       *social.Service
	YouTubeOAuth *social.YouTubeOAuth
	Health       map[string]HealthCheck
	Logger       *zap.Logger
}

type handlers struct {
	Deps
	logger *zap.Logger
}

// NewRouter wires the HTTP API.
func NewRouter(deps Deps) http.Handler {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Registry == nil {
		deps.Registry = steps.DefaultRegistry()
	}
	h := &handlers{Deps: deps, logger: deps.Logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(accessLog(h.logger))
	r.Use(recoverer(h.logger))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, errorBody{Code: "NOT_FOUND", Message: "route not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusMethodNotAllowed, errorBody{Code: "METHOD_NOT_ALLOWED", Message: "method not allowed"})
	})

	r.Get("/", h.landing)
	r.Get("/healthz", h.healthz)
	r.Get("/oauth/youtube/callback", h.youtubeCallback)

	r.Route("/api", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/steps", h.catalogSteps)
			r.Get("/plans", h.catalogPlans)
			r.Get("/tags", h.catalogTags)
		})

		r.Post("/sessions", h.createSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Get("/", h.getSession)
			r.Delete("/", h.endSession)
			r.Post("/logout", h.logout)
			r.Get("/events", h.events)

			r.Route("/onboarding", func(r chi.Router) {
				r.Post("/", h.startOnboarding)
				r.Get("/", h.onboardingState)
				r.Post("/submit", h.submitStep)
				r.Post("/back", h.back)
			})

			r.Post("/uploads", h.upload)
			r.Get("/uploads/{fid}", h.download)

			r.Post("/social/connect", h.connectMany)
			r.Post("/social/{platform}/connect", h.connect)
			r.Get("/social/youtube/authorize", h.youtubeAuthorize)

			r.Get("/profile", h.getProfile)
			r.Patch("/profile/influencer", h.patchInfluencer)
			r.Patch("/profile/brand", h.patchBrand)

			r.Get("/dashboard", h.getDashboard)
			r.Get("/dashboard/discovery", h.discovery)
		})
	})

	return r
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	payload := map[string]any{
		"status":   "ok",
		"sessions": h.Sessions.Count(),
	}
	for name, check := range h.Health {
		if err := check(ctx); err != nil {
			h.logger.Error("Health probe failed", zap.String("dependency", name), zap.Error(err))
			status = http.StatusServiceUnavailable
			payload["status"] = "degraded"
			payload[name] = err.Error()
		}
	}
	respondJSON(w, status, payload)
}

// session resolves the {sid} path parameter, writing the error response when
// it does not name a live session.
func (h *handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.Sessions.Get(chi.URLParam(r, "sid"))
	if err != nil {
		respondError(w, h.logger, err)
		return nil, false
	}
	return s, true
}
