// Package api provides the HTTP API server and handlers for TalentTrack.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/talenttrackapp/talenttrack-server/internal/config"
	"github.com/talenttrackapp/talenttrack-server/internal/ratelimit"
	"github.com/talenttrackapp/talenttrack-server/internal/sse"
	"github.com/talenttrackapp/talenttrack-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *store.Store
	services     *Services
	router       *chi.Mux
	api          huma.API
	sseManager   *sse.Manager
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st *store.Store, services *Services, sseManager *sse.Manager, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, cfg.App.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:        st,
		services:     services,
		router:       router,
		api:          api,
		sseManager:   sseManager,
		loginLimiter: ratelimit.New(cfg.Auth.LoginRPS, cfg.Auth.LoginBurst),
		logger:       logger,
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerCandidateRoutes()
	s.registerNoteRoutes()
	s.registerNotificationRoutes()
	s.registerSearchRoutes()

	// SSE is a plain chi route; huma's request model doesn't fit streaming.
	sseHandler := sse.NewHandler(sseManager, s.resolveSSEUser, logger)
	router.Get("/api/v1/events", sseHandler.ServeHTTP)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

// resolveSSEUser authenticates an SSE request. EventSource clients can't set
// headers, so the token is also accepted as a query parameter.
func (s *Server) resolveSSEUser(r *http.Request) string {
	token := bearerToken(r.Header.Get("Authorization"))
	if token == "" {
		token = r.URL.Query().Get("token")
	}
	if token == "" {
		return ""
	}

	user, _, err := s.services.Auth.VerifyAccessToken(r.Context(), token)
	if err != nil {
		return ""
	}
	return user.ID
}
