package server

import (
	"context"
	"net/http"
	"time"

	"foodie-planner/internal/auth"
	"foodie-planner/internal/config"
	"foodie-planner/internal/metrics"
	"foodie-planner/internal/planner"
	"foodie-planner/internal/session"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server is the HTTP boundary of the application. It owns the router and the
// wiring between handlers and the injected services.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpServer *http.Server
	router     *chi.Mux

	planner      *planner.Planner
	plans        *planner.PlanRepository
	sessions     *session.Store
	users        *auth.UserRepository
	tokens       *auth.TokenManager
	metricsStore *metrics.Store
}

// New creates a Server with all dependencies injected.
func New(
	cfg *config.Config,
	logger *zap.Logger,
	mealPlanner *planner.Planner,
	plans *planner.PlanRepository,
	sessions *session.Store,
	users *auth.UserRepository,
	tokens *auth.TokenManager,
	metricsStore *metrics.Store,
) *Server {
	s := &Server{
		cfg:          cfg,
		logger:       logger,
		planner:      mealPlanner,
		plans:        plans,
		sessions:     sessions,
		users:        users,
		tokens:       tokens,
		metricsStore: metricsStore,
	}

	s.router = s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: s.router,
		// Generation requests block on sequential upstream calls, so the
		// write timeout has to cover the whole day loop.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

func (s *Server) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(s.logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/signup", s.handleSignup)
	r.Post("/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Get("/logout", s.handleLogout)
		r.Post("/logout", s.handleLogout)
		r.Post("/update-account", s.handleUpdateAccount)

		r.Post("/generate", s.handleGenerate)
		r.Get("/recipes", s.handleShowRecipes)
		r.Get("/download-diet-plan/{name}", s.handleDownloadDietPlan)
		r.Get("/download-ingredient-list/{name}", s.handleDownloadIngredientList)

		r.Post("/save-diet-plan", s.handleSaveDietPlan)
		r.Get("/get-recipes", s.handleGetRecipes)
		r.Get("/download-diet/{name}", s.handleDownloadSavedDiet)
		r.Post("/delete-recipe/{recipeID}", s.handleDeleteRecipe)
	})

	return r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start begins serving HTTP requests and blocks until the server stops.
func (s *Server) Start() error {
	s.logger.Info("HTTP server listening", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
