package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/circle-go/internal/api/handler"
	"github.com/mcoot/circle-go/internal/api/middleware"
	"github.com/mcoot/circle-go/internal/api/response"
	internalmw "github.com/mcoot/circle-go/internal/middleware"
	"github.com/mcoot/circle-go/internal/services/auth"
	"github.com/mcoot/circle-go/internal/services/contest"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	AuthService       *auth.Service
	ContestController *contest.Controller
	// Metrics is optional; when set the router records request metrics and
	// serves them on /metrics
	Metrics *internalmw.Metrics
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Logger)
	contestHandler := handler.NewContestHandler(cfg.ContestController, cfg.Metrics)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger, cfg.Metrics)

	if cfg.Metrics != nil {
		r.Handle("/metrics", cfg.Metrics.Handler()).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	if cfg.Metrics != nil {
		api.Use(cfg.Metrics.Middleware)
	}

	// Auth routes (no session required)
	api.HandleFunc("/auth/createUser", authHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", authHandler.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", authHandler.Logout).Methods(http.MethodPost)

	// Contest routes (all require a session)
	contests := api.PathPrefix("/contests").Subrouter()
	contests.Use(authMiddleware)
	contests.HandleFunc("/", contestHandler.List).Methods(http.MethodGet)
	contests.HandleFunc("/generate", contestHandler.Generate).Methods(http.MethodGet)
	contests.HandleFunc("/active", contestHandler.Active).Methods(http.MethodGet)
	contests.HandleFunc("/mark-solved", contestHandler.MarkSolved).Methods(http.MethodPost)
	contests.HandleFunc("/complete", contestHandler.Complete).Methods(http.MethodPost)
	contests.HandleFunc("/abandon", contestHandler.Abandon).Methods(http.MethodPost)
	contests.HandleFunc("/history", contestHandler.History).Methods(http.MethodGet)
	contests.HandleFunc("/profile", contestHandler.Profile).Methods(http.MethodGet)
	contests.HandleFunc("/{id:[0-9]+}", contestHandler.Get).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, response.Health{Status: "ok"})
}
