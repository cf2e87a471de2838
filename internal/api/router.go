package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/auctionhouse/internal/api/handler"
	"github.com/mcoot/auctionhouse/internal/api/middleware"
	"github.com/mcoot/auctionhouse/internal/realtime"
	"github.com/mcoot/auctionhouse/internal/services/auction"
	"github.com/mcoot/auctionhouse/internal/services/auth"
	"github.com/mcoot/auctionhouse/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger      *slog.Logger
	AuthService *auth.Service
	Store       *auction.Store
	Storage     storage.Storage
	Hub         *realtime.Hub

	// WebSocket serves /ws
	WebSocket http.Handler
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	auctionHandler := handler.NewAuctionHandler(cfg.Store, cfg.Storage, cfg.Hub)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	catalogHandler := handler.NewCatalogHandler(cfg.Storage, cfg.AuthService, cfg.Logger)

	// Create middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuthMiddleware := middleware.OptionalAuth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// WebSocket endpoint. Logging wraps it so upgrades show up in the access log,
	// and recovery sits inside so it can tell an upgraded connection apart.
	if cfg.WebSocket != nil {
		r.Handle("/ws", loggingMiddleware(recoveryMiddleware(cfg.WebSocket))).Methods(http.MethodGet)
	}

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// Public routes
	api.HandleFunc("/health", auctionHandler.Health).Methods(http.MethodGet)
	api.HandleFunc("/sets/progress", auctionHandler.SetProgress).Methods(http.MethodGet)
	api.HandleFunc("/queue", auctionHandler.Queue).Methods(http.MethodGet)
	api.HandleFunc("/teams", auctionHandler.Teams).Methods(http.MethodGet)
	api.HandleFunc("/sales", auctionHandler.Sales).Methods(http.MethodGet)
	api.HandleFunc("/auth/admin", authHandler.LoginAdmin).Methods(http.MethodPost)
	api.HandleFunc("/auth/team", authHandler.LoginTeam).Methods(http.MethodPost)

	// State is redacted unless the caller presents an admin token
	api.Handle("/state", optionalAuthMiddleware(http.HandlerFunc(auctionHandler.State))).Methods(http.MethodGet)

	// Authenticated routes
	api.Handle("/auth/logout", authMiddleware(http.HandlerFunc(authHandler.Logout))).Methods(http.MethodPost)

	// Admin routes
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(middleware.RequireAdmin(h))
	}
	api.Handle("/connections", admin(auctionHandler.Connections)).Methods(http.MethodGet)
	api.Handle("/catalog", admin(catalogHandler.Get)).Methods(http.MethodGet)
	api.Handle("/catalog", admin(catalogHandler.Put)).Methods(http.MethodPut)

	return r
}
