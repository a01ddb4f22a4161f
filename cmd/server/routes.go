package main

import (
	"net/http"

	"github.com/friendfinder/backend/internal/config"
	"github.com/friendfinder/backend/internal/handlers"
	"github.com/friendfinder/backend/internal/logging"
	"github.com/friendfinder/backend/internal/metrics"
	"github.com/friendfinder/backend/internal/middleware"
	"github.com/friendfinder/backend/internal/services"
)

type routerDeps struct {
	cfg           *config.Config
	logger        *logging.Logger
	users         services.UserServiceInterface
	auth          services.AuthServiceInterface
	friends       services.FriendServiceInterface
	postgresCheck handlers.HealthChecker
	redisCheck    handlers.HealthChecker
}

func newRouter(d routerDeps) http.Handler {
	healthHandler := handlers.NewHealthHandler(d.postgresCheck, d.redisCheck)
	authHandler := handlers.NewAuthHandler(d.users, d.auth, d.cfg.Server.Secure, d.cfg.Auth.SessionDuration)
	friendHandler := handlers.NewFriendHandler(d.friends, d.users)
	locationHandler := handlers.NewLocationHandler(d.users, d.friends)

	authMiddleware := middleware.NewAuthMiddleware(d.auth)
	requireAuth := authMiddleware.RequireAuth

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("POST /api/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/auth/logout", authHandler.Logout)
	mux.Handle("GET /api/auth/me", requireAuth(http.HandlerFunc(authHandler.Me)))

	mux.Handle("GET /api/friends/search", requireAuth(http.HandlerFunc(friendHandler.Search)))
	mux.Handle("POST /api/friends/request", requireAuth(http.HandlerFunc(friendHandler.SendRequest)))
	mux.Handle("GET /api/friends/requests", requireAuth(http.HandlerFunc(friendHandler.ListRequests)))
	mux.Handle("POST /api/friends/respond", requireAuth(http.HandlerFunc(friendHandler.Respond)))
	mux.Handle("GET /api/friends", requireAuth(http.HandlerFunc(friendHandler.List)))
	mux.Handle("DELETE /api/friends/{friendId}", requireAuth(http.HandlerFunc(friendHandler.Remove)))

	mux.Handle("POST /api/location/update", requireAuth(http.HandlerFunc(locationHandler.Update)))
	mux.Handle("GET /api/location", requireAuth(http.HandlerFunc(locationHandler.Get)))
	mux.Handle("GET /api/location/friends", requireAuth(http.HandlerFunc(locationHandler.Friends)))

	mux.HandleFunc("GET /{$}", handlers.Root)
	mux.HandleFunc("/", handlers.NotFound)

	requestMetrics := middleware.NewMetrics()

	// Each wrap adds an outer layer, so the request logger applied last runs
	// first and sees the final status of everything inside it.
	var handler http.Handler = requestMetrics.Route(mux)
	handler = authMiddleware.Authenticate(handler)
	handler = middleware.NewCacheControl().Apply(handler)
	handler = middleware.NewCORS(d.cfg.Server.CORSOrigin).Apply(handler)
	handler = middleware.NewSecurityHeaders(d.cfg.Server.Secure).Apply(handler)
	handler = requestMetrics.Apply(handler)
	handler = middleware.NewRequestLogger(d.logger).Apply(handler)
	return handler
}
