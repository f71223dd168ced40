package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/glucolink/backend/config"
	"github.com/pageza/glucolink/backend/internal/api"
	"github.com/pageza/glucolink/backend/internal/logger"
	"github.com/pageza/glucolink/backend/internal/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *gin.Engine
	http   *http.Server
}

// New builds the router with the global middleware and every API route.
func New(cfg *config.Config, deps api.Dependencies) *Server {
	gin.SetMode(cfg.Env.GinMode())

	router := gin.New()
	router.Use(middleware.RequestLogger())
	if len(cfg.CORSAllowedOrigins) > 0 {
		router.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	}

	deps.Config = cfg
	api.SetupAPI(router, deps)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.ServerReadTimeout,
			WriteTimeout: cfg.ServerWriteTimeout,
			IdleTimeout:  cfg.ServerIdleTimeout,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	logger.Info("starting server", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
