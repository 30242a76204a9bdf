// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the one place where the dependency chain is
// assembled: sqlite.DB → repositories → services → handlers → routes.
// Each layer only receives what it needs; services get repository
// interfaces, handlers get services, and nothing below this package knows
// about chi.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/arefin/miniddit/internal/auth"
	"github.com/arefin/miniddit/internal/handler"
	"github.com/arefin/miniddit/internal/middleware"
	sqliteRepo "github.com/arefin/miniddit/internal/repository/sqlite"
	"github.com/arefin/miniddit/internal/service"
)

// Config holds server configuration. It is built in main from the
// environment and passed down explicitly. There are no package-level
// settings anywhere in the tree.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown so the WAL is flushed and the file lock
// released.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, wires repositories, services
// and handlers, and registers the routes.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and the route table.
//
// ROUTE TABLE:
//
//	POST   /register                    public
//	POST   /login                       public
//	GET    /healthz                     public
//	POST   /create-subreddit            token required
//	POST   /create-post                 token required
//	POST   /create-post/{subredditId}   token required
//	PUT    /edit-post/{postId}          token required
//	DELETE /delete-post/{postId}        token required
//	POST   /create-comment/{postId}     token required
//
// The protected group reads the raw token from the Authorization header
// (no scheme prefix). Middleware order: RequestID → RealIP → Recoverer →
// request logging; Recoverer turns any handler panic into a 500 instead of
// killing the process.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	forumService := service.NewForumService(s.db.Subreddits(), s.db.Posts(), s.db.Comments(), s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	forumHandler := handler.NewForumHandler(forumService, s.logger)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	s.router.Post("/register", authHandler.HandleRegister)
	s.router.Post("/login", authHandler.HandleLogin)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Post("/create-subreddit", forumHandler.HandleCreateSubreddit)
		r.Post("/create-post", forumHandler.HandleCreatePost)
		r.Post("/create-post/{subredditId}", forumHandler.HandleCreatePost)
		r.Put("/edit-post/{postId}", forumHandler.HandleEditPost)
		r.Delete("/delete-post/{postId}", forumHandler.HandleDeletePost)
		r.Post("/create-comment/{postId}", forumHandler.HandleCreateComment)
	})

	return nil
}

// Handler exposes the configured router. Used by HTTP-level tests to mount
// the full middleware + route stack on an httptest server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start does this automatically; tests that
// never call Start use Close directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30
// seconds to finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
