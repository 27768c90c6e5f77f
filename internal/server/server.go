// Package server wires the application together: database, services,
// middleware, routes, and the HTTP listener lifecycle.
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

	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/gate"
	"github.com/clwillhuang/code-projectorium/internal/handler"
	"github.com/clwillhuang/code-projectorium/internal/middleware"
	sqliteRepo "github.com/clwillhuang/code-projectorium/internal/repository/sqlite"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// Config holds server configuration.
type Config struct {
	Port            int
	DBPath          string
	SessionLifetime time.Duration
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

// New assembles the full dependency chain: database, stores, auth
// services, gates, domain services, and handlers, then mounts the routes.
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

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	db := s.db

	sessionLifetime := s.config.SessionLifetime
	if sessionLifetime <= 0 {
		sessionLifetime = auth.DefaultSessionLifetime
	}

	passwords := auth.NewPasswordService()
	sessions := auth.NewSessionService(db.Sessions, sessionLifetime)

	enricher := service.NewEnricher(db.Users)
	cascader := service.NewCascader(db.Projects, db.Pages, db.Snippets, db.Comments, s.logger)

	accountService := service.NewAccountService(db.Users, passwords, s.logger)
	projectService := service.NewProjectService(db.Projects, db.Pages, enricher, cascader, s.logger)
	pageService := service.NewPageService(db.Pages, db.Snippets, cascader, s.logger)
	snippetService := service.NewSnippetService(db.Snippets, db.Comments, enricher, cascader, s.logger)
	commentService := service.NewCommentService(db.Projects, db.Snippets, db.Comments, enricher, s.logger)
	viewService := service.NewViewService(db.Projects, db.Pages, db.Snippets, db.Comments, enricher, s.logger)

	gates := gate.New(db.Projects, db.Pages, db.Snippets, db.Comments, s.logger)

	userHandler := handler.NewUserHandler(accountService, sessions, s.logger)
	projectHandler := handler.NewProjectHandler(projectService, s.logger)
	pageHandler := handler.NewPageHandler(pageService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	commentHandler := handler.NewCommentHandler(commentService, s.logger)
	viewHandler := handler.NewViewHandler(viewService, s.logger)

	// WithSession runs last so every route sees the resolved identity.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(auth.WithSession(sessions, db.Users))

	s.router.Get("/user", userHandler.HandleCurrentUser)
	s.router.Route("/users", func(r chi.Router) {
		r.Post("/register", userHandler.HandleRegister)
		r.Post("/login", userHandler.HandleLogin)
		r.With(auth.RequireAuth).Post("/logout", userHandler.HandleLogout)
	})

	s.router.Route("/projects", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Get("/", projectHandler.HandleList)
		r.Post("/", projectHandler.HandleCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(gates.RequireProjectOwnership)
			r.Get("/", projectHandler.HandleGet)
			r.Patch("/", projectHandler.HandlePatch)
			r.Delete("/", projectHandler.HandleDelete)
			r.Post("/pages", pageHandler.HandleCreate)
		})
	})

	s.router.Route("/pages/{id}", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(gates.RequirePageOwnership)
		r.Get("/", pageHandler.HandleGet)
		r.Patch("/", pageHandler.HandlePatch)
		r.Delete("/", pageHandler.HandleDelete)
		r.Post("/snippets", snippetHandler.HandleCreate)
	})

	s.router.Route("/snippets/{id}", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		// Posting a comment is published-or-owner, not ownership, so it
		// stays outside the ownership gate and resolves the snippet itself.
		r.Post("/comments", commentHandler.HandlePost)
		r.Group(func(r chi.Router) {
			r.Use(gates.RequireSnippetOwnership)
			r.Get("/", snippetHandler.HandleGet)
			r.Patch("/", snippetHandler.HandlePatch)
			r.Delete("/", snippetHandler.HandleDelete)
			r.Get("/comments", snippetHandler.HandleListComments)
		})
	})

	s.router.Route("/comments/{id}", func(r chi.Router) {
		r.Use(auth.RequireAuth)
		r.Use(gates.RequireCommentOwnership)
		r.Delete("/", commentHandler.HandleDelete)
	})

	s.router.Route("/view", func(r chi.Router) {
		r.Get("/projects", viewHandler.HandleListProjects)
		r.With(gates.RequirePublishedProject).Get("/projects/{id}", viewHandler.HandleGetProject)
		r.With(gates.RequirePublishedPage).Get("/pages/{id}", viewHandler.HandleGetPage)
		r.With(gates.RequirePublishedSnippet).Get("/snippets/{id}", viewHandler.HandleGetSnippet)
	})
}

// Router exposes the configured routes for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests, close
// the database.
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
