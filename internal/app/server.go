// Package app assembles a runnable lab from its storage backend.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"inventory-lab/internal/api"
	"inventory-lab/internal/config"
	"inventory-lab/internal/events"
	"inventory-lab/internal/gql"
	"inventory-lab/internal/repository"
	"inventory-lab/internal/service"
	"inventory-lab/internal/startup"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	name   string
	listen string
	echo   *echo.Echo
	repo   service.InventoryRepository
}

// NewLab1 opens the SQLite database and builds the Lab1 server.
func NewLab1(ctx context.Context, cfg config.Lab1Config) (*Server, error) {
	repo, err := repository.NewSQLiteRepository(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	srv, err := build("lab1", cfg.Listen, repo, true, api.RouteOptions{JSONSchema: true})
	if err != nil {
		repo.Close(ctx)
		return nil, err
	}
	return srv, nil
}

// NewLab2 waits for Neo4j to answer, creates the constraints and builds the
// Lab2 server.
func NewLab2(ctx context.Context, cfg config.Lab2Config) (*Server, error) {
	repo, err := repository.NewNeo4jRepository(repository.Neo4jOptions{
		URI:      cfg.Neo4j.URI,
		Username: cfg.Neo4j.Username,
		Password: cfg.Neo4j.Password,
		Database: cfg.Neo4j.Database,
	})
	if err != nil {
		return nil, err
	}

	policy := startup.DefaultPolicy()
	policy.MaxAttempts = cfg.Connect.MaxAttempts
	policy.Delay = cfg.Connect.Delay
	if err := startup.WaitForConnectivity(ctx, repo, policy); err != nil {
		return nil, fmt.Errorf("neo4j at %s: %w", cfg.Neo4j.URI, err)
	}
	slog.Info("neo4j connected", "uri", cfg.Neo4j.URI)

	if err := repo.EnsureConstraints(ctx); err != nil {
		repo.Close(ctx)
		return nil, err
	}

	srv, err := build("lab2", cfg.Listen, repo, cfg.Features.TagsEnabled(), api.RouteOptions{})
	if err != nil {
		repo.Close(ctx)
		return nil, err
	}
	return srv, nil
}

func build(name, listen string, repo service.InventoryRepository, tags bool, opts api.RouteOptions) (*Server, error) {
	hub := events.NewHub(0)
	inventory := service.NewInventoryService(repo, service.WithPublisher(hub), service.WithTags(tags))

	graph, err := gql.NewHandler(inventory)
	if err != nil {
		return nil, err
	}

	handler := api.NewHandler(inventory, service.NewHealthService(name, repo), hub, graph)

	e := newEcho(name)
	api.RegisterRoutes(e, handler, opts)

	return &Server{name: name, listen: listen, echo: e, repo: repo}, nil
}

func newEcho(name string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := slog.Default().With("lab", name)
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			logger.LogAttrs(c.Request().Context(), level, "request",
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	return e
}

func (s *Server) Name() string { return s.name }

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler { return s.echo }

// Run serves until ctx is cancelled, then shuts the server down and closes
// the database.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("lab listening", "lab", s.name, "addr", s.listen)
		if err := s.echo.Start(s.listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.repo.Close(context.Background())
		return fmt.Errorf("%s server failed: %w", s.name, err)
	case <-ctx.Done():
	}

	slog.Info("shutting down", "lab", s.name)
	return s.Close()
}

// Close stops the HTTP server if it is running and releases the database.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.echo.Shutdown(ctx)
	if closeErr := s.repo.Close(ctx); closeErr != nil && err == nil {
		err = closeErr
	}
	return err
}
