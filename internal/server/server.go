package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/Chative-support-poc/server/internal/agent/graph"
	"github.com/Chative-support-poc/server/internal/agent/model"
	logx "github.com/Chative-support-poc/server/pkg/logger"
)

type ServerOption func(*Server) error

type Server struct {
	engine    *fiber.App
	config    model.ServerConfig
	runner    graph.Runner
	validator *validator.Validate
	handlers  []handler
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.runner == nil {
		return nil, fmt.Errorf("runner is required")
	}
	server.engine = NewFiber(server.config)
	server.validator = validator.New()

	server.registerHandlers()
	return server, nil
}

func WithConfig(cfg model.ServerConfig) ServerOption {
	return func(s *Server) error {
		s.config = cfg
		return nil
	}
}

func WithRunner(runner graph.Runner) ServerOption {
	return func(s *Server) error {
		if runner == nil {
			return errors.New("runner is nil")
		}
		s.runner = runner
		return nil
	}
}

func (s *Server) registerHandlers() {
	s.engine.Use(NewRequestIDMiddleware())
	s.engine.Use(NewLoggingMiddleware())
	s.engine.Use(NewRateLimiter(s.config.RateLimit, s.config.RateBurst))

	s.setupHealthCheck()

	s.handlers = append(s.handlers, NewChatHandler(s.runner, s.validator))
	for _, h := range s.handlers {
		h.Start(s.engine)
	}
}

// App exposes the fiber app, mainly for app.Test.
func (s *Server) App() *fiber.App {
	return s.engine
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	port := s.config.Port
	if port == "" {
		port = "8080"
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("port", port).Msg("HTTP server listening")
		errCh <- s.engine.Listen(fmt.Sprintf(":%s", port))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logx.Info().Msg("Shutting down HTTP server")
		if err := s.engine.Shutdown(); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return <-errCh
	}
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/health", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"status": "ok",
		})
	})
}
