// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"github.com/askboard/askboard/internal/auth"
	"github.com/askboard/askboard/internal/observability"
	"github.com/askboard/askboard/internal/qna"
)

// Server serves the public HTTP API.
type Server struct {
	addr       string
	engine     *gin.Engine
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// ServerConfig configures a Server.
type ServerConfig struct {
	Addr    string
	Auth    *auth.Service
	QnA     *qna.Service
	Codec   *auth.TokenCodec
	Logger  *slog.Logger
	Metrics *observability.Metrics
}

// NewServer creates the API server with all routes and middleware wired.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.Addr == "" {
		return nil, oops.Code("HTTP_CONFIG_INVALID").Errorf("listen address is required")
	}
	if cfg.Auth == nil || cfg.QnA == nil || cfg.Codec == nil {
		return nil, oops.Code("HTTP_CONFIG_INVALID").Errorf("auth service, qna service, and token codec are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestID())
	engine.Use(RequestLogger(logger, cfg.Metrics))
	engine.Use(CORS())

	handler := NewHandler(cfg.Auth, cfg.QnA, logger)
	handler.RegisterRoutes(engine, cfg.Codec)

	return &Server{
		addr:   cfg.Addr,
		engine: engine,
	}, nil
}

// Engine exposes the router for handler-level tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start begins serving the API. It returns an error channel that
// receives any error from the HTTP server after startup; the channel is
// closed on graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)

	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the API server, letting in-flight requests
// finish until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}

	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not
// running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
