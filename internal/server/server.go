// ABOUTME: HTTP boundary for the RAG chat service using echo
// ABOUTME: Serves the chat API, health check, metrics, and the static frontend
package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/uniqlabs/ragbot/internal/config"
	"github.com/uniqlabs/ragbot/internal/rag"
)

// ChatRequest is the request body for POST /api/chat.
type ChatRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// ChatResponse is the response body for POST /api/chat.
type ChatResponse struct {
	Answer string `json:"answer"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// Server exposes the RAG engine over HTTP.
type Server struct {
	echo   *echo.Echo
	engine *rag.Engine
	cfg    *config.Config
	logger *zap.Logger
}

// New creates the HTTP server and registers all routes.
func New(cfg *config.Config, engine *rag.Engine, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s := &Server{echo: e, engine: engine, cfg: cfg, logger: logger}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.echo.POST("/api/chat", s.handleChat)

	// Serve the chat frontend when a static directory exists.
	if info, err := os.Stat(s.cfg.StaticDir); err == nil && info.IsDir() {
		s.echo.Static("/static", s.cfg.StaticDir)
		s.echo.File("/", filepath.Join(s.cfg.StaticDir, "index.html"))
	}
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleChat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		s.logger.Warn("invalid chat request", zap.Error(err))
		chatRequests.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	start := time.Now()
	answer, err := s.engine.Answer(c.Request().Context(), req.SessionID, req.Question)
	answerDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		s.logger.Error("answer generation failed", zap.Error(err))
		chatRequests.WithLabelValues("error").Inc()
		return echo.NewHTTPError(http.StatusBadGateway, "failed to generate answer")
	}

	chatRequests.WithLabelValues("ok").Inc()
	if answer == s.cfg.FallbackText {
		fallbackAnswers.Inc()
	}
	return c.JSON(http.StatusOK, ChatResponse{Answer: answer})
}

// Start begins listening on the configured address, blocking until
// shutdown or failure.
func (s *Server) Start() error {
	s.logger.Info("http server starting", zap.String("addr", s.cfg.Addr()))
	return s.echo.Start(s.cfg.Addr())
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
