// Package http exposes the braindump service over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/fyrsmithlabs/braindump/internal/braindump"
	"github.com/fyrsmithlabs/braindump/internal/config"
	"github.com/fyrsmithlabs/braindump/internal/extraction"
	"github.com/fyrsmithlabs/braindump/internal/logging"
	"github.com/fyrsmithlabs/braindump/internal/secrets"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// maxBodySize bounds POST bodies. Brain dumps are prose, not documents.
const maxBodySize = "1M"

// KeyResolver returns the stored credential for a backend.
type KeyResolver func(extraction.Backend) (string, error)

// Server provides HTTP endpoints for braindump.
type Server struct {
	echo     *echo.Echo
	service  *braindump.Service
	scrubber secrets.Scrubber
	logger   *logging.Logger
	config   *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int

	// AI is the configuration used by /api/v1/process unless a request
	// overrides it.
	AI config.AIConfig

	// ResolveKey supplies the credential when neither the request nor AI
	// carries one. Optional.
	ResolveKey KeyResolver

	// Gatherer backs /metrics. Nil selects the default registry.
	Gatherer prometheus.Gatherer

	// Metrics records HTTP metrics. Nil selects the global meter provider.
	Metrics *HTTPMetrics
}

// NewServer creates a new HTTP server.
func NewServer(svc *braindump.Service, scrubber secrets.Scrubber, logger *logging.Logger, cfg *Config) (*Server, error) {
	if svc == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if scrubber == nil {
		return nil, fmt.Errorf("scrubber cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{Host: "localhost", Port: 9191}
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NewHTTPMetrics(logger.Underlying())
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	s := &Server{
		echo:     e,
		service:  svc,
		scrubber: scrubber,
		logger:   logger.Named("http"),
		config:   cfg,
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.BodyLimit(maxBodySize))
	e.Use(s.requestLogger)
	e.Use(cfg.Metrics.Middleware())

	s.registerRoutes()
	return s, nil
}

// requestLogger carries the request ID into the handler context and logs
// each request once it completes.
func (s *Server) requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		id := c.Response().Header().Get(echo.HeaderXRequestID)
		ctx := logging.WithRequestID(c.Request().Context(), id)
		ctx = logging.WithLogger(ctx, s.logger)
		c.SetRequest(c.Request().WithContext(ctx))

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		s.logger.Info(ctx, "http request",
			zap.String("method", c.Request().Method),
			zap.String("route", c.Path()),
			zap.Int("status", c.Response().Status),
			zap.Duration("duration", time.Since(start)),
		)
		return nil
	}
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{})))

	v1 := s.echo.Group("/api/v1")
	v1.POST("/process", s.handleProcess)
	v1.POST("/scrub", s.handleScrub)
	v1.DELETE("/cache", s.handleClearCache)
	v1.GET("/models/:backend", s.handleModels)
}

// Echo exposes the router, e.g. for extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	backend := s.config.AI.Backend
	if backend == "" {
		backend = extraction.BackendNone
	}
	return c.JSON(http.StatusOK, HealthResponse{
		Status:   "ok",
		Backend:  backend,
		Backends: extraction.Backends(),
	})
}

// handleProcess runs an extraction and returns the Result.
func (s *Server) handleProcess(c echo.Context) error {
	var req ProcessRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(req.Text) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "text field is required")
	}

	ai, redirected, err := s.overlayAI(req.AI)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	if !redirected && !ai.APIKey.IsSet() && s.config.ResolveKey != nil && ai.Backend != extraction.BackendNone {
		key, err := s.config.ResolveKey(ai.Backend)
		if err == nil {
			ai.APIKey = config.Secret(key)
		} else {
			s.logger.Debug(ctx, "no stored credential", zap.String("backend", string(ai.Backend)), zap.Error(err))
		}
	}

	res, err := s.service.ProcessText(ctx, req.Text, ai)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.logger.Debug(ctx, "client went away during extraction")
		}
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// overlayAI applies a per-request override to the configured AIConfig.
// Switching backend without naming a key drops the configured key, which
// belongs to the other backend. Pointing base_url anywhere other than the
// configured endpoint also drops it and reports redirected, so that no
// stored credential is sent to a host the caller picked.
func (s *Server) overlayAI(raw json.RawMessage) (ai config.AIConfig, redirected bool, err error) {
	ai = s.config.AI
	if len(raw) == 0 {
		return ai, false, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return ai, false, fmt.Errorf("invalid ai configuration: %w", err)
	}
	if err := json.Unmarshal(raw, &ai); err != nil {
		return ai, false, fmt.Errorf("invalid ai configuration: %w", err)
	}
	if err := ai.Validate(); err != nil {
		return ai, false, err
	}

	_, hasKey := fields["api_key"]
	redirected = strings.TrimRight(ai.BaseURL, "/") != strings.TrimRight(s.config.AI.BaseURL, "/")
	base, _ := extraction.ParseBackend(string(s.config.AI.Backend))
	if !hasKey && (redirected || ai.Backend != base) {
		ai.APIKey = ""
	}
	return ai, redirected, nil
}

// handleScrub previews what secret scrubbing removes from content.
func (s *Server) handleScrub(c echo.Context) error {
	var req ScrubRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Content == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "content field is required")
	}

	result := s.scrubber.Scrub(req.Content)
	s.logger.Debug(c.Request().Context(), "scrubbed content", zap.String("summary", result.Summary()))

	return c.JSON(http.StatusOK, ScrubResponse{
		Content:       result.Scrubbed,
		FindingsCount: len(result.Findings),
		Rules:         result.RuleIDs(),
	})
}

func (s *Server) handleClearCache(c echo.Context) error {
	s.service.ClearCache()
	s.logger.Info(c.Request().Context(), "cache cleared")
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleModels(c echo.Context) error {
	backend := extraction.Backend(c.Param("backend"))
	models, err := s.service.AvailableModels(backend)
	if err != nil {
		return err
	}
	normalized, _ := extraction.ParseBackend(string(backend))
	return c.JSON(http.StatusOK, ModelsResponse{Backend: normalized, Models: models})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info(context.Background(), "starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down http server")
	return s.echo.Shutdown(ctx)
}
