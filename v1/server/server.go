package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/ingest"
	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const apiKeyHeader = "x-api-key"

// Processor ingests one document.
type Processor interface {
	Process(ctx context.Context, link, namespace string) (ingest.Result, error)
}

// Searcher answers queries within a namespace.
type Searcher interface {
	Query(ctx context.Context, namespace, text string, topK int) ([]ingest.QueryResult, error)
}

// RequestObserver records per-route request metrics.
type RequestObserver interface {
	ObserveRequest(route string, status int, start time.Time)
}

// Server is the HTTP API in front of the ingestion and query pipelines.
type Server struct {
	echo      *echo.Echo
	cfg       Config
	processor Processor
	searcher  Searcher
	observer  RequestObserver
	logger    logger.Logger
	keys      map[string]struct{}
}

// New builds the router. observer may be nil.
func New(cfg Config, processor Processor, searcher Searcher, observer RequestObserver, log logger.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Server.ReadTimeout = cfg.ReadTimeout
	e.Server.WriteTimeout = cfg.WriteTimeout

	s := &Server{
		echo:      e,
		cfg:       cfg,
		processor: processor,
		searcher:  searcher,
		observer:  observer,
		logger:    log,
		keys:      cfg.ResolveAPIKeys(),
	}
	e.HTTPErrorHandler = s.errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}
	e.Use(s.observe)

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	v1 := s.echo.Group("/api/v1")
	v1.GET("/health", s.handleHealth)

	auth := v1.Group("", s.requireAPIKey)
	auth.POST("/document/process", s.handleProcess)
	auth.POST("/query", s.handleQuery)
	auth.POST("/memory", s.handleMemory)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) observe(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// let the error handler set the final status first
			c.Error(err)
		}
		status := c.Response().Status

		fields := map[string]interface{}{
			"method":     c.Request().Method,
			"route":      c.Path(),
			"status":     status,
			"duration":   time.Since(start).String(),
			"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		}
		s.logger.InfoWithContext(c.Request().Context(), "http request", nil, fields)
		if s.observer != nil {
			s.observer.ObserveRequest(c.Path(), status, start)
		}
		return nil
	}
}

func (s *Server) requireAPIKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := c.Request().Header.Get(apiKeyHeader)
		if !s.validKey(key) {
			s.logger.Warn("unauthorized access attempt", nil, map[string]interface{}{
				"route":  c.Path(),
				"remote": c.RealIP(),
			})
			return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return next(c)
	}
}

func (s *Server) validKey(key string) bool {
	if key == "" {
		return false
	}
	ok := false
	for k := range s.keys {
		if subtle.ConstantTimeCompare([]byte(k), []byte(key)) == 1 {
			ok = true
		}
	}
	return ok
}

// Start serves until Shutdown. http.ErrServerClosed is not an error.
func (s *Server) Start() error {
	s.logger.Info("starting http server", nil, map[string]interface{}{"address": s.cfg.Address})
	if err := s.echo.Start(s.cfg.Address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server", nil)
	return s.echo.Shutdown(ctx)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, healthResponse{Status: "healthy", Version: "1.0"})
}

type processRequest struct {
	Link     string `json:"link"`
	UniqueID string `json:"unique_id"`
}

type processResponse struct {
	Success bool          `json:"success"`
	Result  processResult `json:"result"`
}

type processResult struct {
	Message string `json:"message"`
	ingest.Result
}

func (s *Server) handleProcess(c echo.Context) error {
	var req processRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Link == "" || req.UniqueID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, `missing "link" or "unique_id" in request body`)
	}

	res, err := s.processor.Process(c.Request().Context(), req.Link, req.UniqueID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, processResponse{
		Success: true,
		Result: processResult{
			Message: "This PDF ID is: " + req.UniqueID,
			Result:  res,
		},
	})
}

type queryRequest struct {
	Namespace string `json:"namespace"`
	Query     string `json:"query"`
	TopK      int    `json:"top_k"`
}

type queryResponse struct {
	Success bool                 `json:"success"`
	Result  []ingest.QueryResult `json:"result"`
}

func (s *Server) handleQuery(c echo.Context) error {
	var req queryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Namespace == "" || req.Query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, `missing "namespace" or "query" in request body`)
	}
	if req.TopK < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, `"top_k" must not be negative`)
	}

	results, err := s.searcher.Query(c.Request().Context(), req.Namespace, req.Query, req.TopK)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, queryResponse{Success: true, Result: results})
}

type memoryResponse struct {
	Success         bool   `json:"success"`
	HeapBeforeBytes uint64 `json:"heapBeforeBytes"`
	HeapAfterBytes  uint64 `json:"heapAfterBytes"`
	Message         string `json:"message"`
}

// handleMemory forces a collection and returns freed memory to the OS.
func (s *Server) handleMemory(c echo.Context) error {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	debug.FreeOSMemory()
	runtime.ReadMemStats(&after)

	return c.JSON(http.StatusOK, memoryResponse{
		Success:         true,
		HeapBeforeBytes: before.HeapAlloc,
		HeapAfterBytes:  after.HeapAlloc,
		Message:         "memory cleanup completed",
	})
}
