// Package httpapi exposes import validation, compile checks and repairs
// over a JSON HTTP API built on gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/asdzza/RACG-Defense/internal/core/ports/driving"
	"github.com/asdzza/RACG-Defense/internal/logger"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8787"

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Services aggregates the driving ports served over HTTP.
// Validator is required; routes for nil optional services answer 503.
type Services struct {
	Validator driving.ImportValidator
	Compiler  driving.CompileService
	Repair    driving.RepairService
	History   driving.HistoryService
}

// Instrumentation hooks request metrics and the scrape endpoint into the router.
type Instrumentation interface {
	Middleware() gin.HandlerFunc
	Handler() http.Handler
}

// Server serves the HTTP API.
type Server struct {
	services Services
	metrics  Instrumentation
	engine   *gin.Engine
}

// NewServer builds the router. metrics may be nil.
func NewServer(services Services, metrics Instrumentation) (*Server, error) {
	if services.Validator == nil {
		return nil, errors.New("httpapi: import validator is required")
	}
	s := &Server{services: services, metrics: metrics}
	s.engine = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestLogger())
	r.Use(gin.Recovery())
	if s.metrics != nil {
		r.Use(s.metrics.Middleware())
		r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	v1 := r.Group("/v1")
	v1.Use(limitBody(maxBodyBytes))
	v1.POST("/validate", s.handleValidate)
	v1.POST("/compile", s.handleCompile)
	v1.POST("/repair", s.handleRepair)
	v1.GET("/runs", s.handleListRuns)
	v1.GET("/runs/:id", s.handleGetRun)
	v1.DELETE("/runs/:id", s.handleDeleteRun)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, errorBody{Error: "route not found"})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	logger.Info("HTTP API listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// requestLogger emits one structured debug entry per request.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Zap().Debug("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start).Round(time.Millisecond)),
		)
	}
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}
