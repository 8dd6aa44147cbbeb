package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/metric"

	"github.com/allisson/actionguard/internal/config"
	"github.com/allisson/actionguard/internal/metrics"
)

// RouteRegistrar mounts one feature's routes on the versioned API group.
type RouteRegistrar interface {
	Register(group *gin.RouterGroup)
}

// ReadinessCheck reports whether one named component is ready to serve.
type ReadinessCheck func() bool

// Server is the main API server.
type Server struct {
	config        *config.Config
	logger        *slog.Logger
	meterProvider metric.MeterProvider
	registrars    []RouteRegistrar
	readiness     map[string]ReadinessCheck
	router        *gin.Engine
	server        *http.Server
}

// NewServer creates the API server. The meter provider may be nil when
// metrics are disabled.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	meterProvider metric.MeterProvider,
	readiness map[string]ReadinessCheck,
	registrars ...RouteRegistrar,
) *Server {
	return &Server{
		config:        cfg,
		logger:        logger,
		meterProvider: meterProvider,
		registrars:    registrars,
		readiness:     readiness,
	}
}

// SetupRouter builds the gin engine with middleware and all feature routes.
func (s *Server) SetupRouter() *gin.Engine {
	gin.SetMode(s.config.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if s.meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(s.meterProvider, s.config.MetricsNamespace))
	}

	if corsMiddleware := createCORSMiddleware(
		s.config.CORSEnabled,
		s.config.CORSAllowOrigins,
		s.logger,
	); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if s.config.RateLimitEnabled {
		router.Use(RateLimitMiddleware(
			s.config.RateLimitRequestsPerSec,
			s.config.RateLimitBurst,
			s.logger,
		))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	for _, registrar := range s.registrars {
		registrar.Register(v1)
	}

	s.router = router
	return router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports per-component readiness. Any failing component
// makes the whole response 503.
func (s *Server) readinessHandler(c *gin.Context) {
	components := make(map[string]string, len(s.readiness))
	ready := true

	for name, check := range s.readiness {
		if check != nil && check() {
			components[name] = "ok"
			continue
		}
		components[name] = "error"
		ready = false
	}

	if !ready {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// Start starts the API server. Blocks until the listener stops.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		s.SetupRouter()
	}

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.ServerHost, s.config.ServerPort),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
