// Package proxy serves the HTTP API that forwards issue and worklog calls
// to Jira using credentials supplied on each request.
package proxy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/five82/pomojira/internal/config"
	"github.com/five82/pomojira/internal/jira"
	"github.com/five82/pomojira/internal/prefs"
)

const shutdownTimeout = 5 * time.Second

// TrackerFactory builds the upstream client for one request's credentials.
type TrackerFactory func(creds prefs.Credentials) (jira.IssueTracker, error)

// Server is the stateless Jira proxy. Nothing credential-bearing outlives a request.
type Server struct {
	cfg        config.Server
	logger     *slog.Logger
	newTracker TrackerFactory
	engine     *gin.Engine
	httpServer *http.Server
}

// Option customizes a Server.
type Option func(*Server)

// WithTrackerFactory replaces how upstream clients are built.
func WithTrackerFactory(f TrackerFactory) Option {
	return func(s *Server) {
		s.newTracker = f
	}
}

// NewServer creates a proxy server for the given configuration.
func NewServer(cfg config.Server, logger *slog.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{cfg: cfg, logger: logger}
	s.newTracker = jiraTrackerFactory(cfg)
	for _, opt := range opts {
		opt(s)
	}
	s.engine = s.routes()
	return s
}

// jiraTrackerFactory shares one *http.Client for connection reuse. The client
// holds no credentials; those are attached per request by jira.Client.
func jiraTrackerFactory(cfg config.Server) TrackerFactory {
	httpClient := &http.Client{Timeout: cfg.RequestTimeout}
	return func(creds prefs.Credentials) (jira.IssueTracker, error) {
		return jira.NewClient(creds.Domain, creds.Email, creds.Token, jira.Options{
			Scheme:     cfg.UpstreamScheme,
			APIVersion: cfg.APIVersion,
			HTTPClient: httpClient,
		})
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:    []string{"Content-Type", prefs.HeaderDomain, prefs.HeaderEmail, prefs.HeaderToken},
		MaxAge:          12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", s.requireCredentials)
	api.GET("/issues", s.listIssues)
	api.POST("/issues/:issueKey/worklog", s.addWorklog)
	return r
}

// Start begins listening on the configured address. Blocks until ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Listen,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.httpServer.Shutdown(shutCtx); err != nil {
			s.logger.Warn("proxy shutdown", "error", err)
		}
	}()

	s.logger.Info("proxy listening", "addr", s.cfg.Listen, "upstream_scheme", s.cfg.UpstreamScheme, "api_version", s.cfg.APIVersion)
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Listen, err)
	}
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
