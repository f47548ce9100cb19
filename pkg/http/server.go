package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"AgriCast/pkg/http/middleware"
	applogger "AgriCast/pkg/logger"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ServerOption configures Server.
type ServerOption func(*ServerConfig)

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	SlowThreshold   time.Duration
	AllowOrigins    []string
	Limiter         middleware.Allower
	MetricsPath     string
	TrustedProxies  []*net.IPNet
}

// Server wraps Echo HTTP server.
type Server struct {
	echo   *echo.Echo
	config *ServerConfig
	l      *applogger.Logger
	errCh  chan error
}

// NewServer creates an Echo server with the standard middleware chain and
// registers handler's routes.
func NewServer(handler Handler, l *applogger.Logger, opts ...ServerOption) *Server {
	cfg := &ServerConfig{
		Host:            "0.0.0.0",
		Port:            8000,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SlowThreshold:   2 * time.Second,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.IPExtractor = ipExtractor(cfg.TrustedProxies)

	e.Use(middleware.Recover(l))
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogging(l, cfg.SlowThreshold))
	if cfg.MetricsPath != "" {
		e.Use(middleware.Metrics())
	}
	if len(cfg.AllowOrigins) > 0 {
		e.Use(middleware.CORS(middleware.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{
				echo.HeaderOrigin,
				echo.HeaderContentType,
				echo.HeaderAccept,
				echo.HeaderXRequestID,
			},
		}))
	}
	if cfg.Limiter != nil {
		e.Use(middleware.RateLimit(cfg.Limiter, "/health", cfg.MetricsPath))
	}

	if handler != nil {
		handler.RegisterRoutes(e)
	}
	if cfg.MetricsPath != "" {
		e.GET(cfg.MetricsPath, echo.WrapHandler(promhttp.Handler()))
	}

	return &Server{echo: e, config: cfg, l: l, errCh: make(chan error, 1)}
}

// ipExtractor uses the socket peer unless trusted proxies are configured, in
// which case the first untrusted X-Forwarded-For hop is the client.
func ipExtractor(trusted []*net.IPNet) echo.IPExtractor {
	if len(trusted) == 0 {
		return echo.ExtractIPDirect()
	}
	opts := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, r := range trusted {
		opts = append(opts, echo.TrustIPRange(r))
	}
	return echo.ExtractIPFromXFFHeader(opts...)
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start listens in the background. A listener failure is reported on Errors.
func (s *Server) Start() error {
	s.echo.Server.ReadTimeout = s.config.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.WriteTimeout
	addr := s.Addr()
	go func() {
		s.l.Info("http server listening", applogger.String("addr", addr))
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.l.Error("http server error", applogger.Error(err))
			s.errCh <- err
		}
	}()
	return nil
}

// Errors delivers a fatal listener error, if one occurs.
func (s *Server) Errors() <-chan error {
	return s.errCh
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.config.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()
	}
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.l.Info("http server stopped")
	return nil
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// WithPort sets server port.
func WithPort(port int) ServerOption {
	return func(c *ServerConfig) { c.Port = port }
}

// WithTimeouts sets read/write/shutdown timeouts.
func WithTimeouts(read, write, shutdown time.Duration) ServerOption {
	return func(c *ServerConfig) {
		c.ReadTimeout = read
		c.WriteTimeout = write
		c.ShutdownTimeout = shutdown
	}
}

// WithCORS allows the listed origins; none disables CORS headers.
func WithCORS(origins []string) ServerOption {
	return func(c *ServerConfig) { c.AllowOrigins = origins }
}

// WithRateLimit enables per-client rate limiting.
func WithRateLimit(l middleware.Allower) ServerOption {
	return func(c *ServerConfig) { c.Limiter = l }
}

// WithMetrics enables HTTP metrics and serves Prometheus on path.
func WithMetrics(path string) ServerOption {
	return func(c *ServerConfig) { c.MetricsPath = path }
}

// WithTrustedProxies makes client IPs come from X-Forwarded-For when the
// request arrives through one of the given ranges.
func WithTrustedProxies(ranges []*net.IPNet) ServerOption {
	return func(c *ServerConfig) { c.TrustedProxies = ranges }
}
