// Package server assembles storage, caching, auth and the RPC services into
// a runnable HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/saveplus/payoff/internal/auth"
	"github.com/saveplus/payoff/internal/cache"
	"github.com/saveplus/payoff/internal/config"
	"github.com/saveplus/payoff/internal/middleware"
	"github.com/saveplus/payoff/internal/service"
	"github.com/saveplus/payoff/internal/storage"
	"github.com/saveplus/payoff/internal/storage/postgres"
	"github.com/saveplus/payoff/internal/storage/sqlite"
	"github.com/saveplus/payoff/pkg/api/apiconnect"
)

const (
	shutdownTimeout = 10 * time.Second
	redisKeyPrefix  = "payoff:"
)

// Server owns every long-lived resource. Close releases them.
type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	store   storage.Store
	cache   cache.Cache
	limiter *middleware.RateLimiter
	handler http.Handler
}

// New opens storage and cache and builds the HTTP handler.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	logger.Info("Storage initialized", "driver", cfg.Database.Driver)

	c, err := openCache(ctx, cfg.Cache)
	if err != nil {
		store.Close()
		return nil, err
	}
	logger.Info("Cache initialized", "backend", cfg.Cache.Backend, "ttl", cfg.Cache.TTL)

	s := &Server{
		cfg:    cfg,
		logger: logger,
		store:  store,
		cache:  c,
	}
	s.handler = s.routes()
	return s, nil
}

func openStore(ctx context.Context, cfg config.DatabaseConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := postgres.New(ctx, cfg.DSN, cfg.MaxOpenConns)
		if err != nil {
			return nil, fmt.Errorf("failed to open postgres: %w", err)
		}
		return store, nil
	default:
		store, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return store, nil
	}
}

func openCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheRedis:
		r, err := cache.NewRedis(ctx, cfg.RedisAddr, redisKeyPrefix, cfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return r, nil
	case config.CacheNone:
		return cache.Nop{}, nil
	default:
		return cache.NewMemory(cfg.MaxEntries, cfg.TTL), nil
	}
}

func (s *Server) routes() http.Handler {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(registry)

	jwtManager := auth.NewJWTManager(s.cfg.Auth.JWTSecret, s.cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(s.store)

	// Metrics sit outside auth so rejected calls are counted; logging sits
	// inside so it sees the caller's user ID.
	logging := middleware.LoggingInterceptor(s.logger)
	recovered := connect.WithRecover(recoverPanic(s.logger))
	optional := connect.WithHandlerOptions(recovered,
		connect.WithInterceptors(metrics.Interceptor(), middleware.OptionalAuth(jwtManager), logging))
	required := connect.WithHandlerOptions(recovered,
		connect.WithInterceptors(metrics.Interceptor(), middleware.RequireAuth(jwtManager), logging))

	limits := service.Limits{
		MaxMonths:   s.cfg.Simulation.MaxMonths,
		MaxAccounts: s.cfg.Simulation.MaxAccounts,
	}

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, s.store, s.logger), optional))
	mux.Handle(apiconnect.NewDebtServiceHandler(
		service.NewDebtService(s.store, s.logger), required))
	mux.Handle(apiconnect.NewPayoffServiceHandler(
		service.NewPayoffService(s.store, s.cache, metrics, limits, s.logger), optional))
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", healthz)

	var handler http.Handler = mux
	if s.cfg.RateLimit.Capacity > 0 {
		s.limiter = middleware.NewRateLimiter(s.cfg.RateLimit.Capacity, s.cfg.RateLimit.Refill)
		handler = middleware.RateLimit(s.limiter, metrics, s.logger, handler)
	}
	return middleware.RequestLogger(s.logger, middleware.CORS(handler))
}

// recoverPanic turns a handler panic into an Internal error so neither
// engine drops the connection or the process.
func recoverPanic(logger *slog.Logger) func(context.Context, connect.Spec, http.Header, any) error {
	return func(_ context.Context, spec connect.Spec, _ http.Header, p any) error {
		logger.Error("RPC handler panicked", "procedure", spec.Procedure, "panic", p)
		return connect.NewError(connect.CodeInternal, fmt.Errorf("internal error in %s", spec.Procedure))
	}
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run listens on the configured port and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln with the configured engine. When ctx is
// cancelled in-flight requests get shutdownTimeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.Info("Connect server starting",
		"address", ln.Addr().String(),
		"engine", s.cfg.Server.Engine,
	)
	if s.cfg.Server.Engine == config.EngineFastHTTP {
		return s.serveFastHTTP(ctx, ln)
	}
	return s.serveNetHTTP(ctx, ln)
}

func (s *Server) serveNetHTTP(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		// h2c serves HTTP/2 without TLS, which Connect clients may use.
		Handler:      h2c.NewHandler(s.handler, &http2.Server{}),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveFastHTTP(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:      fasthttpadaptor.NewFastHTTPHandler(s.handler),
		Name:         "payoff",
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.ShutdownWithContext(shutdownCtx)
	}
}

// Close stops the rate limiter and releases the cache and store.
func (s *Server) Close() error {
	if s.limiter != nil {
		s.limiter.Stop()
	}
	var errs []error
	if closer, ok := s.cache.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	errs = append(errs, s.store.Close())
	return errors.Join(errs...)
}
