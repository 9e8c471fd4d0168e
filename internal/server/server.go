// Package server собирает HTTP сервер ресторанов: хранилище, брокер,
// обработчики и middleware.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/iudanet/restaurants/internal/config"
	"github.com/iudanet/restaurants/internal/server/broker"
	"github.com/iudanet/restaurants/internal/server/handlers"
	"github.com/iudanet/restaurants/internal/server/middleware"
	"github.com/iudanet/restaurants/internal/server/storage"
	"github.com/iudanet/restaurants/internal/server/storage/boltdb"
	"github.com/iudanet/restaurants/internal/server/storage/postgres"
	"github.com/iudanet/restaurants/internal/server/storage/sqlite"
)

const healthPath = "/api/v1/health"

// Server HTTP сервер ресторанов
type Server struct {
	storage    storage.RestaurantStorage
	broker     broker.Broker
	logger     *slog.Logger
	limiter    *middleware.RateLimiter
	httpServer *http.Server
	handler    http.Handler
	cfg        config.ServerConfig
}

// New открывает хранилище и брокер и собирает маршруты
func New(ctx context.Context, cfg config.ServerConfig, version string, logger *slog.Logger) (*Server, error) {
	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		generated, err := handlers.GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
		logger.Warn("JWT secret is not configured, using a random one; sessions will not survive restart")
	}
	jwtConfig := handlers.JWTConfig{
		Secret:         secret,
		AccessTokenTTL: cfg.TokenTTL,
	}

	store, err := OpenStorage(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	b, err := OpenBroker(ctx, cfg.Broker, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	s := &Server{
		storage: store,
		broker:  b,
		logger:  logger,
		limiter: middleware.NewRateLimiter(cfg.CreateRate, cfg.CreateWindow, logger),
		cfg:     cfg,
	}
	s.handler = s.routes(jwtConfig, version)
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// routes регистрирует маршруты API
func (s *Server) routes(jwtConfig handlers.JWTConfig, version string) http.Handler {
	healthHandler := handlers.NewHealthHandler(s.logger, version, s.storage)
	sessionHandler := handlers.NewSessionHandler(s.logger, jwtConfig)
	restaurantHandler := handlers.NewRestaurantHandler(s.logger, s.storage, s.broker)
	subscribeHandler := handlers.NewSubscribeHandler(s.logger, s.broker)

	router := mux.NewRouter()
	router.Use(middleware.RecoveryMiddleware(s.logger))
	router.Use(middleware.LoggingWithSkip(s.logger, []string{healthPath}))

	router.HandleFunc(healthPath, healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/api/v1/session", sessionHandler.OpenSession).Methods(http.MethodPost)

	restaurants := router.PathPrefix("/api/v1/restaurants").Subrouter()
	restaurants.Use(middleware.AuthMiddleware(s.logger, jwtConfig))

	restaurants.HandleFunc("", restaurantHandler.List).Methods(http.MethodGet)
	restaurants.Handle("", middleware.RateLimitMiddleware(s.limiter, s.logger)(
		http.HandlerFunc(restaurantHandler.Create),
	)).Methods(http.MethodPost)
	restaurants.HandleFunc("/subscribe", subscribeHandler.Subscribe).Methods(http.MethodGet)

	return router
}

// Handler возвращает корневой обработчик
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run слушает адрес до отмены ctx, затем корректно останавливает сервер
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}

	return s.Serve(ctx, listener)
}

// Serve обслуживает запросы на listener до отмены ctx
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", "addr", listener.Addr().String())
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
		close(errC)
	}()

	select {
	case err := <-errC:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown не ждет websocket соединений; их завершает закрытие брокера в Close
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Close закрывает брокер (завершая подписки), лимитер и хранилище
func (s *Server) Close() error {
	var errs []error

	if err := s.broker.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close broker: %w", err))
	}
	s.limiter.Stop()
	if err := s.storage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
	}

	return errors.Join(errs...)
}

// OpenStorage открывает хранилище по DSN: sqlite://path, bolt://path, postgres://...
func OpenStorage(ctx context.Context, dsn string) (storage.RestaurantStorage, error) {
	switch {
	case strings.HasPrefix(dsn, "sqlite://"):
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			return nil, fmt.Errorf("sqlite storage path is empty")
		}
		s, err := sqlite.New(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(dsn, "bolt://"):
		path := strings.TrimPrefix(dsn, "bolt://")
		if path == "" {
			return nil, fmt.Errorf("bolt storage path is empty")
		}
		s, err := boltdb.New(ctx, path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		s, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage dsn %q", dsn)
	}
}

// OpenBroker создает брокер событий: memory или redis://...
func OpenBroker(ctx context.Context, url string, logger *slog.Logger) (broker.Broker, error) {
	switch {
	case url == "memory":
		return broker.NewMemory(logger), nil
	case strings.HasPrefix(url, "redis://"), strings.HasPrefix(url, "rediss://"):
		r, err := broker.NewRedis(ctx, url, logger)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unsupported broker %q", url)
	}
}
