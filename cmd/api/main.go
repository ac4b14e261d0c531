package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookcatalog/internal/book"
	"bookcatalog/internal/config"
	"bookcatalog/internal/health"
	"bookcatalog/internal/httpx"
	"bookcatalog/internal/postgres"
)

const maxRequestBytes = 1 << 20

func main() {
	settings, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(settings)
	slog.SetDefault(logger)

	if err := run(settings, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(settings config.Settings, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.Open(ctx, postgres.PoolConfig{
		DSN:      settings.DatabaseURL,
		MaxConns: settings.MaxConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("database connection OK", "dsn", postgres.RedactDSN(settings.DatabaseURL))

	repo := book.NewPostgresRepo(pool,
		book.WithTimeout(settings.QueryTimeout),
		book.WithSnapshotReads(settings.SnapshotReads),
		book.WithLogger(logger),
	)
	limiter := httpx.NewRateLimitMiddleware(ctx, settings.RateLimitRPS, settings.RateLimitBurst)

	httpServer := &http.Server{
		Addr:         settings.Addr,
		Handler:      newRouter(settings, logger, repo, postgres.NewLiveness(pool), limiter),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server", "title", settings.AppTitle, "addr", settings.Addr)
		serveErr <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func newLogger(settings config.Settings) *slog.Logger {
	if settings.IsDev() {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func newRouter(
	settings config.Settings,
	logger *slog.Logger,
	repo book.Repository,
	checker health.Checker,
	limiter *httpx.RateLimitMiddleware,
) http.Handler {
	router := http.NewServeMux()

	book.NewHTTPHandler(book.NewService(repo), logger).RegisterRoutes(router)
	health.NewHandler(checker, logger).RegisterRoutes(router)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		limiter.Middleware,
		httpx.SecurityHeadersMiddleware(settings.EnableHSTS),
		httpx.CORSMiddleware(settings.CORSAllowedOrigins),
		httpx.RequestSizeLimitMiddleware(maxRequestBytes),
	)
}
