package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"lenny/internal/auth"
	"lenny/internal/catalog"
	"lenny/internal/config"
	"lenny/internal/httpx"
	"lenny/internal/item"
	"lenny/internal/loan"
	"lenny/internal/logger"
	"lenny/internal/openlibrary"
	"lenny/internal/profile"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := openDB(ctx, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()
	log.Info("database connection OK", zap.String("dsn", redactDSN(cfg.Database.DSN)))

	handler := newRouter(ctx, cfg, pool, openlibrary.NewClient(cfg.OpenLibrary.Client()), log)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("addr", cfg.Server.Addr), zap.String("base_url", cfg.Server.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// pinger is the slice of pgxpool the readiness probe needs.
type pinger interface {
	Ping(ctx context.Context) error
}

func newRouter(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, searcher catalog.Searcher, log *zap.Logger) http.Handler {
	items := item.NewPostgresRepo(pool, cfg.Database.Timeout)
	loans := loan.NewPostgresRepo(pool, cfg.Database.Timeout)
	return routes(ctx, cfg, pool, items, loans, searcher, log)
}

func routes(ctx context.Context, cfg *config.Config, db pinger, items item.Repository, loans loan.Repository, searcher catalog.Searcher, log *zap.Logger) http.Handler {
	urls := catalog.URLs{Base: cfg.Server.BaseURL, Reader: cfg.Server.ReaderURL}
	provider := catalog.NewProvider(searcher, urls, cfg.Server.CatalogTitle)

	catalogSvc := catalog.NewService(provider, items, log)
	loanSvc := loan.NewService(loans, items, catalogSvc, cfg.Loan.Limit, log)
	profileSvc := profile.NewService(loanSvc, cfg.Server.BaseURL)

	catalogHandler := catalog.NewHTTPHandler(catalogSvc, log)
	loanHandler := loan.NewHTTPHandler(loanSvc, log)
	profileHandler := profile.NewHTTPHandler(profileSvc, log)
	authHandler := auth.NewHTTPHandler(cfg.Server.CatalogTitle, cfg.Server.BaseURL)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /v1/api/opds", catalogHandler.Feed)
	router.HandleFunc("GET /v1/api/opds/{id}", catalogHandler.Publication)
	router.HandleFunc("GET /v1/api/items/{id}/read", catalogHandler.Read)
	router.HandleFunc("GET /v1/api/oauth/implicit", authHandler.Document)

	protected := httpx.AuthMiddleware(cfg.Auth.JWTSecret)
	router.Handle("POST /v1/api/items/{id}/borrow", protected(http.HandlerFunc(loanHandler.Borrow)))
	router.Handle("POST /v1/api/items/{id}/return", protected(http.HandlerFunc(loanHandler.Return)))
	router.Handle("GET /v1/api/shelf", protected(http.HandlerFunc(loanHandler.Shelf)))
	router.Handle("GET /v1/api/profile", protected(http.HandlerFunc(profileHandler.Get)))

	limiter := httpx.NewRateLimitMiddleware(ctx, cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.Server.EnableHSTS),
		httpx.CORSMiddleware(cfg.Server.AllowedOrigins),
		limiter.Middleware,
		httpx.RequestSizeLimitMiddleware(cfg.Server.MaxBodyBytes),
	)
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create db pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database (%s): %w", redactDSN(dsn), err)
	}
	return pool, nil
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
