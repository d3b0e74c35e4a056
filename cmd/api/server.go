package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"bookcrud/internal/book"
	"bookcrud/internal/config"
	"bookcrud/internal/httpx"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// openStore returns the repository selected by cfg and a function that
// releases it.
func openStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (book.Repository, func(), error) {
	if cfg.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store; data is lost on exit")
		return book.NewMemoryRepo(), func() {}, nil
	}

	pool, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", cfg.RedactedDSN(), err)
	}
	log.Info().Str("dsn", cfg.RedactedDSN()).Msg("database connection OK")
	return book.NewPostgresRepo(pool, cfg.DBTimeout), pool.Close, nil
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	poolCfg.MaxConns = 20
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func newRouter(cfg config.Config, repo book.Repository, log zerolog.Logger) http.Handler {
	service := book.NewService(repo)
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.Text(w, http.StatusOK, "ok")
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := service.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("readiness check failed")
			httpx.Text(w, http.StatusServiceUnavailable, "store not ready")
			return
		}
		httpx.Text(w, http.StatusOK, "ready")
	})

	book.NewHTTPHandler(service, log).Register(router)

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(log),
		httpx.RecoveryMiddleware(log),
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.CORSMiddleware(cfg.AllowedOrigins),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	)
}
