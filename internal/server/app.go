// Package server wires the portal backend together: configuration,
// PostgreSQL and its migrations, the OTP rate limiter, the REST API and a
// background purge of expired OTPs. Run blocks until SIGINT/SIGTERM or
// context cancellation and then shuts the HTTP server down gracefully.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/residentportal/internal/logging"
	"github.com/dmitrijs2005/residentportal/internal/server/config"
	"github.com/dmitrijs2005/residentportal/internal/server/httpapi"
	"github.com/dmitrijs2005/residentportal/internal/server/mailer"
	"github.com/dmitrijs2005/residentportal/internal/server/ratelimit"
	"github.com/dmitrijs2005/residentportal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/residentportal/internal/server/services"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

const (
	maxRequestBytes = 1 << 20
	shutdownTimeout = 10 * time.Second
	purgeInterval   = time.Minute
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	rdb    *redis.Client
	portal *services.PortalService
	server *http.Server

	purgeInterval time.Duration
}

// openDB is a seam for tests.
var openDB = repomanager.OpenDB

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	app, err := newApp(cfg, logger, db, rm)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(cfg *config.Config, logger logging.Logger, db *sql.DB, rm repomanager.RepositoryManager) (*App, error) {
	app := &App{config: cfg, logger: logger, db: db, purgeInterval: purgeInterval}

	var limiter ratelimit.Limiter = ratelimit.NopLimiter{}
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		app.rdb = rdb
		limiter = ratelimit.NewRedisLimiter(rdb, "otp:flat:", cfg.OTPRateLimit, cfg.OTPRateWindow)
	} else {
		logger.Warn(context.Background(), "redis url not set, otp rate limiting disabled")
	}

	app.portal = services.NewPortalService(db, rm, limiter, mailer.NewLogMailer(logger), cfg, logger)

	app.server = &http.Server{
		Addr:              cfg.EndpointAddr,
		Handler:           httpapi.NewRouter(app.portal, logger, maxRequestBytes),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return app, nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	app.logger.Info(ctx, "Starting app...", "addr", app.config.EndpointAddr)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := app.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		app.logger.Info(context.Background(), "Shutting down...")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return app.server.Shutdown(sctx)
	})

	g.Go(func() error {
		app.purgeExpiredOTPs(gctx)
		return nil
	})

	return g.Wait()
}

func (app *App) purgeExpiredOTPs(ctx context.Context) {
	ticker := time.NewTicker(app.purgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.portal.PurgeExpiredOTPs(ctx)
			if err != nil {
				app.logger.Warn(ctx, "failed to purge expired otps", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Debug(ctx, "purged expired otps", "count", n)
			}
		}
	}
}

// Close releases the database and Redis connections.
func (app *App) Close() error {
	var errs []error
	if app.rdb != nil {
		errs = append(errs, app.rdb.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	return errors.Join(errs...)
}
