// Package server wires the gophbudget remote store together: Postgres
// repositories, services and the gRPC endpoint.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophbudget/internal/logging"
	"github.com/dmitrijs2005/gophbudget/internal/server/auth"
	"github.com/dmitrijs2005/gophbudget/internal/server/config"
	gs "github.com/dmitrijs2005/gophbudget/internal/server/grpc"
	"github.com/dmitrijs2005/gophbudget/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophbudget/internal/server/services"
	"golang.org/x/sync/errgroup"
)

const tokenPurgeInterval = time.Hour

// runner is the part of the gRPC server App drives.
type runner interface {
	Run(ctx context.Context) error
}

type tokenPurger interface {
	PurgeExpiredTokens(ctx context.Context) (int64, error)
}

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server runner
	tokens tokenPurger
}

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

// NewApp connects to Postgres, applies migrations and builds the services.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	return newApp(ctx, c, logger, repomanager.NewPostgresRepositoryManager())
}

func newApp(ctx context.Context, c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) (*App, error) {
	logger = logger.With("module", "app")

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	if c.GoogleClientID == "" {
		logger.Warn(ctx, "google client id not set, federated login disabled")
	}

	users := services.NewUserService(db, rm, auth.NewGoogleVerifier(c.GoogleClientID), c)
	srv := gs.NewGRPCServer(c.EndpointAddrGRPC, logger, gs.Services{
		Users:    users,
		Profiles: services.NewProfileService(db, rm),
		Finance:  services.NewFinanceService(db, rm),
		Receipts: services.NewReceiptService(c),
	}, c.SecretKey)

	return &App{config: c, logger: logger, db: db, server: srv, tokens: users}, nil
}

// Run serves until ctx is cancelled or the server fails, then closes the database.
func (app *App) Run(ctx context.Context) error {
	app.logger.Info(ctx, "Starting app...")
	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close error", "error", err)
		}
	}()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.server.Run(ctx) })
	g.Go(func() error {
		app.purgeTokens(ctx, tokenPurgeInterval)
		return nil
	})
	return g.Wait()
}

func (app *App) purgeTokens(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.tokens.PurgeExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn(ctx, "refresh token purge failed", "error", err)
				continue
			}
			if n > 0 {
				app.logger.Info(ctx, "purged expired refresh tokens", "count", n)
			}
		}
	}
}
