// Package server initializes and runs the ledger daemon. It opens storage,
// applies schema migrations, bootstraps the collector account, and optionally
// runs the monthly tax scheduler, with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/ledgerkeeper/internal/common"
	"github.com/dmitrijs2005/ledgerkeeper/internal/cryptox"
	"github.com/dmitrijs2005/ledgerkeeper/internal/logging"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/archive"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/config"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/models"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/ledgerkeeper/internal/server/services"
	"github.com/google/uuid"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	Ledger *services.LedgerService
	Auth   *services.AuthService
}

func NewApp(cfg *config.Config) (*App, error) {
	slogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slogger)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	repos := repomanager.NewPostgresRepositoryManager(db)

	ledger := services.NewLedgerService(repos, cfg, logger, services.NewLogNotifier(logger))
	ledger.SetArchiver(archive.NewS3Archiver(cfg))

	return &App{
		config: cfg,
		logger: logger,
		repos:  repos,
		Ledger: ledger,
		Auth:   services.NewAuthService(repos, cfg),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// ensureCollector creates the collector account on first start. The account
// gets a random, undisclosed credential: nobody logs in as the collector.
func (app *App) ensureCollector(ctx context.Context) error {
	accountsRepo := app.repos.Accounts(nil)

	_, err := accountsRepo.GetByUsername(ctx, app.config.CollectorUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return err
	}

	secret, err := common.MakeRandHexString(32)
	if err != nil {
		return err
	}
	hash, err := cryptox.HashPassword(secret)
	if err != nil {
		return err
	}

	_, err = accountsRepo.Create(ctx, &models.Account{
		ID:             uuid.NewString(),
		Username:       app.config.CollectorUsername,
		CredentialHash: hash,
		Role:           models.RoleUser,
	})
	if err != nil && !errors.Is(err, common.ErrorDuplicateAccount) {
		return err
	}

	app.logger.Info(ctx, "collector account created", "username", app.config.CollectorUsername)
	return nil
}

// runTaxScheduler applies the monthly sweep for the current period. The
// period marker makes the hourly tick idempotent: every tick after the first
// successful one in a month is a no-op.
func (app *App) runTaxScheduler(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		summary, err := app.Ledger.ApplyScheduledTax(ctx)
		switch {
		case err == nil:
			app.logger.Info(ctx, "scheduled tax sweep applied",
				"period", summary.Period, "rows_taxed", summary.RowsTaxed)
		case errors.Is(err, common.ErrorTaxPeriodApplied):
			app.logger.Debug(ctx, "tax period already applied, skipping")
		default:
			app.logger.Error(ctx, "scheduled tax sweep failed", "error", err.Error())
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	defer func() {
		if err := app.repos.Close(); err != nil {
			app.logger.Error(ctx, "closing storage failed", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repos.RunMigrations(ctx); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}
	if err := app.ensureCollector(ctx); err != nil {
		return fmt.Errorf("collector bootstrap error: %w", err)
	}

	var wg sync.WaitGroup

	if app.config.TaxSweepEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runTaxScheduler(ctx)
		}()
	}

	<-ctx.Done()
	app.logger.Info(ctx, "Stopping app...")

	wg.Wait()
	return nil
}
