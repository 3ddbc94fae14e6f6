package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/tally/internal/balance"
	"github.com/MrJamesThe3rd/tally/internal/config"
	"github.com/MrJamesThe3rd/tally/internal/database"
	"github.com/MrJamesThe3rd/tally/internal/export"
	tallyHttp "github.com/MrJamesThe3rd/tally/internal/http"
	"github.com/MrJamesThe3rd/tally/internal/http/auth"
	balanceHandler "github.com/MrJamesThe3rd/tally/internal/http/balance"
	exportHandler "github.com/MrJamesThe3rd/tally/internal/http/export"
	ledgerHandler "github.com/MrJamesThe3rd/tally/internal/http/ledger"
	recurringHandler "github.com/MrJamesThe3rd/tally/internal/http/recurring"
	"github.com/MrJamesThe3rd/tally/internal/importer"
	"github.com/MrJamesThe3rd/tally/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/tally/internal/ledger/store"
	"github.com/MrJamesThe3rd/tally/internal/recurring"
	recurringStore "github.com/MrJamesThe3rd/tally/internal/recurring/store"
	"github.com/MrJamesThe3rd/tally/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("api stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Setup(cfg.App.LogLevel)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	var (
		ledgers   = ledgerStore.New(db)
		templates = recurringStore.New(db)

		ledgerService    = ledger.NewService(ledgers)
		balanceService   = balance.NewService(ledgers)
		recurringService = recurring.NewService(templates)
		importService    = importer.NewService()
		exportService    = export.NewService(ledgers)
		scheduler        = recurring.NewScheduler(templates, recurring.NewMetrics(reg))
	)

	var (
		ledgerH    = ledgerHandler.NewHandler(ledgerService, importService)
		balanceH   = balanceHandler.NewHandler(balanceService)
		recurringH = recurringHandler.NewHandler(recurringService, scheduler, loc)
		exportH    = exportHandler.NewHandler(exportService)
	)

	router := tallyHttp.New(tallyHttp.Options{
		Auth:           auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		AllowedOrigins: cfg.Server.CORSOrigins,
		Timeout:        cfg.Server.Timeout,
		Gatherer:       reg,
	}, ledgerH, balanceH, recurringH, exportH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.Timeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "app", cfg.App.Name, "addr", srv.Addr)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving http: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	})

	if cfg.Scheduler.Enabled {
		runner := recurring.NewRunner(scheduler, cfg.Scheduler.Interval, loc)
		g.Go(func() error { return runner.Run(gctx) })
	} else {
		slog.Info("recurring scheduler disabled")
	}

	return g.Wait()
}
