package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/fencequote/internal/config"
	"github.com/mamadbah2/fencequote/internal/estimator"
	"github.com/mamadbah2/fencequote/internal/export/xlsx"
	"github.com/mamadbah2/fencequote/internal/repository/mongodb"
	"github.com/mamadbah2/fencequote/internal/repository/sheets"
	"github.com/mamadbah2/fencequote/internal/scheduler"
	"github.com/mamadbah2/fencequote/internal/server/handlers"
	"github.com/mamadbah2/fencequote/internal/server/router"
	catalogsvc "github.com/mamadbah2/fencequote/internal/service/catalog"
	notifysvc "github.com/mamadbah2/fencequote/internal/service/notify"
	quotesvc "github.com/mamadbah2/fencequote/internal/service/quotes"
	reportingsvc "github.com/mamadbah2/fencequote/internal/service/reporting"
	"github.com/mamadbah2/fencequote/internal/validation"
	"github.com/mamadbah2/fencequote/pkg/clients/functions"
	"github.com/mamadbah2/fencequote/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Development))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStart()

	store, err := mongodb.Connect(startCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()
	if err := store.EnsureIndexes(startCtx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}

	var ledger quotesvc.Ledger
	if cfg.Sheets.Enabled() {
		sheetWriter, err := sheets.NewSheetWriter(startCtx, cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		ledger = sheets.NewLedger(sheetWriter)
		baseLogger.Info("google sheets quote ledger enabled")
	} else {
		baseLogger.Warn("google sheets credentials missing, quote ledger disabled")
	}

	tables := estimator.DefaultCoefficients()
	engine, err := estimator.New(tables)
	if err != nil {
		baseLogger.Fatal("invalid coefficient tables", zap.Error(err))
	}

	validator := validation.New()
	catalogSvc := catalogsvc.NewService(store.Materials(), store.Settings(), validator, logger.Named(baseLogger, "svc.catalog"))
	quoteSvc := quotesvc.NewService(engine, store.Quotes(), catalogSvc, ledger, validator, logger.Named(baseLogger, "svc.quotes"))
	functionsClient := functions.NewClient(cfg.Functions)
	notifySvc := notifysvc.NewService(cfg.Business, functionsClient, quoteSvc, catalogSvc, validator, logger.Named(baseLogger, "svc.notify"))
	reportingSvc := reportingsvc.NewService(store.Quotes(), cfg.Business.CurrencySymbol, logger.Named(baseLogger, "svc.reporting"))

	r := router.New(router.Handlers{
		Quotes:  handlers.NewQuoteHandler(quoteSvc, notifySvc, xlsx.NewExporter(cfg.Business), logger.Named(baseLogger, "handlers.quotes")),
		Catalog: handlers.NewCatalogHandler(catalogSvc, tables, logger.Named(baseLogger, "handlers.catalog")),
		Reports: handlers.NewReportHandler(reportingSvc, logger.Named(baseLogger, "handlers.reports")),
	}, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, notifySvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
