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

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/lumonpay/lumonpay/internal/app"
	"github.com/lumonpay/lumonpay/internal/clients"
	"github.com/lumonpay/lumonpay/internal/ledger"
	"github.com/lumonpay/lumonpay/internal/loan"
	"github.com/lumonpay/lumonpay/internal/loan/status"
	"github.com/lumonpay/lumonpay/internal/platform/cache"
	"github.com/lumonpay/lumonpay/internal/platform/db"
	"github.com/lumonpay/lumonpay/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	maintenance := app.NewMaintenanceSwitch(redisClient)

	loanRepo := loan.NewRepository(pool)
	loanService := loan.NewService(loanRepo)

	ledgerRepo := ledger.NewRepository(pool)
	ledgerService := ledger.NewService(logger, loanRepo, ledgerRepo)
	staging := ledger.NewStaging(logger, loanRepo, ledgerRepo)

	statusRepo := status.NewRepository(pool)
	statusService := status.NewService(logger, statusRepo, cfg.Thresholds)

	clientsRepo := clients.NewRepository(pool)
	clientsService := clients.NewService(logger, clientsRepo)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Maintenance:    maintenance,
		LoanHandler:    loan.NewHandler(logger, loanService),
		LedgerHandler:  ledger.NewHandler(logger, ledgerService, staging),
		StatusHandler:  status.NewHandler(logger, statusService),
		ClientsHandler: clients.NewHandler(logger, clientsService),
		JobHandler:     jobs.NewHandler(inspector, jobClient, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("server stopped")
}
