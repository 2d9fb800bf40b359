package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/lumonpay/lumonpay/internal/app"
	"github.com/lumonpay/lumonpay/internal/ledger"
	"github.com/lumonpay/lumonpay/internal/loan/status"
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
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	statusRepo := status.NewRepository(pool)
	statusService := status.NewService(logger, statusRepo, cfg.Thresholds)
	ledgerRepo := ledger.NewRepository(pool)

	handlers := &jobs.Handlers{
		Logger:  logger,
		Status:  statusService,
		Sweeper: ledgerRepo,
	}

	passTask, err := jobs.NewStatusPassTask(jobs.StatusPassPayload{})
	if err != nil {
		logger.Error("build status pass task", slog.Any("error", err))
		os.Exit(1)
	}
	sweepTask, err := jobs.NewStagingSweepTask(jobs.StagingSweepPayload{Retention: cfg.StagingRetention})
	if err != nil {
		logger.Error("build staging sweep task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStatusPass, Handler: handlers.HandleStatusPass},
			{Type: jobs.TaskStagingSweep, Handler: handlers.HandleStagingSweep},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.StatusPassCron, Task: passTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: cfg.StagingSweepCron, Task: sweepTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker starting")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}
