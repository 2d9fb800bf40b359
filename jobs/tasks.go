package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/lumonpay/lumonpay/internal/ledger"
	"github.com/lumonpay/lumonpay/internal/loan/status"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStatusPass runs the nightly automated status pass.
	TaskStatusPass = "status:pass"
	// TaskStagingSweep discards stale uncommitted staged rows.
	TaskStagingSweep = "ledger:staging:sweep"
)

// StatusPassPayload configures an automated status pass run.
type StatusPassPayload struct {
	Thresholds *status.Override `json:"thresholds,omitempty"`
	Filter     status.Filter    `json:"filter,omitempty"`
}

// NewStatusPassTask constructs an Asynq task.
func NewStatusPassTask(payload StatusPassPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStatusPass, data), nil
}

// StagingSweepPayload configures a staged-row cleanup run.
type StagingSweepPayload struct {
	Retention time.Duration `json:"retention"`
}

// NewStagingSweepTask constructs an Asynq task.
func NewStagingSweepTask(payload StagingSweepPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStagingSweep, data), nil
}

// StagingSweeper is the subset of the ledger repository the sweep uses.
type StagingSweeper interface {
	DeleteStaleStaged(ctx context.Context, cutoff time.Time) (int64, error)
}

// Handlers adapts domain services to Asynq task handlers.
type Handlers struct {
	Logger  *slog.Logger
	Status  *status.Service
	Sweeper StagingSweeper
}

// HandleStatusPass processes TaskStatusPass tasks.
func (h *Handlers) HandleStatusPass(ctx context.Context, t *asynq.Task) error {
	var payload StatusPassPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	result, err := h.Status.Pass(ctx, status.PassRequest{
		Thresholds: payload.Thresholds,
		Filter:     payload.Filter,
	})
	if err != nil {
		return err
	}
	h.Logger.Info("scheduled status pass",
		slog.Int("computed", result.Computed),
		slog.Int("changed", result.Changed))
	return nil
}

// HandleStagingSweep processes TaskStagingSweep tasks.
func (h *Handlers) HandleStagingSweep(ctx context.Context, t *asynq.Task) error {
	var payload StagingSweepPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Retention <= 0 {
		payload.Retention = 30 * 24 * time.Hour
	}
	removed, err := h.Sweeper.DeleteStaleStaged(ctx, time.Now().Add(-payload.Retention))
	if err != nil {
		return err
	}
	h.Logger.Info("staging sweep", slog.Int64("removed", removed))
	return nil
}

var _ StagingSweeper = (*ledger.Repository)(nil)
