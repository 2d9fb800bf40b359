package status

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/lumonpay/lumonpay/internal/loan"
)

type memoryStatusRepo struct {
	snapshots  []CycleSnapshot
	applied    []Update
	lastFilter Filter
}

func (m *memoryStatusRepo) ListSnapshots(_ context.Context, filter Filter) ([]CycleSnapshot, error) {
	m.lastFilter = filter
	return m.snapshots, nil
}

func (m *memoryStatusRepo) ApplyUpdates(_ context.Context, updates []Update) (int, int, error) {
	m.applied = append(m.applied, updates...)
	return len(updates), 0, nil
}

var _ RepositoryPort = (*memoryStatusRepo)(nil)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func newPassService(repo RepositoryPort) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(logger, repo, DefaultThresholds()).WithClock(func() time.Time { return passNow })
}

func TestPassStagesStatusChange(t *testing.T) {
	repo := &memoryStatusRepo{snapshots: []CycleSnapshot{
		{
			LoanCycleNo:    "LC-001",
			Status:         loan.StatusUpdated,
			PaymentMode:    loan.ModeWeekly,
			LastCollection: daysAgo(10),
			LastBalance:    dec("8200"),
		},
	}}
	svc := newPassService(repo)

	res, err := svc.Pass(context.Background(), PassRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Computed)
	require.Equal(t, 1, res.Changed)

	require.Len(t, repo.applied, 1)
	update := repo.applied[0]
	require.Equal(t, "LC-001", update.LoanCycleNo)
	require.NotNil(t, update.Status)
	require.Equal(t, loan.StatusArrears, *update.Status)
	require.NotEmpty(t, update.Reason)
	require.NotNil(t, update.Balance)
	require.True(t, update.Balance.Equal(decimal.RequireFromString("8200")))
}

func TestPassSyncsBalancesWithoutStatusChange(t *testing.T) {
	repo := &memoryStatusRepo{snapshots: []CycleSnapshot{
		{
			LoanCycleNo:    "LC-002",
			Status:         loan.StatusUpdated,
			PaymentMode:    loan.ModeMonthly,
			LastCollection: daysAgo(5),
			LastBalance:    dec("4100"),
			LastPayment:    dec("500"),
			LastPenalty:    dec("0"),
		},
	}}
	svc := newPassService(repo)

	res, err := svc.Pass(context.Background(), PassRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Computed)
	require.Zero(t, res.Changed)

	require.Len(t, repo.applied, 1)
	update := repo.applied[0]
	require.Nil(t, update.Status)
	require.NotNil(t, update.Balance)
	require.NotNil(t, update.Amortization)
	require.NotNil(t, update.Penalty)
}

func TestPassSkipsClosedAndNoopCycles(t *testing.T) {
	repo := &memoryStatusRepo{snapshots: []CycleSnapshot{
		{
			LoanCycleNo:    "LC-003",
			Status:         loan.StatusClosed,
			PaymentMode:    loan.ModeDaily,
			LastCollection: daysAgo(900),
		},
		{
			LoanCycleNo:    "LC-004",
			Status:         loan.StatusUpdated,
			PaymentMode:    loan.ModeMonthly,
			LastCollection: daysAgo(5),
		},
	}}
	svc := newPassService(repo)

	res, err := svc.Pass(context.Background(), PassRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, res.Computed)
	require.Zero(t, res.Changed)
	require.Empty(t, repo.applied)
}

func TestPassAppliesOverridesAndFilter(t *testing.T) {
	repo := &memoryStatusRepo{snapshots: []CycleSnapshot{
		{
			LoanCycleNo:    "LC-005",
			Status:         loan.StatusUpdated,
			PaymentMode:    loan.ModeWeekly,
			LastCollection: daysAgo(3),
		},
	}}
	svc := newPassService(repo)

	weekly := 2
	res, err := svc.Pass(context.Background(), PassRequest{
		Thresholds: &Override{ArrearsWeekly: &weekly},
		Filter:     Filter{Collector: "JDELACRUZ"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Changed)
	require.Equal(t, "JDELACRUZ", repo.lastFilter.Collector)
	require.Equal(t, loan.StatusArrears, *repo.applied[0].Status)
}
