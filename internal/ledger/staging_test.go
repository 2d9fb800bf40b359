package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumonpay/lumonpay/internal/shared"
)

func stagedRows(n int) []StagedRowInput {
	rows := make([]StagedRowInput, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, StagedRowInput{
			PaymentDate:       day(2024, 4, 1+i),
			ReferenceNo:       "OR-" + string(rune('A'+i)),
			CollectionPayment: d("300"),
			RunningBalance:    d("7000"),
			RawLine:           "raw line",
		})
	}
	return rows
}

func TestStageValidation(t *testing.T) {
	staging := NewStaging(testLogger(), testCycles(), &memoryLedgerRepo{})

	_, err := staging.Stage(context.Background(), "", stagedRows(1))
	require.ErrorIs(t, err, shared.ErrInvalidInput)

	_, err = staging.Stage(context.Background(), "LC-001", nil)
	require.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestStageThenCommit(t *testing.T) {
	repo := &memoryLedgerRepo{}
	staging := NewStaging(testLogger(), testCycles(), repo)

	staged, err := staging.Stage(context.Background(), "LC-001", stagedRows(5))
	require.NoError(t, err)
	require.Equal(t, 5, staged.Staged)
	require.NotEmpty(t, staged.BatchID)

	res, err := staging.Commit(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Equal(t, 5, res.Imported)
	require.False(t, res.NothingPending)

	entries, err := repo.ListEntries(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, e := range entries {
		require.Equal(t, SourceImported, e.Source)
		require.Equal(t, "ACC-77", e.AccountNo)
		require.Equal(t, "CL-010", e.ClientNo)
	}

	pending, err := repo.ListPendingStaged(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Empty(t, pending)
}

func TestCommitNothingPending(t *testing.T) {
	staging := NewStaging(testLogger(), testCycles(), &memoryLedgerRepo{})

	res, err := staging.Commit(context.Background(), "LC-001")
	require.NoError(t, err)
	require.True(t, res.NothingPending)
	require.Zero(t, res.Imported)
}

func TestCommitUnknownLoan(t *testing.T) {
	staging := NewStaging(testLogger(), testCycles(), &memoryLedgerRepo{})

	_, err := staging.Commit(context.Background(), "LC-404")
	require.ErrorIs(t, err, shared.ErrNotFound)
}

// A second staging of the same rows commits again without dedup; only
// the storage unique index pushes the duplicates into the failed count.
func TestCommitSkipsDedupCheck(t *testing.T) {
	repo := &memoryLedgerRepo{}
	staging := NewStaging(testLogger(), testCycles(), repo)

	_, err := staging.Stage(context.Background(), "LC-001", stagedRows(2))
	require.NoError(t, err)
	first, err := staging.Commit(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Equal(t, 2, first.Imported)

	_, err = staging.Stage(context.Background(), "LC-001", stagedRows(2))
	require.NoError(t, err)
	second, err := staging.Commit(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Zero(t, second.Imported)
	require.Equal(t, 2, second.Failed)
}

// The retention sweep discards stale uncommitted rows only; committed
// rows stay for audit.
func TestDeleteStaleStagedSweepsAbandonedRows(t *testing.T) {
	repo := &memoryLedgerRepo{}
	staging := NewStaging(testLogger(), testCycles(), repo)

	_, err := staging.Stage(context.Background(), "LC-001", stagedRows(3))
	require.NoError(t, err)
	_, err = staging.Commit(context.Background(), "LC-001")
	require.NoError(t, err)

	_, err = staging.Stage(context.Background(), "LC-001", stagedRows(2))
	require.NoError(t, err)

	removed, err := repo.DeleteStaleStaged(context.Background(), time.Now().Add(time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 2, removed)

	pending, err := repo.ListPendingStaged(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Empty(t, pending)
	require.Len(t, repo.staged, 3)
	for _, row := range repo.staged {
		require.True(t, row.Imported)
	}
}

func TestDeleteStaleStagedKeepsFreshPending(t *testing.T) {
	repo := &memoryLedgerRepo{}
	staging := NewStaging(testLogger(), testCycles(), repo)

	_, err := staging.Stage(context.Background(), "LC-001", stagedRows(1))
	require.NoError(t, err)

	removed, err := repo.DeleteStaleStaged(context.Background(), time.Now().Add(-time.Hour))
	require.NoError(t, err)
	require.Zero(t, removed)

	pending, err := repo.ListPendingStaged(context.Background(), "LC-001")
	require.NoError(t, err)
	require.Len(t, pending, 1)
}
