package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/shared"
)

const pgUniqueViolation = "23505"

// Repository provides PostgreSQL backed persistence for ledger entries
// and staged import rows.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, loan_cycle_no, account_no, client_no, payment_date, collector,
	payment_mode, reference_no, amortization, principal_paid, interest_paid,
	penalty, collection_payment, running_balance, source, created_at`

// ListEntries returns the ledger for a loan cycle ordered by payment
// date ascending.
func (r *Repository) ListEntries(ctx context.Context, loanCycleNo string) ([]Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE loan_cycle_no = $1
		ORDER BY payment_date ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, loanCycleNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// LastEntry returns the most recent ledger entry for a loan cycle, or
// nil when the cycle has no entries.
func (r *Repository) LastEntry(ctx context.Context, loanCycleNo string) (*Entry, error) {
	query := `SELECT ` + entryColumns + `
		FROM ledger_entries
		WHERE loan_cycle_no = $1
		ORDER BY payment_date DESC, id DESC
		LIMIT 1`

	e, err := scanEntry(r.pool.QueryRow(ctx, query, loanCycleNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// InsertEntries bulk-inserts ledger entries. Individual row failures do
// not abort the batch: uniqueness conflicts from concurrent imports and
// other per-row errors are counted as failed while siblings proceed.
func (r *Repository) InsertEntries(ctx context.Context, inputs []EntryInput) (inserted, failed int, err error) {
	query := `
		INSERT INTO ledger_entries (
			loan_cycle_no, account_no, client_no, payment_date, collector,
			payment_mode, reference_no, amortization, principal_paid,
			interest_paid, penalty, collection_payment, running_balance,
			source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW())`

	for _, in := range inputs {
		_, execErr := r.pool.Exec(ctx, query,
			in.LoanCycleNo,
			in.AccountNo,
			in.ClientNo,
			in.PaymentDate,
			in.Collector,
			in.PaymentMode,
			in.ReferenceNo,
			in.Amortization.String(),
			in.PrincipalPaid.String(),
			in.InterestPaid.String(),
			in.Penalty.String(),
			in.CollectionPayment.String(),
			in.RunningBalance.String(),
			string(in.Source),
		)
		if execErr != nil {
			var pgErr *pgconn.PgError
			if errors.As(execErr, &pgErr) && pgErr.Code == pgUniqueViolation {
				failed++
				continue
			}
			if ctx.Err() != nil {
				return inserted, failed, ctx.Err()
			}
			failed++
			continue
		}
		inserted++
	}
	return inserted, failed, nil
}

// DeleteEntry removes a single ledger entry by explicit admin action.
func (r *Repository) DeleteEntry(ctx context.Context, id int64) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("ledger entry %d: %w", id, shared.ErrNotFound)
	}
	return nil
}

// --- Staged rows ---

// InsertStagedRows persists parsed rows awaiting commit.
func (r *Repository) InsertStagedRows(ctx context.Context, batchID, loanNo string, rows []StagedRowInput) (int, error) {
	query := `
		INSERT INTO staged_ledger_rows (
			batch_id, loan_no, payment_date, reference_no, collection_payment,
			running_balance, penalty, raw_line, imported, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, FALSE, NOW())`

	staged := 0
	for _, row := range rows {
		_, err := r.pool.Exec(ctx, query,
			batchID,
			loanNo,
			row.PaymentDate,
			row.ReferenceNo,
			row.CollectionPayment.String(),
			row.RunningBalance.String(),
			row.Penalty.String(),
			row.RawLine,
		)
		if err != nil {
			return staged, err
		}
		staged++
	}
	return staged, nil
}

// ListPendingStaged returns uncommitted staged rows for a loan number.
func (r *Repository) ListPendingStaged(ctx context.Context, loanNo string) ([]StagedRow, error) {
	query := `
		SELECT id, batch_id, loan_no, payment_date, reference_no,
			collection_payment, running_balance, penalty, raw_line, imported, created_at
		FROM staged_ledger_rows
		WHERE loan_no = $1 AND imported = FALSE
		ORDER BY id ASC`

	rows, err := r.pool.Query(ctx, query, loanNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var staged []StagedRow
	for rows.Next() {
		var s StagedRow
		var payment, balance, penalty pgtype.Numeric
		err := rows.Scan(
			&s.ID, &s.BatchID, &s.LoanNo, &s.PaymentDate, &s.ReferenceNo,
			&payment, &balance, &penalty, &s.RawLine, &s.Imported, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		s.CollectionPayment = numericToDecimal(payment)
		s.RunningBalance = numericToDecimal(balance)
		s.Penalty = numericToDecimal(penalty)
		staged = append(staged, s)
	}
	return staged, rows.Err()
}

// MarkStagedImported flips all pending staged rows for a loan number to
// imported.
func (r *Repository) MarkStagedImported(ctx context.Context, loanNo string) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`UPDATE staged_ledger_rows SET imported = TRUE WHERE loan_no = $1 AND imported = FALSE`,
		loanNo,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

// DeleteStaleStaged removes uncommitted staged rows created before the
// cutoff. Committed rows are kept for audit.
func (r *Repository) DeleteStaleStaged(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM staged_ledger_rows WHERE imported = FALSE AND created_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	var source string
	var amortization, principalPaid, interestPaid, penalty, payment, balance pgtype.Numeric

	err := row.Scan(
		&e.ID, &e.LoanCycleNo, &e.AccountNo, &e.ClientNo, &e.PaymentDate, &e.Collector,
		&e.PaymentMode, &e.ReferenceNo, &amortization, &principalPaid, &interestPaid,
		&penalty, &payment, &balance, &source, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Source = Source(source)
	e.Amortization = numericToDecimal(amortization)
	e.PrincipalPaid = numericToDecimal(principalPaid)
	e.InterestPaid = numericToDecimal(interestPaid)
	e.Penalty = numericToDecimal(penalty)
	e.CollectionPayment = numericToDecimal(payment)
	e.RunningBalance = numericToDecimal(balance)
	return &e, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}
