package status

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/loan"
)

// Repository provides PostgreSQL backed access for the status pass.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListSnapshots returns every loan cycle in scope joined with its most
// recent ledger entry. The last-collection date falls back to the
// entry's created_at when the payment date is absent.
func (r *Repository) ListSnapshots(ctx context.Context, filter Filter) ([]CycleSnapshot, error) {
	query := `
		SELECT lc.loan_cycle_no, lc.loan_status, lc.payment_mode, lc.maturity_date,
			COALESCE(le.payment_date, le.created_at) AS last_collection,
			le.running_balance, le.collection_payment, le.penalty
		FROM loan_cycles lc
		LEFT JOIN LATERAL (
			SELECT payment_date, created_at, running_balance, collection_payment, penalty
			FROM ledger_entries
			WHERE loan_cycle_no = lc.loan_cycle_no
			ORDER BY payment_date DESC, id DESC
			LIMIT 1
		) le ON TRUE
		WHERE 1=1`

	args := []any{}
	argNum := 1

	if filter.ClientNo != "" {
		query += fmt.Sprintf(" AND lc.client_no = $%d", argNum)
		args = append(args, filter.ClientNo)
		argNum++
	}
	if filter.Collector != "" {
		query += fmt.Sprintf(" AND lc.collector = $%d", argNum)
		args = append(args, filter.Collector)
		argNum++
	}
	if filter.LoanType != "" {
		query += fmt.Sprintf(" AND lc.loan_type = $%d", argNum)
		args = append(args, filter.LoanType)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []CycleSnapshot
	for rows.Next() {
		var snap CycleSnapshot
		var statusText, modeText string
		var maturity, lastCollection pgtype.Timestamptz
		var balance, payment, penalty pgtype.Numeric

		err := rows.Scan(
			&snap.LoanCycleNo, &statusText, &modeText, &maturity,
			&lastCollection, &balance, &payment, &penalty,
		)
		if err != nil {
			return nil, err
		}

		snap.Status = loan.Status(statusText)
		snap.PaymentMode = loan.NormalizeMode(modeText)
		if maturity.Valid {
			snap.MaturityDate = &maturity.Time
		}
		if lastCollection.Valid {
			snap.LastCollection = &lastCollection.Time
		}
		snap.LastBalance = numericPtr(balance)
		snap.LastPayment = numericPtr(payment)
		snap.LastPenalty = numericPtr(penalty)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// ApplyUpdates writes staged updates back to loan cycles. Row failures
// are isolated; the batch continues.
func (r *Repository) ApplyUpdates(ctx context.Context, updates []Update) (applied, failed int, err error) {
	for _, u := range updates {
		set := "updated_at = NOW()"
		args := []any{u.LoanCycleNo}
		argNum := 2

		if u.Status != nil {
			set += fmt.Sprintf(", loan_status = $%d, automated_reason = $%d", argNum, argNum+1)
			args = append(args, string(*u.Status), u.Reason)
			argNum += 2
		}
		if u.Balance != nil {
			set += fmt.Sprintf(", loan_balance = $%d", argNum)
			args = append(args, u.Balance.String())
			argNum++
		}
		if u.Amortization != nil {
			set += fmt.Sprintf(", loan_amortization = $%d", argNum)
			args = append(args, u.Amortization.String())
			argNum++
		}
		if u.Penalty != nil {
			set += fmt.Sprintf(", penalty = $%d", argNum)
			args = append(args, u.Penalty.String())
		}

		query := "UPDATE loan_cycles SET " + set + " WHERE loan_cycle_no = $1"
		if _, execErr := r.pool.Exec(ctx, query, args...); execErr != nil {
			if ctx.Err() != nil {
				return applied, failed, ctx.Err()
			}
			failed++
			continue
		}
		applied++
	}
	return applied, failed, nil
}

func numericPtr(n pgtype.Numeric) *decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return nil
	}
	d := decimal.NewFromBigInt(n.Int, n.Exp)
	return &d
}
