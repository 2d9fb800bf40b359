package loan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/platform/db"
	"github.com/lumonpay/lumonpay/internal/shared"
)

// Repository provides PostgreSQL backed persistence for loan cycles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const cycleColumns = `id, account_no, client_no, loan_cycle_no, loan_type, loan_status,
	automated_reason, payment_mode, loan_amount, principal, loan_balance,
	loan_amortization, penalty, maturity_date, start_payment_date,
	collector, process_status, created_at, updated_at`

// CreateCycle inserts a new loan cycle.
func (r *Repository) CreateCycle(ctx context.Context, input CycleInput) (*Cycle, error) {
	query := `
		INSERT INTO loan_cycles (
			account_no, client_no, loan_cycle_no, loan_type, loan_status,
			payment_mode, loan_amount, principal, loan_balance,
			loan_amortization, penalty, maturity_date, start_payment_date,
			collector, process_status, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var c Cycle
	err := r.pool.QueryRow(ctx, query,
		input.AccountNo,
		input.ClientNo,
		input.LoanCycleNo,
		input.LoanType,
		string(input.Status),
		string(input.PaymentMode),
		input.LoanAmount.String(),
		input.Principal.String(),
		input.LoanBalance.String(),
		input.LoanAmortization.String(),
		input.Penalty.String(),
		timestampOrNil(input.MaturityDate),
		timestampOrNil(input.StartPaymentDate),
		input.Collector,
		input.ProcessStatus,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.AccountNo = input.AccountNo
	c.ClientNo = input.ClientNo
	c.LoanCycleNo = input.LoanCycleNo
	c.LoanType = input.LoanType
	c.Status = input.Status
	c.PaymentMode = input.PaymentMode
	c.LoanAmount = input.LoanAmount
	c.Principal = input.Principal
	c.LoanBalance = input.LoanBalance
	c.LoanAmortization = input.LoanAmortization
	c.Penalty = input.Penalty
	c.MaturityDate = input.MaturityDate
	c.StartPaymentDate = input.StartPaymentDate
	c.Collector = input.Collector
	c.ProcessStatus = input.ProcessStatus

	return &c, nil
}

// GetCycleByNo retrieves a loan cycle by its unique cycle number.
func (r *Repository) GetCycleByNo(ctx context.Context, loanCycleNo string) (*Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM loan_cycles WHERE loan_cycle_no = $1`

	c, err := scanCycle(r.pool.QueryRow(ctx, query, loanCycleNo))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loan cycle %q: %w", loanCycleNo, shared.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCycles returns loan cycles with optional filtering.
func (r *Repository) ListCycles(ctx context.Context, req ListCyclesRequest) ([]Cycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM loan_cycles WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.Status != "" {
		query += fmt.Sprintf(" AND loan_status = $%d", argNum)
		args = append(args, string(req.Status))
		argNum++
	}
	if req.Collector != "" {
		query += fmt.Sprintf(" AND collector = $%d", argNum)
		args = append(args, req.Collector)
		argNum++
	}
	if req.ProcessStatus != "" {
		query += fmt.Sprintf(" AND process_status = $%d", argNum)
		args = append(args, req.ProcessStatus)
		argNum++
	}
	if req.ClientNo != "" {
		query += fmt.Sprintf(" AND client_no = $%d", argNum)
		args = append(args, req.ClientNo)
		argNum++
	}
	if !req.FromDate.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argNum)
		args = append(args, req.FromDate)
		argNum++
	}
	if !req.ToDate.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argNum)
		args = append(args, req.ToDate)
		argNum++
	}

	query += " ORDER BY created_at DESC"

	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, req.Limit)
		argNum++
	}
	if req.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cycles []Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, *c)
	}
	return cycles, rows.Err()
}

// CountCycles returns how many loan cycles match the filter.
func (r *Repository) CountCycles(ctx context.Context, req ListCyclesRequest) (int, error) {
	query := `SELECT COUNT(*) FROM loan_cycles WHERE 1=1`

	args := []any{}
	argNum := 1

	if req.Status != "" {
		query += fmt.Sprintf(" AND loan_status = $%d", argNum)
		args = append(args, string(req.Status))
		argNum++
	}
	if req.Collector != "" {
		query += fmt.Sprintf(" AND collector = $%d", argNum)
		args = append(args, req.Collector)
		argNum++
	}
	if req.ProcessStatus != "" {
		query += fmt.Sprintf(" AND process_status = $%d", argNum)
		args = append(args, req.ProcessStatus)
		argNum++
	}
	if req.ClientNo != "" {
		query += fmt.Sprintf(" AND client_no = $%d", argNum)
		args = append(args, req.ClientNo)
	}

	var count int
	err := r.pool.QueryRow(ctx, query, args...).Scan(&count)
	return count, err
}

// UpdateCycle applies a manual edit to a loan cycle.
func (r *Repository) UpdateCycle(ctx context.Context, loanCycleNo string, input CycleInput) (*Cycle, error) {
	query := `
		UPDATE loan_cycles SET
			account_no = $2, client_no = $3, loan_type = $4, loan_status = $5,
			payment_mode = $6, loan_amount = $7, principal = $8, loan_balance = $9,
			loan_amortization = $10, penalty = $11, maturity_date = $12,
			start_payment_date = $13, collector = $14, process_status = $15,
			updated_at = NOW()
		WHERE loan_cycle_no = $1`

	result, err := r.pool.Exec(ctx, query,
		loanCycleNo,
		input.AccountNo,
		input.ClientNo,
		input.LoanType,
		string(input.Status),
		string(input.PaymentMode),
		input.LoanAmount.String(),
		input.Principal.String(),
		input.LoanBalance.String(),
		input.LoanAmortization.String(),
		input.Penalty.String(),
		timestampOrNil(input.MaturityDate),
		timestampOrNil(input.StartPaymentDate),
		input.Collector,
		input.ProcessStatus,
	)
	if err != nil {
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, fmt.Errorf("loan cycle %q: %w", loanCycleNo, shared.ErrNotFound)
	}
	return r.GetCycleByNo(ctx, loanCycleNo)
}

// DeleteCycle removes a loan cycle together with its ledger entries and
// staged rows. Deletion is an explicit admin action; the cascade runs
// in one transaction so a partial delete never leaves orphan entries.
func (r *Repository) DeleteCycle(ctx context.Context, loanCycleNo string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM ledger_entries WHERE loan_cycle_no = $1`, loanCycleNo); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM staged_ledger_rows WHERE loan_no = $1`, loanCycleNo); err != nil {
			return err
		}
		result, err := tx.Exec(ctx, `DELETE FROM loan_cycles WHERE loan_cycle_no = $1`, loanCycleNo)
		if err != nil {
			return err
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("loan cycle %q: %w", loanCycleNo, shared.ErrNotFound)
		}
		return nil
	})
}

func scanCycle(row pgx.Row) (*Cycle, error) {
	var c Cycle
	var status, mode string
	var automatedReason pgtype.Text
	var loanAmount, principal, balance, amortization, penalty pgtype.Numeric
	var maturity, startPayment pgtype.Timestamptz

	err := row.Scan(
		&c.ID, &c.AccountNo, &c.ClientNo, &c.LoanCycleNo, &c.LoanType, &status,
		&automatedReason, &mode, &loanAmount, &principal, &balance,
		&amortization, &penalty, &maturity, &startPayment,
		&c.Collector, &c.ProcessStatus, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Status = Status(status)
	c.PaymentMode = NormalizeMode(mode)
	c.AutomatedReason = automatedReason.String
	c.LoanAmount = numericToDecimal(loanAmount)
	c.Principal = numericToDecimal(principal)
	c.LoanBalance = numericToDecimal(balance)
	c.LoanAmortization = numericToDecimal(amortization)
	c.Penalty = numericToDecimal(penalty)
	if maturity.Valid {
		c.MaturityDate = &maturity.Time
	}
	if startPayment.Valid {
		c.StartPaymentDate = &startPayment.Time
	}
	return &c, nil
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid || n.Int == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(n.Int, n.Exp)
}

func timestampOrNil(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
