package loan

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status enumerates loan cycle statuses. The persisted column is free
// text (manually set values survive round trips untouched), but the
// automated pass only ever assigns one of the values below.
type Status string

const (
	StatusDormant    Status = "DORMANT"
	StatusArrears    Status = "ARREARS"
	StatusPastDue    Status = "PAST DUE"
	StatusLitigation Status = "LITIGATION"
	StatusUpdated    Status = "UPDATED"
	StatusClosed     Status = "CLOSED"
)

// Automated reports whether s is one of the system-computed statuses.
func (s Status) Automated() bool {
	switch s {
	case StatusDormant, StatusArrears, StatusPastDue, StatusLitigation, StatusUpdated:
		return true
	}
	return false
}

// IsClosed reports whether s is the sticky terminal CLOSED status.
// Stored values are free text, so the comparison tolerates case and
// surrounding whitespace.
func (s Status) IsClosed() bool {
	return strings.EqualFold(strings.TrimSpace(string(s)), string(StatusClosed))
}

// PaymentMode enumerates collection schedules.
type PaymentMode string

const (
	ModeDaily       PaymentMode = "DAILY"
	ModeWeekly      PaymentMode = "WEEKLY"
	ModeSemiMonthly PaymentMode = "SEMI-MONTHLY"
	ModeMonthly     PaymentMode = "MONTHLY"
)

// NormalizeMode canonicalizes a stored payment mode string. Unrecognized
// modes fall back to MONTHLY, which carries the most lenient arrears
// threshold.
func NormalizeMode(raw string) PaymentMode {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DAILY":
		return ModeDaily
	case "WEEKLY":
		return ModeWeekly
	case "SEMI-MONTHLY", "SEMIMONTHLY", "SEMI MONTHLY":
		return ModeSemiMonthly
	default:
		return ModeMonthly
	}
}

// Cycle is one origination of credit for a client.
type Cycle struct {
	ID               int64           `json:"id"`
	AccountNo        string          `json:"accountNo"`
	ClientNo         string          `json:"clientNo"`
	LoanCycleNo      string          `json:"loanCycleNo"`
	LoanType         string          `json:"loanType"`
	Status           Status          `json:"status"`
	AutomatedReason  string          `json:"automatedReason,omitempty"`
	PaymentMode      PaymentMode     `json:"paymentMode"`
	LoanAmount       decimal.Decimal `json:"loanAmount"`
	Principal        decimal.Decimal `json:"principal"`
	LoanBalance      decimal.Decimal `json:"loanBalance"`
	LoanAmortization decimal.Decimal `json:"loanAmortization"`
	Penalty          decimal.Decimal `json:"penalty"`
	MaturityDate     *time.Time      `json:"maturityDate,omitempty"`
	StartPaymentDate *time.Time      `json:"startPaymentDate,omitempty"`
	Collector        string          `json:"collector"`
	ProcessStatus    string          `json:"processStatus"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// CycleInput carries fields for creating or updating a loan cycle.
type CycleInput struct {
	AccountNo        string
	ClientNo         string
	LoanCycleNo      string
	LoanType         string
	Status           Status
	PaymentMode      PaymentMode
	LoanAmount       decimal.Decimal
	Principal        decimal.Decimal
	LoanBalance      decimal.Decimal
	LoanAmortization decimal.Decimal
	Penalty          decimal.Decimal
	MaturityDate     *time.Time
	StartPaymentDate *time.Time
	Collector        string
	ProcessStatus    string
}

// ListCyclesRequest filters the loan cycle list.
type ListCyclesRequest struct {
	Status        Status
	Collector     string
	ProcessStatus string
	ClientNo      string
	FromDate      time.Time
	ToDate        time.Time
	Limit         int
	Offset        int
}
