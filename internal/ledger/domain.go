package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source is the closed set of provenance tags for ledger entries. A
// free string here would let typos fragment provenance reporting.
type Source string

const (
	SourceManual   Source = "manual"
	SourceImported Source = "imported"
	SourceUpload   Source = "upload"
	SourceDBImport Source = "database-import"
)

// Entry is one recorded payment/collection event against a loan cycle.
// Entries are never mutated after creation; correction is an explicit
// delete plus re-insert.
type Entry struct {
	ID                int64           `json:"id"`
	LoanCycleNo       string          `json:"loanCycleNo"`
	AccountNo         string          `json:"accountNo"`
	ClientNo          string          `json:"clientNo"`
	PaymentDate       time.Time       `json:"paymentDate"`
	Collector         string          `json:"collector,omitempty"`
	PaymentMode       string          `json:"paymentMode,omitempty"`
	ReferenceNo       string          `json:"collectionReferenceNo"`
	Amortization      decimal.Decimal `json:"amortization"`
	PrincipalPaid     decimal.Decimal `json:"principalPaid"`
	InterestPaid      decimal.Decimal `json:"interestPaid"`
	Penalty           decimal.Decimal `json:"penalty"`
	CollectionPayment decimal.Decimal `json:"collectionPayment"`
	RunningBalance    decimal.Decimal `json:"runningBalance"`
	Source            Source          `json:"source"`
	CreatedAt         time.Time       `json:"createdAt"`
}

// EntryInput carries fields for inserting a ledger entry.
type EntryInput struct {
	LoanCycleNo       string
	AccountNo         string
	ClientNo          string
	PaymentDate       time.Time
	Collector         string
	PaymentMode       string
	ReferenceNo       string
	Amortization      decimal.Decimal
	PrincipalPaid     decimal.Decimal
	InterestPaid      decimal.Decimal
	Penalty           decimal.Decimal
	CollectionPayment decimal.Decimal
	RunningBalance    decimal.Decimal
	Source            Source
}

// StagedRow is a parsed-but-unconfirmed ledger row awaiting commit. The
// raw source line is retained for audit.
type StagedRow struct {
	ID                int64
	BatchID           string
	LoanNo            string
	PaymentDate       time.Time
	ReferenceNo       string
	CollectionPayment decimal.Decimal
	RunningBalance    decimal.Decimal
	Penalty           decimal.Decimal
	RawLine           string
	Imported          bool
	CreatedAt         time.Time
}

// StagedRowInput carries one parsed row into the staging area.
type StagedRowInput struct {
	PaymentDate       time.Time
	ReferenceNo       string
	CollectionPayment decimal.Decimal
	RunningBalance    decimal.Decimal
	Penalty           decimal.Decimal
	RawLine           string
}

// Candidate is an externally sourced row offered to the reconciler.
// Account and client identifiers are derived from the resolved loan
// cycle, never taken from the candidate itself.
type Candidate struct {
	PaymentDate       time.Time
	Collector         string
	PaymentMode       string
	ReferenceNo       string
	Amortization      decimal.Decimal
	PrincipalPaid     decimal.Decimal
	InterestPaid      decimal.Decimal
	Penalty           decimal.Decimal
	CollectionPayment decimal.Decimal
	RunningBalance    decimal.Decimal
}
