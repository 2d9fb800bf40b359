package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lumonpay/lumonpay/internal/money"
)

// Dedup keys fingerprint a ledger entry so re-imported rows can be
// recognized across sources. A non-empty reference number is the
// strongest natural identity; rows without one (common in legacy and
// manual data) fall back to a weaker composite of amount and running
// balance. Two genuinely distinct zero-amount, same-day, reference-less
// payments collide under the fallback. That approximation is accepted:
// tightening it would change historical import counts.

// DedupKey derives the deterministic identity key for an entry's
// natural-key fields. Timestamps that differ only by time of day
// produce the same key.
func DedupKey(loanCycleNo string, paymentDate time.Time, referenceNo string, collectionPayment, runningBalance decimal.Decimal) string {
	day := dayKey(paymentDate)
	amount := money.Fixed2(collectionPayment)

	ref := strings.TrimSpace(referenceNo)
	if ref != "" {
		return loanCycleNo + "|REF|" + ref + "|" + day + "|" + amount
	}
	return loanCycleNo + "|ALT|" + day + "|" + amount + "|" + money.Fixed2(runningBalance)
}

// EntryKey fingerprints an existing ledger entry.
func EntryKey(e Entry) string {
	return DedupKey(e.LoanCycleNo, e.PaymentDate, e.ReferenceNo, e.CollectionPayment, e.RunningBalance)
}

// CandidateKey fingerprints a candidate row against a target loan cycle.
func CandidateKey(loanCycleNo string, c Candidate) string {
	return DedupKey(loanCycleNo, c.PaymentDate, c.ReferenceNo, c.CollectionPayment, c.RunningBalance)
}

// dayKey normalizes a timestamp to its UTC calendar day. The zero time
// (unparseable source dates) renders as 0001-01-01 and still
// participates deterministically.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
