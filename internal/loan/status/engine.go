// Package status computes automated loan lifecycle statuses and applies
// them back to loan cycle records.
package status

import (
	"fmt"
	"time"

	"github.com/lumonpay/lumonpay/internal/loan"
)

// Thresholds configures the temporal policy of the derivation engine.
// All values are day counts.
type Thresholds struct {
	DormantDays                 int `envconfig:"STATUS_DORMANT_DAYS" default:"365"`
	LitigationDaysAfterMaturity int `envconfig:"STATUS_LITIGATION_DAYS" default:"180"`
	PastDueDaysAfterMaturity    int `envconfig:"STATUS_PAST_DUE_DAYS" default:"7"`
	ArrearsDaily                int `envconfig:"STATUS_ARREARS_DAILY" default:"3"`
	ArrearsWeekly               int `envconfig:"STATUS_ARREARS_WEEKLY" default:"7"`
	ArrearsSemiMonthly          int `envconfig:"STATUS_ARREARS_SEMI_MONTHLY" default:"15"`
	ArrearsMonthly              int `envconfig:"STATUS_ARREARS_MONTHLY" default:"30"`
}

// DefaultThresholds returns the stock policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		DormantDays:                 365,
		LitigationDaysAfterMaturity: 180,
		PastDueDaysAfterMaturity:    7,
		ArrearsDaily:                3,
		ArrearsWeekly:               7,
		ArrearsSemiMonthly:          15,
		ArrearsMonthly:              30,
	}
}

// Override carries per-invocation threshold replacements. Nil fields
// keep the base value.
type Override struct {
	DormantDays                 *int `json:"dormantDays,omitempty"`
	LitigationDaysAfterMaturity *int `json:"litigationDaysAfterMaturity,omitempty"`
	PastDueDaysAfterMaturity    *int `json:"pastDueDaysAfterMaturity,omitempty"`
	ArrearsDaily                *int `json:"arrearsDailyDays,omitempty"`
	ArrearsWeekly               *int `json:"arrearsWeeklyDays,omitempty"`
	ArrearsSemiMonthly          *int `json:"arrearsSemiMonthlyDays,omitempty"`
	ArrearsMonthly              *int `json:"arrearsMonthlyDays,omitempty"`
}

// Apply merges an override into a copy of t.
func (t Thresholds) Apply(o *Override) Thresholds {
	if o == nil {
		return t
	}
	if o.DormantDays != nil {
		t.DormantDays = *o.DormantDays
	}
	if o.LitigationDaysAfterMaturity != nil {
		t.LitigationDaysAfterMaturity = *o.LitigationDaysAfterMaturity
	}
	if o.PastDueDaysAfterMaturity != nil {
		t.PastDueDaysAfterMaturity = *o.PastDueDaysAfterMaturity
	}
	if o.ArrearsDaily != nil {
		t.ArrearsDaily = *o.ArrearsDaily
	}
	if o.ArrearsWeekly != nil {
		t.ArrearsWeekly = *o.ArrearsWeekly
	}
	if o.ArrearsSemiMonthly != nil {
		t.ArrearsSemiMonthly = *o.ArrearsSemiMonthly
	}
	if o.ArrearsMonthly != nil {
		t.ArrearsMonthly = *o.ArrearsMonthly
	}
	return t
}

// arrearsThreshold selects the payment-mode-specific arrears day count.
func (t Thresholds) arrearsThreshold(mode loan.PaymentMode) int {
	switch mode {
	case loan.ModeDaily:
		return t.ArrearsDaily
	case loan.ModeWeekly:
		return t.ArrearsWeekly
	case loan.ModeSemiMonthly:
		return t.ArrearsSemiMonthly
	default:
		return t.ArrearsMonthly
	}
}

// Snapshot is the per-cycle input to classification.
type Snapshot struct {
	Status         loan.Status
	PaymentMode    loan.PaymentMode
	MaturityDate   *time.Time
	LastCollection *time.Time
}

// Classify derives the automated status for one loan cycle as of now.
// ok is false when the cycle is exempt (stored CLOSED is sticky) or no
// classification applies.
//
// Decision order, first match wins: dormancy (total abandonment)
// preempts the maturity-relative states, and litigation preempts past
// due since both can only hold together past the longer threshold.
func Classify(now time.Time, t Thresholds, s Snapshot) (status loan.Status, reason string, ok bool) {
	if s.Status.IsClosed() {
		return "", "", false
	}

	if s.LastCollection == nil {
		return loan.StatusDormant, "no collection ever recorded", true
	}
	daysSince := daysBetween(*s.LastCollection, now)
	if daysSince >= t.DormantDays {
		return loan.StatusDormant, fmt.Sprintf("last collection %d days ago", daysSince), true
	}

	if s.MaturityDate != nil && !s.LastCollection.After(*s.MaturityDate) {
		// The grace windows end the moment now passes maturity plus the
		// threshold, not a whole truncated day later.
		daysPastMaturity := daysBetween(*s.MaturityDate, now)
		if now.After(s.MaturityDate.AddDate(0, 0, t.LitigationDaysAfterMaturity)) {
			return loan.StatusLitigation, fmt.Sprintf("%d days past maturity without payment", daysPastMaturity), true
		}
		if now.After(s.MaturityDate.AddDate(0, 0, t.PastDueDaysAfterMaturity)) {
			return loan.StatusPastDue, fmt.Sprintf("%d days past maturity without payment", daysPastMaturity), true
		}
	}

	if daysSince >= t.arrearsThreshold(s.PaymentMode) {
		return loan.StatusArrears, fmt.Sprintf("last collection %d days ago", daysSince), true
	}
	return loan.StatusUpdated, "", true
}

// daysBetween counts whole days from an earlier instant to now.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
