package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumonpay/lumonpay/internal/loan"
)

var passNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := passNow.AddDate(0, 0, -n)
	return &t
}

func TestClassifyClosedIsSticky(t *testing.T) {
	for _, stored := range []loan.Status{"CLOSED", "closed", " Closed "} {
		_, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
			Status:         stored,
			PaymentMode:    loan.ModeDaily,
			LastCollection: daysAgo(500),
		})
		require.False(t, ok, "stored %q", stored)
	}
}

func TestClassifyNoCollectionEver(t *testing.T) {
	status, reason, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:      loan.StatusUpdated,
		PaymentMode: loan.ModeMonthly,
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusDormant, status)
	require.NotEmpty(t, reason)
}

func TestClassifyDormantPreemptsMaturityStates(t *testing.T) {
	maturity := passNow.AddDate(0, 0, -400)
	status, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeDaily,
		MaturityDate:   &maturity,
		LastCollection: daysAgo(365),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusDormant, status)
}

func TestClassifyLitigationPastMaturity(t *testing.T) {
	maturity := passNow.AddDate(0, 0, -200)
	status, reason, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeDaily,
		MaturityDate:   &maturity,
		LastCollection: daysAgo(210),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusLitigation, status)
	require.Contains(t, reason, "200 days past maturity")
}

func TestClassifyPastDueBetweenThresholds(t *testing.T) {
	maturity := passNow.AddDate(0, 0, -30)
	status, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeMonthly,
		MaturityDate:   &maturity,
		LastCollection: daysAgo(40),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusPastDue, status)
}

func TestClassifyMaturityThresholdsUseElapsedTime(t *testing.T) {
	// Hours past the day threshold already count; a grace window does
	// not stretch to the next whole day.
	maturity := passNow.Add(-(7*24 + 5) * time.Hour)
	status, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeMonthly,
		MaturityDate:   &maturity,
		LastCollection: daysAgo(10),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusPastDue, status)

	exact := passNow.AddDate(0, 0, -7)
	status, _, ok = Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeMonthly,
		MaturityDate:   &exact,
		LastCollection: daysAgo(10),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusUpdated, status)

	litigation := passNow.Add(-(180*24 + 5) * time.Hour)
	status, _, ok = Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeMonthly,
		MaturityDate:   &litigation,
		LastCollection: daysAgo(200),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusLitigation, status)
}

func TestClassifyPaymentAfterMaturityEscapesPastDue(t *testing.T) {
	maturity := passNow.AddDate(0, 0, -30)
	status, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeMonthly,
		MaturityDate:   &maturity,
		LastCollection: daysAgo(10),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusUpdated, status)
}

func TestClassifyArrearsByPaymentMode(t *testing.T) {
	cases := []struct {
		mode    loan.PaymentMode
		lagDays int
		want    loan.Status
	}{
		{loan.ModeDaily, 2, loan.StatusUpdated},
		{loan.ModeDaily, 3, loan.StatusArrears},
		{loan.ModeWeekly, 5, loan.StatusUpdated},
		{loan.ModeWeekly, 10, loan.StatusArrears},
		{loan.ModeSemiMonthly, 14, loan.StatusUpdated},
		{loan.ModeSemiMonthly, 15, loan.StatusArrears},
		{loan.ModeMonthly, 29, loan.StatusUpdated},
		{loan.ModeMonthly, 30, loan.StatusArrears},
	}
	for _, tc := range cases {
		status, _, ok := Classify(passNow, DefaultThresholds(), Snapshot{
			Status:         loan.StatusUpdated,
			PaymentMode:    tc.mode,
			LastCollection: daysAgo(tc.lagDays),
		})
		require.True(t, ok)
		require.Equal(t, tc.want, status, "mode %s lag %d", tc.mode, tc.lagDays)
	}
}

func TestThresholdOverrides(t *testing.T) {
	dormant := 30
	weekly := 2
	merged := DefaultThresholds().Apply(&Override{
		DormantDays:   &dormant,
		ArrearsWeekly: &weekly,
	})
	require.Equal(t, 30, merged.DormantDays)
	require.Equal(t, 2, merged.ArrearsWeekly)
	require.Equal(t, 180, merged.LitigationDaysAfterMaturity)

	status, _, ok := Classify(passNow, merged, Snapshot{
		Status:         loan.StatusUpdated,
		PaymentMode:    loan.ModeWeekly,
		LastCollection: daysAgo(3),
	})
	require.True(t, ok)
	require.Equal(t, loan.StatusArrears, status)
}

func TestDaysBetweenTruncates(t *testing.T) {
	from := time.Date(2024, 5, 31, 10, 0, 0, 0, time.UTC)
	require.Equal(t, 0, daysBetween(from, passNow))
	require.Equal(t, 1, daysBetween(from.AddDate(0, 0, -1), passNow))
}
