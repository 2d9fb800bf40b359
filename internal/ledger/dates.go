package ledger

import "time"

// Accepted payment date layouts across import sources. Legacy exports
// use slash dates, manual staging uses ISO days, API clients send
// RFC3339.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
}

// ParseDate normalizes a raw payment date. Unparseable input returns
// the zero time, which still participates deterministically in dedup
// keys rather than failing the batch.
func ParseDate(raw string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}
