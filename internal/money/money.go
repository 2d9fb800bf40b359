// Package money centralizes parsing and normalization of monetary values.
//
// Collection amounts arrive from three shapes of source data: native
// numbers, high-precision decimal strings, and locale-formatted strings
// with thousands separators ("1,234.50"). Every component that compares
// or persists amounts must go through this package so that the same
// payment always normalizes to the same value.
package money

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Parse converts a raw textual amount into a decimal. Thousands
// separators, currency spacing, and surrounding whitespace are stripped.
func Parse(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	if cleaned == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(cleaned)
}

// Normalize is the lenient form of Parse used on untrusted import rows:
// unparseable input deterministically normalizes to zero instead of
// failing the batch.
func Normalize(raw string) decimal.Decimal {
	d, err := Parse(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FromJSON normalizes a raw JSON value that may be a number, a plain
// decimal string, or a formatted string with separators.
func FromJSON(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return Normalize(s)
	}
	return Normalize(string(raw))
}

// Fixed2 renders a decimal in the canonical two-decimal form used by
// dedup keys and persisted snapshots.
func Fixed2(d decimal.Decimal) string {
	return d.StringFixed(2)
}
