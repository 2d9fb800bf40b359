package money

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestParseFormats(t *testing.T) {
	cases := map[string]string{
		"1234.5":      "1234.50",
		"1,234.50":    "1234.50",
		" 12,345.678": "12345.68",
		"0":           "0.00",
		"":            "0.00",
	}
	for input, want := range cases {
		d, err := Parse(input)
		require.NoError(t, err, "input %q", input)
		require.Equal(t, want, Fixed2(d), "input %q", input)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("12abc")
	require.Error(t, err)
}

func TestNormalizeNeverFails(t *testing.T) {
	require.True(t, Normalize("not a number").IsZero())
	require.Equal(t, "250.00", Fixed2(Normalize("250")))
}

func TestFromJSONNumberAndString(t *testing.T) {
	require.Equal(t, "1500.75", Fixed2(FromJSON(json.RawMessage(`1500.75`))))
	require.Equal(t, "1500.75", Fixed2(FromJSON(json.RawMessage(`"1,500.75"`))))
	require.Equal(t, "1500.75", Fixed2(FromJSON(json.RawMessage(`"1500.750000001"`))))
	require.True(t, FromJSON(nil).IsZero())
}

func TestFixed2HighPrecision(t *testing.T) {
	d := decimal.RequireFromString("99.999")
	require.Equal(t, "100.00", Fixed2(d))
}
