package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incentive-service/internal/incentive/model"
)

func TestNormalizeKeyStability(t *testing.T) {
	keys := []string{
		NormalizeKey("John Doe"),
		NormalizeKey("  john   doe "),
		NormalizeKey("JOHN DOE"),
		NormalizeKey("John\tDoe"),
	}
	for _, k := range keys {
		assert.Equal(t, "john doe", k)
	}
}

func TestNormalizeKeyCurlyQuotes(t *testing.T) {
	assert.Equal(t, NormalizeKey("D'Souza"), NormalizeKey("D’Souza"))
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "", Stringify(""))
	assert.Equal(t, "42", Stringify(float64(42)))
	assert.Equal(t, "42.5", Stringify(42.5))
	assert.Equal(t, "", Stringify(nan()))
	assert.Equal(t, "hello", Stringify("  hello  "))
}

func nan() float64 {
	var zero float64
	return zero / zero
}

func TestParseDateRoundTrip(t *testing.T) {
	// a date serial, a native date value, and ISO text for the same day
	// must produce identical key and iso
	native := time.Date(2023, time.March, 15, 10, 30, 0, 0, time.UTC)
	cells := []any{
		float64(45000), native,
		"2023-03-15", "15-03-2023", "15/3/2023", "15 Mar 2023", "Mar 15, 2023",
	}
	for _, c := range cells {
		d := ParseDate(c)
		require.Equal(t, "2023-03-15", d.ISO, "cell %v", c)
		require.Equal(t, "2023-03-15", d.Key, "cell %v", c)
	}
}

func TestParseDateTextIsNeverMistakenForSerial(t *testing.T) {
	// month names and low-digit slash dates must resolve via the layouts,
	// not collapse to a digit string that decodes as a serial
	cases := map[string]string{
		"15 Mar 2023": "2023-03-15",
		"2 Jan 2023":  "2023-01-02",
		"Jan 2, 2023": "2023-01-02",
		"1/2/2023":    "2023-02-01", // day-first
		"1-2-2023":    "2023-02-01",
	}
	for text, iso := range cases {
		d := ParseDate(text)
		require.Equal(t, iso, d.ISO, "cell %q", text)
		require.Equal(t, iso, d.Key, "cell %q", text)
	}
	// bare numeric text still decodes as a serial
	assert.Equal(t, "2023-03-15", ParseDate("45000").ISO)
}

func TestParseDateTextFallback(t *testing.T) {
	a := ParseDate("Diwali  Sale")
	b := ParseDate("diwali sale")
	assert.Empty(t, a.ISO)
	assert.Equal(t, a.Key, b.Key)
	assert.Equal(t, "Diwali  Sale", a.Display)
}

func TestParseDateUnknown(t *testing.T) {
	for _, c := range []any{nil, "", "   "} {
		d := ParseDate(c)
		assert.Equal(t, model.UnknownDateKey, d.Key)
		assert.False(t, d.Known())
	}
}

func TestParseDateRejectsPhoneLikeNumbers(t *testing.T) {
	d := ParseDate("9876543210")
	assert.Empty(t, d.ISO)
	assert.Equal(t, "9876543210", d.Key)
}
