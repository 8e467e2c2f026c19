package timesheet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// HOURS - Stored hour value
// =============================================================================

// Hours keeps the stored hour value exactly as it was written. Clients send
// numbers (4, 7.5) and clock-like strings ("04:30"); both round-trip
// unchanged. Only summation interprets the value, via Decimal.
type Hours string

// ZeroHours is written for days that have no stored row.
const ZeroHours Hours = "00:00"

// MaxDayHours bounds a single day.
var MaxDayHours = decimal.NewFromInt(24)

// leading numeric prefix, the way a lenient float parser reads "04:30" as 4.
// Exponents are not part of it.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)`)

// scientific matches a number written with an exponent ("1e3").
var scientific = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)[eE]`)

// check reports why h cannot be stored as one day's hours, or "".
func (h Hours) check() string {
	s := strings.TrimSpace(string(h))
	if scientific.MatchString(s) {
		return "hours must not use an exponent"
	}
	d := h.Decimal()
	if d.IsNegative() {
		return "hours cannot be negative"
	}
	if d.GreaterThan(MaxDayHours) {
		return fmt.Sprintf("hours cannot exceed %s per day", MaxDayHours)
	}
	return ""
}

// Decimal parses the leading numeric prefix of the value. Anything without
// one counts as zero. "04:30" is 4, not 4.5.
func (h Hours) Decimal() decimal.Decimal {
	m := numericPrefix.FindString(strings.TrimSpace(string(h)))
	if m == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(m)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (h Hours) String() string { return string(h) }

// isNumber reports whether the whole value is a plain number.
func (h Hours) isNumber() bool {
	s := string(h)
	return s != "" && numericPrefix.FindString(s) == s
}

// MarshalJSON writes numeric values as JSON numbers and everything else as strings.
func (h Hours) MarshalJSON() ([]byte, error) {
	if h.isNumber() {
		raw := []byte(strings.TrimPrefix(string(h), "+"))
		if json.Valid(raw) {
			return raw, nil
		}
	}
	return json.Marshal(string(h))
}

// UnmarshalJSON accepts a number, a string or null.
func (h *Hours) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*h = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*h = Hours(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("hours must be a number or string: %w", err)
	}
	*h = Hours(n.String())
	return nil
}

// SumHours adds the decimal values of all days.
func SumHours(days []CalendarDay) decimal.Decimal {
	total := decimal.Zero
	for _, d := range days {
		total = total.Add(d.Hours.Decimal())
	}
	return total
}
