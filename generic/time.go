package generic

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// =============================================================================
// TIME POINT - Calendar-day abstraction used for every window and day-sheet key
// =============================================================================

// TimePoint is a calendar day. Comparisons ignore the time of day.
type TimePoint struct {
	Time time.Time
}

// DateLayout is the wire format for calendar days.
const DateLayout = "2006-01-02"

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf returns the calendar day of t (in t's own location) as a UTC-midnight TimePoint.
func DayOf(t time.Time) TimePoint {
	return NewTimePoint(t.Year(), t.Month(), t.Day())
}

// TodayIn returns the current calendar day as seen from loc.
// A nil location means UTC.
func TodayIn(loc *time.Location) TimePoint {
	if loc == nil {
		loc = time.UTC
	}
	return DayOf(time.Now().In(loc))
}

// ParseDate accepts "YYYY-MM-DD" or an RFC 3339 timestamp and returns the
// calendar day at UTC midnight. Timestamps keep their own calendar date.
func ParseDate(field, raw string) (TimePoint, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TimePoint{}, NewFieldError(field, "date is required")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DayOf(t), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return DayOf(t), nil
	}
	return TimePoint{}, NewFieldError(field, fmt.Sprintf("invalid date %q (use YYYY-MM-DD)", raw))
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return tp.Before(other) || tp.Equal(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return tp.After(other) || tp.Equal(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Midnight returns the same calendar day normalized to 00:00 UTC.
func (tp TimePoint) Midnight() TimePoint {
	return NewTimePoint(tp.Time.Year(), tp.Time.Month(), tp.Time.Day())
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint {
	return TimePoint{Time: tp.Time.AddDate(0, 0, n)}
}

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool { return tp.Time.IsZero() }

// DayAbbrev is the three-letter weekday name ("Sun", "Mon", ...).
func (tp TimePoint) DayAbbrev() string { return tp.Time.Format("Mon") }

func (tp TimePoint) String() string {
	return tp.Time.Format(DateLayout)
}

// =============================================================================
// HOLIDAY CALENDAR - Location-scoped holidays
// =============================================================================

// Holiday is a designated non-working day.
type Holiday struct {
	ID        string
	Location  string    // Empty string = global holiday
	Date      TimePoint // The holiday date
	Name      string    // e.g., "Christmas Day", "Eid al-Fitr"
	Recurring bool      // true = same month/day every year
}

// HolidayCalendar answers holiday lookups for a location.
type HolidayCalendar interface {
	// IsHoliday reports whether date is a holiday for location. Location-specific
	// holidays and global holidays both match.
	IsHoliday(ctx context.Context, location string, date TimePoint) (bool, error)
}

// NoHolidays is a calendar that never reports a holiday.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(context.Context, string, TimePoint) (bool, error) { return false, nil }

// =============================================================================
// TIME UTILITIES
// =============================================================================

func DaysBetween(from, to TimePoint) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}
func StartOfMonth(year int, month time.Month) TimePoint { return NewTimePoint(year, month, 1) }
func EndOfMonth(year int, month time.Month) TimePoint {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return TimePoint{Time: t}
}

// MonthPeriod returns the full calendar month.
func MonthPeriod(year int, month time.Month) Period {
	return Period{Start: StartOfMonth(year, month), End: EndOfMonth(year, month)}
}

func maxTP(a, b TimePoint) TimePoint {
	if a.After(b) {
		return a
	}
	return b
}

func minTP(a, b TimePoint) TimePoint {
	if a.Before(b) {
		return a
	}
	return b
}
