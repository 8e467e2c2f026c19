package timesheet

import (
	"context"

	"github.com/warp/timesheet-engine/generic"
)

// =============================================================================
// HOLIDAY ORACLE
// =============================================================================

// HolidayOracle answers "is this day a holiday here" against a calendar.
// No match is false, not an error.
type HolidayOracle struct {
	calendar generic.HolidayCalendar
}

func NewHolidayOracle(calendar generic.HolidayCalendar) *HolidayOracle {
	if calendar == nil {
		calendar = generic.NoHolidays{}
	}
	return &HolidayOracle{calendar: calendar}
}

// IsHoliday parses a raw date and looks it up. Malformed dates fail validation.
func (o *HolidayOracle) IsHoliday(ctx context.Context, rawDate, location string) (bool, error) {
	day, err := generic.ParseDate("date", rawDate)
	if err != nil {
		return false, err
	}
	return o.Lookup(ctx, day, location)
}

// Lookup compares calendar days only; time of day is ignored.
func (o *HolidayOracle) Lookup(ctx context.Context, day generic.TimePoint, location string) (bool, error) {
	ok, err := o.calendar.IsHoliday(ctx, location, day.Midnight())
	if err != nil {
		return false, generic.Internal("holiday lookup", err)
	}
	return ok, nil
}

// session memoizes lookups for one location during one reconcile call.
type holidaySession struct {
	oracle   *HolidayOracle
	location string
	seen     map[string]bool
}

func (o *HolidayOracle) session(location string) *holidaySession {
	return &holidaySession{oracle: o, location: location, seen: make(map[string]bool)}
}

func (s *holidaySession) lookup(ctx context.Context, day generic.TimePoint) (bool, error) {
	key := day.Midnight().String()
	if v, ok := s.seen[key]; ok {
		return v, nil
	}
	v, err := s.oracle.Lookup(ctx, day, s.location)
	if err != nil {
		return false, err
	}
	s.seen[key] = v
	return v, nil
}
