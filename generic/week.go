/*
week.go - Week window calculation

PURPOSE:
  Every timesheet entry is keyed by a week window. Windows are Sunday through
  Saturday, clipped so they never cross a calendar-month boundary. The same
  functions derive windows on the write path (saving hours) and the read path
  (fetching a week), because the store matches windows by exact equality.

EXAMPLES:
  2024-12-04 (Wed) -> [2024-12-01, 2024-12-07]
  2025-03-01 (Sat) -> [2025-03-01, 2025-03-01]   Feb 23 Sunday clipped to March 1
  2025-03-03 (Mon) -> [2025-03-02, 2025-03-08]
  2025-04-29 (Tue) -> [2025-04-27, 2025-04-30]   clipped to April 30

FULL WEEKS:
  FullWeek ignores month boundaries. Calendar views use it to render a complete
  Sunday-Saturday grid and disable the days outside the clipped window.
*/
package generic

import (
	"fmt"
	"strings"
	"time"
)

// PreviousSunday returns the Sunday on or before d.
func PreviousSunday(d TimePoint) TimePoint {
	day := d.Midnight()
	return day.AddDays(-int(day.Weekday()))
}

// WeekStart is the later of the previous Sunday and the first of d's month.
func WeekStart(d TimePoint) TimePoint {
	day := d.Midnight()
	return maxTP(PreviousSunday(day), StartOfMonth(day.Year(), day.Month()))
}

// WeekEnd is the earlier of the following Saturday and the last of d's month.
func WeekEnd(d TimePoint) TimePoint {
	day := d.Midnight()
	return minTP(PreviousSunday(day).AddDays(6), EndOfMonth(day.Year(), day.Month()))
}

// WeekRange is the canonical, month-clipped window containing d.
func WeekRange(d TimePoint) Period {
	day := d.Midnight()
	return Period{Start: WeekStart(day), End: WeekEnd(day)}
}

// FullWeek is the unclipped Sunday-Saturday week containing d.
func FullWeek(d TimePoint) Period {
	sunday := PreviousSunday(d)
	return Period{Start: sunday, End: sunday.AddDays(6)}
}

// Direction selects the neighbour returned by ShiftWeek.
type Direction string

const (
	DirectionPrev Direction = "prev"
	DirectionNext Direction = "next"
)

// ParseDirection accepts "prev"/"previous" and "next".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "prev", "previous":
		return DirectionPrev, nil
	case "next":
		return DirectionNext, nil
	default:
		return "", NewFieldError("direction", fmt.Sprintf("unknown direction %q", s))
	}
}

// ShiftWeek returns the canonical window adjacent to w. The result is derived
// with WeekRange so paging lands on windows that entries were saved under.
func ShiftWeek(w Period, dir Direction) Period {
	if dir == DirectionPrev {
		return WeekRange(w.Start.AddDays(-1))
	}
	return WeekRange(w.End.AddDays(1))
}

// MonthOf returns the month period containing d.
func MonthOf(d TimePoint) Period {
	return MonthPeriod(d.Year(), d.Month())
}

// ResolveMonth turns optional year/month selectors into a month period,
// defaulting each missing part from today.
func ResolveMonth(year, month int, today TimePoint) (Period, error) {
	if year == 0 && month == 0 {
		return MonthOf(today), nil
	}
	if year == 0 {
		year = today.Year()
	}
	if month == 0 {
		month = int(today.Month())
	}
	if month < 1 || month > 12 {
		return Period{}, NewFieldError("month", "month must be between 1 and 12")
	}
	if year < 1970 || year > 9999 {
		return Period{}, NewFieldError("year", "year out of range")
	}
	return MonthPeriod(year, time.Month(month)), nil
}
