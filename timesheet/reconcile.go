/*
reconcile.go - Calendar reconciliation (densification)

PURPOSE:
  Entries store only the days that have hours. Views need one row per calendar
  day. The reconciler bridges the two.

ALGORITHM:
  1. Enumerate every date of the window in order.
  2. Ask the holiday oracle once per date; the answer is shared by all entries.
  3. Disable dates outside the enabled sub-range (the window may be a full
     Sunday-Saturday week wider than the canonical, month-clipped one).
  4. Per entry, take the stored row for each date or synthesize "00:00".
  5. Sum the decimal value of every row into TotalHours.

DUE VIEW:
  Only open entries (not submitted, not accepted) contribute. One row per date
  sums their hours, followed by a TOTAL row.
*/
package timesheet

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/warp/timesheet-engine/generic"
)

// TotalLabel marks the trailing row of the due view.
const TotalLabel = "TOTAL"

// ReconcileWindow describes what to enumerate and what is enabled.
type ReconcileWindow struct {
	Window   generic.Period
	Enabled  generic.Period
	Location string
}

// ReconciledEntry is an entry with its dense day list.
type ReconciledEntry struct {
	Entry
	Days       []CalendarDay
	TotalHours decimal.Decimal
}

// DueRow is one date of the due view, or the TOTAL row.
type DueRow struct {
	Date      string
	DayOfWeek string
	Hours     decimal.Decimal
	IsHoliday bool
}

type Reconciler struct {
	holidays *HolidayOracle
}

func NewReconciler(holidays *HolidayOracle) *Reconciler {
	if holidays == nil {
		holidays = NewHolidayOracle(nil)
	}
	return &Reconciler{holidays: holidays}
}

// Calendar returns the header days of the window without hours.
func (r *Reconciler) Calendar(ctx context.Context, w ReconcileWindow) ([]CalendarDay, error) {
	session := r.holidays.session(w.Location)
	days := make([]CalendarDay, 0, w.Window.Length())
	var lookupErr error
	w.Window.Dates().Each(func(d generic.TimePoint) bool {
		holiday, err := session.lookup(ctx, d)
		if err != nil {
			lookupErr = err
			return false
		}
		days = append(days, CalendarDay{
			Date:           d,
			NormalizedDate: d.String(),
			DayOfWeek:      d.DayAbbrev(),
			IsHoliday:      holiday,
			IsDisabled:     !w.Enabled.Contains(d),
		})
		return true
	})
	if lookupErr != nil {
		return nil, lookupErr
	}
	return days, nil
}

// Reconcile densifies every entry against the window. It also returns the
// header calendar so callers do not enumerate twice.
func (r *Reconciler) Reconcile(ctx context.Context, entries []Entry, w ReconcileWindow) ([]ReconciledEntry, []CalendarDay, error) {
	calendar, err := r.Calendar(ctx, w)
	if err != nil {
		return nil, nil, err
	}
	out := make([]ReconciledEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, densify(e, calendar))
	}
	return out, calendar, nil
}

func densify(e Entry, calendar []CalendarDay) ReconciledEntry {
	stored := make(map[string]DayEntry, len(e.DaySheet))
	for _, d := range e.DaySheet {
		stored[d.Date.Midnight().String()] = d
	}
	days := make([]CalendarDay, len(calendar))
	for i, c := range calendar {
		day := c
		day.Hours = ZeroHours
		if row, ok := stored[c.NormalizedDate]; ok {
			day.Hours = row.Hours
		}
		days[i] = day
	}
	return ReconciledEntry{Entry: e, Days: days, TotalHours: SumHours(days)}
}

// Due sums open entries per date and appends a TOTAL row.
func (r *Reconciler) Due(ctx context.Context, entries []Entry, w ReconcileWindow) ([]DueRow, error) {
	open := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Status.Open() {
			open = append(open, e)
		}
	}
	reconciled, calendar, err := r.Reconcile(ctx, open, w)
	if err != nil {
		return nil, err
	}

	rows := make([]DueRow, len(calendar))
	total := decimal.Zero
	for i, c := range calendar {
		sum := decimal.Zero
		for _, re := range reconciled {
			sum = sum.Add(re.Days[i].Hours.Decimal())
		}
		rows[i] = DueRow{Date: c.NormalizedDate, DayOfWeek: c.DayOfWeek, Hours: sum, IsHoliday: c.IsHoliday}
		total = total.Add(sum)
	}
	return append(rows, DueRow{Date: TotalLabel, Hours: total}), nil
}
