package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/timesheet-engine/generic"
)

func day(y int, m time.Month, d int) generic.TimePoint {
	return generic.NewTimePoint(y, m, d)
}

// =============================================================================
// WEEK WINDOW TESTS
// =============================================================================

func TestWeekRange_Examples(t *testing.T) {
	cases := []struct {
		name       string
		date       generic.TimePoint
		start, end generic.TimePoint
	}{
		{"sunday is its own start", day(2024, 12, 1), day(2024, 12, 1), day(2024, 12, 7)},
		{"midweek", day(2024, 12, 4), day(2024, 12, 1), day(2024, 12, 7)},
		{"first of month on saturday", day(2025, 3, 1), day(2025, 3, 1), day(2025, 3, 1)},
		{"first of month midweek ends on saturday", day(2025, 1, 1), day(2025, 1, 1), day(2025, 1, 4)},
		{"monday after short week", day(2025, 3, 3), day(2025, 3, 2), day(2025, 3, 8)},
		{"clipped at month end", day(2025, 4, 29), day(2025, 4, 27), day(2025, 4, 30)},
		{"february leap year", day(2024, 2, 29), day(2024, 2, 25), day(2024, 2, 29)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := generic.WeekRange(tc.date)
			assert.Equal(t, tc.start.String(), w.Start.String())
			assert.Equal(t, tc.end.String(), w.End.String())
		})
	}
}

func TestWeekRange_InvariantHoldsForEveryDay(t *testing.T) {
	// GIVEN: every day across three years
	// WHEN: deriving its window
	// THEN: the window contains the day, spans at most 7 days and stays in one month

	for d := day(2024, 1, 1); d.Before(day(2027, 1, 1)); d = d.AddDays(1) {
		w := generic.WeekRange(d)
		require.True(t, w.Contains(d), "window %s must contain %s", w, d)
		require.LessOrEqual(t, w.Length(), 7, d.String())
		require.Equal(t, d.Month(), w.Start.Month(), d.String())
		require.Equal(t, d.Month(), w.End.Month(), d.String())
		require.True(t, w.Start.Weekday() == time.Sunday || w.Start.Day() == 1, d.String())
		endOfMonth := generic.EndOfMonth(d.Year(), d.Month())
		require.True(t, w.End.Weekday() == time.Saturday || w.End.Equal(endOfMonth), d.String())
	}
}

func TestWeekRange_IgnoresTimeOfDay(t *testing.T) {
	late := generic.TimePoint{Time: time.Date(2024, 12, 4, 23, 59, 0, 0, time.UTC)}
	assert.True(t, generic.WeekRange(late).Equal(generic.WeekRange(day(2024, 12, 4))))
}

func TestFullWeek_CrossesMonths(t *testing.T) {
	w := generic.FullWeek(day(2025, 3, 1))
	assert.Equal(t, "2025-02-23", w.Start.String())
	assert.Equal(t, "2025-03-01", w.End.String())
	assert.Equal(t, 7, w.Length())
}

func TestShiftWeek_LandsOnCanonicalWindows(t *testing.T) {
	// GIVEN: the clipped last week of February 2025
	feb := generic.WeekRange(day(2025, 2, 25))
	require.Equal(t, "2025-02-23", feb.Start.String())
	require.Equal(t, "2025-02-28", feb.End.String())

	// WHEN: paging forward twice and back once
	next := generic.ShiftWeek(feb, generic.DirectionNext)
	after := generic.ShiftWeek(next, generic.DirectionNext)
	back := generic.ShiftWeek(next, generic.DirectionPrev)

	// THEN: each step is the window WeekRange would give
	assert.Equal(t, "[2025-03-01, 2025-03-01]", next.String())
	assert.Equal(t, "[2025-03-02, 2025-03-08]", after.String())
	assert.True(t, back.Equal(feb))
}

func TestParseDirection(t *testing.T) {
	d, err := generic.ParseDirection("Previous")
	require.NoError(t, err)
	assert.Equal(t, generic.DirectionPrev, d)

	_, err = generic.ParseDirection("sideways")
	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// DATE SEQUENCE TESTS
// =============================================================================

func TestDatesBetween_IsRestartable(t *testing.T) {
	seq := generic.DatesBetween(day(2025, 3, 30), day(2025, 4, 2))
	require.Equal(t, 4, seq.Len())

	collect := func() []string {
		var out []string
		seq.Each(func(d generic.TimePoint) bool {
			out = append(out, d.String())
			return true
		})
		return out
	}
	first := collect()
	assert.Equal(t, []string{"2025-03-30", "2025-03-31", "2025-04-01", "2025-04-02"}, first)
	assert.Equal(t, first, collect())
}

func TestDatesBetween_EmptyWhenReversed(t *testing.T) {
	seq := generic.DatesBetween(day(2025, 4, 2), day(2025, 4, 1))
	assert.Equal(t, 0, seq.Len())
	_, ok := seq.Cursor().Next()
	assert.False(t, ok)
}

func TestNewPeriod_RejectsReversedBounds(t *testing.T) {
	_, err := generic.NewPeriod(day(2025, 4, 2), day(2025, 4, 1))
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrValidation)
	assert.Equal(t, []string{"endDate"}, generic.SortedFields(err))
}

// =============================================================================
// PARSING
// =============================================================================

func TestParseDate(t *testing.T) {
	d, err := generic.ParseDate("startDate", "2024-12-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-05", d.String())

	d, err = generic.ParseDate("startDate", "2024-12-05T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-05", d.String())

	_, err = generic.ParseDate("startDate", "05/12/2024")
	require.Error(t, err)
	assert.Equal(t, map[string]string{"startDate": `invalid date "05/12/2024" (use YYYY-MM-DD)`}, generic.Fields(err))
}

func TestResolveMonth(t *testing.T) {
	today := day(2025, 3, 14)

	p, err := generic.ResolveMonth(0, 0, today)
	require.NoError(t, err)
	assert.Equal(t, "[2025-03-01, 2025-03-31]", p.String())

	p, err = generic.ResolveMonth(2024, 2, today)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", p.End.String())

	_, err = generic.ResolveMonth(2024, 13, today)
	assert.ErrorIs(t, err, generic.ErrValidation)
}

// =============================================================================
// ERROR TAXONOMY
// =============================================================================

func TestErrors_Categories(t *testing.T) {
	assert.True(t, errors.Is(generic.ErrConcurrentModification, generic.ErrConflict))
	assert.True(t, generic.IsRetryable(generic.ErrConcurrentModification))
	assert.True(t, generic.IsClientError(generic.NewFieldError("x", "bad")))
	assert.True(t, generic.IsNotFound(&generic.NotFoundError{Kind: "timesheet", ID: "t1"}))

	wrapped := generic.Internal("load", errors.New("disk full"))
	assert.ErrorIs(t, wrapped, generic.ErrInternal)
	assert.False(t, generic.IsClientError(wrapped))

	// already categorized errors pass through unchanged
	assert.Equal(t, generic.ErrConcurrentModification, generic.Internal("update", generic.ErrConcurrentModification))
	assert.Nil(t, generic.Internal("noop", nil))
}

func TestValidationErrors_Fields(t *testing.T) {
	var errs generic.ValidationErrors
	assert.NoError(t, errs.OrNil())

	errs = errs.Add("project_id", "project is required").Add("notes", "notes are required")
	err := errs.OrNil()
	assert.ErrorIs(t, err, generic.ErrValidation)
	assert.Equal(t, []string{"notes", "project_id"}, generic.SortedFields(err))
}
