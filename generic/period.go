package generic

// =============================================================================
// PERIOD - Inclusive date window
// =============================================================================

// Period is an inclusive window of calendar days. Timesheet windows, report
// ranges and rejection-note ranges are all periods.
type Period struct {
	Start TimePoint
	End   TimePoint
}

// NewPeriod validates that end is not before start.
func NewPeriod(start, end TimePoint) (Period, error) {
	p := Period{Start: start.Midnight(), End: end.Midnight()}
	if p.End.Before(p.Start) {
		return Period{}, &FieldError{Field: "endDate", Message: ErrInvalidPeriod.Error()}
	}
	return p, nil
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Covers reports whether other lies entirely inside p.
func (p Period) Covers(other Period) bool {
	return other.Start.AfterOrEqual(p.Start) && other.End.BeforeOrEqual(p.End)
}

// Overlaps reports whether p and other share at least one day.
func (p Period) Overlaps(other Period) bool {
	return p.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(p.End)
}

// Equal compares both bounds at day granularity.
func (p Period) Equal(other Period) bool {
	return p.Start.Equal(other.Start) && p.End.Equal(other.End)
}

// Length is the number of days in the period, inclusive.
func (p Period) Length() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Dates returns the lazy day sequence for the period.
func (p Period) Dates() DateSequence {
	return DatesBetween(p.Start, p.End)
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// Label is the human-readable range used in API responses ("2024-12-01 - 2024-12-07").
func (p Period) Label() string {
	return p.Start.String() + " - " + p.End.String()
}

// =============================================================================
// DATE SEQUENCE - Lazy, restartable enumeration of days
// =============================================================================

// DateSequence is the inclusive run of calendar days between two bounds. It
// holds no iteration state, so every Cursor starts again from the first day.
type DateSequence struct {
	start TimePoint
	end   TimePoint
}

// DatesBetween normalizes both bounds to UTC midnight. An end before start
// yields an empty sequence.
func DatesBetween(start, end TimePoint) DateSequence {
	return DateSequence{start: start.Midnight(), end: end.Midnight()}
}

// Len is the number of days the sequence produces.
func (s DateSequence) Len() int {
	if s.end.Before(s.start) {
		return 0
	}
	return DaysBetween(s.start, s.end) + 1
}

// Cursor starts a fresh pass over the sequence.
func (s DateSequence) Cursor() *DateCursor {
	return &DateCursor{next: s.start, end: s.end}
}

// Each calls fn for every day in order until fn returns false.
func (s DateSequence) Each(fn func(TimePoint) bool) {
	c := s.Cursor()
	for d, ok := c.Next(); ok; d, ok = c.Next() {
		if !fn(d) {
			return
		}
	}
}

// DateCursor walks one pass of a DateSequence.
type DateCursor struct {
	next TimePoint
	end  TimePoint
}

// Next returns the next day, or false once the sequence is exhausted.
func (c *DateCursor) Next() (TimePoint, bool) {
	if c.next.After(c.end) {
		return TimePoint{}, false
	}
	d := c.next
	c.next = c.next.AddDays(1)
	return d, true
}
