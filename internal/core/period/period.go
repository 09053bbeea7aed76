// Package period provides the calendar bucketing used by the reconciliation
// and roll-up engines: day keys, Sunday-start year-weeks, month bounds and
// the month lists annual reports scan.
//
// All functions are pure except MonthsThrough, which clamps to a caller
// supplied "now" so annual reports never fabricate future empty months.
package period

import (
	"time"

	"fuelrecon/internal/core/apperror"
)

// DateLayout is the external encoding for day-granularity dates.
const DateLayout = "2006-01-02"

// YearMonth is a composite YYYYMM key, e.g. 202608.
type YearMonth int

// YearWeek is a composite YYYYWW key. Weeks start on Sunday and week 1 is
// the week containing January 1.
type YearWeek int

// ParseDate parses a day-granularity date in DateLayout, normalized to UTC
// midnight. Malformed input fails with InvalidDate before any storage access.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, apperror.NewInvalidDate(s)
	}
	return DayOf(t), nil
}

// FormatDate renders a date in DateLayout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DayOf truncates a timestamp to its UTC calendar day.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PrevDay returns the calendar day before t.
func PrevDay(t time.Time) time.Time {
	return DayOf(t).AddDate(0, 0, -1)
}

// --- YearMonth ---

// YM returns the YearMonth bucket containing t.
func YM(t time.Time) YearMonth {
	return YearMonth(t.Year()*100 + int(t.Month()))
}

// ParseYearMonth parses a "2006-01" month key.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, apperror.NewInvalidDate(s)
	}
	return YM(t), nil
}

// Year returns the calendar year of the bucket.
func (ym YearMonth) Year() int { return int(ym) / 100 }

// Month returns the calendar month of the bucket.
func (ym YearMonth) Month() time.Month { return time.Month(int(ym) % 100) }

// First returns the first calendar day of the month.
func (ym YearMonth) First() time.Time {
	return time.Date(ym.Year(), ym.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// String renders the bucket as "2006-01".
func (ym YearMonth) String() string {
	return ym.First().Format("2006-01")
}

// Valid reports whether the bucket encodes a real month.
func (ym YearMonth) Valid() bool {
	m := int(ym) % 100
	return ym > 0 && m >= 1 && m <= 12
}

// MonthBounds returns the first and last calendar day of the month.
// These are exact month boundaries; use MonthYearWeeks for week-aligned
// windows. The two must not be conflated - different reports need each.
func MonthBounds(ym YearMonth) (first, last time.Time) {
	first = ym.First()
	last = first.AddDate(0, 1, -1)
	return first, last
}

// --- YearWeek ---

// WeekStart returns the Sunday on or before t.
func WeekStart(t time.Time) time.Time {
	d := DayOf(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDays returns the 7 calendar days of the week containing t,
// Sunday through Saturday.
func WeekDays(t time.Time) []time.Time {
	start := WeekStart(t)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// WeekOf returns the YearWeek bucket containing t. Week numbering follows
// the sales ledger convention: Sunday-start weeks, week 1 holds January 1,
// and late-December days keep the closing week number of their own year.
func WeekOf(t time.Time) YearWeek {
	d := DayOf(t)
	jan1 := time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	week := (d.YearDay() - 1 + int(jan1.Weekday()))/7 + 1
	return YearWeek(d.Year()*100 + week)
}

// Year returns the calendar year of the bucket.
func (yw YearWeek) Year() int { return int(yw) / 100 }

// Week returns the week number within the year.
func (yw YearWeek) Week() int { return int(yw) % 100 }

// Bounds returns the full Sunday..Saturday window of the week.
// The Sunday may fall in the prior calendar year for week 1.
func (yw YearWeek) Bounds() (start, end time.Time) {
	jan1 := time.Date(yw.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	start = WeekStart(jan1).AddDate(0, 0, (yw.Week()-1)*7)
	return start, start.AddDate(0, 0, 6)
}

// WeekRange describes one week touched by a calendar month, in both window
// modes the roll-ups need: the full week window and the portion clamped to
// the month.
type WeekRange struct {
	YearWeek YearWeek

	// Full Sunday..Saturday window (may spill outside the month).
	Start time.Time
	End   time.Time

	// Window clamped to exact month boundaries.
	MonthStart time.Time
	MonthEnd   time.Time
}

// MonthYearWeeks returns the weeks spanning a calendar month in order.
// A week straddling two months appears in both months' lists, clamped to
// each month's boundary.
func MonthYearWeeks(ym YearMonth) []WeekRange {
	first, last := MonthBounds(ym)

	var ranges []WeekRange
	for ws := WeekStart(first); !ws.After(last); ws = ws.AddDate(0, 0, 7) {
		we := ws.AddDate(0, 0, 6)

		clampStart := ws
		if clampStart.Before(first) {
			clampStart = first
		}
		clampEnd := we
		if clampEnd.After(last) {
			clampEnd = last
		}

		ranges = append(ranges, WeekRange{
			// Number the week by its in-month portion so a January week
			// beginning in December counts as week 1, not week 53.
			YearWeek:   WeekOf(clampStart),
			Start:      ws,
			End:        we,
			MonthStart: clampStart,
			MonthEnd:   clampEnd,
		})
	}
	return ranges
}

// MonthsThrough returns the YearMonth buckets of year from January through
// December or the month containing now, whichever is earlier. An annual
// report never reports future months.
func MonthsThrough(year int, now time.Time) []YearMonth {
	cur := YM(now)
	var months []YearMonth
	for m := time.January; m <= time.December; m++ {
		ym := YearMonth(year*100 + int(m))
		if ym > cur {
			break
		}
		months = append(months, ym)
	}
	return months
}
