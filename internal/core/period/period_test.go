package period

import (
	"testing"
	"time"

	"fuelrecon/internal/core/apperror"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2020-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(day(2020, time.January, 15)) {
		t.Errorf("expected 2020-01-15 UTC midnight, got %v", got)
	}

	for _, bad := range []string{"", "2020-13-01", "15/01/2020", "2020-01-15T00:00:00Z"} {
		_, err := ParseDate(bad)
		if err == nil {
			t.Errorf("expected error for %q", bad)
			continue
		}
		if !apperror.HasCode(err, apperror.CodeInvalidDate) {
			t.Errorf("expected InvalidDate for %q, got %v", bad, err)
		}
	}
}

func TestDayOfNormalizesToUTCMidnight(t *testing.T) {
	loc := time.FixedZone("X", -7*3600)
	in := time.Date(2020, time.June, 3, 23, 45, 12, 0, loc)
	if got := DayOf(in); !got.Equal(day(2020, time.June, 3)) {
		t.Errorf("expected 2020-06-03, got %v", got)
	}
}

func TestPrevDay(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{day(2020, time.January, 15), day(2020, time.January, 14)},
		{day(2020, time.March, 1), day(2020, time.February, 29)}, // leap year
		{day(2021, time.January, 1), day(2020, time.December, 31)},
	}
	for _, tt := range tests {
		if got := PrevDay(tt.in); !got.Equal(tt.want) {
			t.Errorf("PrevDay(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestYearMonth(t *testing.T) {
	ym := YM(day(2026, time.August, 31))
	if ym != 202608 {
		t.Fatalf("expected 202608, got %d", ym)
	}
	if ym.Year() != 2026 || ym.Month() != time.August {
		t.Errorf("Year/Month mismatch: %d %v", ym.Year(), ym.Month())
	}
	if ym.String() != "2026-08" {
		t.Errorf("expected 2026-08, got %s", ym.String())
	}

	parsed, err := ParseYearMonth("2026-08")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != ym {
		t.Errorf("round trip mismatch: %d != %d", parsed, ym)
	}

	if _, err := ParseYearMonth("2026-13"); err == nil {
		t.Error("expected error for month 13")
	}

	if YearMonth(202613).Valid() {
		t.Error("202613 should not be valid")
	}
	if !YearMonth(202612).Valid() {
		t.Error("202612 should be valid")
	}
}

func TestMonthBounds(t *testing.T) {
	first, last := MonthBounds(202402)
	if !first.Equal(day(2024, time.February, 1)) {
		t.Errorf("first = %v", first)
	}
	if !last.Equal(day(2024, time.February, 29)) {
		t.Errorf("last = %v", last)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		// 2020-01-01 is a Wednesday; its week starts Sunday 2019-12-29.
		{day(2020, time.January, 1), day(2019, time.December, 29)},
		// A Sunday is its own week start.
		{day(2020, time.January, 5), day(2020, time.January, 5)},
		{day(2020, time.January, 11), day(2020, time.January, 5)}, // Saturday
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(day(2020, time.January, 8))
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if !days[0].Equal(day(2020, time.January, 5)) {
		t.Errorf("week should start Sunday Jan 5, got %v", days[0])
	}
	if !days[6].Equal(day(2020, time.January, 11)) {
		t.Errorf("week should end Saturday Jan 11, got %v", days[6])
	}
}

func TestWeekOf(t *testing.T) {
	tests := []struct {
		in   time.Time
		want YearWeek
	}{
		{day(2020, time.January, 1), 202001},  // Wednesday of week 1
		{day(2020, time.January, 4), 202001},  // Saturday closes week 1
		{day(2020, time.January, 5), 202002},  // Sunday opens week 2
		{day(2020, time.December, 31), 202053},
		{day(2021, time.January, 1), 202101},
	}
	for _, tt := range tests {
		if got := WeekOf(tt.in); got != tt.want {
			t.Errorf("WeekOf(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestYearWeekBounds(t *testing.T) {
	start, end := YearWeek(202002).Bounds()
	if !start.Equal(day(2020, time.January, 5)) {
		t.Errorf("start = %v", start)
	}
	if !end.Equal(day(2020, time.January, 11)) {
		t.Errorf("end = %v", end)
	}

	// Week 1 of 2020 starts in the prior calendar year.
	start, end = YearWeek(202001).Bounds()
	if !start.Equal(day(2019, time.December, 29)) {
		t.Errorf("week 1 start = %v", start)
	}
	if !end.Equal(day(2020, time.January, 4)) {
		t.Errorf("week 1 end = %v", end)
	}
}

func TestMonthYearWeeks(t *testing.T) {
	weeks := MonthYearWeeks(202001)
	if len(weeks) != 5 {
		t.Fatalf("expected 5 weeks, got %d", len(weeks))
	}

	// First week spills into December but clamps to Jan 1 and numbers as
	// week 1 of the new year.
	w := weeks[0]
	if w.YearWeek != 202001 {
		t.Errorf("first week = %d, want 202001", w.YearWeek)
	}
	if !w.Start.Equal(day(2019, time.December, 29)) {
		t.Errorf("first week full start = %v", w.Start)
	}
	if !w.MonthStart.Equal(day(2020, time.January, 1)) {
		t.Errorf("first week clamped start = %v", w.MonthStart)
	}

	// Last week clamps to Jan 31.
	w = weeks[4]
	if !w.MonthEnd.Equal(day(2020, time.January, 31)) {
		t.Errorf("last week clamped end = %v", w.MonthEnd)
	}
	if !w.End.Equal(day(2020, time.February, 1)) {
		t.Errorf("last week full end = %v", w.End)
	}

	// Clamped windows tile the whole month without gaps.
	expect := day(2020, time.January, 1)
	for _, w := range weeks {
		if !w.MonthStart.Equal(expect) {
			t.Fatalf("gap before %v, expected %v", w.MonthStart, expect)
		}
		expect = w.MonthEnd.AddDate(0, 0, 1)
	}
	if !expect.Equal(day(2020, time.February, 1)) {
		t.Errorf("tiling ended at %v", expect)
	}
}

func TestMonthsThrough(t *testing.T) {
	now := day(2026, time.August, 31)

	months := MonthsThrough(2026, now)
	if len(months) != 8 {
		t.Fatalf("expected 8 months, got %d", len(months))
	}
	if months[0] != 202601 || months[7] != 202608 {
		t.Errorf("unexpected months: %v", months)
	}

	// A past year always yields all 12 months.
	months = MonthsThrough(2025, now)
	if len(months) != 12 {
		t.Errorf("expected 12 months for past year, got %d", len(months))
	}

	// A future year yields nothing.
	if months := MonthsThrough(2027, now); len(months) != 0 {
		t.Errorf("expected no months for future year, got %v", months)
	}
}
