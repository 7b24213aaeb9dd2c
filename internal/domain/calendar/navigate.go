package calendar

import "time"

// Granularity is the span covered by one calendar page.
type Granularity string

// Granularity constants.
const (
	GranularityMonth Granularity = "month"
	GranularityWeek  Granularity = "week"
	GranularityDay   Granularity = "day"
)

// ParseGranularity converts s to a Granularity, defaulting to month.
func ParseGranularity(s string) Granularity {
	switch Granularity(s) {
	case GranularityWeek:
		return GranularityWeek
	case GranularityDay:
		return GranularityDay
	}
	return GranularityMonth
}

// Shift moves pivot by step units of g.
// Months use AddDate normalization, so Jan 31 + 1 month lands in early March.
func Shift(pivot time.Time, g Granularity, step int) time.Time {
	switch g {
	case GranularityWeek:
		return pivot.AddDate(0, 0, 7*step)
	case GranularityDay:
		return pivot.AddDate(0, 0, step)
	}
	return pivot.AddDate(0, step, 0)
}

// Previous returns the pivot one period earlier.
func Previous(pivot time.Time, g Granularity) time.Time {
	return Shift(pivot, g, -1)
}

// Next returns the pivot one period later.
func Next(pivot time.Time, g Granularity) time.Time {
	return Shift(pivot, g, 1)
}

// Today resets the pivot to now's calendar date.
func Today(now time.Time) time.Time {
	return civil(now)
}

// Window returns the first and last dates shown on the page for pivot.
// POST: from <= to, both YYYY-MM-DD
func Window(pivot time.Time, g Granularity) (from, to string) {
	p := civil(pivot)
	switch g {
	case GranularityWeek:
		start := WeekStart(p)
		return FormatDate(start), FormatDate(start.AddDate(0, 0, 6))
	case GranularityDay:
		d := FormatDate(p)
		return d, d
	}
	first := time.Date(p.Year(), p.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(p.Year(), p.Month(), DaysIn(p.Year(), p.Month()), 0, 0, 0, 0, time.UTC)
	return FormatDate(first), FormatDate(last)
}
