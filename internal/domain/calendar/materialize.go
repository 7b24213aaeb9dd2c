package calendar

import (
	"sort"
	"time"
)

// HoursPerDay is the number of hourly buckets in a day ledger.
const HoursPerDay = 24

// DayCell is one calendar date with the items that cover it.
type DayCell struct {
	Date    string       `json:"date"`
	Day     int          `json:"day"`
	Weekday time.Weekday `json:"weekday"`
	IsToday bool         `json:"isToday"`
	Items   []Item       `json:"items"`
}

// MonthGrid is a month laid out for a Sunday-first seven column grid.
// INVARIANT: LeadingBlanks is the weekday of the 1st and len(Days) is the month length.
type MonthGrid struct {
	Year          int        `json:"year"`
	Month         time.Month `json:"month"`
	LeadingBlanks int        `json:"leadingBlanks"`
	Days          []DayCell  `json:"days"`
}

// Week is seven consecutive days starting on a Sunday.
type Week struct {
	Start string    `json:"start"`
	Days  []DayCell `json:"days"`
}

// DayLedger splits one date's items into all-day and hourly buckets.
// INVARIANT: every item in Agenda appears in exactly one of AllDay or Hours.
type DayLedger struct {
	DayCell
	AllDay []Item              `json:"allDay"`
	Hours  [HoursPerDay][]Item `json:"hours"`
	Agenda []Item              `json:"agenda"`
}

// ItemsOn returns the items covering date, in input order.
// PRE: date is YYYY-MM-DD
// POST: an item is included iff date >= item.Date && date <= item.LastDate()
func ItemsOn(date string, items []Item) []Item {
	var out []Item
	for _, it := range items {
		if it.OccursOn(date) {
			out = append(out, it)
		}
	}
	return out
}

// civil drops time-of-day and zone, keeping t's own calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cellFor(day time.Time, today string, items []Item) DayCell {
	date := FormatDate(day)
	return DayCell{
		Date:    date,
		Day:     day.Day(),
		Weekday: day.Weekday(),
		IsToday: date == today,
		Items:   ItemsOn(date, items),
	}
}

// BuildMonth materializes the month containing pivot.
// PRE: none
// POST: LeadingBlanks in 0..6, one cell per day of the month in order
func BuildMonth(pivot, today time.Time, items []Item) MonthGrid {
	p := civil(pivot)
	first := time.Date(p.Year(), p.Month(), 1, 0, 0, 0, 0, time.UTC)
	n := DaysIn(p.Year(), p.Month())
	todayStr := FormatDate(today)

	g := MonthGrid{
		Year:          p.Year(),
		Month:         p.Month(),
		LeadingBlanks: int(first.Weekday()),
		Days:          make([]DayCell, 0, n),
	}
	for d := 0; d < n; d++ {
		g.Days = append(g.Days, cellFor(first.AddDate(0, 0, d), todayStr, items))
	}
	return g
}

// BuildWeek materializes the Sunday-first week containing pivot.
// POST: exactly seven cells, the first a Sunday
func BuildWeek(pivot, today time.Time, items []Item) Week {
	start := WeekStart(pivot)
	todayStr := FormatDate(today)
	w := Week{Start: FormatDate(start), Days: make([]DayCell, 0, 7)}
	for d := 0; d < 7; d++ {
		w.Days = append(w.Days, cellFor(start.AddDate(0, 0, d), todayStr, items))
	}
	return w
}

// BuildDay materializes a single date.
// Items without a usable hour prefix land in AllDay. Agenda is sorted by
// time ascending with untimed items last; ties keep input order.
func BuildDay(pivot, today time.Time, items []Item) DayLedger {
	cell := cellFor(civil(pivot), FormatDate(today), items)
	l := DayLedger{DayCell: cell}
	for _, it := range cell.Items {
		if h, ok := it.Hour(); ok {
			l.Hours[h] = append(l.Hours[h], it)
			continue
		}
		l.AllDay = append(l.AllDay, it)
	}
	l.Agenda = SortByTime(cell.Items)
	return l
}

// SortByTime returns a copy of items ordered by Time with untimed items last.
// The sort is stable.
func SortByTime(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	sort.SliceStable(out, func(a, b int) bool {
		ta, tb := out[a].Time, out[b].Time
		if ta == "" || tb == "" {
			return ta != "" && tb == ""
		}
		return ta < tb
	})
	return out
}

// WeekStart returns the Sunday on or before t, at midnight UTC.
func WeekStart(t time.Time) time.Time {
	d := civil(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
