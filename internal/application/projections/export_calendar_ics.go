package projections

import (
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"

	"studio/internal/domain/calendar"
)

// ICSProductID identifies this calendar in exported feeds.
const ICSProductID = "-//studio//calendar//EN"

// CalendarExportStore is the store capability the iCalendar export needs.
type CalendarExportStore interface {
	List(ctx context.Context) ([]calendar.Item, error)
	ListOverlapping(ctx context.Context, from, to string) ([]calendar.Item, error)
}

// ExportCalendarICSQuery carries query parameters.
// From and To are optional; both empty exports everything.
type ExportCalendarICSQuery struct {
	From     string
	To       string
	Hidden   []calendar.Category
	Location *time.Location
	Now      time.Time
}

// ExportCalendarICSDeps holds dependencies for ExportCalendarICS.
type ExportCalendarICSDeps struct {
	Store CalendarExportStore
}

// ExportCalendarICSResult carries the serialized feed.
type ExportCalendarICSResult struct {
	Body   string
	Events int
}

// QueryExportCalendarICS serializes calendar items as an iCalendar feed.
// PRE: From <= To when both are set
// POST: one VEVENT per stored item; recurring items keep their RRULE instead of being expanded
func QueryExportCalendarICS(ctx context.Context, query ExportCalendarICSQuery, deps ExportCalendarICSDeps) (ExportCalendarICSResult, error) {
	loc := query.Location
	if loc == nil {
		loc = time.UTC
	}

	var items []calendar.Item
	var err error
	switch {
	case query.From == "" && query.To == "":
		items, err = deps.Store.List(ctx)
	default:
		from, to := query.From, query.To
		if from == "" {
			from = to
		}
		if to == "" {
			to = from
		}
		items, err = deps.Store.ListOverlapping(ctx, from, to)
	}
	if err != nil {
		return ExportCalendarICSResult{}, fmt.Errorf("list items for export: %w", err)
	}
	items = calendar.Visible(items, calendar.NewFilter().Hide(query.Hidden...))

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(ICSProductID)
	cal.SetName("Studio calendar")
	cal.SetTimezoneId(loc.String())

	n := 0
	for _, it := range items {
		if err := addEvent(cal, it, loc, query.Now); err != nil {
			return ExportCalendarICSResult{}, fmt.Errorf("export item %s: %w", it.ID, err)
		}
		n++
	}
	return ExportCalendarICSResult{Body: cal.Serialize(), Events: n}, nil
}

func addEvent(cal *ics.Calendar, it calendar.Item, loc *time.Location, now time.Time) error {
	start, err := calendar.ParseDate(it.Date)
	if err != nil {
		return err
	}
	last, err := calendar.ParseDate(it.LastDate())
	if err != nil {
		return err
	}

	ev := cal.AddEvent(it.ID + "@studio")
	stamp := it.CreatedAt
	if stamp.IsZero() {
		stamp = now
	}
	ev.SetDtStampTime(stamp)
	ev.SetSummary(it.Title)
	if it.Description != "" {
		ev.SetDescription(it.Description)
	}
	if it.Location != "" {
		ev.SetLocation(it.Location)
	}
	ev.AddProperty(ics.ComponentPropertyCategories, calendar.DisplayFor(it.Type).Label)
	ev.AddProperty(ics.ComponentPropertyStatus, icsStatus(it.Status))
	if rule := calendar.NormalizeRecurrence(it.Recurrence); rule != "" {
		ev.AddProperty(ics.ComponentPropertyRrule, rule)
	}

	if it.IsAllDay() {
		ev.SetAllDayStartAt(start)
		// DTEND is exclusive for date values.
		ev.SetAllDayEndAt(last.AddDate(0, 0, 1))
		return nil
	}

	begin := atClock(start, it.Time, loc)
	end := begin.Add(time.Hour)
	if it.EndTime != "" && calendar.IsClock(it.EndTime) {
		if e := atClock(last, it.EndTime, loc); e.After(begin) {
			end = e
		}
	} else if it.IsMultiDay() {
		end = atClock(last, it.Time, loc).Add(time.Hour)
	}
	ev.SetStartAt(begin)
	ev.SetEndAt(end)
	return nil
}

// atClock combines a civil date with an HH:MM clock in loc.
// An unparsable clock falls back to midnight.
func atClock(day time.Time, clock string, loc *time.Location) time.Time {
	hm, err := time.Parse(calendar.TimeLayout, clock)
	if err != nil {
		return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hm.Hour(), hm.Minute(), 0, 0, loc)
}

func icsStatus(s calendar.Status) string {
	switch s {
	case calendar.StatusPending:
		return "TENTATIVE"
	case calendar.StatusDenied:
		return "CANCELLED"
	}
	return "CONFIRMED"
}
