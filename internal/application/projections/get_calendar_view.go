package projections

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studio/internal/domain/calendar"
)

// MaxItemsPerMonthCell is how many items a month cell lists before collapsing the rest.
const MaxItemsPerMonthCell = 3

// CalendarStore is the read side of the calendar item log.
type CalendarStore interface {
	ListOverlapping(ctx context.Context, from, to string) ([]calendar.Item, error)
}

// GetCalendarViewQuery carries query parameters.
type GetCalendarViewQuery struct {
	Granularity calendar.Granularity
	Pivot       time.Time
	Now         time.Time
	Hidden      []calendar.Category
	Role        string
}

// GetCalendarViewDeps holds dependencies for GetCalendarView.
type GetCalendarViewDeps struct {
	Store CalendarStore
}

// ViewItem is an item paired with its category's display configuration.
type ViewItem struct {
	calendar.Item
	Display calendar.Display `json:"display"`
}

// CategoryToggle is one entry in the filter bar.
type CategoryToggle struct {
	Category calendar.Category `json:"category"`
	Display  calendar.Display  `json:"display"`
	Visible  bool              `json:"visible"`
	// HideParam is the hide query value after flipping this category.
	HideParam string `json:"hideParam"`
}

// CategoryOption is one choice in the creation form.
type CategoryOption struct {
	Category    calendar.Category `json:"category"`
	Label       string            `json:"label"`
	Icon        string            `json:"icon"`
	HasLocation bool              `json:"hasLocation"`
}

// MonthCell is one day in the month grid.
// INVARIANT: len(Items) <= MaxItemsPerMonthCell and len(Items)+Overflow is the day's item count.
type MonthCell struct {
	Date     string     `json:"date"`
	Day      int        `json:"day"`
	IsToday  bool       `json:"isToday"`
	Items    []ViewItem `json:"items"`
	Overflow int        `json:"overflow"`
}

// MonthView is the month grid renderer output.
type MonthView struct {
	Year          int         `json:"year"`
	Month         time.Month  `json:"month"`
	LeadingBlanks int         `json:"leadingBlanks"`
	Blanks        []int       `json:"-"`
	Cells         []MonthCell `json:"cells"`
}

// DayColumn is one day in the week renderer.
type DayColumn struct {
	Date    string     `json:"date"`
	Day     int        `json:"day"`
	Weekday string     `json:"weekday"`
	IsToday bool       `json:"isToday"`
	Items   []ViewItem `json:"items"`
}

// WeekView is the week renderer output.
type WeekView struct {
	Start string      `json:"start"`
	Days  []DayColumn `json:"days"`
}

// HourSlot is one hourly bucket of the day ledger.
type HourSlot struct {
	Hour  int        `json:"hour"`
	Label string     `json:"label"`
	Items []ViewItem `json:"items"`
}

// DayView is the day ledger renderer output.
type DayView struct {
	Date    string     `json:"date"`
	Weekday string     `json:"weekday"`
	IsToday bool       `json:"isToday"`
	AllDay  []ViewItem `json:"allDay"`
	Hours   []HourSlot `json:"hours"`
	Agenda  []ViewItem `json:"agenda"`
}

// GetCalendarViewResult carries the query result.
type GetCalendarViewResult struct {
	Granularity calendar.Granularity `json:"granularity"`
	Title       string               `json:"title"`
	Pivot       string               `json:"pivot"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Prev        string               `json:"prev"`
	Next        string               `json:"next"`
	Today       string               `json:"today"`
	HideParam   string               `json:"hideParam"`
	Toggles     []CategoryToggle     `json:"toggles"`
	Creatable   []CategoryOption     `json:"creatable"`
	Advisory    string               `json:"advisory,omitempty"`
	Month       *MonthView           `json:"month,omitempty"`
	Week        *WeekView            `json:"week,omitempty"`
	Day         *DayView             `json:"day,omitempty"`
}

// QueryGetCalendarView materializes one page of the calendar.
// PRE: Pivot and Now carry the studio's location
// POST: exactly one of Month, Week or Day is set, matching Granularity;
// hidden categories never appear; recurring items are expanded over the page window
func QueryGetCalendarView(ctx context.Context, query GetCalendarViewQuery, deps GetCalendarViewDeps) (GetCalendarViewResult, error) {
	g := query.Granularity
	if g == "" {
		g = calendar.GranularityMonth
	}
	filter := calendar.NewFilter().Hide(query.Hidden...)
	from, to := calendar.Window(query.Pivot, g)

	listed, err := deps.Store.ListOverlapping(ctx, from, to)
	if err != nil {
		return GetCalendarViewResult{}, fmt.Errorf("list calendar items %s..%s: %w", from, to, err)
	}
	items := calendar.ExpandRecurring(calendar.Visible(listed, filter), from, to)

	today := calendar.Today(query.Now)
	res := GetCalendarViewResult{
		Granularity: g,
		Title:       viewTitle(query.Pivot, g),
		Pivot:       calendar.FormatDate(query.Pivot),
		From:        from,
		To:          to,
		Prev:        calendar.FormatDate(calendar.Previous(query.Pivot, g)),
		Next:        calendar.FormatDate(calendar.Next(query.Pivot, g)),
		Today:       calendar.FormatDate(today),
		HideParam:   HideParam(filter),
		Toggles:     toggles(filter),
		Creatable:   CreatableOptions(query.Role),
	}
	if query.Role != calendar.RoleStudio {
		res.Advisory = calendar.VacationAdvisory
	}

	switch g {
	case calendar.GranularityWeek:
		res.Week = renderWeek(calendar.BuildWeek(query.Pivot, today, items))
	case calendar.GranularityDay:
		res.Day = renderDay(calendar.BuildDay(query.Pivot, today, items))
	default:
		res.Month = renderMonth(calendar.BuildMonth(query.Pivot, today, items))
	}
	return res, nil
}

func renderMonth(grid calendar.MonthGrid) *MonthView {
	v := &MonthView{
		Year:          grid.Year,
		Month:         grid.Month,
		LeadingBlanks: grid.LeadingBlanks,
		Blanks:        make([]int, grid.LeadingBlanks),
		Cells:         make([]MonthCell, 0, len(grid.Days)),
	}
	for _, d := range grid.Days {
		shown := d.Items
		overflow := 0
		if len(shown) > MaxItemsPerMonthCell {
			overflow = len(shown) - MaxItemsPerMonthCell
			shown = shown[:MaxItemsPerMonthCell]
		}
		v.Cells = append(v.Cells, MonthCell{
			Date:     d.Date,
			Day:      d.Day,
			IsToday:  d.IsToday,
			Items:    withDisplay(shown),
			Overflow: overflow,
		})
	}
	return v
}

func renderWeek(w calendar.Week) *WeekView {
	v := &WeekView{Start: w.Start, Days: make([]DayColumn, 0, len(w.Days))}
	for _, d := range w.Days {
		v.Days = append(v.Days, DayColumn{
			Date:    d.Date,
			Day:     d.Day,
			Weekday: d.Weekday.String(),
			IsToday: d.IsToday,
			Items:   withDisplay(d.Items),
		})
	}
	return v
}

func renderDay(l calendar.DayLedger) *DayView {
	v := &DayView{
		Date:    l.Date,
		Weekday: l.Weekday.String(),
		IsToday: l.IsToday,
		AllDay:  withDisplay(l.AllDay),
		Hours:   make([]HourSlot, 0, calendar.HoursPerDay),
		Agenda:  withDisplay(l.Agenda),
	}
	for h, bucket := range l.Hours {
		v.Hours = append(v.Hours, HourSlot{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00", h),
			Items: withDisplay(bucket),
		})
	}
	return v
}

func withDisplay(items []calendar.Item) []ViewItem {
	out := make([]ViewItem, 0, len(items))
	for _, it := range items {
		out = append(out, ViewItem{Item: it, Display: calendar.DisplayFor(it.Type)})
	}
	return out
}

func viewTitle(pivot time.Time, g calendar.Granularity) string {
	switch g {
	case calendar.GranularityWeek:
		return "Week of " + calendar.WeekStart(pivot).Format("Jan 2, 2006")
	case calendar.GranularityDay:
		return pivot.Format("Monday, January 2, 2006")
	}
	return pivot.Format("January 2006")
}

func toggles(f calendar.Filter) []CategoryToggle {
	cats := calendar.AllCategories()
	out := make([]CategoryToggle, 0, len(cats))
	for _, c := range cats {
		out = append(out, CategoryToggle{
			Category:  c,
			Display:   calendar.DisplayFor(c),
			Visible:   f.Shows(c),
			HideParam: HideParam(f.Toggle(c)),
		})
	}
	return out
}

// CreatableOptions lists the categories role may create, with their labels.
func CreatableOptions(role string) []CategoryOption {
	cats := calendar.CreatableTypes(role)
	out := make([]CategoryOption, 0, len(cats))
	for _, c := range cats {
		d := calendar.DisplayFor(c)
		out = append(out, CategoryOption{Category: c, Label: d.Label, Icon: d.Icon, HasLocation: c.HasLocation()})
	}
	return out
}

// HideParam encodes the hidden categories of f as a comma list.
func HideParam(f calendar.Filter) string {
	hidden := f.Hidden()
	parts := make([]string, len(hidden))
	for i, c := range hidden {
		parts[i] = string(c)
	}
	return strings.Join(parts, ",")
}

// ParseHideParam decodes a comma list of categories. Unknown names are dropped.
func ParseHideParam(s string) []calendar.Category {
	var out []calendar.Category
	for _, part := range strings.Split(s, ",") {
		if c, err := calendar.ParseCategory(strings.TrimSpace(part)); err == nil {
			out = append(out, c)
		}
	}
	return out
}
