package calendar

import (
	"errors"
	"strings"
	"testing"
)

// TestItem_Validate tests Item validation rules.
func TestItem_Validate(t *testing.T) {
	valid := Item{
		ID:    "i1",
		Type:  CategoryKiln,
		Title: "Bisque firing",
		Date:  "2025-06-25",
		Time:  "08:00",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid item, got: %v", err)
	}

	tests := []struct {
		name    string
		modify  func(i *Item)
		wantErr error
	}{
		{"empty title", func(i *Item) { i.Title = "" }, ErrRejected},
		{"blank title", func(i *Item) { i.Title = "   " }, ErrRejected},
		{"empty date", func(i *Item) { i.Date = "" }, ErrRejected},
		{"unknown type", func(i *Item) { i.Type = "party" }, ErrUnknownType},
		{"malformed date", func(i *Item) { i.Date = "25/06/2025" }, ErrInvalidDate},
		{"malformed end date", func(i *Item) { i.EndDate = "2025-6-30" }, ErrInvalidDate},
		{"end before start", func(i *Item) { i.EndDate = "2025-06-24" }, ErrInvalidRange},
		{"malformed time", func(i *Item) { i.Time = "8am" }, ErrInvalidTime},
		{"malformed end time", func(i *Item) { i.EndTime = "25:00" }, ErrInvalidTime},
		{"title too long", func(i *Item) { i.Title = strings.Repeat("x", MaxTitleLength+1) }, ErrTooLong},
		{"bad recurrence", func(i *Item) { i.Recurrence = "FREQ=SOMETIMES" }, ErrInvalidRecurrence},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			it := valid
			tc.modify(&it)
			err := it.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

// TestItem_Validate_AcceptsRecurrencePrefix tests that an "RRULE:" prefix is tolerated.
func TestItem_Validate_AcceptsRecurrencePrefix(t *testing.T) {
	it := Item{Type: CategoryClass, Title: "Wheel basics", Date: "2025-06-02", Recurrence: "RRULE:FREQ=WEEKLY;COUNT=6"}
	if err := it.Validate(); err != nil {
		t.Errorf("expected prefixed rule to validate, got %v", err)
	}
}

// TestItem_OccursOn tests inclusive range containment.
func TestItem_OccursOn(t *testing.T) {
	pto := Item{Type: CategoryPTO, Title: "Away", Date: "2025-06-28", EndDate: "2025-06-30"}
	single := Item{Type: CategoryKiln, Title: "Glaze", Date: "2025-06-28"}

	tests := []struct {
		name string
		item Item
		date string
		want bool
	}{
		{"before span", pto, "2025-06-27", false},
		{"first day", pto, "2025-06-28", true},
		{"middle day", pto, "2025-06-29", true},
		{"last day", pto, "2025-06-30", true},
		{"after span", pto, "2025-07-01", false},
		{"single day exact", single, "2025-06-28", true},
		{"single day other", single, "2025-06-29", false},
		{"inverted range matches nothing", Item{Date: "2025-06-30", EndDate: "2025-06-28"}, "2025-06-29", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.item.OccursOn(tc.date); got != tc.want {
				t.Errorf("OccursOn(%s) = %v, want %v", tc.date, got, tc.want)
			}
		})
	}
}

// TestItem_Hour tests hour prefix extraction.
func TestItem_Hour(t *testing.T) {
	tests := []struct {
		time   string
		want   int
		wantOK bool
	}{
		{"08:00", 8, true},
		{"00:30", 0, true},
		{"23:59", 23, true},
		{"", 0, false},
		{"noon", 0, false},
		{"24:00", 0, false},
	}
	for _, tc := range tests {
		h, ok := Item{Time: tc.time}.Hour()
		if h != tc.want || ok != tc.wantOK {
			t.Errorf("Hour(%q) = (%d, %v), want (%d, %v)", tc.time, h, ok, tc.want, tc.wantOK)
		}
	}
}

// TestItem_IsMultiDay tests span detection.
func TestItem_IsMultiDay(t *testing.T) {
	if (Item{Date: "2025-06-28"}).IsMultiDay() {
		t.Error("expected single-day item to not be multi-day")
	}
	if (Item{Date: "2025-06-28", EndDate: "2025-06-28"}).IsMultiDay() {
		t.Error("expected same start and end to not be multi-day")
	}
	if !(Item{Date: "2025-06-28", EndDate: "2025-06-30"}).IsMultiDay() {
		t.Error("expected span to be multi-day")
	}
}

// TestCategory_Valid tests the closed category set.
func TestCategory_Valid(t *testing.T) {
	if len(AllCategories()) != 10 {
		t.Fatalf("expected 10 categories, got %d", len(AllCategories()))
	}
	for _, c := range AllCategories() {
		if !c.Valid() {
			t.Errorf("expected %s to be valid", c)
		}
	}
	if _, err := ParseCategory("birthday"); !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
	if c, err := ParseCategory("studio-time"); err != nil || c != CategoryStudioTime {
		t.Errorf("expected studio-time, got %s, %v", c, err)
	}
}

// TestDisplayFor_Total tests that every category has its own label and color.
func TestDisplayFor_Total(t *testing.T) {
	seen := make(map[string]Category)
	for _, c := range AllCategories() {
		d := DisplayFor(c)
		if d.Label == "" || d.Icon == "" || d.Color == "" {
			t.Errorf("incomplete display for %s: %+v", c, d)
		}
		if other, dup := seen[d.Color]; dup {
			t.Errorf("color %s shared by %s and %s", d.Color, other, c)
		}
		seen[d.Color] = c
	}
	if d := DisplayFor("unknown"); d.Label != "unknown" {
		t.Errorf("expected fallback label, got %q", d.Label)
	}
}
