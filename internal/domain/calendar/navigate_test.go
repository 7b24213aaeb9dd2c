package calendar

import (
	"testing"
	"time"
)

// TestShift tests navigation for each granularity.
func TestShift(t *testing.T) {
	tests := []struct {
		name  string
		pivot string
		g     Granularity
		step  int
		want  string
	}{
		{"next month", "2025-06-15", GranularityMonth, 1, "2025-07-15"},
		{"previous month across year", "2025-01-15", GranularityMonth, -1, "2024-12-15"},
		{"month overflow normalizes", "2025-01-31", GranularityMonth, 1, "2025-03-03"},
		{"leap month overflow", "2024-01-31", GranularityMonth, 1, "2024-03-02"},
		{"next week", "2025-06-25", GranularityWeek, 1, "2025-07-02"},
		{"previous week", "2025-06-25", GranularityWeek, -1, "2025-06-18"},
		{"next day across month", "2025-06-30", GranularityDay, 1, "2025-07-01"},
		{"previous day across year", "2025-01-01", GranularityDay, -1, "2024-12-31"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := FormatDate(Shift(date(tc.pivot), tc.g, tc.step))
			if got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// TestPreviousNext tests that Previous and Next are inverse for weeks and days.
func TestPreviousNext(t *testing.T) {
	p := date("2025-06-25")
	for _, g := range []Granularity{GranularityWeek, GranularityDay} {
		if got := Previous(Next(p, g), g); !got.Equal(p) {
			t.Errorf("%s: expected round trip to %s, got %s", g, FormatDate(p), FormatDate(got))
		}
	}
}

// TestToday tests that Today drops time-of-day.
func TestToday(t *testing.T) {
	now := time.Date(2026, 10, 19, 23, 10, 0, 0, time.FixedZone("NZDT", 13*3600))
	got := Today(now)
	if FormatDate(got) != "2026-10-19" {
		t.Errorf("expected 2026-10-19, got %s", FormatDate(got))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Errorf("expected midnight, got %s", got)
	}
}

// TestWindow tests page bounds for each granularity.
func TestWindow(t *testing.T) {
	tests := []struct {
		g        Granularity
		pivot    string
		from, to string
	}{
		{GranularityMonth, "2024-02-14", "2024-02-01", "2024-02-29"},
		{GranularityWeek, "2025-06-25", "2025-06-22", "2025-06-28"},
		{GranularityDay, "2025-06-25", "2025-06-25", "2025-06-25"},
	}
	for _, tc := range tests {
		from, to := Window(date(tc.pivot), tc.g)
		if from != tc.from || to != tc.to {
			t.Errorf("%s %s: expected %s..%s, got %s..%s", tc.g, tc.pivot, tc.from, tc.to, from, to)
		}
	}
}

// TestParseGranularity tests the month default.
func TestParseGranularity(t *testing.T) {
	if ParseGranularity("week") != GranularityWeek {
		t.Error("expected week")
	}
	if ParseGranularity("day") != GranularityDay {
		t.Error("expected day")
	}
	if ParseGranularity("") != GranularityMonth || ParseGranularity("year") != GranularityMonth {
		t.Error("expected month default")
	}
}
