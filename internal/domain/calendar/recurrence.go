package calendar

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// MaxOccurrencesPerItem caps how many copies one recurring item can produce in a window.
const MaxOccurrencesPerItem = 400

// maxRecurrenceScan bounds how many rule instants are visited per item and window,
// including those skipped before the window opens.
const maxRecurrenceScan = 100_000

// ValidateRecurrence checks that rule parses as an RRULE body, with or without the
// "RRULE:" prefix. Items are whole days, so frequencies finer than DAILY are rejected.
func ValidateRecurrence(rule string) error {
	if rule == "" {
		return nil
	}
	r, err := rrule.StrToRRule(NormalizeRecurrence(rule))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecurrence, err)
	}
	if r.OrigOptions.Freq > rrule.DAILY {
		return fmt.Errorf("%w: frequency %s is finer than daily", ErrInvalidRecurrence, r.OrigOptions.Freq)
	}
	return nil
}

// NormalizeRecurrence trims whitespace and a leading "RRULE:" so the stored value is
// the bare rule body.
func NormalizeRecurrence(rule string) string {
	rule = strings.TrimSpace(rule)
	if len(rule) >= 6 && strings.EqualFold(rule[:6], "RRULE:") {
		return strings.TrimSpace(rule[6:])
	}
	return rule
}

// ExpandRecurring replaces each recurring item with its occurrences overlapping [from, to].
// Non-recurring items pass through unchanged. Output keeps input order; an item's
// occurrences are emitted together, chronologically.
// PRE: from and to are YYYY-MM-DD, from <= to
// POST: every occurrence keeps the source span and has OccurrenceOf set to the source ID
func ExpandRecurring(items []Item, from, to string) []Item {
	winStart, err := ParseDate(from)
	if err != nil {
		return items
	}
	winEnd, err := ParseDate(to)
	if err != nil {
		return items
	}

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.IsRecurring() {
			out = append(out, it)
			continue
		}
		occ, err := occurrences(it, winStart, winEnd)
		if err != nil {
			slog.Warn("recurrence_parse_failed", "item_id", it.ID, "rule", it.Recurrence, "error", err)
			if it.Overlaps(from, to) {
				out = append(out, it)
			}
			continue
		}
		out = append(out, occ...)
	}
	return out
}

func occurrences(it Item, winStart, winEnd time.Time) ([]Item, error) {
	start, err := ParseDate(it.Date)
	if err != nil {
		return nil, err
	}
	span := 0
	if it.EndDate != "" {
		end, err := ParseDate(it.EndDate)
		if err != nil {
			return nil, err
		}
		span = int(end.Sub(start).Hours() / 24)
		if span < 0 {
			span = 0
		}
	}

	r, err := rrule.StrToRRule(NormalizeRecurrence(it.Recurrence))
	if err != nil {
		return nil, err
	}
	// Rows written before sub-daily rules were rejected fall back to a one-off.
	if r.OrigOptions.Freq > rrule.DAILY {
		return nil, ErrInvalidRecurrence
	}
	r.DTStart(start)

	// Occurrences starting up to span days before the window still overlap it.
	first := FormatDate(winStart.AddDate(0, 0, -span))
	last := FormatDate(winEnd)

	var out []Item
	prev := ""
	next := r.Iterator()
	for scanned := 0; scanned < maxRecurrenceScan && len(out) < MaxOccurrencesPerItem; scanned++ {
		t, ok := next()
		if !ok {
			break
		}
		date := FormatDate(t)
		if date > last {
			break
		}
		// BYHOUR and friends can yield several instants on one day.
		if date < first || date == prev {
			continue
		}
		prev = date

		occ := it
		occ.Date = date
		if it.EndDate != "" {
			occ.EndDate = FormatDate(t.AddDate(0, 0, span))
		}
		occ.OccurrenceOf = it.ID
		occ.ID = it.ID + "@" + occ.Date
		out = append(out, occ)
	}
	return out, nil
}
