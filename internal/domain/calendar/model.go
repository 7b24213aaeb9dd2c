package calendar

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the ISO calendar-date format used for every date string in this package.
const DateLayout = "2006-01-02"

// TimeLayout is the 24h wall-clock format used for Time and EndTime.
const TimeLayout = "15:04"

// Status constants for items that go through approval.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000
	MaxLocationLength    = 200
)

// Sentinel errors returned by item validation and creation.
var (
	ErrRejected          = errors.New("calendar item requires a title and a date")
	ErrTypeNotPermitted  = errors.New("calendar item type not permitted for this role")
	ErrUnknownType       = errors.New("unknown calendar item type")
	ErrInvalidDate       = errors.New("calendar dates must be YYYY-MM-DD")
	ErrInvalidTime       = errors.New("calendar times must be HH:MM")
	ErrInvalidRange      = errors.New("calendar item end date cannot be before start date")
	ErrTooLong           = errors.New("calendar item field exceeds maximum length")
	ErrInvalidRecurrence = errors.New("invalid recurrence rule")
)

// Status is the approval state of an item.
type Status string

// Item is one entry in the studio calendar.
// Dates are ISO strings and are compared lexicographically, never parsed into a zone.
// INVARIANT: Date <= EndDate when EndDate is set. Items are never mutated after Append.
type Item struct {
	ID           string    `json:"id"`
	Type         Category  `json:"type"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Date         string    `json:"date"`
	EndDate      string    `json:"endDate,omitempty"`
	Time         string    `json:"time,omitempty"`
	EndTime      string    `json:"endTime,omitempty"`
	Location     string    `json:"location,omitempty"`
	AssignedTo   []string  `json:"assignedTo,omitempty"`
	Status       Status    `json:"status,omitempty"`
	Color        string    `json:"color"`
	Recurrence   string    `json:"recurrence,omitempty"`
	OccurrenceOf string    `json:"occurrenceOf,omitempty"`
	CreatedBy    string    `json:"createdBy,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitzero"`
}

// Validate checks the item's invariants.
// PRE: none
// POST: returns nil if valid, otherwise one of the sentinel errors above
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Title) == "" || strings.TrimSpace(i.Date) == "" {
		return ErrRejected
	}
	if !i.Type.Valid() {
		return ErrUnknownType
	}
	if !IsDate(i.Date) {
		return ErrInvalidDate
	}
	if i.EndDate != "" {
		if !IsDate(i.EndDate) {
			return ErrInvalidDate
		}
		if i.EndDate < i.Date {
			return ErrInvalidRange
		}
	}
	if i.Time != "" && !IsClock(i.Time) {
		return ErrInvalidTime
	}
	if i.EndTime != "" && !IsClock(i.EndTime) {
		return ErrInvalidTime
	}
	if len(i.Title) > MaxTitleLength || len(i.Description) > MaxDescriptionLength || len(i.Location) > MaxLocationLength {
		return ErrTooLong
	}
	return ValidateRecurrence(i.Recurrence)
}

// LastDate returns EndDate, or Date for single-day items.
func (i Item) LastDate() string {
	if i.EndDate == "" {
		return i.Date
	}
	return i.EndDate
}

// OccursOn reports whether the item covers the given calendar date.
// PRE: date is YYYY-MM-DD
// POST: true iff date >= Date and date <= LastDate, compared as strings
func (i Item) OccursOn(date string) bool {
	return date >= i.Date && date <= i.LastDate()
}

// Overlaps reports whether [Date, LastDate] intersects [from, to].
func (i Item) Overlaps(from, to string) bool {
	return i.Date <= to && i.LastDate() >= from
}

// IsAllDay returns true when the item has no start time.
func (i Item) IsAllDay() bool {
	return i.Time == ""
}

// IsMultiDay returns true if the item spans more than one date.
func (i Item) IsMultiDay() bool {
	return i.EndDate != "" && i.EndDate != i.Date
}

// Hour returns the hour-of-day prefix of Time.
// POST: ok is false for all-day items and for times whose prefix is not 0..23
func (i Item) Hour() (int, bool) {
	if i.Time == "" {
		return 0, false
	}
	prefix, _, _ := strings.Cut(i.Time, ":")
	h, err := strconv.Atoi(prefix)
	if err != nil || h < 0 || h > 23 {
		return 0, false
	}
	return h, true
}

// IsRecurring returns true when the item carries an RRULE.
func (i Item) IsRecurring() bool {
	return i.Recurrence != ""
}

// IsDate reports whether s is a well-formed YYYY-MM-DD date.
func IsDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// IsClock reports whether s is a well-formed HH:MM time.
func IsClock(s string) bool {
	if len(s) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// FormatDate renders t's calendar date in DateLayout, ignoring time-of-day.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string at midnight UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}
