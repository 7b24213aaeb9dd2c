package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/calendar"
	"studio/internal/metrics"
)

// CalendarItemAppender is the store capability creation needs.
type CalendarItemAppender interface {
	Append(ctx context.Context, item calendar.Item) error
}

// ApprovalNotifier is told about items that wait for studio approval.
type ApprovalNotifier interface {
	NotifyApprovalRequired(ctx context.Context, item calendar.Item) error
}

// CreateCalendarItemInput carries the submitted form.
type CreateCalendarItemInput struct {
	Type        calendar.Category
	Title       string
	Description string
	Date        string
	EndDate     string
	Time        string
	EndTime     string
	Location    string
	AssignedTo  []string
	Recurrence  string
	CallerID    string
	CallerRole  string
}

// CreateCalendarItemDeps holds dependencies for CreateCalendarItem.
type CreateCalendarItemDeps struct {
	Store      CalendarItemAppender
	GenerateID func() string
	Now        func() time.Time
	Notifier   ApprovalNotifier // optional
}

// ExecuteCreateCalendarItem validates the form and appends a new item.
// PRE: none
// POST: on success exactly one item is appended with a fresh ID and the type's color;
// on any error the store is untouched. Non-studio vacation requests are stored as
// pending and the notifier is called; notifier failures are logged, not returned.
func ExecuteCreateCalendarItem(ctx context.Context, input CreateCalendarItemInput, deps CreateCalendarItemDeps) (calendar.Item, error) {
	item := calendar.Item{
		Type:        input.Type,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Date:        strings.TrimSpace(input.Date),
		EndDate:     strings.TrimSpace(input.EndDate),
		Time:        strings.TrimSpace(input.Time),
		EndTime:     strings.TrimSpace(input.EndTime),
		Location:    strings.TrimSpace(input.Location),
		AssignedTo:  input.AssignedTo,
		Recurrence:  calendar.NormalizeRecurrence(input.Recurrence),
		CreatedBy:   input.CallerID,
	}

	// An end date equal to the start adds nothing.
	if item.EndDate == item.Date {
		item.EndDate = ""
	}

	if err := item.Validate(); err != nil {
		return reject(input, err)
	}
	if !calendar.CanCreate(input.CallerRole, item.Type) {
		return reject(input, calendar.ErrTypeNotPermitted)
	}

	item.ID = deps.GenerateID()
	item.Color = calendar.DisplayFor(item.Type).Color
	item.CreatedAt = deps.Now()
	if calendar.NeedsApproval(input.CallerRole, item.Type) {
		item.Status = calendar.StatusPending
	}

	if err := deps.Store.Append(ctx, item); err != nil {
		return calendar.Item{}, err
	}
	metrics.ItemCreated(string(item.Type))
	slog.Info("calendar_event", "event", "item_created", "item_id", item.ID, "type", item.Type, "date", item.Date, "created_by", item.CreatedBy)

	if item.Status == calendar.StatusPending && deps.Notifier != nil {
		if err := deps.Notifier.NotifyApprovalRequired(ctx, item); err != nil {
			slog.Error("calendar_event", "event", "approval_notify_failed", "item_id", item.ID, "error", err)
		}
	}
	return item, nil
}

func reject(input CreateCalendarItemInput, err error) (calendar.Item, error) {
	reason := rejectReason(err)
	metrics.ItemRejected(reason)
	slog.Info("calendar_event", "event", "item_rejected", "reason", reason, "type", input.Type, "caller", input.CallerID)
	return calendar.Item{}, err
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, calendar.ErrRejected):
		return "missing_fields"
	case errors.Is(err, calendar.ErrTypeNotPermitted):
		return "not_permitted"
	case errors.Is(err, calendar.ErrUnknownType):
		return "unknown_type"
	case errors.Is(err, calendar.ErrInvalidDate), errors.Is(err, calendar.ErrInvalidRange):
		return "invalid_date"
	case errors.Is(err, calendar.ErrInvalidTime):
		return "invalid_time"
	case errors.Is(err, calendar.ErrInvalidRecurrence):
		return "invalid_recurrence"
	}
	return "invalid"
}
