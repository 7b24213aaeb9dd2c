package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studio/internal/domain/calendar"
	"studio/internal/metrics"
)

// CalendarRangeLister is the store capability read paths need.
type CalendarRangeLister interface {
	ListOverlapping(ctx context.Context, from, to string) ([]calendar.Item, error)
}

// DigestMailer delivers one day's agenda.
type DigestMailer interface {
	SendDigest(ctx context.Context, date string, agenda []calendar.Item) error
}

// SendDailyDigestDeps holds dependencies for SendDailyDigest.
type SendDailyDigestDeps struct {
	Store  CalendarRangeLister
	Mailer DigestMailer
	Now    func() time.Time
}

// SendDailyDigestResult reports what the run did.
type SendDailyDigestResult struct {
	Date    string
	Items   int
	Skipped bool
}

// ExecuteSendDailyDigest mails today's agenda to staff.
// PRE: Now returns a time in the studio's location
// POST: nothing is sent for an empty day; denied requests never appear
func ExecuteSendDailyDigest(ctx context.Context, deps SendDailyDigestDeps) (SendDailyDigestResult, error) {
	today := calendar.Today(deps.Now())
	date := calendar.FormatDate(today)

	listed, err := deps.Store.ListOverlapping(ctx, date, date)
	if err != nil {
		return SendDailyDigestResult{}, fmt.Errorf("list items for digest: %w", err)
	}
	var live []calendar.Item
	for _, it := range calendar.ExpandRecurring(listed, date, date) {
		if it.Status != calendar.StatusDenied {
			live = append(live, it)
		}
	}
	ledger := calendar.BuildDay(today, today, live)

	result := SendDailyDigestResult{Date: date, Items: len(ledger.Agenda)}
	if len(ledger.Agenda) == 0 {
		result.Skipped = true
		slog.Info("calendar_event", "event", "digest_skipped", "date", date)
		return result, nil
	}
	if err := deps.Mailer.SendDigest(ctx, date, ledger.Agenda); err != nil {
		return SendDailyDigestResult{}, err
	}
	metrics.DigestSent()
	slog.Info("calendar_event", "event", "digest_sent", "date", date, "items", len(ledger.Agenda))
	return result, nil
}

var _ DigestMailer = (*StaffMailer)(nil)

// SendDigest renders the agenda as a markdown list and mails it to staff.
func (m *StaffMailer) SendDigest(ctx context.Context, date string, agenda []calendar.Item) error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	var md strings.Builder
	fmt.Fprintf(&md, "## Studio agenda for %s\n\n", date)
	for _, it := range agenda {
		when := "All day"
		if !it.IsAllDay() {
			when = it.Time
			if it.EndTime != "" {
				when += "-" + it.EndTime
			}
		}
		fmt.Fprintf(&md, "- **%s** %s (%s)", when, it.Title, calendar.DisplayFor(it.Type).Label)
		if it.Location != "" {
			fmt.Fprintf(&md, " @ %s", it.Location)
		}
		if it.Status == calendar.StatusPending {
			md.WriteString(" *pending approval*")
		}
		md.WriteString("\n")
	}

	html, err := renderMailMarkdown(md.String())
	if err != nil {
		return err
	}
	return m.deliver(ctx, "Studio agenda "+date, html)
}
