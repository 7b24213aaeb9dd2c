package orchestrators

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"

	emailAdapter "studio/internal/adapters/email"
	"studio/internal/domain/calendar"
)

// ErrNoRecipients is returned when staff mail has nowhere to go.
var ErrNoRecipients = errors.New("no staff recipients configured")

var mailMarkdown = goldmark.New()

// StaffMailer emails studio staff about calendar activity.
type StaffMailer struct {
	Sender  emailAdapter.Sender
	From    string
	To      []string
	BaseURL string // links in messages point here; empty omits links
}

var _ ApprovalNotifier = (*StaffMailer)(nil)

// NotifyApprovalRequired sends one message describing a pending request.
// PRE: item.Status is pending
// POST: one message per staff recipient, or ErrNoRecipients
func (m *StaffMailer) NotifyApprovalRequired(ctx context.Context, item calendar.Item) error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	var md strings.Builder
	fmt.Fprintf(&md, "## %s request\n\n", calendar.DisplayFor(item.Type).Label)
	fmt.Fprintf(&md, "**%s** submitted by %s.\n\n", item.Title, orUnknown(item.CreatedBy))
	fmt.Fprintf(&md, "- Dates: %s\n", dateSpan(item))
	if item.Description != "" {
		fmt.Fprintf(&md, "- Notes: %s\n", item.Description)
	}
	if m.BaseURL != "" {
		fmt.Fprintf(&md, "\n[Open the calendar](%s/calendar?view=day&date=%s)\n", strings.TrimRight(m.BaseURL, "/"), item.Date)
	}

	html, err := renderMailMarkdown(md.String())
	if err != nil {
		return err
	}
	return m.deliver(ctx, fmt.Sprintf("Approval needed: %s (%s)", item.Title, dateSpan(item)), html)
}

// deliver sends one message per staff recipient so addresses are not shared.
// A single recipient goes through Send; several go out as one batch.
func (m *StaffMailer) deliver(ctx context.Context, subject, html string) error {
	reqs := make([]emailAdapter.SendRequest, 0, len(m.To))
	for _, to := range m.To {
		reqs = append(reqs, emailAdapter.SendRequest{To: []string{to}, From: m.From, Subject: subject, HTML: html})
	}
	if len(reqs) == 1 {
		_, err := m.Sender.Send(ctx, reqs[0])
		return err
	}
	_, err := m.Sender.SendBatch(ctx, reqs)
	return err
}

func renderMailMarkdown(md string) (string, error) {
	var buf bytes.Buffer
	if err := mailMarkdown.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("render mail: %w", err)
	}
	return buf.String(), nil
}

func dateSpan(item calendar.Item) string {
	if item.IsMultiDay() {
		return item.Date + " to " + item.EndDate
	}
	return item.Date
}

func orUnknown(s string) string {
	if s == "" {
		return "an unknown member"
	}
	return s
}
