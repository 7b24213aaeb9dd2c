package orchestrators

import (
	"context"
	"testing"

	"studio/internal/domain/calendar"
)

// TestStartDigestScheduler_Disabled tests that nothing is scheduled when off.
func TestStartDigestScheduler_Disabled(t *testing.T) {
	stop, err := StartDigestScheduler(context.Background(), SendDailyDigestDeps{}, DigestSchedulerConfig{Schedule: "not a schedule"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stop()
}

// TestStartDigestScheduler_BadSchedule tests schedule validation.
func TestStartDigestScheduler_BadSchedule(t *testing.T) {
	_, err := StartDigestScheduler(context.Background(), SendDailyDigestDeps{}, DigestSchedulerConfig{Schedule: "every morning", Enabled: true})
	if err == nil {
		t.Fatal("expected error for invalid schedule")
	}
}

// TestStartDigestScheduler_StartStop tests a valid schedule starts and stops cleanly.
func TestStartDigestScheduler_StartStop(t *testing.T) {
	stop, err := StartDigestScheduler(context.Background(), SendDailyDigestDeps{}, DigestSchedulerConfig{Enabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stop()
}

// TestDigestJob tests that the job sends today's agenda and honours cancellation.
func TestDigestJob(t *testing.T) {
	store := &mockRangeLister{items: []calendar.Item{
		{ID: "k", Type: calendar.CategoryKiln, Title: "Bisque", Date: "2025-06-25"},
	}}
	mailer := &mockDigestMailer{}
	deps := SendDailyDigestDeps{Store: store, Mailer: mailer, Now: fixedNow}

	digestJob(context.Background(), deps)()
	if mailer.calls != 1 || mailer.date != "2025-06-25" {
		t.Errorf("expected one digest for 2025-06-25, got %d for %q", mailer.calls, mailer.date)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	digestJob(ctx, deps)()
	if mailer.calls != 1 {
		t.Errorf("cancelled job should not send, got %d calls", mailer.calls)
	}
}
