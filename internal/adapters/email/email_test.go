package email

import (
	"context"
	"strings"
	"testing"
)

// TestNewSender_SelectsImplementation tests provider selection by API key.
func TestNewSender_SelectsImplementation(t *testing.T) {
	if _, ok := NewSender("", "from@example.com").(*LogSender); !ok {
		t.Error("expected LogSender without an API key")
	}
	if _, ok := NewSender("re_test", "from@example.com").(*ResendSender); !ok {
		t.Error("expected ResendSender with an API key")
	}
}

// TestLogSender_SendBatch tests that every request gets a result in order.
func TestLogSender_SendBatch(t *testing.T) {
	s := NewLogSender()
	reqs := []SendRequest{
		{To: []string{"a@example.com"}, Subject: "one"},
		{To: []string{"b@example.com"}, Subject: "two"},
	}
	results, err := s.SendBatch(context.Background(), reqs)
	if err != nil {
		t.Fatalf("SendBatch: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if !strings.HasPrefix(results[0].MessageID, "log-") || results[0].MessageID == results[1].MessageID {
		t.Errorf("expected distinct log- ids, got %s and %s", results[0].MessageID, results[1].MessageID)
	}
}

// TestResendSender_DefaultFrom tests that the sender default fills an empty From.
func TestResendSender_DefaultFrom(t *testing.T) {
	s := NewResendSender("re_test", "Studio <studio@example.com>")
	p := s.params(SendRequest{To: []string{"a@example.com"}, Subject: "hi", ReplyTo: "desk@example.com"})
	if p.From != "Studio <studio@example.com>" || p.ReplyTo != "desk@example.com" {
		t.Errorf("unexpected params: %+v", p)
	}
	p = s.params(SendRequest{From: "Other <o@example.com>"})
	if p.From != "Other <o@example.com>" {
		t.Errorf("expected explicit From kept, got %s", p.From)
	}
}
