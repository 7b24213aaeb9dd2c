package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// LogSender writes messages to the log instead of delivering them.
// Used in development and whenever no provider key is configured.
type LogSender struct {
	now func() time.Time
}

// NewLogSender creates a LogSender.
func NewLogSender() *LogSender {
	return &LogSender{now: time.Now}
}

// Send logs req and returns a synthetic message ID.
func (s *LogSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	slog.Info("email_logged", "to", req.To, "subject", req.Subject, "bytes", len(req.HTML))
	return SendResult{MessageID: "log-" + uuid.NewString(), SentAt: s.now()}, nil
}

// SendBatch logs every request and returns results in request order.
func (s *LogSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		res, _ := s.Send(ctx, req)
		results = append(results, res)
	}
	return results, nil
}
