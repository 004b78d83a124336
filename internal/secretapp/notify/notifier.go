// Package notify is the outbound-notification boundary. The registration
// workflow only depends on the Notifier interface; delivery failures are
// returned synchronously so the caller can roll back.
package notify

import (
	"context"
	"log/slog"
)

// Notifier delivers a message to an address. Send must return before the
// caller can consider the registration committed; implementations are
// expected to bound delivery with a timeout.
type Notifier interface {
	Send(ctx context.Context, to, subject, body string) error
}

// LogNotifier writes notifications to the log instead of delivering them.
// Used in dev and tests, where the activation URL in the log output stands in
// for the email.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Send(_ context.Context, to, subject, body string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("notification",
		slog.String("to", to),
		slog.String("subject", subject),
		slog.String("body", body),
	)
	return nil
}
