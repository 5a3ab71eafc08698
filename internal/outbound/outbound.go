// Package outbound abstracts the message-delivery channel used to reach
// members, with a Twilio WhatsApp implementation and a logging stub.
package outbound

import (
	"context"
	"log/slog"
)

// Sender delivers a text message to a destination phone number.
// Delivery is fire-and-forget from the caller's perspective: errors are
// logged, never retried.
type Sender interface {
	Send(ctx context.Context, destination, text string) error
}

// LoggerSender is a stub implementation that writes messages to the logger.
type LoggerSender struct {
	logger *slog.Logger
}

// NewLoggerSender constructs a logging sender stub.
func NewLoggerSender(logger *slog.Logger) *LoggerSender {
	return &LoggerSender{logger: logger}
}

// Send writes the message to the structured logger.
func (s *LoggerSender) Send(_ context.Context, destination, text string) error {
	if s == nil || s.logger == nil {
		return nil
	}
	s.logger.Info("outbound message", "destination", destination, "body", text)
	return nil
}
