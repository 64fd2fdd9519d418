// Package notification delivers trade alerts to external channels
// (webhooks, Telegram). The monitor decides that and what to alert;
// this package only carries the message.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"trade-monitorv1/internal/model"
)

// Notifier is the interface for all notification backends.
type Notifier interface {
	// Send delivers one alert event. Returns error if delivery fails.
	Send(ctx context.Context, event model.AlertEvent) error
}

// LogNotifier logs alerts instead of delivering them. Default backend.
type LogNotifier struct{}

// NewLogNotifier creates a log-based notifier.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Send(ctx context.Context, event model.AlertEvent) error {
	slog.Warn("trade alert",
		"trade_id", event.TradeID,
		"symbol", event.Symbol,
		"level", event.Level,
		"message", event.Message,
	)
	return nil
}

// Multi fans one alert out to several backends; the first failure is
// returned but all backends are attempted.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, event model.AlertEvent) error {
	var firstErr error
	for _, n := range m {
		if err := n.Send(ctx, event); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("notify: %w", err)
		}
	}
	return firstErr
}
