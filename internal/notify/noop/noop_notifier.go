package noop

import (
	"context"

	"github.com/rs/zerolog"

	"cargoflow/internal/port"
)

type noopNotifier struct {
	logger zerolog.Logger
}

// NewNoopNotifier creates a Notifier that only logs, for development.
func NewNoopNotifier(logger zerolog.Logger) port.Notifier {
	return &noopNotifier{logger: logger}
}

func (n *noopNotifier) Send(_ context.Context, notification port.Notification) error {
	n.logger.Info().
		Str("type", notification.Type).
		Str("priority", notification.Priority).
		Str("title", notification.Title).
		Msg(notification.Message)
	return nil
}
