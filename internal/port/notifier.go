package port

import "context"

// Notification is the payload handed to the notification dispatcher.
type Notification struct {
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}

// Notifier delivers a notification through whatever channel is configured.
// Delivery is best-effort from the caller's perspective: failures are logged
// by callers and never affect the primary operation.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}
