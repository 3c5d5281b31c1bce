package application

import "context"

// NotificationKind selects the message template the sender renders.
type NotificationKind string

const (
	NotifyVerification  NotificationKind = "verify_email"
	NotifyWelcome       NotificationKind = "welcome"
	NotifyPasswordReset NotificationKind = "password_reset"
)

// Notifier dispatches a templated message to an address. The lifecycle
// service never inspects delivery beyond the returned error; retry and
// backoff policy belong to the sender's own implementation.
type Notifier interface {
	Notify(ctx context.Context, address string, kind NotificationKind, data map[string]any) error
}
