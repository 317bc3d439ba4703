// Package notify holds the outbound delivery channels (email, SMS) used by
// the notification engine. Every channel is best-effort: a send failure is
// reported to the caller but never retried or escalated here.
package notify

import "context"

// Channel delivers one rendered notification to a destination.
type Channel interface {
	// Name identifies the channel in logs and delivery outcomes.
	Name() string
	// Supports reports whether the channel delivers this notification type.
	Supports(notifType string) bool
	// Send delivers the message. subject may be empty for channels that have
	// no subject line.
	Send(ctx context.Context, to, subject, body string) error
}
