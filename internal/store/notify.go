// Package store holds the client-side state stores: the cart mirror, the
// auth session, and the bounded compare list. Stores are injected instances
// wired to a single api.Storefront; mutating operations report failures to
// the user through a Notifier instead of returning errors, mirroring how
// the storefront surfaces them.
package store

import "log/slog"

// Notifier receives user-visible messages from store operations. The CLI
// prints them; the gateway folds them into tool results.
type Notifier interface {
	// Success reports a completed user action.
	Success(msg string)
	// Error reports a failed user action in user-facing language.
	Error(msg string)
}

// LogNotifier is the default Notifier: messages go to the structured log.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) logger() *slog.Logger {
	if n.Logger != nil {
		return n.Logger
	}
	return slog.Default()
}

// Success logs the message at info level.
func (n *LogNotifier) Success(msg string) {
	n.logger().Info("notify", "message", msg)
}

// Error logs the message at warn level. Store errors are user mistakes or
// upstream hiccups, not client faults.
func (n *LogNotifier) Error(msg string) {
	n.logger().Warn("notify", "message", msg)
}

var _ Notifier = (*LogNotifier)(nil)
