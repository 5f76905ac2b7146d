package notify

import "log/slog"

// Notifier announces mutation outcomes to whoever is watching the
// client. The presentation layer decides how to render them.
type Notifier interface {
	Success(msg string)
	Warning(msg string)
	Error(msg string)
}

type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(l *slog.Logger) *LogNotifier {
	return &LogNotifier{log: l.With("component", "notify")}
}

func (n *LogNotifier) Success(msg string) {
	n.log.Info("notification", "kind", "success", "message", msg)
}

func (n *LogNotifier) Warning(msg string) {
	n.log.Warn("notification", "kind", "warning", "message", msg)
}

func (n *LogNotifier) Error(msg string) {
	n.log.Error("notification", "kind", "error", "message", msg)
}

// Nop discards notifications, handy in tests.
type Nop struct{}

func (Nop) Success(string) {}
func (Nop) Warning(string) {}
func (Nop) Error(string)   {}
