// Package notify defines the fire-and-forget notification sink the engine
// reports user-facing events through. The core never waits on a sink and
// never lets one affect control flow.
package notify

import "log/slog"

// Kind classifies a notification.
type Kind string

const (
	Info  Kind = "info"
	Error Kind = "error"
)

// Notification is a single user-facing message.
type Notification struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Sink receives notifications. Implementations must not block.
type Sink interface {
	Notify(n Notification)
}

// Log is a Sink that writes notifications to the structured log.
type Log struct{}

func (Log) Notify(n Notification) {
	if n.Kind == Error {
		slog.Error(n.Title, slog.String("description", n.Description))
		return
	}
	slog.Info(n.Title, slog.String("description", n.Description))
}

// Nop discards notifications. Tests use it when messages are irrelevant.
type Nop struct{}

func (Nop) Notify(Notification) {}

// Multi fans a notification out to several sinks.
type Multi []Sink

func (m Multi) Notify(n Notification) {
	for _, s := range m {
		s.Notify(n)
	}
}
