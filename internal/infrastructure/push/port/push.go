package port

import (
	"context"
	"errors"
)

// Notification is a provider-agnostic push payload. Data is delivered as-is
// to the client so it can route to the right screen.
type Notification struct {
	Title string
	Body  string
	Data  map[string]string
}

// ErrUnregistered signals that the provider no longer recognizes the device
// token; callers should deactivate the registration.
var ErrUnregistered = errors.New("push: token is not registered")

// Sender is the minimal contract for a push-notification provider. All
// methods are best-effort fan-out targets, never a source of truth; callers
// must treat failures as log-and-continue.
type Sender interface {
	// SendToToken delivers to a single device. Each device is attempted
	// independently by callers; results are never aggregated per user.
	SendToToken(ctx context.Context, token string, n Notification) error

	// SendToTopic broadcasts to all subscribers of the topic.
	SendToTopic(ctx context.Context, topic string, n Notification) error

	Subscribe(ctx context.Context, tokens []string, topic string) error
	Unsubscribe(ctx context.Context, tokens []string, topic string) error
}
