package port

import (
	"context"
	"time"
)

// Task is one background job: a stable type name plus opaque payload bytes.
// Payload encoding is the caller's concern; the queue never inspects it.
type Task struct {
	Type    string
	Payload []byte
}

// Handler processes one Task. A non-nil error triggers a retry under the
// adapter's policy, so handlers must be idempotent.
type Handler func(ctx context.Context, task Task) error

// EnqueueOption tunes a single enqueue. Zero values mean "adapter default".
type EnqueueOption struct {
	Queue     string        // logical queue name, e.g. "push"
	ProcessIn time.Duration // delay before the task becomes runnable
	MaxRetry  int           // retry ceiling before the task is dead-lettered
	UniqueTTL time.Duration // suppress identical tasks within this window
}

// Client enqueues tasks for background processing.
type Client interface {
	Enqueue(ctx context.Context, t Task, opts ...EnqueueOption) (id string, err error)
	Close() error
}

// Server consumes tasks. Run blocks until the context is canceled or Stop
// is called.
type Server interface {
	Register(taskType string, h Handler)
	Run(ctx context.Context) error
	Stop(ctx context.Context) error
}
