package fanout

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	qport "school-app-backend/internal/infrastructure/queue/port"
	"school-app-backend/internal/infrastructure/realtime"
)

// DeliverPushTaskType is the queue task name for provider push delivery to a
// single offline user. The worker-side handler lives in the task package.
const DeliverPushTaskType = "chat:deliver_push"

// DeliverPushPayload is the JSON payload transported via the queue.
type DeliverPushPayload struct {
	UserID string            `json:"userId"`
	Title  string            `json:"title"`
	Body   string            `json:"body"`
	Data   map[string]string `json:"data,omitempty"`
}

// EventType enumerates the state transitions that fan out to participants.
type EventType string

const (
	EventMessageApproved  EventType = "message_approved"
	EventThreadCreated    EventType = "thread_created"
	EventParticipantAdded EventType = "participant_added"
)

// Event carries one state transition and the participants affected by it.
// The actor is excluded from delivery.
type Event struct {
	Type       EventType
	ThreadID   string
	ActorID    string
	Recipients []string
	Title      string
	Body       string
	Data       map[string]string
}

// socketFrame is the JSON shape pushed over a live connection.
type socketFrame struct {
	Type     EventType         `json:"type"`
	ThreadID string            `json:"thread_id"`
	Data     map[string]string `json:"data,omitempty"`
}

// Dispatcher routes events to participants: a live socket when the user is
// connected, otherwise a queued provider push per user. Delivery is
// best-effort and detached from the request that caused the state change;
// failures are logged here and never propagated.
type Dispatcher struct {
	registry realtime.Registry
	queue    qport.Client
	log      *zap.Logger
	timeout  time.Duration
}

func NewDispatcher(registry realtime.Registry, queue qport.Client, log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		queue:    queue,
		log:      log,
		timeout:  5 * time.Second,
	}
}

// Deliver fans the event out asynchronously. It returns immediately; the
// caller's state change is already durable and must not wait on delivery.
func (d *Dispatcher) Deliver(ev Event) {
	go d.deliver(ev)
}

func (d *Dispatcher) deliver(ev Event) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	payload, err := json.Marshal(socketFrame{Type: ev.Type, ThreadID: ev.ThreadID, Data: ev.Data})
	if err != nil {
		d.log.Error("fanout: encode frame", zap.String("thread_id", ev.ThreadID), zap.Error(err))
		return
	}

	for _, userID := range ev.Recipients {
		if userID == "" || userID == ev.ActorID {
			continue
		}

		// A live socket is the sole delivery for this event; no duplicate push.
		if d.registry.NotifyUser(userID, payload) {
			d.log.Debug("fanout: socket delivery",
				zap.String("event", string(ev.Type)),
				zap.String("user_id", userID))
			continue
		}

		d.enqueuePush(ctx, ev, userID)
	}
}

func (d *Dispatcher) enqueuePush(ctx context.Context, ev Event, userID string) {
	body, err := json.Marshal(DeliverPushPayload{
		UserID: userID,
		Title:  ev.Title,
		Body:   ev.Body,
		Data:   ev.Data,
	})
	if err != nil {
		d.log.Error("fanout: encode push payload", zap.String("user_id", userID), zap.Error(err))
		return
	}

	// UniqueTTL collapses repeat enqueues of the same payload, e.g. when a
	// moderator double-submits an approval.
	opts := qport.EnqueueOption{Queue: "push", MaxRetry: 5, UniqueTTL: time.Minute}
	if _, err := d.queue.Enqueue(ctx, qport.Task{Type: DeliverPushTaskType, Payload: body}, opts); err != nil {
		d.log.Error("fanout: enqueue push",
			zap.String("event", string(ev.Type)),
			zap.String("user_id", userID),
			zap.Error(err))
	}
}
