package usecase

import (
	"context"
	"fmt"
	"time"

	"school-app-backend/internal/pkg/chat/application/fanout"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ApproveMessageInput identifies the pending message and the moderator
// deciding it. The role comes from the verified token, not from storage.
type ApproveMessageInput struct {
	MessageID     string
	ModeratorID   string
	ModeratorRole chat.UserRole
}

// ApproveMessageUseCase transitions a pending message to approved, records
// who decided and when, and triggers the message's first fan-out. Approving
// an already approved message is a no-op, so the loser of a moderator race
// sees success; approving a rejected message fails.
type ApproveMessageUseCase struct {
	Threads  repository.ThreadRepository
	Messages repository.MessageRepository
	Events   EventSink
}

func NewApproveMessageUseCase(threads repository.ThreadRepository, messages repository.MessageRepository, events EventSink) *ApproveMessageUseCase {
	return &ApproveMessageUseCase{Threads: threads, Messages: messages, Events: events}
}

func (uc *ApproveMessageUseCase) Execute(ctx context.Context, in ApproveMessageInput) (*chat.Message, error) {
	if in.MessageID == "" || in.ModeratorID == "" {
		return nil, fmt.Errorf("message_id and moderator_id are required")
	}
	if !in.ModeratorRole.HasModeratorRights() {
		return nil, chat.ErrNotModerator
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil {
		return nil, chat.ErrMessageNotFound
	}

	now := time.Now().UTC()
	applied, err := uc.Messages.Approve(ctx, in.MessageID, in.ModeratorID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !applied {
		// The state moved under us. Approved means another moderator got
		// there first; rejected means the decision conflicts.
		current, err := uc.Messages.GetMessage(ctx, in.MessageID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if current == nil {
			return nil, chat.ErrMessageNotFound
		}
		if current.ApprovalState == chat.ApprovalApproved {
			return current, nil
		}
		return nil, chat.ErrAlreadyDecided
	}

	msg.ApprovalState = chat.ApprovalApproved
	msg.ApprovedBy = &in.ModeratorID
	msg.ApprovedAt = &now
	msg.UpdatedAt = now

	if err := uc.Threads.Touch(ctx, msg.ThreadID, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	participants, err := uc.Threads.ListParticipants(ctx, msg.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	recipients := make([]string, 0, len(participants))
	for _, p := range participants {
		recipients = append(recipients, p.UserID)
	}

	uc.Events.Deliver(fanout.Event{
		Type:       fanout.EventMessageApproved,
		ThreadID:   msg.ThreadID,
		ActorID:    msg.SenderID,
		Recipients: recipients,
		Title:      "New message",
		Body:       msg.Content,
		Data:       map[string]string{"thread_id": msg.ThreadID, "message_id": msg.ID},
	})

	return msg, nil
}
