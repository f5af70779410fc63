package usecase

import (
	"context"
	"fmt"

	"school-app-backend/internal/pkg/chat/application/fanout"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// SendMessageInput carries the data needed to append a message to a thread.
// Content validation and defaults are handled via chat.NewMessage.
type SendMessageInput struct {
	ThreadID string
	SenderID string
	Content  string
	MsgType  chat.MessageType
}

// SendMessageUseCase appends a message to an active thread. The initial
// approval state comes from the moderation policy evaluated against the
// sender's role and the roles of the other participants; only approved
// messages fan out immediately.
type SendMessageUseCase struct {
	Threads   repository.ThreadRepository
	Messages  repository.MessageRepository
	Directory repository.Directory
	Policy    chat.ModerationPolicy
	Events    EventSink
}

func NewSendMessageUseCase(threads repository.ThreadRepository, messages repository.MessageRepository, directory repository.Directory, policy chat.ModerationPolicy, events EventSink) *SendMessageUseCase {
	return &SendMessageUseCase{
		Threads:   threads,
		Messages:  messages,
		Directory: directory,
		Policy:    policy,
		Events:    events,
	}
}

// Execute persists a new message and, when it is immediately visible,
// advances the thread and fans it out to the other participants.
func (uc *SendMessageUseCase) Execute(ctx context.Context, in SendMessageInput) (*chat.Message, error) {
	if in.ThreadID == "" || in.SenderID == "" {
		return nil, fmt.Errorf("thread_id and sender_id are required")
	}

	thread, err := uc.Threads.GetThread(ctx, in.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if thread == nil {
		return nil, chat.ErrThreadNotFound
	}
	if thread.Status != chat.ThreadStatusActive {
		return nil, chat.ErrThreadNotActive
	}

	participants, err := uc.Threads.ListParticipants(ctx, in.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	ids := make([]string, 0, len(participants))
	isParticipant := false
	for _, p := range participants {
		ids = append(ids, p.UserID)
		if p.UserID == in.SenderID {
			isParticipant = true
		}
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	roles, err := uc.Directory.RolesOf(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	recipients := make([]chat.UserRole, 0, len(ids))
	for _, id := range ids {
		if id == in.SenderID {
			continue
		}
		recipients = append(recipients, roles[id])
	}

	msg, err := chat.NewMessage(chat.Message{
		ThreadID:      in.ThreadID,
		SenderID:      in.SenderID,
		Content:       in.Content,
		MsgType:       in.MsgType,
		ApprovalState: uc.Policy.InitialApprovalState(roles[in.SenderID], recipients),
	})
	if err != nil {
		return nil, err
	}

	id, err := uc.Messages.SaveMessage(ctx, *msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	msg.ID = id

	if msg.ApprovalState == chat.ApprovalApproved {
		if err := uc.Threads.Touch(ctx, in.ThreadID, msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		uc.Events.Deliver(fanout.Event{
			Type:       fanout.EventMessageApproved,
			ThreadID:   in.ThreadID,
			ActorID:    in.SenderID,
			Recipients: ids,
			Title:      "New message",
			Body:       msg.Content,
			Data:       map[string]string{"thread_id": in.ThreadID, "message_id": id},
		})
	}

	return msg, nil
}
