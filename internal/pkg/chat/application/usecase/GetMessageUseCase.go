package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// GetMessageInput carries the message identifier plus the viewer identity
// for the visibility check.
type GetMessageInput struct {
	MessageID  string
	ViewerID   string
	ViewerRole chat.UserRole
}

// GetMessageUseCase fetches a single message, applying the same visibility
// rule as the list path: thread members see approved messages and their own;
// moderators see everything.
type GetMessageUseCase struct {
	Threads  repository.ThreadRepository
	Messages repository.MessageRepository
}

func NewGetMessageUseCase(threads repository.ThreadRepository, messages repository.MessageRepository) *GetMessageUseCase {
	return &GetMessageUseCase{Threads: threads, Messages: messages}
}

func (uc *GetMessageUseCase) Execute(ctx context.Context, in GetMessageInput) (*chat.Message, error) {
	if in.MessageID == "" || in.ViewerID == "" {
		return nil, fmt.Errorf("message_id and viewer_id are required")
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil {
		return nil, chat.ErrMessageNotFound
	}

	moderator := in.ViewerRole.HasModeratorRights()
	if !moderator {
		isParticipant, err := uc.Threads.IsParticipant(ctx, msg.ThreadID, in.ViewerID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if !isParticipant {
			return nil, chat.ErrNotParticipant
		}
	}

	if !msg.VisibleTo(in.ViewerID, moderator) {
		return nil, chat.ErrMessageNotFound
	}
	return msg, nil
}
