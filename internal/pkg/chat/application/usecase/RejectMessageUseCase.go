package usecase

import (
	"context"
	"fmt"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// RejectMessageInput identifies the pending message and the moderator
// deciding it.
type RejectMessageInput struct {
	MessageID     string
	ModeratorID   string
	ModeratorRole chat.UserRole
}

// RejectMessageUseCase transitions a pending message to rejected. The
// message stays visible to its sender and to moderators; it never fans out.
// Rejecting an already rejected message is a no-op; rejecting an approved
// one fails, the approval already reached participants.
type RejectMessageUseCase struct {
	Messages repository.MessageRepository
}

func NewRejectMessageUseCase(messages repository.MessageRepository) *RejectMessageUseCase {
	return &RejectMessageUseCase{Messages: messages}
}

func (uc *RejectMessageUseCase) Execute(ctx context.Context, in RejectMessageInput) (*chat.Message, error) {
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
	applied, err := uc.Messages.Reject(ctx, in.MessageID, in.ModeratorID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if !applied {
		current, err := uc.Messages.GetMessage(ctx, in.MessageID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if current == nil {
			return nil, chat.ErrMessageNotFound
		}
		if current.ApprovalState == chat.ApprovalRejected {
			return current, nil
		}
		return nil, chat.ErrAlreadyDecided
	}

	msg.ApprovalState = chat.ApprovalRejected
	msg.ApprovedBy = &in.ModeratorID
	msg.ApprovedAt = &now
	msg.UpdatedAt = now
	return msg, nil
}
