package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// DeleteMessageInput identifies the message and the requester. Sender-only;
// moderators reject rather than delete.
type DeleteMessageInput struct {
	MessageID   string
	RequesterID string
}

// DeleteMessageUseCase removes a message; its read receipts go with it.
type DeleteMessageUseCase struct {
	Messages repository.MessageRepository
}

func NewDeleteMessageUseCase(messages repository.MessageRepository) *DeleteMessageUseCase {
	return &DeleteMessageUseCase{Messages: messages}
}

func (uc *DeleteMessageUseCase) Execute(ctx context.Context, in DeleteMessageInput) error {
	if in.MessageID == "" || in.RequesterID == "" {
		return fmt.Errorf("message_id and requester_id are required")
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil {
		return chat.ErrMessageNotFound
	}
	if msg.SenderID != in.RequesterID {
		return chat.ErrForbidden
	}

	if err := uc.Messages.DeleteMessage(ctx, in.MessageID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
