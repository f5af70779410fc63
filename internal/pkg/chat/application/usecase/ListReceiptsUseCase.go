package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ListReceiptsInput identifies the message whose read-by list is wanted.
// Only the sender and moderators may see who read a message.
type ListReceiptsInput struct {
	MessageID     string
	RequesterID   string
	RequesterRole chat.UserRole
}

// ListReceiptsUseCase returns the read receipts recorded for a message.
type ListReceiptsUseCase struct {
	Messages repository.MessageRepository
}

func NewListReceiptsUseCase(messages repository.MessageRepository) *ListReceiptsUseCase {
	return &ListReceiptsUseCase{Messages: messages}
}

func (uc *ListReceiptsUseCase) Execute(ctx context.Context, in ListReceiptsInput) ([]chat.ReadReceipt, error) {
	if in.MessageID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("message_id and requester_id are required")
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil {
		return nil, chat.ErrMessageNotFound
	}
	if msg.SenderID != in.RequesterID && !in.RequesterRole.HasModeratorRights() {
		return nil, chat.ErrForbidden
	}

	receipts, err := uc.Messages.ListReceipts(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return receipts, nil
}
