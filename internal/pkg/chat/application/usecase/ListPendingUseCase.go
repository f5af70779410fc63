package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ListPendingInput carries the moderator identity and paging.
type ListPendingInput struct {
	RequesterRole chat.UserRole
	Limit         int
	Offset        int
}

// ListPendingUseCase returns the moderation queue: pending messages across
// all threads, oldest first.
type ListPendingUseCase struct {
	Messages repository.MessageRepository
}

func NewListPendingUseCase(messages repository.MessageRepository) *ListPendingUseCase {
	return &ListPendingUseCase{Messages: messages}
}

func (uc *ListPendingUseCase) Execute(ctx context.Context, in ListPendingInput) ([]chat.Message, error) {
	if !in.RequesterRole.HasModeratorRights() {
		return nil, chat.ErrNotModerator
	}

	msgs, err := uc.Messages.ListPending(ctx, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return msgs, nil
}
