package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ListThreadsInput carries the caller and paging.
type ListThreadsInput struct {
	UserID string
	Limit  int
	Offset int
}

// ListThreadsUseCase returns the caller's threads, most recently active
// first. Merged duplicates are excluded; their history lives on under the
// primary thread.
type ListThreadsUseCase struct {
	Threads repository.ThreadRepository
}

func NewListThreadsUseCase(threads repository.ThreadRepository) *ListThreadsUseCase {
	return &ListThreadsUseCase{Threads: threads}
}

func (uc *ListThreadsUseCase) Execute(ctx context.Context, in ListThreadsInput) ([]chat.Thread, error) {
	if in.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}

	threads, err := uc.Threads.ListThreadsForUser(ctx, in.UserID, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return threads, nil
}
