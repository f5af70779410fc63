package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// JoinThreadInput validates a request to attach a user session to a thread.
type JoinThreadInput struct {
	ThreadID string
	UserID   string
}

// JoinThreadUseCase ensures the user belongs to an active thread before the
// realtime layer attaches their connection to it.
type JoinThreadUseCase struct {
	Threads repository.ThreadRepository
}

func NewJoinThreadUseCase(threads repository.ThreadRepository) *JoinThreadUseCase {
	return &JoinThreadUseCase{Threads: threads}
}

func (uc *JoinThreadUseCase) Execute(ctx context.Context, in JoinThreadInput) error {
	if in.ThreadID == "" || in.UserID == "" {
		return fmt.Errorf("thread_id and user_id are required")
	}

	thread, err := uc.Threads.GetThread(ctx, in.ThreadID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if thread == nil {
		return chat.ErrThreadNotFound
	}
	if thread.Status != chat.ThreadStatusActive {
		return chat.ErrThreadNotActive
	}

	ok, err := uc.Threads.IsParticipant(ctx, in.ThreadID, in.UserID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !ok {
		return chat.ErrNotParticipant
	}
	return nil
}
