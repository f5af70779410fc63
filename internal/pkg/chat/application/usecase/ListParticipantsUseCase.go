package usecase

import (
	"context"
	"fmt"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ListParticipantsInput wraps the thread identifier to fetch its members.
type ListParticipantsInput struct {
	ThreadID string
}

// ListParticipantsUseCase returns all participant rows of a thread.
type ListParticipantsUseCase struct {
	Threads repository.ThreadRepository
}

func NewListParticipantsUseCase(threads repository.ThreadRepository) *ListParticipantsUseCase {
	return &ListParticipantsUseCase{Threads: threads}
}

func (uc *ListParticipantsUseCase) Execute(ctx context.Context, in ListParticipantsInput) ([]chat.Participant, error) {
	if in.ThreadID == "" {
		return nil, fmt.Errorf("thread_id is required")
	}

	participants, err := uc.Threads.ListParticipants(ctx, in.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return participants, nil
}
