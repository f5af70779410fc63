package usecase

import (
	"context"
	"fmt"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// MarkThreadReadInput identifies the thread and the reading participant.
type MarkThreadReadInput struct {
	ThreadID string
	UserID   string
}

// MarkThreadReadOutput reports how many messages were newly marked read.
// Rerunning on a fully read thread yields zero.
type MarkThreadReadOutput struct {
	Marked int64 `json:"marked"`
}

// MarkThreadReadUseCase records receipts for every approved message in the
// thread the user has not read yet and bumps the participant's last_read_at.
type MarkThreadReadUseCase struct {
	Threads  repository.ThreadRepository
	Messages repository.MessageRepository
}

func NewMarkThreadReadUseCase(threads repository.ThreadRepository, messages repository.MessageRepository) *MarkThreadReadUseCase {
	return &MarkThreadReadUseCase{Threads: threads, Messages: messages}
}

func (uc *MarkThreadReadUseCase) Execute(ctx context.Context, in MarkThreadReadInput) (*MarkThreadReadOutput, error) {
	if in.ThreadID == "" || in.UserID == "" {
		return nil, fmt.Errorf("thread_id and user_id are required")
	}

	isParticipant, err := uc.Threads.IsParticipant(ctx, in.ThreadID, in.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if !isParticipant {
		return nil, chat.ErrNotParticipant
	}

	now := time.Now().UTC()
	marked, err := uc.Messages.MarkThreadRead(ctx, in.ThreadID, in.UserID, now)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Threads.AdvanceLastRead(ctx, in.ThreadID, in.UserID, now); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return &MarkThreadReadOutput{Marked: marked}, nil
}
