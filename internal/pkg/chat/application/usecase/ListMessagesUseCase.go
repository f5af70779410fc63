package usecase

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ListMessagesInput carries the viewer identity alongside paging. The role
// decides whether pending messages from other senders are included.
type ListMessagesInput struct {
	ThreadID   string
	ViewerID   string
	ViewerRole chat.UserRole
	Limit      int
	Offset     int
}

// ListMessagesUseCase returns the thread's messages the viewer may see and,
// as a documented side effect, marks the returned messages from other
// senders as read for the viewer. Receipt recording is best-effort; a
// failure there never hides the messages.
type ListMessagesUseCase struct {
	Threads  repository.ThreadRepository
	Messages repository.MessageRepository
	Log      *zap.Logger
}

func NewListMessagesUseCase(threads repository.ThreadRepository, messages repository.MessageRepository, log *zap.Logger) *ListMessagesUseCase {
	return &ListMessagesUseCase{Threads: threads, Messages: messages, Log: log}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, in ListMessagesInput) ([]chat.Message, error) {
	if in.ThreadID == "" || in.ViewerID == "" {
		return nil, fmt.Errorf("thread_id and viewer_id are required")
	}

	thread, err := uc.Threads.GetThread(ctx, in.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if thread == nil {
		return nil, chat.ErrThreadNotFound
	}

	isParticipant, err := uc.Threads.IsParticipant(ctx, in.ThreadID, in.ViewerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	moderator := in.ViewerRole.HasModeratorRights()
	if !isParticipant && !moderator {
		return nil, chat.ErrNotParticipant
	}

	msgs, err := uc.Messages.ListVisible(ctx, in.ThreadID, in.ViewerID, moderator, in.Limit, in.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	// Moderator oversight reads do not count as participant reads.
	if isParticipant {
		uc.markRead(ctx, in, msgs)
	}

	return msgs, nil
}

func (uc *ListMessagesUseCase) markRead(ctx context.Context, in ListMessagesInput, msgs []chat.Message) {
	now := time.Now().UTC()
	for _, m := range msgs {
		if m.SenderID == in.ViewerID || m.ApprovalState != chat.ApprovalApproved {
			continue
		}
		r := chat.ReadReceipt{MessageID: m.ID, UserID: in.ViewerID, ReadAt: now}
		if err := uc.Messages.UpsertReceipt(ctx, r); err != nil {
			uc.Log.Warn("list messages: record receipt",
				zap.String("message_id", m.ID),
				zap.String("user_id", in.ViewerID),
				zap.Error(err))
		}
	}
	if err := uc.Threads.AdvanceLastRead(ctx, in.ThreadID, in.ViewerID, now); err != nil {
		uc.Log.Warn("list messages: advance last_read_at",
			zap.String("thread_id", in.ThreadID),
			zap.String("user_id", in.ViewerID),
			zap.Error(err))
	}
}
