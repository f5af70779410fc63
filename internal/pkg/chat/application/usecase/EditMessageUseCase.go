package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// EditMessageInput carries the replacement content. Only the sender may
// edit; the approval state is untouched by an edit.
type EditMessageInput struct {
	MessageID   string
	RequesterID string
	Content     string
}

// EditMessageUseCase replaces a message's content in place.
type EditMessageUseCase struct {
	Messages repository.MessageRepository
}

func NewEditMessageUseCase(messages repository.MessageRepository) *EditMessageUseCase {
	return &EditMessageUseCase{Messages: messages}
}

func (uc *EditMessageUseCase) Execute(ctx context.Context, in EditMessageInput) (*chat.Message, error) {
	if in.MessageID == "" || in.RequesterID == "" {
		return nil, fmt.Errorf("message_id and requester_id are required")
	}

	content := strings.TrimSpace(in.Content)
	if content == "" {
		return nil, chat.ErrEmptyMessage
	}

	msg, err := uc.Messages.GetMessage(ctx, in.MessageID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if msg == nil {
		return nil, chat.ErrMessageNotFound
	}
	if msg.SenderID != in.RequesterID {
		return nil, chat.ErrForbidden
	}

	now := time.Now().UTC()
	if err := uc.Messages.UpdateContent(ctx, in.MessageID, content, now); err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, chat.ErrMessageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	msg.Content = content
	msg.UpdatedAt = now
	return msg, nil
}
