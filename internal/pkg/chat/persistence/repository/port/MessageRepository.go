package repository

import (
	"context"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

// MessageRepository defines persistence operations for messages and read
// receipts.
type MessageRepository interface {
	SaveMessage(ctx context.Context, m chat.Message) (string, error)

	// GetMessage returns (nil, nil) when no such message exists; a non-nil
	// error always means a store failure. Use cases translate the nil
	// result into chat.ErrMessageNotFound.
	GetMessage(ctx context.Context, messageID string) (*chat.Message, error)

	// ListVisible returns the thread's messages filtered by the visibility
	// rule at query time: approved, or sent by the viewer, or the viewer
	// holds moderator rights (includePending).
	ListVisible(ctx context.Context, threadID, viewerID string, includePending bool, limit, offset int) ([]chat.Message, error)

	// ListPending returns all pending messages across threads, oldest first.
	ListPending(ctx context.Context, limit, offset int) ([]chat.Message, error)

	// Approve conditionally transitions pending -> approved. Returns false
	// without error when the message was no longer pending, so a racing
	// moderator observes a no-op rather than a failure.
	Approve(ctx context.Context, messageID, moderatorID string, at time.Time) (bool, error)

	// Reject conditionally transitions pending -> rejected.
	Reject(ctx context.Context, messageID, moderatorID string, at time.Time) (bool, error)

	// UpdateContent returns chat.ErrMessageNotFound when the message was
	// deleted between fetch and update.
	UpdateContent(ctx context.Context, messageID, content string, at time.Time) error

	// DeleteMessage removes the message and cascades its read receipts.
	DeleteMessage(ctx context.Context, messageID string) error

	// UpsertReceipt records a read keyed by (message, user); repeated reads
	// update read_at, last write wins.
	UpsertReceipt(ctx context.Context, r chat.ReadReceipt) error

	ListReceipts(ctx context.Context, messageID string) ([]chat.ReadReceipt, error)

	// MarkThreadRead inserts receipts for every approved message in the
	// thread the user has not read yet and reports how many were created.
	MarkThreadRead(ctx context.Context, threadID, userID string, at time.Time) (int64, error)
}
