package repository

import (
	"context"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

// ThreadRepository defines persistence operations for threads and their
// participant rows. Implementations must map the store's unique-violation on
// the active participant key to chat.ErrDuplicateThreadKey so the resolution
// engine can retry the lookup instead of surfacing a conflict.
type ThreadRepository interface {
	// CreateThread persists the thread and all participant rows in a single
	// transaction; a thread is never left participant-less.
	CreateThread(ctx context.Context, t chat.Thread, participants []chat.Participant) (string, error)

	// GetThread returns (nil, nil) when no such thread exists; a non-nil
	// error always means a store failure. Use cases translate the nil
	// result into chat.ErrThreadNotFound.
	GetThread(ctx context.Context, threadID string) (*chat.Thread, error)

	// FindActiveByParticipantKey returns active threads of the kind matching
	// the normalized key, most recently updated first.
	FindActiveByParticipantKey(ctx context.Context, kind chat.ThreadKind, key string) ([]chat.Thread, error)

	// ListActiveByKind returns every active thread of the kind; used by the
	// administrative duplicate sweep.
	ListActiveByKind(ctx context.Context, kind chat.ThreadKind) ([]chat.Thread, error)

	ListThreadsForUser(ctx context.Context, userID string, limit, offset int) ([]chat.Thread, error)

	ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error)
	IsParticipant(ctx context.Context, threadID, userID string) (bool, error)

	// AddParticipant upserts keyed by (thread, user); on conflict the existing
	// row is kept so read state is never overwritten.
	AddParticipant(ctx context.Context, p chat.Participant) error

	// Touch advances updated_at to at if it is later than the current value.
	Touch(ctx context.Context, threadID string, at time.Time) error

	SetTitleIfEmpty(ctx context.Context, threadID, title string) error

	// MarkMerged retires a duplicate: status merged plus tombstone title.
	// Applies only while the thread is still active; returns false if it was
	// already merged (idempotent re-merge).
	MarkMerged(ctx context.Context, threadID, tombstoneTitle string) (bool, error)

	// ReassignMessages moves every message from one thread to another.
	ReassignMessages(ctx context.Context, fromThreadID, toThreadID string) (int64, error)

	// CopyParticipants upserts all of from's participant rows into to,
	// keeping existing rows on conflict.
	CopyParticipants(ctx context.Context, fromThreadID, toThreadID string) error

	// AdvanceLastRead moves the participant's last_read_at forward to at;
	// never backwards.
	AdvanceLastRead(ctx context.Context, threadID, userID string, at time.Time) error
}
