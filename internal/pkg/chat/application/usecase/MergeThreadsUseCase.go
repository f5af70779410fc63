package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// MergeThreadsInput names the surviving thread and the duplicates to fold
// into it.
type MergeThreadsInput struct {
	PrimaryID    string
	DuplicateIDs []string
}

// MergeResult reports the outcome for a single duplicate. A failed duplicate
// never blocks the others.
type MergeResult struct {
	DuplicateID string
	Messages    int64
	Err         error
}

// MergeThreadsUseCase folds duplicate threads into a primary: messages are
// reassigned, participants unioned, the primary keeps the later updated_at
// and adopts a title if it has none, and each duplicate is retired with a
// tombstone title. Re-merging an already merged duplicate is a no-op.
type MergeThreadsUseCase struct {
	Threads repository.ThreadRepository
	Log     *zap.Logger
}

func NewMergeThreadsUseCase(threads repository.ThreadRepository, log *zap.Logger) *MergeThreadsUseCase {
	return &MergeThreadsUseCase{Threads: threads, Log: log}
}

func (uc *MergeThreadsUseCase) Execute(ctx context.Context, in MergeThreadsInput) ([]MergeResult, error) {
	if in.PrimaryID == "" || len(in.DuplicateIDs) == 0 {
		return nil, fmt.Errorf("primary_id and duplicate_ids are required")
	}

	primary, err := uc.Threads.GetThread(ctx, in.PrimaryID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if primary == nil {
		return nil, chat.ErrThreadNotFound
	}
	if primary.Status != chat.ThreadStatusActive {
		return nil, chat.ErrThreadNotActive
	}

	dups := make([]chat.Thread, 0, len(in.DuplicateIDs))
	for _, id := range in.DuplicateIDs {
		if id == "" || id == primary.ID {
			continue
		}
		d, err := uc.Threads.GetThread(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		if d == nil {
			return nil, fmt.Errorf("%w: duplicate %s", chat.ErrThreadNotFound, id)
		}
		dups = append(dups, *d)
	}

	return uc.collapse(ctx, *primary, dups), nil
}

// collapse folds each duplicate into the primary, one duplicate at a time so
// one failure cannot take down the batch.
func (uc *MergeThreadsUseCase) collapse(ctx context.Context, primary chat.Thread, dups []chat.Thread) []MergeResult {
	results := make([]MergeResult, 0, len(dups))
	for _, dup := range dups {
		res := MergeResult{DuplicateID: dup.ID}

		if dup.Status != chat.ThreadStatusActive {
			// Already retired by an earlier merge.
			results = append(results, res)
			continue
		}

		res.Messages, res.Err = uc.mergeOne(ctx, primary, dup)
		if res.Err != nil {
			uc.Log.Error("thread merge: duplicate failed",
				zap.String("primary_id", primary.ID),
				zap.String("duplicate_id", dup.ID),
				zap.Error(res.Err))
		} else {
			uc.Log.Info("thread merge: duplicate folded",
				zap.String("primary_id", primary.ID),
				zap.String("duplicate_id", dup.ID),
				zap.Int64("messages", res.Messages))
		}
		results = append(results, res)
	}
	return results
}

func (uc *MergeThreadsUseCase) mergeOne(ctx context.Context, primary, dup chat.Thread) (int64, error) {
	moved, err := uc.Threads.ReassignMessages(ctx, dup.ID, primary.ID)
	if err != nil {
		return 0, fmt.Errorf("reassign messages: %w", err)
	}

	if err := uc.Threads.CopyParticipants(ctx, dup.ID, primary.ID); err != nil {
		return moved, fmt.Errorf("copy participants: %w", err)
	}

	if err := uc.Threads.Touch(ctx, primary.ID, dup.UpdatedAt); err != nil {
		return moved, fmt.Errorf("advance updated_at: %w", err)
	}

	if dup.Title != nil && *dup.Title != "" {
		if err := uc.Threads.SetTitleIfEmpty(ctx, primary.ID, *dup.Title); err != nil {
			return moved, fmt.Errorf("adopt title: %w", err)
		}
	}

	if _, err := uc.Threads.MarkMerged(ctx, dup.ID, chat.TombstoneTitle(primary.ID)); err != nil {
		return moved, fmt.Errorf("retire duplicate: %w", err)
	}

	return moved, nil
}
