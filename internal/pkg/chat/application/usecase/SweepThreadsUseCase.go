package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// SweepThreadsInput optionally narrows the sweep to one thread kind; empty
// means both kinds.
type SweepThreadsInput struct {
	Kind chat.ThreadKind
}

// SweepThreadsReport summarizes one sweep run.
type SweepThreadsReport struct {
	GroupCount int           `json:"groupCount"`
	Merged     int           `json:"merged"`
	Failed     int           `json:"failed"`
	Results    []MergeResult `json:"-"`
}

// SweepThreadsUseCase walks all active threads, groups them by participant
// key, and folds every group with more than one member into its most
// recently updated thread. Safe to rerun; a clean store yields an empty
// report.
type SweepThreadsUseCase struct {
	Threads repository.ThreadRepository
	merge   *MergeThreadsUseCase
	Log     *zap.Logger
}

func NewSweepThreadsUseCase(threads repository.ThreadRepository, log *zap.Logger) *SweepThreadsUseCase {
	return &SweepThreadsUseCase{
		Threads: threads,
		merge:   NewMergeThreadsUseCase(threads, log),
		Log:     log,
	}
}

func (uc *SweepThreadsUseCase) Execute(ctx context.Context, in SweepThreadsInput) (*SweepThreadsReport, error) {
	kinds := []chat.ThreadKind{chat.ThreadKindDirect, chat.ThreadKindGroup}
	if in.Kind != "" {
		if !in.Kind.IsValid() {
			return nil, fmt.Errorf("invalid thread kind: %q", in.Kind)
		}
		kinds = []chat.ThreadKind{in.Kind}
	}

	report := &SweepThreadsReport{}
	for _, kind := range kinds {
		if err := uc.sweepKind(ctx, kind, report); err != nil {
			return nil, err
		}
	}

	uc.Log.Info("thread sweep complete",
		zap.Int("groups", report.GroupCount),
		zap.Int("merged", report.Merged),
		zap.Int("failed", report.Failed))
	return report, nil
}

func (uc *SweepThreadsUseCase) sweepKind(ctx context.Context, kind chat.ThreadKind, report *SweepThreadsReport) error {
	threads, err := uc.Threads.ListActiveByKind(ctx, kind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	groups := make(map[string][]chat.Thread)
	for _, t := range threads {
		groups[t.ParticipantKey] = append(groups[t.ParticipantKey], t)
	}

	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		report.GroupCount++

		sort.Slice(group, func(i, j int) bool {
			return group[i].UpdatedAt.After(group[j].UpdatedAt)
		})

		results := uc.merge.collapse(ctx, group[0], group[1:])
		for _, r := range results {
			if r.Err != nil {
				report.Failed++
			} else {
				report.Merged++
			}
		}
		report.Results = append(report.Results, results...)
	}
	return nil
}
