package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"school-app-backend/internal/pkg/chat/application/fanout"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// ResolveThreadInput carries the requester plus the full set of users the
// conversation is between. The requester is always part of the set.
type ResolveThreadInput struct {
	RequesterID    string
	ParticipantIDs []string
	Kind           chat.ThreadKind
	Title          *string
}

// ResolveThreadOutput reports whether the thread was created on this call or
// an existing one was returned.
type ResolveThreadOutput struct {
	Thread  *chat.Thread
	Created bool
}

// ResolveThreadUseCase finds the canonical active thread for a participant
// set or creates it when none exists. The store's unique active-key
// constraint decides races between concurrent resolvers; the loser retries
// the lookup and continues the winner's thread.
type ResolveThreadUseCase struct {
	Threads repository.ThreadRepository
	Merge   *MergeThreadsUseCase
	Events  EventSink
	Log     *zap.Logger
}

func NewResolveThreadUseCase(threads repository.ThreadRepository, merge *MergeThreadsUseCase, events EventSink, log *zap.Logger) *ResolveThreadUseCase {
	return &ResolveThreadUseCase{Threads: threads, Merge: merge, Events: events, Log: log}
}

func (uc *ResolveThreadUseCase) Execute(ctx context.Context, in ResolveThreadInput) (*ResolveThreadOutput, error) {
	if in.RequesterID == "" {
		return nil, fmt.Errorf("requester_id is required")
	}
	if !in.Kind.IsValid() {
		return nil, fmt.Errorf("invalid thread kind: %q", in.Kind)
	}

	set := chat.ParticipantSet(append(append([]string{}, in.ParticipantIDs...), in.RequesterID))
	if err := chat.ValidateParticipantCount(in.Kind, set); err != nil {
		return nil, err
	}
	key := chat.ParticipantKey(set)

	// Two attempts: losing the creation race surfaces as
	// chat.ErrDuplicateThreadKey and the second lookup finds the winner.
	for attempt := 0; attempt < 2; attempt++ {
		matches, err := uc.Threads.FindActiveByParticipantKey(ctx, in.Kind, key)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		switch {
		case len(matches) == 1:
			return &ResolveThreadOutput{Thread: &matches[0]}, nil

		case len(matches) > 1:
			// Historical duplicates from before the unique key. Newest
			// stays primary, the rest are folded in best-effort.
			primary := matches[0]
			results := uc.Merge.collapse(ctx, primary, matches[1:])
			for _, r := range results {
				if r.Err != nil {
					uc.Log.Warn("thread resolution: duplicate merge failed",
						zap.String("primary_id", primary.ID),
						zap.String("duplicate_id", r.DuplicateID),
						zap.Error(r.Err))
				}
			}
			return &ResolveThreadOutput{Thread: &primary}, nil
		}

		thread, created, err := uc.create(ctx, in, set, key)
		if err != nil {
			if errors.Is(err, chat.ErrDuplicateThreadKey) {
				continue
			}
			return nil, err
		}
		return &ResolveThreadOutput{Thread: thread, Created: created}, nil
	}

	return nil, fmt.Errorf("%w: thread resolution did not converge for key %s", ErrPersistence, key)
}

func (uc *ResolveThreadUseCase) create(ctx context.Context, in ResolveThreadInput, set []string, key string) (*chat.Thread, bool, error) {
	now := time.Now().UTC()
	thread := chat.Thread{
		Kind:           in.Kind,
		Title:          in.Title,
		Status:         chat.ThreadStatusActive,
		ParticipantKey: key,
		CreatedBy:      in.RequesterID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	participants := make([]chat.Participant, 0, len(set))
	for _, uid := range set {
		role := chat.ParticipantRoleMember
		if in.Kind == chat.ThreadKindGroup && uid == in.RequesterID {
			role = chat.ParticipantRoleAdmin
		}
		participants = append(participants, chat.Participant{
			UserID:   uid,
			Role:     role,
			JoinedAt: now,
		})
	}

	id, err := uc.Threads.CreateThread(ctx, thread, participants)
	if err != nil {
		if errors.Is(err, chat.ErrDuplicateThreadKey) {
			return nil, false, err
		}
		return nil, false, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	thread.ID = id

	uc.Events.Deliver(fanout.Event{
		Type:       fanout.EventThreadCreated,
		ThreadID:   id,
		ActorID:    in.RequesterID,
		Recipients: set,
		Title:      "New conversation",
		Body:       "You have been added to a conversation",
		Data:       map[string]string{"thread_id": id},
	})

	return &thread, true, nil
}
