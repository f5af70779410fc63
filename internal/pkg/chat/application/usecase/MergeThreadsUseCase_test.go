package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

type mergeFixture struct {
	threads  *memThreadRepo
	messages *memMessageRepo
	uc       *MergeThreadsUseCase
}

func newMergeFixture() *mergeFixture {
	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	threads.reassign = messages.reassignMessages
	return &mergeFixture{
		threads:  threads,
		messages: messages,
		uc:       NewMergeThreadsUseCase(threads, zap.NewNop()),
	}
}

func (f *mergeFixture) seedThread(id string, title *string, updatedAt time.Time, users ...string) {
	f.threads.threads[id] = &chat.Thread{
		ID: id, Kind: chat.ThreadKindDirect, Status: chat.ThreadStatusActive,
		Title: title, ParticipantKey: chat.ParticipantKey(users), CreatedBy: users[0],
		CreatedAt: updatedAt, UpdatedAt: updatedAt,
	}
	for _, u := range users {
		f.threads.participants[id] = append(f.threads.participants[id], chat.Participant{ThreadID: id, UserID: u})
	}
}

func (f *mergeFixture) seedMessage(threadID, senderID, content string) string {
	id, _ := f.messages.SaveMessage(context.Background(), chat.Message{
		ThreadID: threadID, SenderID: senderID, Content: content,
		ApprovalState: chat.ApprovalApproved, CreatedAt: time.Now().UTC(),
	})
	return id
}

func TestMergeThreads_FoldsDuplicateIntoPrimary(t *testing.T) {
	f := newMergeFixture()
	old := time.Now().UTC().Add(-time.Hour)
	recent := time.Now().UTC()

	title := "Class 5B"
	f.seedThread("primary", nil, old, "u1", "u2")
	f.seedThread("dup", &title, recent, "u1", "u3")

	msgID := f.seedMessage("dup", "u1", "moved along")

	results, err := f.uc.Execute(context.Background(), MergeThreadsInput{
		PrimaryID:    "primary",
		DuplicateIDs: []string{"dup"},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Equal(t, int64(1), results[0].Messages)

	// Message now lives under the primary.
	moved, err := f.messages.GetMessage(context.Background(), msgID)
	require.NoError(t, err)
	require.Equal(t, "primary", moved.ThreadID)

	// Participant union, activity advanced, title adopted.
	primary, err := f.threads.GetThread(context.Background(), "primary")
	require.NoError(t, err)
	require.Equal(t, recent, primary.UpdatedAt)
	require.Equal(t, title, *primary.Title)

	ok, err := f.threads.IsParticipant(context.Background(), "primary", "u3")
	require.NoError(t, err)
	require.True(t, ok)

	// Duplicate retired with a tombstone, never deleted.
	dup, err := f.threads.GetThread(context.Background(), "dup")
	require.NoError(t, err)
	require.Equal(t, chat.ThreadStatusMerged, dup.Status)
	require.Equal(t, chat.TombstoneTitle("primary"), *dup.Title)
}

func TestMergeThreads_RepeatMergeIsNoOp(t *testing.T) {
	f := newMergeFixture()
	now := time.Now().UTC()
	f.seedThread("primary", nil, now, "u1", "u2")
	f.seedThread("dup", nil, now, "u1", "u2")

	_, err := f.uc.Execute(context.Background(), MergeThreadsInput{PrimaryID: "primary", DuplicateIDs: []string{"dup"}})
	require.NoError(t, err)

	results, err := f.uc.Execute(context.Background(), MergeThreadsInput{PrimaryID: "primary", DuplicateIDs: []string{"dup"}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.NoError(t, results[0].Err)
	require.Zero(t, results[0].Messages)
}

func TestMergeThreads_PrimaryMustBeActive(t *testing.T) {
	f := newMergeFixture()
	now := time.Now().UTC()
	f.seedThread("primary", nil, now, "u1", "u2")
	f.seedThread("dup", nil, now, "u1", "u2")
	f.threads.threads["primary"].Status = chat.ThreadStatusMerged

	_, err := f.uc.Execute(context.Background(), MergeThreadsInput{PrimaryID: "primary", DuplicateIDs: []string{"dup"}})
	require.ErrorIs(t, err, chat.ErrThreadNotActive)
}

func TestSweepThreads_MergesEveryDuplicateGroup(t *testing.T) {
	f := newMergeFixture()
	old := time.Now().UTC().Add(-time.Hour)
	recent := time.Now().UTC()

	// Two duplicates of one pair, one standalone thread.
	f.seedThread("a1", nil, old, "u1", "u2")
	f.seedThread("a2", nil, recent, "u1", "u2")
	f.seedThread("b1", nil, recent, "u3", "u4")

	uc := NewSweepThreadsUseCase(f.threads, zap.NewNop())
	report, err := uc.Execute(context.Background(), SweepThreadsInput{Kind: chat.ThreadKindDirect})
	require.NoError(t, err)
	require.Equal(t, 1, report.GroupCount)
	require.Equal(t, 1, report.Merged)
	require.Zero(t, report.Failed)

	// Newest member of the group survives.
	survivor, err := f.threads.GetThread(context.Background(), "a2")
	require.NoError(t, err)
	require.Equal(t, chat.ThreadStatusActive, survivor.Status)

	folded, err := f.threads.GetThread(context.Background(), "a1")
	require.NoError(t, err)
	require.Equal(t, chat.ThreadStatusMerged, folded.Status)

	// A second run finds nothing to do.
	report, err = uc.Execute(context.Background(), SweepThreadsInput{Kind: chat.ThreadKindDirect})
	require.NoError(t, err)
	require.Zero(t, report.GroupCount)
}
