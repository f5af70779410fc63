package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/fanout"
)

type sendFixture struct {
	threads  *memThreadRepo
	messages *memMessageRepo
	sink     *recordingSink
	uc       *SendMessageUseCase
	threadID string
}

// newSendFixture seeds one active direct thread between a staff member and a
// guardian, plus a moderator who is not a participant.
func newSendFixture(t *testing.T) *sendFixture {
	t.Helper()

	threads := newMemThreadRepo()
	messages := newMemMessageRepo()
	sink := &recordingSink{}
	directory := &memDirectory{roles: map[string]chat.UserRole{
		"staff-1":    chat.RoleStaff,
		"guardian-1": chat.RoleGuardian,
		"moderator-1": chat.RoleModerator,
	}}

	now := time.Now().UTC()
	threadID, err := threads.CreateThread(context.Background(), chat.Thread{
		Kind:           chat.ThreadKindDirect,
		Status:         chat.ThreadStatusActive,
		ParticipantKey: chat.ParticipantKey([]string{"staff-1", "guardian-1"}),
		CreatedBy:      "staff-1",
		CreatedAt:      now,
		UpdatedAt:      now,
	}, []chat.Participant{
		{UserID: "staff-1", Role: chat.ParticipantRoleMember, JoinedAt: now},
		{UserID: "guardian-1", Role: chat.ParticipantRoleMember, JoinedAt: now},
	})
	require.NoError(t, err)

	uc := NewSendMessageUseCase(threads, messages, directory, chat.DefaultModerationPolicy(), sink)
	return &sendFixture{threads: threads, messages: messages, sink: sink, uc: uc, threadID: threadID}
}

func TestSendMessage_StaffToGuardianStartsPending(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "staff-1",
		Content:  "Please come to the parent meeting",
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalPending, msg.ApprovalState)

	// A held message must not fan out or surface in the guardian's view.
	require.Empty(t, f.sink.all())

	visible, err := f.messages.ListVisible(context.Background(), f.threadID, "guardian-1", false, 50, 0)
	require.NoError(t, err)
	require.Empty(t, visible)

	// The sender still sees their own pending message.
	own, err := f.messages.ListVisible(context.Background(), f.threadID, "staff-1", false, 50, 0)
	require.NoError(t, err)
	require.Len(t, own, 1)
}

func TestSendMessage_GuardianReplyIsImmediatelyApproved(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "guardian-1",
		Content:  "Thank you, I will attend",
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalApproved, msg.ApprovalState)

	events := f.sink.all()
	require.Len(t, events, 1)
	require.Equal(t, fanout.EventMessageApproved, events[0].Type)
	require.Equal(t, "guardian-1", events[0].ActorID)
	require.Contains(t, events[0].Recipients, "staff-1")
}

func TestSendMessage_ApprovedMessageAdvancesThreadActivity(t *testing.T) {
	f := newSendFixture(t)

	before, err := f.threads.GetThread(context.Background(), f.threadID)
	require.NoError(t, err)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "guardian-1",
		Content:  "hello",
	})
	require.NoError(t, err)

	after, err := f.threads.GetThread(context.Background(), f.threadID)
	require.NoError(t, err)
	require.False(t, after.UpdatedAt.Before(before.UpdatedAt))
	require.Equal(t, msg.CreatedAt, after.UpdatedAt)
}

func TestSendMessage_NonParticipantRejected(t *testing.T) {
	f := newSendFixture(t)

	_, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "moderator-1",
		Content:  "hi",
	})
	require.ErrorIs(t, err, chat.ErrNotParticipant)
}

func TestSendMessage_MergedThreadRejected(t *testing.T) {
	f := newSendFixture(t)

	_, err := f.threads.MarkMerged(context.Background(), f.threadID, chat.TombstoneTitle("other"))
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "staff-1",
		Content:  "hi",
	})
	require.ErrorIs(t, err, chat.ErrThreadNotActive)
}

func TestSendMessage_EmptyContentRejected(t *testing.T) {
	f := newSendFixture(t)

	_, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "staff-1",
		Content:  "   ",
	})
	require.ErrorIs(t, err, chat.ErrEmptyMessage)
}

func TestSendMessage_UnknownThreadRejected(t *testing.T) {
	f := newSendFixture(t)

	_, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: "missing",
		SenderID: "staff-1",
		Content:  "hi",
	})
	require.ErrorIs(t, err, chat.ErrThreadNotFound)
}
