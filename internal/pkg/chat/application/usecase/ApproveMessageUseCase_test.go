package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/fanout"
)

type moderationFixture struct {
	*sendFixture
	approve *ApproveMessageUseCase
	reject  *RejectMessageUseCase
	pending *chat.Message
}

func newModerationFixture(t *testing.T) *moderationFixture {
	t.Helper()
	f := newSendFixture(t)

	pending, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID,
		SenderID: "staff-1",
		Content:  "held for review",
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalPending, pending.ApprovalState)

	return &moderationFixture{
		sendFixture: f,
		approve:     NewApproveMessageUseCase(f.threads, f.messages, f.sink),
		reject:      NewRejectMessageUseCase(f.messages),
		pending:     pending,
	}
}

func TestApproveMessage_ReleasesAndFansOut(t *testing.T) {
	f := newModerationFixture(t)

	msg, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID:     f.pending.ID,
		ModeratorID:   "moderator-1",
		ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalApproved, msg.ApprovalState)
	require.Equal(t, "moderator-1", *msg.ApprovedBy)
	require.NotNil(t, msg.ApprovedAt)

	events := f.sink.all()
	require.Len(t, events, 1)
	require.Equal(t, fanout.EventMessageApproved, events[0].Type)
	// The sender is the actor; delivery goes to the other participants.
	require.Equal(t, "staff-1", events[0].ActorID)

	visible, err := f.messages.ListVisible(context.Background(), f.threadID, "guardian-1", false, 50, 0)
	require.NoError(t, err)
	require.Len(t, visible, 1)
}

func TestApproveMessage_SecondApprovalIsNoOp(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-1", ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)

	// The losing moderator sees success and exactly one fan-out happened.
	msg, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-2", ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalApproved, msg.ApprovalState)
	require.Equal(t, "moderator-1", *msg.ApprovedBy)
	require.Len(t, f.sink.all(), 1)
}

func TestApproveMessage_RejectedIsFinal(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.reject.Execute(context.Background(), RejectMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-1", ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)

	_, err = f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-2", ModeratorRole: chat.RoleModerator,
	})
	require.ErrorIs(t, err, chat.ErrAlreadyDecided)
}

func TestRejectMessage_KeepsMessageHiddenFromRecipients(t *testing.T) {
	f := newModerationFixture(t)

	msg, err := f.reject.Execute(context.Background(), RejectMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-1", ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalRejected, msg.ApprovalState)
	require.Empty(t, f.sink.all())

	visible, err := f.messages.ListVisible(context.Background(), f.threadID, "guardian-1", false, 50, 0)
	require.NoError(t, err)
	require.Empty(t, visible)

	// Sender keeps seeing the rejected message.
	own, err := f.messages.ListVisible(context.Background(), f.threadID, "staff-1", false, 50, 0)
	require.NoError(t, err)
	require.Len(t, own, 1)
}

func TestRejectMessage_ApprovedIsFinal(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-1", ModeratorRole: chat.RoleModerator,
	})
	require.NoError(t, err)

	_, err = f.reject.Execute(context.Background(), RejectMessageInput{
		MessageID: f.pending.ID, ModeratorID: "moderator-2", ModeratorRole: chat.RoleModerator,
	})
	require.ErrorIs(t, err, chat.ErrAlreadyDecided)
}

func TestModeration_RequiresModeratorRights(t *testing.T) {
	f := newModerationFixture(t)

	_, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "guardian-1", ModeratorRole: chat.RoleGuardian,
	})
	require.ErrorIs(t, err, chat.ErrNotModerator)

	_, err = f.reject.Execute(context.Background(), RejectMessageInput{
		MessageID: f.pending.ID, ModeratorID: "staff-1", ModeratorRole: chat.RoleStaff,
	})
	require.ErrorIs(t, err, chat.ErrNotModerator)
}

func TestModeration_AdminHasModeratorRights(t *testing.T) {
	f := newModerationFixture(t)

	msg, err := f.approve.Execute(context.Background(), ApproveMessageInput{
		MessageID: f.pending.ID, ModeratorID: "admin-1", ModeratorRole: chat.RoleAdmin,
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalApproved, msg.ApprovalState)
}

func TestListPending_ModeratorOnly(t *testing.T) {
	f := newModerationFixture(t)
	uc := NewListPendingUseCase(f.messages)

	msgs, err := uc.Execute(context.Background(), ListPendingInput{RequesterRole: chat.RoleModerator, Limit: 50})
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	require.Equal(t, f.pending.ID, msgs[0].ID)

	_, err = uc.Execute(context.Background(), ListPendingInput{RequesterRole: chat.RoleStaff, Limit: 50})
	require.ErrorIs(t, err, chat.ErrNotModerator)
}
