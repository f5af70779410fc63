package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

func TestListMessages_MarksReturnedMessagesRead(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "guardian-1", Content: "hello",
	})
	require.NoError(t, err)

	list := NewListMessagesUseCase(f.threads, f.messages, zap.NewNop())
	msgs, err := list.Execute(context.Background(), ListMessagesInput{
		ThreadID: f.threadID, ViewerID: "staff-1", ViewerRole: chat.RoleStaff, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	receipts, err := f.messages.ListReceipts(context.Background(), msg.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	require.Equal(t, "staff-1", receipts[0].UserID)

	participants, err := f.threads.ListParticipants(context.Background(), f.threadID)
	require.NoError(t, err)
	for _, p := range participants {
		if p.UserID == "staff-1" {
			require.NotNil(t, p.LastReadAt)
		}
	}
}

func TestListMessages_RereadDoesNotDuplicateReceipts(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "guardian-1", Content: "hello",
	})
	require.NoError(t, err)

	list := NewListMessagesUseCase(f.threads, f.messages, zap.NewNop())
	for i := 0; i < 3; i++ {
		_, err := list.Execute(context.Background(), ListMessagesInput{
			ThreadID: f.threadID, ViewerID: "staff-1", ViewerRole: chat.RoleStaff, Limit: 50,
		})
		require.NoError(t, err)
	}

	receipts, err := f.messages.ListReceipts(context.Background(), msg.ID)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
}

func TestListMessages_OwnMessagesGetNoReceipt(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "guardian-1", Content: "hello",
	})
	require.NoError(t, err)

	list := NewListMessagesUseCase(f.threads, f.messages, zap.NewNop())
	_, err = list.Execute(context.Background(), ListMessagesInput{
		ThreadID: f.threadID, ViewerID: "guardian-1", ViewerRole: chat.RoleGuardian, Limit: 50,
	})
	require.NoError(t, err)

	receipts, err := f.messages.ListReceipts(context.Background(), msg.ID)
	require.NoError(t, err)
	require.Empty(t, receipts)
}

func TestListMessages_ModeratorSeesPendingWithoutReceipts(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "staff-1", Content: "held",
	})
	require.NoError(t, err)
	require.Equal(t, chat.ApprovalPending, msg.ApprovalState)

	list := NewListMessagesUseCase(f.threads, f.messages, zap.NewNop())
	msgs, err := list.Execute(context.Background(), ListMessagesInput{
		ThreadID: f.threadID, ViewerID: "moderator-1", ViewerRole: chat.RoleModerator, Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	// Oversight reads are not participant reads.
	receipts, err := f.messages.ListReceipts(context.Background(), msg.ID)
	require.NoError(t, err)
	require.Empty(t, receipts)
}

func TestListMessages_OutsiderRejected(t *testing.T) {
	f := newSendFixture(t)

	list := NewListMessagesUseCase(f.threads, f.messages, zap.NewNop())
	_, err := list.Execute(context.Background(), ListMessagesInput{
		ThreadID: f.threadID, ViewerID: "stranger", ViewerRole: chat.RoleGuardian, Limit: 50,
	})
	require.ErrorIs(t, err, chat.ErrNotParticipant)
}

func TestMarkThreadRead_IsIdempotent(t *testing.T) {
	f := newSendFixture(t)

	for i := 0; i < 3; i++ {
		_, err := f.uc.Execute(context.Background(), SendMessageInput{
			ThreadID: f.threadID, SenderID: "guardian-1", Content: "hello",
		})
		require.NoError(t, err)
	}

	mark := NewMarkThreadReadUseCase(f.threads, f.messages)
	out, err := mark.Execute(context.Background(), MarkThreadReadInput{ThreadID: f.threadID, UserID: "staff-1"})
	require.NoError(t, err)
	require.Equal(t, int64(3), out.Marked)

	out, err = mark.Execute(context.Background(), MarkThreadReadInput{ThreadID: f.threadID, UserID: "staff-1"})
	require.NoError(t, err)
	require.Zero(t, out.Marked)
}

func TestMarkThreadRead_OutsiderRejected(t *testing.T) {
	f := newSendFixture(t)

	mark := NewMarkThreadReadUseCase(f.threads, f.messages)
	_, err := mark.Execute(context.Background(), MarkThreadReadInput{ThreadID: f.threadID, UserID: "stranger"})
	require.ErrorIs(t, err, chat.ErrNotParticipant)
}

func TestListReceipts_SenderAndModeratorOnly(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "guardian-1", Content: "hello",
	})
	require.NoError(t, err)

	uc := NewListReceiptsUseCase(f.messages)

	_, err = uc.Execute(context.Background(), ListReceiptsInput{
		MessageID: msg.ID, RequesterID: "guardian-1", RequesterRole: chat.RoleGuardian,
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), ListReceiptsInput{
		MessageID: msg.ID, RequesterID: "moderator-1", RequesterRole: chat.RoleModerator,
	})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), ListReceiptsInput{
		MessageID: msg.ID, RequesterID: "staff-1", RequesterRole: chat.RoleStaff,
	})
	require.ErrorIs(t, err, chat.ErrForbidden)
}

func TestEditAndDeleteMessage_SenderOnly(t *testing.T) {
	f := newSendFixture(t)

	msg, err := f.uc.Execute(context.Background(), SendMessageInput{
		ThreadID: f.threadID, SenderID: "guardian-1", Content: "helo",
	})
	require.NoError(t, err)

	edit := NewEditMessageUseCase(f.messages)
	_, err = edit.Execute(context.Background(), EditMessageInput{
		MessageID: msg.ID, RequesterID: "staff-1", Content: "nope",
	})
	require.ErrorIs(t, err, chat.ErrForbidden)

	updated, err := edit.Execute(context.Background(), EditMessageInput{
		MessageID: msg.ID, RequesterID: "guardian-1", Content: "hello",
	})
	require.NoError(t, err)
	require.Equal(t, "hello", updated.Content)
	require.Equal(t, chat.ApprovalApproved, updated.ApprovalState)

	del := NewDeleteMessageUseCase(f.messages)
	err = del.Execute(context.Background(), DeleteMessageInput{MessageID: msg.ID, RequesterID: "staff-1"})
	require.ErrorIs(t, err, chat.ErrForbidden)

	err = del.Execute(context.Background(), DeleteMessageInput{MessageID: msg.ID, RequesterID: "guardian-1"})
	require.NoError(t, err)

	got, err := f.messages.GetMessage(context.Background(), msg.ID)
	require.NoError(t, err)
	require.Nil(t, got)
}
