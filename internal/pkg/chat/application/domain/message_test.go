package chat

import (
	"errors"
	"testing"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(Message{ThreadID: "t1", SenderID: "u1", Content: "  hello  "})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.Content != "hello" {
		t.Errorf("content not trimmed: %q", msg.Content)
	}
	if msg.ApprovalState != ApprovalApproved {
		t.Errorf("default approval state = %v, want approved", msg.ApprovalState)
	}
	if msg.CreatedAt.IsZero() || !msg.UpdatedAt.Equal(msg.CreatedAt) {
		t.Error("timestamps should be set and equal on creation")
	}
}

func TestNewMessageRejectsEmptyContent(t *testing.T) {
	_, err := NewMessage(Message{ThreadID: "t1", SenderID: "u1", Content: "   "})
	if !errors.Is(err, ErrEmptyMessage) {
		t.Errorf("err = %v, want ErrEmptyMessage", err)
	}
}

func TestNewMessageAllowsEmptySystemContent(t *testing.T) {
	_, err := NewMessage(Message{ThreadID: "t1", SenderID: "u1", MsgType: MessageTypeSystem})
	if err != nil {
		t.Errorf("system messages may carry no content, got %v", err)
	}
}

func TestNewMessageKeepsExplicitState(t *testing.T) {
	msg, err := NewMessage(Message{ThreadID: "t1", SenderID: "u1", Content: "x", ApprovalState: ApprovalPending})
	if err != nil {
		t.Fatalf("NewMessage: %v", err)
	}
	if msg.ApprovalState != ApprovalPending {
		t.Errorf("state = %v, want pending", msg.ApprovalState)
	}
}

func TestVisibleTo(t *testing.T) {
	tests := []struct {
		name      string
		state     ApprovalState
		viewer    string
		moderator bool
		want      bool
	}{
		{"approved visible to anyone", ApprovalApproved, "other", false, true},
		{"pending hidden from recipient", ApprovalPending, "other", false, false},
		{"pending visible to sender", ApprovalPending, "sender", false, true},
		{"pending visible to moderator", ApprovalPending, "other", true, true},
		{"rejected hidden from recipient", ApprovalRejected, "other", false, false},
		{"rejected visible to sender", ApprovalRejected, "sender", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Message{SenderID: "sender", ApprovalState: tt.state}
			if got := m.VisibleTo(tt.viewer, tt.moderator); got != tt.want {
				t.Errorf("VisibleTo(%q, %v) = %v, want %v", tt.viewer, tt.moderator, got, tt.want)
			}
		})
	}
}

func TestApprovalStateTerminal(t *testing.T) {
	if ApprovalPending.Terminal() {
		t.Error("pending should not be terminal")
	}
	if !ApprovalApproved.Terminal() || !ApprovalRejected.Terminal() {
		t.Error("approved and rejected are terminal")
	}
}
