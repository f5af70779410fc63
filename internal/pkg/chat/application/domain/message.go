package chat

import (
	"strings"
	"time"
)

// MessageType represents type of message content
// 0=text, 1=image, 2=file, 3=system
type MessageType int16

const (
	MessageTypeText   MessageType = 0
	MessageTypeImage  MessageType = 1
	MessageTypeFile   MessageType = 2
	MessageTypeSystem MessageType = 3
)

// ApprovalState is the moderation status gating a message's visibility.
// pending -> approved and pending -> rejected are the only transitions;
// approved and rejected are terminal.
type ApprovalState string

const (
	ApprovalPending  ApprovalState = "pending"
	ApprovalApproved ApprovalState = "approved"
	ApprovalRejected ApprovalState = "rejected"
)

func (s ApprovalState) Terminal() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// Message is a log entry in a thread. Sender and thread are immutable once
// created; content is mutable by the sender only; approval state moves only
// through moderator transitions.
type Message struct {
	ID            string        `db:"id" json:"id"`
	ThreadID      string        `db:"thread_id" json:"thread_id"`
	SenderID      string        `db:"sender_id" json:"sender_id"`
	Content       string        `db:"content" json:"content"`
	MsgType       MessageType   `db:"msg_type" json:"msg_type"`
	ApprovalState ApprovalState `db:"approval_state" json:"approval_state"`
	ApprovedBy    *string       `db:"approved_by" json:"approved_by,omitempty"`
	ApprovedAt    *time.Time    `db:"approved_at" json:"approved_at,omitempty"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time     `db:"updated_at" json:"updated_at"`
}

func NewMessage(m Message) (*Message, error) {
	if m.ThreadID == "" || m.SenderID == "" {
		return nil, ErrThreadNotFound
	}

	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" && m.MsgType != MessageTypeSystem {
		return nil, ErrEmptyMessage
	}

	if m.ApprovalState == "" {
		m.ApprovalState = ApprovalApproved
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	m.UpdatedAt = m.CreatedAt

	return &m, nil
}

// VisibleTo applies the visibility rule: a message is shown only to its
// sender, to moderators, or to anyone once approved.
func (m Message) VisibleTo(viewerID string, viewerIsModerator bool) bool {
	if m.ApprovalState == ApprovalApproved {
		return true
	}
	return m.SenderID == viewerID || viewerIsModerator
}
