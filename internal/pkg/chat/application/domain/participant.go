package chat

import "time"

// ParticipantRole expresses the role within a thread.
type ParticipantRole string

const (
	ParticipantRoleMember ParticipantRole = "member"
	ParticipantRoleAdmin  ParticipantRole = "admin"
)

// Participant captures membership and read progress.
// Primary key: (ThreadID, UserID)
type Participant struct {
	ThreadID   string          `db:"thread_id" json:"thread_id"`
	UserID     string          `db:"user_id" json:"user_id"`
	Role       ParticipantRole `db:"role" json:"role"`
	JoinedAt   time.Time       `db:"joined_at" json:"joined_at"`
	LastReadAt *time.Time      `db:"last_read_at" json:"last_read_at,omitempty"`
}
