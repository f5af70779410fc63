package chat

import "time"

// DeviceToken is a push-provider registration for one of a user's devices.
// Tokens are delivery targets only, never a source of truth for chat state.
type DeviceToken struct {
	Token     string    `db:"token" json:"token"`
	UserID    string    `db:"user_id" json:"user_id"`
	Platform  string    `db:"platform" json:"platform"`
	Active    bool      `db:"active" json:"active"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
