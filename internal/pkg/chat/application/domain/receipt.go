package chat

import "time"

// ReadReceipt records that a viewer saw a message. One row per
// (message, user); repeated reads update the timestamp, last write wins.
type ReadReceipt struct {
	MessageID string    `db:"message_id" json:"message_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	ReadAt    time.Time `db:"read_at" json:"read_at"`
}
