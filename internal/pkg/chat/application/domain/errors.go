package chat

import "errors"

// Domain-level errors for chat behaviors
var (
	ErrNotParticipant          = errors.New("chat: user is not a participant in the thread")
	ErrThreadNotActive         = errors.New("chat: thread is not active")
	ErrThreadNotFound          = errors.New("chat: thread not found")
	ErrMessageNotFound         = errors.New("chat: message not found")
	ErrForbidden               = errors.New("chat: requester is not allowed to perform this action")
	ErrNotModerator            = errors.New("chat: requester does not hold moderator rights")
	ErrInvalidParticipantCount = errors.New("chat: invalid participant count for thread kind")
	ErrEmptyMessage            = errors.New("chat: empty message content")
	ErrAlreadyDecided          = errors.New("chat: message approval state is already terminal")
	ErrMissingPrivilegedMember = errors.New("chat: moderated pairing requires a privileged member on each side")
	ErrDuplicateThreadKey      = errors.New("chat: active thread with this participant set already exists")
)
