package chat

import "strings"

// UserRole is the school-wide role resolved by the identity layer. It is
// distinct from ParticipantRole, which is scoped to a single thread.
type UserRole string

const (
	RoleStaff     UserRole = "staff"
	RoleGuardian  UserRole = "guardian"
	RoleStudent   UserRole = "student"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// HasModeratorRights reports whether the role may transition approval states
// and view pending messages it did not send.
func (r UserRole) HasModeratorRights() bool {
	return r == RoleModerator || r == RoleAdmin
}

type rolePair struct {
	sender, recipient UserRole
}

// ModerationPolicy is the explicit, injectable set of sender->recipient role
// pairings whose messages start in the pending state. The pairing is
// directional: staff->guardian can be moderated while guardian->staff is not.
type ModerationPolicy struct {
	moderated map[rolePair]struct{}
}

// DefaultModerationPolicy moderates the staff->guardian direction only.
func DefaultModerationPolicy() ModerationPolicy {
	return NewModerationPolicy([][2]UserRole{{RoleStaff, RoleGuardian}})
}

func NewModerationPolicy(pairs [][2]UserRole) ModerationPolicy {
	m := make(map[rolePair]struct{}, len(pairs))
	for _, p := range pairs {
		m[rolePair{p[0], p[1]}] = struct{}{}
	}
	return ModerationPolicy{moderated: m}
}

// ParseModerationPairs reads a "sender>recipient,sender>recipient" spec, the
// format used by the MODERATED_ROLE_PAIRS environment variable. Malformed
// entries are skipped. An empty spec yields the default policy.
func ParseModerationPairs(spec string) ModerationPolicy {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return DefaultModerationPolicy()
	}
	var pairs [][2]UserRole
	for _, part := range strings.Split(spec, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), ">", 2)
		if len(kv) != 2 {
			continue
		}
		sender := UserRole(strings.TrimSpace(kv[0]))
		recipient := UserRole(strings.TrimSpace(kv[1]))
		if sender == "" || recipient == "" {
			continue
		}
		pairs = append(pairs, [2]UserRole{sender, recipient})
	}
	if len(pairs) == 0 {
		return DefaultModerationPolicy()
	}
	return NewModerationPolicy(pairs)
}

// InitialApprovalState computes the state a new message starts in, evaluated
// per message at creation time against the sender's role and the roles of the
// other thread members. A moderator recipient exempts the message. If any
// sender->recipient pairing is moderated, the message starts pending.
func (p ModerationPolicy) InitialApprovalState(sender UserRole, recipients []UserRole) ApprovalState {
	if sender.HasModeratorRights() {
		return ApprovalApproved
	}
	for _, r := range recipients {
		if r.HasModeratorRights() {
			continue
		}
		if _, ok := p.moderated[rolePair{sender, r}]; ok {
			return ApprovalPending
		}
	}
	return ApprovalApproved
}

// Moderated reports whether the exact sender->recipient pairing is subject to
// oversight.
func (p ModerationPolicy) Moderated(sender, recipient UserRole) bool {
	_, ok := p.moderated[rolePair{sender, recipient}]
	return ok
}
