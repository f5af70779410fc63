package chat

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ThreadKind distinguishes two-party threads from group threads.
type ThreadKind string

const (
	ThreadKindDirect ThreadKind = "direct"
	ThreadKindGroup  ThreadKind = "group"
)

func (k ThreadKind) IsValid() bool {
	switch k {
	case ThreadKindDirect, ThreadKindGroup:
		return true
	}
	return false
}

// ThreadStatus is the lifecycle status. Threads are never hard-deleted;
// duplicates retired by a merge keep their row with status merged.
type ThreadStatus string

const (
	ThreadStatusActive ThreadStatus = "active"
	ThreadStatusMerged ThreadStatus = "merged"
)

// Thread is a conversation container with a fixed kind and participant set.
type Thread struct {
	ID             string       `db:"id" json:"id"`
	Kind           ThreadKind   `db:"kind" json:"kind"`
	Title          *string      `db:"title" json:"title,omitempty"`
	Status         ThreadStatus `db:"status" json:"status"`
	ParticipantKey string       `db:"participant_key" json:"-"`
	CreatedBy      string       `db:"created_by" json:"created_by"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at" json:"updated_at"`
}

// ParticipantKey derives the normalized natural key for a participant set:
// de-duplicated IDs, sorted, joined with ":". Two requests naming the same
// users in any order produce the same key.
func ParticipantKey(userIDs []string) string {
	seen := make(map[string]struct{}, len(userIDs))
	ids := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ":")
}

// ParticipantSet returns the cleaned, de-duplicated set behind ParticipantKey.
func ParticipantSet(userIDs []string) []string {
	key := ParticipantKey(userIDs)
	if key == "" {
		return nil
	}
	return strings.Split(key, ":")
}

// ValidateParticipantCount enforces the kind's arity: direct threads hold
// exactly 2 members, group threads at least 2.
func ValidateParticipantCount(kind ThreadKind, set []string) error {
	switch kind {
	case ThreadKindDirect:
		if len(set) != 2 {
			return fmt.Errorf("%w: direct threads need exactly 2 participants, got %d", ErrInvalidParticipantCount, len(set))
		}
	case ThreadKindGroup:
		if len(set) < 2 {
			return fmt.Errorf("%w: group threads need at least 2 participants, got %d", ErrInvalidParticipantCount, len(set))
		}
	default:
		return fmt.Errorf("invalid thread kind: %q", kind)
	}
	return nil
}

// TombstoneTitle labels a merged duplicate so stale references are visibly
// dead rather than indistinguishable from a live thread.
func TombstoneTitle(primaryID string) string {
	return "[merged into " + primaryID + "]"
}
