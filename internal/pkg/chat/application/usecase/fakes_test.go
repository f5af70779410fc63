package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"school-app-backend/internal/pkg/chat/application/fanout"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

// memThreadRepo is an in-memory ThreadRepository enforcing the same
// active-key uniqueness the store does.
type memThreadRepo struct {
	mu           sync.Mutex
	seq          int
	threads      map[string]*chat.Thread
	participants map[string][]chat.Participant

	failCreate func() error                // runs once before the next insert, then cleared
	reassign   func(from, to string) int64 // wired to memMessageRepo in merge tests
}

func newMemThreadRepo() *memThreadRepo {
	return &memThreadRepo{
		threads:      make(map[string]*chat.Thread),
		participants: make(map[string][]chat.Participant),
	}
}

func (r *memThreadRepo) nextID() string {
	r.seq++
	return fmt.Sprintf("thread-%d", r.seq)
}

func (r *memThreadRepo) CreateThread(_ context.Context, t chat.Thread, participants []chat.Participant) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate != nil {
		hook := r.failCreate
		r.failCreate = nil
		if err := hook(); err != nil {
			return "", err
		}
	}

	for _, existing := range r.threads {
		if existing.Status == chat.ThreadStatusActive &&
			existing.Kind == t.Kind &&
			existing.ParticipantKey == t.ParticipantKey {
			return "", chat.ErrDuplicateThreadKey
		}
	}

	id := r.nextID()
	t.ID = id
	r.threads[id] = &t
	for _, p := range participants {
		p.ThreadID = id
		r.participants[id] = append(r.participants[id], p)
	}
	return id, nil
}

func (r *memThreadRepo) GetThread(_ context.Context, threadID string) (*chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[threadID]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *memThreadRepo) FindActiveByParticipantKey(_ context.Context, kind chat.ThreadKind, key string) ([]chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Thread
	for _, t := range r.threads {
		if t.Status == chat.ThreadStatusActive && t.Kind == kind && t.ParticipantKey == key {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memThreadRepo) ListActiveByKind(_ context.Context, kind chat.ThreadKind) ([]chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Thread
	for _, t := range r.threads {
		if t.Status == chat.ThreadStatusActive && t.Kind == kind {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *memThreadRepo) ListThreadsForUser(_ context.Context, userID string, _, _ int) ([]chat.Thread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Thread
	for id, ps := range r.participants {
		for _, p := range ps {
			if p.UserID == userID && r.threads[id].Status == chat.ThreadStatusActive {
				out = append(out, *r.threads[id])
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

func (r *memThreadRepo) ListParticipants(_ context.Context, threadID string) ([]chat.Participant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]chat.Participant{}, r.participants[threadID]...), nil
}

func (r *memThreadRepo) IsParticipant(_ context.Context, threadID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.participants[threadID] {
		if p.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memThreadRepo) AddParticipant(_ context.Context, p chat.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.participants[p.ThreadID] {
		if existing.UserID == p.UserID {
			return nil
		}
	}
	r.participants[p.ThreadID] = append(r.participants[p.ThreadID], p)
	return nil
}

func (r *memThreadRepo) Touch(_ context.Context, threadID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.threads[threadID]; ok && at.After(t.UpdatedAt) {
		t.UpdatedAt = at
	}
	return nil
}

func (r *memThreadRepo) SetTitleIfEmpty(_ context.Context, threadID, title string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.threads[threadID]; ok && (t.Title == nil || *t.Title == "") {
		t.Title = &title
	}
	return nil
}

func (r *memThreadRepo) MarkMerged(_ context.Context, threadID, tombstoneTitle string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[threadID]
	if !ok || t.Status != chat.ThreadStatusActive {
		return false, nil
	}
	t.Status = chat.ThreadStatusMerged
	t.Title = &tombstoneTitle
	return true, nil
}

func (r *memThreadRepo) ReassignMessages(_ context.Context, fromThreadID, toThreadID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reassign != nil {
		return r.reassign(fromThreadID, toThreadID), nil
	}
	return 0, nil
}

func (r *memThreadRepo) CopyParticipants(_ context.Context, fromThreadID, toThreadID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
outer:
	for _, p := range r.participants[fromThreadID] {
		for _, existing := range r.participants[toThreadID] {
			if existing.UserID == p.UserID {
				continue outer
			}
		}
		p.ThreadID = toThreadID
		r.participants[toThreadID] = append(r.participants[toThreadID], p)
	}
	return nil
}

func (r *memThreadRepo) AdvanceLastRead(_ context.Context, threadID, userID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ps := r.participants[threadID]
	for i := range ps {
		if ps[i].UserID == userID {
			if ps[i].LastReadAt == nil || at.After(*ps[i].LastReadAt) {
				t := at
				ps[i].LastReadAt = &t
			}
		}
	}
	return nil
}

// memMessageRepo is an in-memory MessageRepository.
type memMessageRepo struct {
	mu       sync.Mutex
	seq      int
	messages map[string]*chat.Message
	receipts map[string]map[string]time.Time // messageID -> userID -> readAt
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{
		messages: make(map[string]*chat.Message),
		receipts: make(map[string]map[string]time.Time),
	}
}

func (r *memMessageRepo) SaveMessage(_ context.Context, m chat.Message) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	id := fmt.Sprintf("msg-%d", r.seq)
	m.ID = id
	r.messages[id] = &m
	return id, nil
}

func (r *memMessageRepo) GetMessage(_ context.Context, messageID string) (*chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *memMessageRepo) ListVisible(_ context.Context, threadID, viewerID string, includePending bool, _, _ int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.ThreadID != threadID {
			continue
		}
		if m.ApprovalState == chat.ApprovalApproved || m.SenderID == viewerID || includePending {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) ListPending(_ context.Context, _, _ int) ([]chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.Message
	for _, m := range r.messages {
		if m.ApprovalState == chat.ApprovalPending {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memMessageRepo) Approve(_ context.Context, messageID, moderatorID string, at time.Time) (bool, error) {
	return r.decide(messageID, moderatorID, at, chat.ApprovalApproved)
}

func (r *memMessageRepo) Reject(_ context.Context, messageID, moderatorID string, at time.Time) (bool, error) {
	return r.decide(messageID, moderatorID, at, chat.ApprovalRejected)
}

func (r *memMessageRepo) decide(messageID, moderatorID string, at time.Time, to chat.ApprovalState) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok || m.ApprovalState != chat.ApprovalPending {
		return false, nil
	}
	m.ApprovalState = to
	m.ApprovedBy = &moderatorID
	m.ApprovedAt = &at
	m.UpdatedAt = at
	return true, nil
}

func (r *memMessageRepo) UpdateContent(_ context.Context, messageID, content string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[messageID]
	if !ok {
		return chat.ErrMessageNotFound
	}
	m.Content = content
	m.UpdatedAt = at
	return nil
}

func (r *memMessageRepo) DeleteMessage(_ context.Context, messageID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, messageID)
	delete(r.receipts, messageID)
	return nil
}

func (r *memMessageRepo) UpsertReceipt(_ context.Context, rr chat.ReadReceipt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.receipts[rr.MessageID] == nil {
		r.receipts[rr.MessageID] = make(map[string]time.Time)
	}
	r.receipts[rr.MessageID][rr.UserID] = rr.ReadAt
	return nil
}

func (r *memMessageRepo) ListReceipts(_ context.Context, messageID string) ([]chat.ReadReceipt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []chat.ReadReceipt
	for userID, at := range r.receipts[messageID] {
		out = append(out, chat.ReadReceipt{MessageID: messageID, UserID: userID, ReadAt: at})
	}
	return out, nil
}

func (r *memMessageRepo) MarkThreadRead(_ context.Context, threadID, userID string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var marked int64
	for id, m := range r.messages {
		if m.ThreadID != threadID || m.SenderID == userID || m.ApprovalState != chat.ApprovalApproved {
			continue
		}
		if r.receipts[id] == nil {
			r.receipts[id] = make(map[string]time.Time)
		}
		if _, ok := r.receipts[id][userID]; !ok {
			r.receipts[id][userID] = at
			marked++
		}
	}
	return marked, nil
}

// reassignMessages moves messages between threads, mirroring what the SQL
// adapter does in one statement. Tests plug it into memThreadRepo.
func (r *memMessageRepo) reassignMessages(fromThreadID, toThreadID string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var moved int64
	for _, m := range r.messages {
		if m.ThreadID == fromThreadID {
			m.ThreadID = toThreadID
			moved++
		}
	}
	return moved
}

// memDirectory resolves roles from a static map.
type memDirectory struct {
	roles map[string]chat.UserRole
}

func (d *memDirectory) RolesOf(_ context.Context, userIDs []string) (map[string]chat.UserRole, error) {
	out := make(map[string]chat.UserRole, len(userIDs))
	for _, id := range userIDs {
		if role, ok := d.roles[id]; ok {
			out[id] = role
		}
	}
	return out, nil
}

// recordingSink captures fan-out events synchronously.
type recordingSink struct {
	mu     sync.Mutex
	events []fanout.Event
}

func (s *recordingSink) Deliver(ev fanout.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func (s *recordingSink) all() []fanout.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]fanout.Event{}, s.events...)
}
