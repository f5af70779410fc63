package adapter

import (
	"context"
	"errors"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation is the SQLSTATE raised when the active participant-key
// index rejects a second live thread for the same set.
const uniqueViolation = "23505"

type PgThreadRepository struct {
	pool *pgxpool.Pool
}

func NewPgThreadRepository(pool *pgxpool.Pool) *PgThreadRepository {
	return &PgThreadRepository{pool: pool}
}

func (r *PgThreadRepository) CreateThread(ctx context.Context, t chat.Thread, participants []chat.Participant) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgThreadRepository: nil pool")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var id string
	err = tx.QueryRow(ctx, `
		INSERT INTO threads (kind, title, status, participant_key, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::uuid, $6, $7)
		RETURNING id::text
	`, t.Kind, t.Title, t.Status, t.ParticipantKey, t.CreatedBy, t.CreatedAt, t.UpdatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", chat.ErrDuplicateThreadKey
		}
		return "", err
	}

	for _, p := range participants {
		if _, err := tx.Exec(ctx, `
			INSERT INTO participants (thread_id, user_id, role, joined_at)
			VALUES ($1::uuid, $2::uuid, $3, $4)
			ON CONFLICT (thread_id, user_id) DO NOTHING
		`, id, p.UserID, p.Role, p.JoinedAt); err != nil {
			return "", err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

func (r *PgThreadRepository) GetThread(ctx context.Context, threadID string) (*chat.Thread, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id::text, kind, title, status, participant_key, created_by::text, created_at, updated_at
		FROM threads WHERE id = $1::uuid
	`, threadID)
	t, err := scanThread(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// missing row is (nil, nil) per the port contract
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *PgThreadRepository) FindActiveByParticipantKey(ctx context.Context, kind chat.ThreadKind, key string) ([]chat.Thread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, kind, title, status, participant_key, created_by::text, created_at, updated_at
		FROM threads
		WHERE kind = $1 AND participant_key = $2 AND status = 'active'
		ORDER BY updated_at DESC
	`, kind, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanThreads(rows)
}

func (r *PgThreadRepository) ListActiveByKind(ctx context.Context, kind chat.ThreadKind) ([]chat.Thread, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id::text, kind, title, status, participant_key, created_by::text, created_at, updated_at
		FROM threads
		WHERE kind = $1 AND status = 'active'
		ORDER BY updated_at DESC
	`, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanThreads(rows)
}

func (r *PgThreadRepository) ListThreadsForUser(ctx context.Context, userID string, limit, offset int) ([]chat.Thread, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT t.id::text, t.kind, t.title, t.status, t.participant_key, t.created_by::text, t.created_at, t.updated_at
		FROM threads t
		JOIN participants p ON p.thread_id = t.id
		WHERE p.user_id = $1::uuid AND t.status = 'active'
		ORDER BY t.updated_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanThreads(rows)
}

func (r *PgThreadRepository) ListParticipants(ctx context.Context, threadID string) ([]chat.Participant, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT thread_id::text, user_id::text, role, joined_at, last_read_at
		FROM participants
		WHERE thread_id = $1::uuid
	`, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parts []chat.Participant
	for rows.Next() {
		var p chat.Participant
		if err := rows.Scan(&p.ThreadID, &p.UserID, &p.Role, &p.JoinedAt, &p.LastReadAt); err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	return parts, rows.Err()
}

func (r *PgThreadRepository) IsParticipant(ctx context.Context, threadID, userID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM participants WHERE thread_id = $1::uuid AND user_id = $2::uuid
		)
	`, threadID, userID).Scan(&exists)
	return exists, err
}

func (r *PgThreadRepository) AddParticipant(ctx context.Context, p chat.Participant) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participants (thread_id, user_id, role, joined_at)
		VALUES ($1::uuid, $2::uuid, $3, $4)
		ON CONFLICT (thread_id, user_id) DO NOTHING
	`, p.ThreadID, p.UserID, p.Role, p.JoinedAt)
	return err
}

func (r *PgThreadRepository) Touch(ctx context.Context, threadID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE threads SET updated_at = GREATEST(updated_at, $2)
		WHERE id = $1::uuid
	`, threadID, at)
	return err
}

func (r *PgThreadRepository) SetTitleIfEmpty(ctx context.Context, threadID, title string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE threads SET title = $2
		WHERE id = $1::uuid AND (title IS NULL OR title = '')
	`, threadID, title)
	return err
}

func (r *PgThreadRepository) MarkMerged(ctx context.Context, threadID, tombstoneTitle string) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE threads SET status = 'merged', title = $2, updated_at = now()
		WHERE id = $1::uuid AND status = 'active'
	`, threadID, tombstoneTitle)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgThreadRepository) ReassignMessages(ctx context.Context, fromThreadID, toThreadID string) (int64, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages SET thread_id = $2::uuid WHERE thread_id = $1::uuid
	`, fromThreadID, toThreadID)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func (r *PgThreadRepository) CopyParticipants(ctx context.Context, fromThreadID, toThreadID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO participants (thread_id, user_id, role, joined_at, last_read_at)
		SELECT $2::uuid, user_id, role, joined_at, last_read_at
		FROM participants WHERE thread_id = $1::uuid
		ON CONFLICT (thread_id, user_id) DO NOTHING
	`, fromThreadID, toThreadID)
	return err
}

func (r *PgThreadRepository) AdvanceLastRead(ctx context.Context, threadID, userID string, at time.Time) error {
	// 0 rows means the participant row vanished mid-request; nothing to
	// advance, not an error.
	_, err := r.pool.Exec(ctx, `
		UPDATE participants
		SET last_read_at = GREATEST(COALESCE(last_read_at, 'epoch'::timestamptz), $3)
		WHERE thread_id = $1::uuid AND user_id = $2::uuid
	`, threadID, userID, at)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanThread(row rowScanner) (*chat.Thread, error) {
	var t chat.Thread
	if err := row.Scan(&t.ID, &t.Kind, &t.Title, &t.Status, &t.ParticipantKey, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func scanThreads(rows pgx.Rows) ([]chat.Thread, error) {
	var threads []chat.Thread
	for rows.Next() {
		t, err := scanThread(rows)
		if err != nil {
			return nil, err
		}
		threads = append(threads, *t)
	}
	return threads, rows.Err()
}
