package adapter

import (
	"context"
	"errors"
	"time"

	chat "school-app-backend/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

const messageColumns = `id::text, thread_id::text, sender_id::text, content, msg_type,
	approval_state, approved_by::text, approved_at, created_at, updated_at`

func (r *PgMessageRepository) SaveMessage(ctx context.Context, m chat.Message) (string, error) {
	if r == nil || r.pool == nil {
		return "", errors.New("PgMessageRepository: nil pool")
	}
	var id string
	err := r.pool.QueryRow(ctx, `
		INSERT INTO messages (thread_id, sender_id, content, msg_type, approval_state, created_at, updated_at)
		VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7)
		RETURNING id::text
	`, m.ThreadID, m.SenderID, m.Content, m.MsgType, m.ApprovalState, m.CreatedAt, m.UpdatedAt).Scan(&id)
	return id, err
}

func (r *PgMessageRepository) GetMessage(ctx context.Context, messageID string) (*chat.Message, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+messageColumns+` FROM messages WHERE id = $1::uuid
	`, messageID)
	m, err := scanMessage(row)
	if errors.Is(err, pgx.ErrNoRows) {
		// missing row is (nil, nil) per the port contract
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

func (r *PgMessageRepository) ListVisible(ctx context.Context, threadID, viewerID string, includePending bool, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE thread_id = $1::uuid
		  AND (approval_state = 'approved' OR sender_id = $2::uuid OR $3)
		ORDER BY created_at ASC
		LIMIT $4 OFFSET $5
	`, threadID, viewerID, includePending, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) ListPending(ctx context.Context, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+messageColumns+`
		FROM messages
		WHERE approval_state = 'pending'
		ORDER BY created_at ASC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMessages(rows)
}

func (r *PgMessageRepository) Approve(ctx context.Context, messageID, moderatorID string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET approval_state = 'approved', approved_by = $2::uuid, approved_at = $3, updated_at = $3
		WHERE id = $1::uuid AND approval_state = 'pending'
	`, messageID, moderatorID, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgMessageRepository) Reject(ctx context.Context, messageID, moderatorID string, at time.Time) (bool, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages
		SET approval_state = 'rejected', approved_by = $2::uuid, approved_at = $3, updated_at = $3
		WHERE id = $1::uuid AND approval_state = 'pending'
	`, messageID, moderatorID, at)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func (r *PgMessageRepository) UpdateContent(ctx context.Context, messageID, content string, at time.Time) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE messages SET content = $2, updated_at = $3 WHERE id = $1::uuid
	`, messageID, content, at)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return chat.ErrMessageNotFound
	}
	return nil
}

func (r *PgMessageRepository) DeleteMessage(ctx context.Context, messageID string) error {
	// read_receipts cascade via FK
	_, err := r.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1::uuid`, messageID)
	return err
}

func (r *PgMessageRepository) UpsertReceipt(ctx context.Context, rr chat.ReadReceipt) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO read_receipts (message_id, user_id, read_at)
		VALUES ($1::uuid, $2::uuid, $3)
		ON CONFLICT (message_id, user_id) DO UPDATE SET read_at = EXCLUDED.read_at
	`, rr.MessageID, rr.UserID, rr.ReadAt)
	return err
}

func (r *PgMessageRepository) ListReceipts(ctx context.Context, messageID string) ([]chat.ReadReceipt, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT message_id::text, user_id::text, read_at
		FROM read_receipts
		WHERE message_id = $1::uuid
		ORDER BY read_at ASC
	`, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []chat.ReadReceipt
	for rows.Next() {
		var rr chat.ReadReceipt
		if err := rows.Scan(&rr.MessageID, &rr.UserID, &rr.ReadAt); err != nil {
			return nil, err
		}
		receipts = append(receipts, rr)
	}
	return receipts, rows.Err()
}

func (r *PgMessageRepository) MarkThreadRead(ctx context.Context, threadID, userID string, at time.Time) (int64, error) {
	ct, err := r.pool.Exec(ctx, `
		INSERT INTO read_receipts (message_id, user_id, read_at)
		SELECT m.id, $2::uuid, $3
		FROM messages m
		WHERE m.thread_id = $1::uuid
		  AND m.approval_state = 'approved'
		  AND m.sender_id <> $2::uuid
		ON CONFLICT (message_id, user_id) DO NOTHING
	`, threadID, userID, at)
	if err != nil {
		return 0, err
	}
	return ct.RowsAffected(), nil
}

func scanMessage(row rowScanner) (*chat.Message, error) {
	var m chat.Message
	if err := row.Scan(&m.ID, &m.ThreadID, &m.SenderID, &m.Content, &m.MsgType,
		&m.ApprovalState, &m.ApprovedBy, &m.ApprovedAt, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

func scanMessages(rows pgx.Rows) ([]chat.Message, error) {
	var msgs []chat.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, *m)
	}
	return msgs, rows.Err()
}
