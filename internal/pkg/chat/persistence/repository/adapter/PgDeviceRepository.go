package adapter

import (
	"context"

	chat "school-app-backend/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgDeviceRepository struct {
	pool *pgxpool.Pool
}

func NewPgDeviceRepository(pool *pgxpool.Pool) *PgDeviceRepository {
	return &PgDeviceRepository{pool: pool}
}

func (r *PgDeviceRepository) RegisterToken(ctx context.Context, t chat.DeviceToken) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO device_tokens (token, user_id, platform, active, updated_at)
		VALUES ($1, $2::uuid, $3, true, now())
		ON CONFLICT (token) DO UPDATE
		SET user_id = EXCLUDED.user_id,
		    platform = EXCLUDED.platform,
		    active = true,
		    updated_at = now()
	`, t.Token, t.UserID, t.Platform)
	return err
}

func (r *PgDeviceRepository) DeactivateToken(ctx context.Context, token string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE device_tokens SET active = false, updated_at = now() WHERE token = $1
	`, token)
	return err
}

func (r *PgDeviceRepository) ActiveTokens(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT token FROM device_tokens WHERE user_id = $1::uuid AND active
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}
