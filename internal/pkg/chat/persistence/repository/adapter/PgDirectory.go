package adapter

import (
	"context"

	chat "school-app-backend/internal/pkg/chat/application/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgDirectory resolves user roles from the shared users table owned by the
// identity domain. Read-only from the chat core's point of view.
type PgDirectory struct {
	pool *pgxpool.Pool
}

func NewPgDirectory(pool *pgxpool.Pool) *PgDirectory {
	return &PgDirectory{pool: pool}
}

func (d *PgDirectory) RolesOf(ctx context.Context, userIDs []string) (map[string]chat.UserRole, error) {
	roles := make(map[string]chat.UserRole, len(userIDs))
	if len(userIDs) == 0 {
		return roles, nil
	}
	rows, err := d.pool.Query(ctx, `
		SELECT id::text, role FROM users WHERE id = ANY($1::uuid[])
	`, userIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var role chat.UserRole
		if err := rows.Scan(&id, &role); err != nil {
			return nil, err
		}
		roles[id] = role
	}
	return roles, rows.Err()
}
