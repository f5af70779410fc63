package repository

import (
	"context"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

// Directory resolves school-wide roles for users. The chat core consumes the
// identity domain through this port only; missing users are simply absent
// from the result map.
type Directory interface {
	RolesOf(ctx context.Context, userIDs []string) (map[string]chat.UserRole, error)
}
