package repository

import (
	"context"

	chat "school-app-backend/internal/pkg/chat/application/domain"
)

// DeviceRepository stores push-provider device registrations.
type DeviceRepository interface {
	// RegisterToken upserts the token for the user and reactivates it if it
	// had been deactivated.
	RegisterToken(ctx context.Context, t chat.DeviceToken) error

	// DeactivateToken marks a token inactive, e.g. after the provider reports
	// it unregistered.
	DeactivateToken(ctx context.Context, token string) error

	// ActiveTokens returns the user's active device tokens.
	ActiveTokens(ctx context.Context, userID string) ([]string, error)
}
