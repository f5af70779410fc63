package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	cacheport "school-app-backend/internal/infrastructure/cache/port"
	pushport "school-app-backend/internal/infrastructure/push/port"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

// tokenCacheKey mirrors the key the push delivery worker reads; device
// changes invalidate it so fan-out never targets a stale token for long.
func tokenCacheKey(userID string) string { return "push:tokens:" + userID }

// Service projects non-chat domain events onto push topics and manages the
// device registrations those topics are delivered to.
type Service struct {
	Devices repository.DeviceRepository
	Sender  pushport.Sender
	Cache   cacheport.Cache
	Log     *zap.Logger
}

func NewService(devices repository.DeviceRepository, sender pushport.Sender, cache cacheport.Cache, log *zap.Logger) *Service {
	return &Service{Devices: devices, Sender: sender, Cache: cache, Log: log}
}

// Announce broadcasts to every device subscribed to the topic. The provider
// does the fan-out; one call covers all subscribers.
func (s *Service) Announce(ctx context.Context, topic, title, body string, data map[string]string) error {
	if topic == "" {
		return fmt.Errorf("topic is required")
	}
	err := s.Sender.SendToTopic(ctx, topic, pushport.Notification{Title: title, Body: body, Data: data})
	if err != nil {
		s.Log.Error("announce: topic send failed", zap.String("topic", topic), zap.Error(err))
		return err
	}
	s.Log.Info("announce: sent", zap.String("topic", topic), zap.String("title", title))
	return nil
}

// RegisterDevice stores (or reactivates) a device token for the user and
// drops their cached token set.
func (s *Service) RegisterDevice(ctx context.Context, userID, token, platform string) error {
	if userID == "" || token == "" {
		return fmt.Errorf("user_id and token are required")
	}
	t := chat.DeviceToken{
		Token:     token,
		UserID:    userID,
		Platform:  platform,
		Active:    true,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.Devices.RegisterToken(ctx, t); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// UnregisterDevice deactivates a token; it stops receiving pushes but the
// row stays for audit.
func (s *Service) UnregisterDevice(ctx context.Context, userID, token string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}
	if err := s.Devices.DeactivateToken(ctx, token); err != nil {
		return err
	}
	s.invalidate(ctx, userID)
	return nil
}

// Subscribe attaches a device token to a topic at the provider.
func (s *Service) Subscribe(ctx context.Context, token, topic string) error {
	if token == "" || topic == "" {
		return fmt.Errorf("token and topic are required")
	}
	return s.Sender.Subscribe(ctx, []string{token}, topic)
}

// Unsubscribe detaches a device token from a topic at the provider.
func (s *Service) Unsubscribe(ctx context.Context, token, topic string) error {
	if token == "" || topic == "" {
		return fmt.Errorf("token and topic are required")
	}
	return s.Sender.Unsubscribe(ctx, []string{token}, topic)
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if _, err := s.Cache.Del(ctx, tokenCacheKey(userID)); err != nil {
		s.Log.Warn("device token cache invalidation failed", zap.String("user_id", userID), zap.Error(err))
	}
}
