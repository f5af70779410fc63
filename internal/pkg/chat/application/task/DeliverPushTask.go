package task

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	cacheport "school-app-backend/internal/infrastructure/cache/port"
	pushport "school-app-backend/internal/infrastructure/push/port"
	qport "school-app-backend/internal/infrastructure/queue/port"
	"school-app-backend/internal/pkg/chat/application/fanout"
	repository "school-app-backend/internal/pkg/chat/persistence/repository/port"
)

const tokenCacheTTL = 5 * time.Minute

func tokenCacheKey(userID string) string { return "push:tokens:" + userID }

// RegisterDeliverPushTask binds the push-delivery handler to the worker.
// Every active device is attempted independently; per-device results are
// logged, never aggregated into one pass/fail for the user. Tokens the
// provider reports unregistered are deactivated. The handler returns nil on
// partial failure: the source-of-truth state is already durable and a retry
// storm would re-push to devices that succeeded.
func RegisterDeliverPushTask(srv qport.Server, devices repository.DeviceRepository, cache cacheport.Cache, sender pushport.Sender, log *zap.Logger) {
	srv.Register(fanout.DeliverPushTaskType, func(ctx context.Context, t qport.Task) error {
		var p fanout.DeliverPushPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: do not retry
			return nil
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		tokens, err := resolveTokens(ctx, devices, cache, p.UserID)
		if err != nil {
			return err // transient store error: let the queue retry
		}
		if len(tokens) == 0 {
			log.Debug("push: no active devices", zap.String("user_id", p.UserID))
			return nil
		}

		n := pushport.Notification{Title: p.Title, Body: p.Body, Data: p.Data}
		for _, token := range tokens {
			err := sender.SendToToken(ctx, token, n)
			switch {
			case err == nil:
				log.Debug("push: delivered",
					zap.String("user_id", p.UserID),
					zap.String("token", token))
			case errors.Is(err, pushport.ErrUnregistered):
				log.Info("push: stale token deactivated",
					zap.String("user_id", p.UserID),
					zap.String("token", token))
				if derr := devices.DeactivateToken(ctx, token); derr != nil {
					log.Error("push: deactivate token", zap.String("token", token), zap.Error(derr))
				}
				_, _ = cache.Del(ctx, tokenCacheKey(p.UserID))
			default:
				log.Error("push: delivery failed",
					zap.String("user_id", p.UserID),
					zap.String("token", token),
					zap.Error(err))
			}
		}
		return nil
	})
}

func resolveTokens(ctx context.Context, devices repository.DeviceRepository, cache cacheport.Cache, userID string) ([]string, error) {
	if cached, err := cache.Get(ctx, tokenCacheKey(userID)); err == nil {
		var tokens []string
		if jerr := json.Unmarshal([]byte(cached), &tokens); jerr == nil {
			return tokens, nil
		}
	}

	tokens, err := devices.ActiveTokens(ctx, userID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(tokens); err == nil {
		_ = cache.Set(ctx, tokenCacheKey(userID), string(raw), tokenCacheTTL)
	}
	return tokens, nil
}
