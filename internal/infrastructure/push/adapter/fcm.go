package adapter

import (
	"context"
	"errors"
	"fmt"
	"os"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"school-app-backend/internal/infrastructure/push/port"
)

// FCMSender implements port.Sender using Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSenderFromEnv constructs a sender using the FCM_CREDENTIALS_FILE
// service-account path. GOOGLE_APPLICATION_CREDENTIALS works as a fallback
// through the SDK's default resolution.
func NewFCMSenderFromEnv(ctx context.Context) (*FCMSender, error) {
	var opts []option.ClientOption
	if path := os.Getenv("FCM_CREDENTIALS_FILE"); path != "" {
		opts = append(opts, option.WithCredentialsFile(path))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("fcm: init app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("fcm: init messaging: %w", err)
	}
	return &FCMSender{client: client}, nil
}

// Ensure interface compliance at compile time
var _ port.Sender = (*FCMSender)(nil)

func (s *FCMSender) SendToToken(ctx context.Context, token string, n port.Notification) error {
	_, err := s.client.Send(ctx, &messaging.Message{
		Token:        token,
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	})
	if err != nil {
		if messaging.IsUnregistered(err) {
			return fmt.Errorf("%w: %v", port.ErrUnregistered, err)
		}
		return err
	}
	return nil
}

func (s *FCMSender) SendToTopic(ctx context.Context, topic string, n port.Notification) error {
	if topic == "" {
		return errors.New("fcm: topic is required")
	}
	_, err := s.client.Send(ctx, &messaging.Message{
		Topic:        topic,
		Notification: &messaging.Notification{Title: n.Title, Body: n.Body},
		Data:         n.Data,
	})
	return err
}

func (s *FCMSender) Subscribe(ctx context.Context, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := s.client.SubscribeToTopic(ctx, tokens, topic)
	return err
}

func (s *FCMSender) Unsubscribe(ctx context.Context, tokens []string, topic string) error {
	if len(tokens) == 0 {
		return nil
	}
	_, err := s.client.UnsubscribeFromTopic(ctx, tokens, topic)
	return err
}
