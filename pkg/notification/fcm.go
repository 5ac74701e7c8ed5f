package notification

import (
	"context"
	"errors"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// ErrNotConfigured is returned when push delivery is attempted without
// Firebase credentials.
var ErrNotConfigured = errors.New("push notifications not configured")

// PushSender delivers notifications to device tokens through FCM
type PushSender struct {
	client *messaging.Client
}

// NewPushSender creates an FCM push sender
func NewPushSender(credentialsFile string) (*PushSender, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push notifications disabled")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		// Log warning instead of error to not block server startup
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push notifications disabled)", err)
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return nil, nil
	}

	log.Println("✅ Firebase FCM initialized")
	return &PushSender{client: client}, nil
}

// SendToDevices sends one notification to every given device token in a
// single multicast call and returns how many devices accepted it.
func (s *PushSender) SendToDevices(ctx context.Context, tokens []string, title, body, link string, data map[string]string) (int, error) {
	if s == nil || s.client == nil {
		return 0, ErrNotConfigured
	}
	if len(tokens) == 0 {
		return 0, errors.New("no device tokens to send to")
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
		Webpush: &messaging.WebpushConfig{
			FCMOptions: &messaging.WebpushFCMOptions{
				Link: link,
			},
		},
	}

	br, err := s.client.SendMulticast(ctx, message)
	if err != nil {
		return 0, fmt.Errorf("error sending multicast message: %w", err)
	}

	if br.FailureCount > 0 {
		// Log failures
		for idx, resp := range br.Responses {
			if !resp.Success {
				log.Printf("⚠️ FCM failure for token %s: %v", tokens[idx], resp.Error)
			}
		}
	}

	if br.SuccessCount == 0 {
		return 0, errors.New("all device sends failed")
	}

	return br.SuccessCount, nil
}
