// internal/app/system/push/fcm.go
package push

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCMSender delivers pushes through Firebase Cloud Messaging.
type FCMSender struct {
	client *messaging.Client
}

// NewFCMSender builds an FCM-backed sender. With an empty credentials
// file path the SDK falls back to application default credentials.
func NewFCMSender(ctx context.Context, credentialsFile string) (*FCMSender, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("init fcm client: %w", err)
	}
	return &FCMSender{client: client}, nil
}

// Send fans msg out to every token in one multicast. High-priority
// delivery hints are set on both platforms so time-sensitive
// notifications (a pending join request) are not deferred by the OS.
func (s *FCMSender) Send(ctx context.Context, msg Message) (Result, error) {
	if len(msg.Tokens) == 0 {
		return Result{}, nil
	}

	mm := &messaging.MulticastMessage{
		Tokens: msg.Tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{"apns-priority": "10"},
		},
	}

	br, err := s.client.SendEachForMulticast(ctx, mm)
	if err != nil {
		return Result{}, fmt.Errorf("fcm multicast: %w", err)
	}

	res := Result{Success: br.SuccessCount, Failure: br.FailureCount}
	for i, resp := range br.Responses {
		if resp.Error != nil && messaging.IsUnregistered(resp.Error) {
			res.Dead = append(res.Dead, msg.Tokens[i])
		}
	}
	return res, nil
}
