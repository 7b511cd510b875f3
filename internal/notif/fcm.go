package notif

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"mealmate/internal/common"
	"mealmate/internal/config"
	"mealmate/internal/dbmysql"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// NewMessagingClient connects to Firebase Cloud Messaging. Returns nil
// when push is disabled in config; the dispatcher treats a nil sender as
// in-app-only delivery.
func NewMessagingClient(ctx context.Context, cfg *config.Config) (*messaging.Client, error) {
	if !cfg.Firebase.Enabled {
		log.Println("Firebase disabled, push delivery off")
		return nil, nil
	}

	var opts []option.ClientOption
	if cfg.Firebase.CredentialsFilePath != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.Firebase.CredentialsFilePath))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	log.Println("Firebase connected")
	return client, nil
}

// FCMSender delivers pushes and badge updates through Firebase. It
// implements both common.PushSender and common.BadgeSetter.
type FCMSender struct {
	client  *messaging.Client
	devices dbmysql.DeviceRepository
}

func NewFCMSender(client *messaging.Client, devices dbmysql.DeviceRepository) *FCMSender {
	return &FCMSender{
		client:  client,
		devices: devices,
	}
}

func (s *FCMSender) Send(ctx context.Context, msg common.PushMessage) error {
	fcmMsg := &messaging.Message{
		Token: msg.Token,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
	}

	if msg.Badge != nil {
		fcmMsg.APNS = &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Badge: msg.Badge},
			},
		}
	}

	if _, err := s.client.Send(ctx, fcmMsg); err != nil {
		permanent := messaging.IsRegistrationTokenNotRegistered(err) ||
			messaging.IsInvalidArgument(err)
		return &common.TransientDeliveryError{
			Token:     msg.Token,
			Permanent: permanent,
			Err:       err,
		}
	}

	return nil
}

// SetBadge mirrors the unread count to every registered device with a
// data-only message. Failures on individual tokens are logged only.
func (s *FCMSender) SetBadge(ctx context.Context, userID string, count int) error {
	devices, err := s.devices.ByUserID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get devices for badge update: %w", err)
	}

	for _, device := range devices {
		badge := count
		msg := &messaging.Message{
			Token: device.DeviceToken,
			Data: map[string]string{
				"badge": strconv.Itoa(count),
			},
			APNS: &messaging.APNSConfig{
				Payload: &messaging.APNSPayload{
					Aps: &messaging.Aps{Badge: &badge, ContentAvailable: true},
				},
			},
		}

		if _, err := s.client.Send(ctx, msg); err != nil {
			log.Printf("Badge push failed: token=%s: %v", device.DeviceToken, err)
		}
	}

	return nil
}
