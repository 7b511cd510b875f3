package notif

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"mealmate/internal/common"
	"mealmate/internal/dbmongo"
	"mealmate/internal/dbmysql"

	"github.com/google/uuid"
)

// Dispatcher assigns identity to a draft, persists it, and decides push
// delivery. Persistence failure is fatal; push failures are per-token,
// logged, and never surface to the caller.
type Dispatcher struct {
	repo        dbmysql.NotificationRepository
	prefs       dbmongo.PreferenceStore
	devices     dbmysql.DeviceRepository
	push        common.PushSender
	badge       *BadgeSync
	now         func() time.Time
	pushTimeout time.Duration
	wg          sync.WaitGroup
}

func NewDispatcher(
	repo dbmysql.NotificationRepository,
	prefs dbmongo.PreferenceStore,
	devices dbmysql.DeviceRepository,
	push common.PushSender,
	badge *BadgeSync,
	pushTimeout time.Duration,
) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		prefs:       prefs,
		devices:     devices,
		push:        push,
		badge:       badge,
		now:         time.Now,
		pushTimeout: pushTimeout,
	}
}

// Dispatch persists the draft for the user and fans the push out to their
// registered tokens. Returns (nil, nil) when the owner's category
// preference drops the event entirely. The classifier already gates the
// master switch; the category check here is defense in depth.
func (d *Dispatcher) Dispatch(ctx context.Context, userID string, draft *common.Draft) (*dbmysql.Notification, error) {
	prefs, err := d.prefs.Get(ctx, userID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "load preferences", Err: err}
	}

	if !prefs.CategoryEnabled(draft.Type) {
		log.Printf("Notification dropped by preference: user=%s type=%s", userID, draft.Type)
		return nil, nil
	}

	notification := &dbmysql.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      draft.Type,
		Title:     draft.Title,
		Message:   draft.Message,
		Priority:  draft.Priority,
		Payload:   draft.Payload,
		IsRead:    false,
		CreatedAt: d.now(),
	}

	if err := d.repo.Create(ctx, notification); err != nil {
		return nil, &common.PersistenceError{Op: "create notification", Err: err}
	}

	if _, err := d.badge.Recompute(ctx, userID); err != nil {
		log.Printf("Unread recompute after dispatch failed: user=%s: %v", userID, err)
	}

	if prefs.InQuietHours(d.now()) {
		log.Printf("Quiet hours, push withheld: user=%s notification=%s", userID, notification.ID)
		return notification, nil
	}

	d.fanOut(userID, notification)

	return notification, nil
}

// DispatchTest is the QA path: it persists and pushes a canned system
// notification with no preference or quiet-hours gating. It is never
// called from the event pipeline.
func (d *Dispatcher) DispatchTest(ctx context.Context, userID string) (*dbmysql.Notification, error) {
	notification := &dbmysql.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      common.SystemType,
		Title:     "Test notification",
		Message:   "Push delivery is working",
		Priority:  common.PriorityLow,
		IsRead:    false,
		CreatedAt: d.now(),
	}

	if err := d.repo.Create(ctx, notification); err != nil {
		return nil, &common.PersistenceError{Op: "create test notification", Err: err}
	}

	if _, err := d.badge.Recompute(ctx, userID); err != nil {
		log.Printf("Unread recompute after test dispatch failed: user=%s: %v", userID, err)
	}

	d.fanOut(userID, notification)

	return notification, nil
}

// fanOut pushes to every registered token in parallel. Each send is
// independent and fire-and-forget: one stale token never blocks or fails
// the others, and the dispatch response never waits on the gateway.
func (d *Dispatcher) fanOut(userID string, notification *dbmysql.Notification) {
	if d.push == nil {
		return
	}

	devices, err := d.devices.ByUserID(context.Background(), userID)
	if err != nil {
		log.Printf("Failed to get devices for push: user=%s: %v", userID, err)
		return
	}
	if len(devices) == 0 {
		return
	}

	for _, device := range devices {
		msg := common.PushMessage{
			Token: device.DeviceToken,
			Title: notification.Title,
			Body:  notification.Message,
			Data: map[string]string{
				"type":            string(notification.Type),
				"notification_id": notification.ID,
				"priority":        string(notification.Priority),
			},
		}

		d.wg.Add(1)
		go func(msg common.PushMessage) {
			defer d.wg.Done()

			sendCtx, cancel := context.WithTimeout(context.Background(), d.pushTimeout)
			defer cancel()

			if err := d.push.Send(sendCtx, msg); err != nil {
				log.Printf("Push send failed: token=%s: %v", msg.Token, err)

				var delivery *common.TransientDeliveryError
				if errors.As(err, &delivery) && delivery.Permanent {
					if err := d.devices.DeleteToken(context.Background(), msg.Token); err != nil {
						log.Printf("Failed to prune dead token %s: %v", msg.Token, err)
					} else {
						log.Printf("Pruned permanently invalid token: %s", msg.Token)
					}
				}
			}
		}(msg)
	}
}

// Wait drains in-flight push sends. Used on shutdown and by tests.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
