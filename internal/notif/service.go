package notif

import (
	"context"
	"log"
	"time"

	"mealmate/internal/common"
	"mealmate/internal/config"
	"mealmate/internal/dbmongo"
	"mealmate/internal/dbmysql"

	"firebase.google.com/go/v4/messaging"
)

// upcomingWindowDays bounds the on-demand pantry/grocery rechecks: items
// further out than this produce no notification.
const upcomingWindowDays = 7

// Service is the backend surface of the notification subsystem: the
// classifier pipeline on the way in, fetch/mark-read/delete/preferences
// on the way out. Every operation is scoped to the owning user.
type Service struct {
	classifier *Classifier
	dispatcher *Dispatcher
	repo       dbmysql.NotificationRepository
	prefs      dbmongo.PreferenceStore
	devices    dbmysql.DeviceRepository
	kitchen    dbmysql.KitchenRepository
	badge      *BadgeSync
	cfg        *config.Config
	now        func() time.Time
}

func NewService(
	cfg *config.Config,
	repo dbmysql.NotificationRepository,
	prefs dbmongo.PreferenceStore,
	devices dbmysql.DeviceRepository,
	kitchen dbmysql.KitchenRepository,
	fcmClient *messaging.Client,
) *Service {
	var push common.PushSender
	var badgeSetter common.BadgeSetter
	if fcmClient != nil {
		sender := NewFCMSender(fcmClient, devices)
		push = sender
		badgeSetter = sender
	}

	badge := NewBadgeSync(repo, badgeSetter)
	dispatcher := NewDispatcher(
		repo, prefs, devices, push, badge,
		time.Duration(cfg.Notification.PushTimeout)*time.Second,
	)

	return &Service{
		classifier: NewClassifier(),
		dispatcher: dispatcher,
		repo:       repo,
		prefs:      prefs,
		devices:    devices,
		kitchen:    kitchen,
		badge:      badge,
		cfg:        cfg,
		now:        time.Now,
	}
}

// HandleEvent runs the full pipeline for one domain event: classify,
// gate, persist, deliver. Returns (nil, nil) when preferences suppress
// the event.
func (s *Service) HandleEvent(ctx context.Context, userID string, event common.Event) (*dbmysql.Notification, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "load preferences", Err: err}
	}

	draft, err := s.classifier.Classify(event, prefs)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		log.Printf("Event suppressed, notifications disabled: user=%s type=%s", userID, event.Category())
		return nil, nil
	}

	return s.dispatcher.Dispatch(ctx, userID, draft)
}

// Fetch returns one page of the user's notifications, newest first, plus
// the authoritative unread count.
func (s *Service) Fetch(ctx context.Context, userID string, page, limit int) ([]*common.NotificationResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = s.cfg.Notification.DefaultPageSize
	}
	if limit > s.cfg.Notification.MaxPageSize {
		limit = s.cfg.Notification.MaxPageSize
	}
	offset := (page - 1) * limit

	notifications, err := s.repo.ByOwner(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "list notifications", Err: err}
	}

	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, 0, &common.PersistenceError{Op: "count unread", Err: err}
	}

	responses := make([]*common.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = n.Response()
	}

	return responses, unread, nil
}

// MarkRead marks the given ids (or everything, with markAll) read for the
// user and resynchronizes the badge. Idempotent: already-read ids are
// no-ops.
func (s *Service) MarkRead(ctx context.Context, userID string, ids []string, markAll bool) (int64, error) {
	var affected int64
	var err error

	if markAll {
		affected, err = s.repo.MarkAllRead(ctx, userID)
	} else {
		affected, err = s.repo.MarkRead(ctx, userID, ids)
	}
	if err != nil {
		if common.IsAuthorization(err) {
			return 0, err
		}
		return 0, &common.PersistenceError{Op: "mark read", Err: err}
	}

	if _, err := s.badge.Recompute(ctx, userID); err != nil {
		log.Printf("Unread recompute after mark-read failed: user=%s: %v", userID, err)
	}

	return affected, nil
}

// Delete removes the given ids (or everything, with deleteAll) for the
// user and resynchronizes the badge.
func (s *Service) Delete(ctx context.Context, userID string, ids []string, deleteAll bool) (int64, error) {
	var affected int64
	var err error

	if deleteAll {
		affected, err = s.repo.DeleteAll(ctx, userID)
	} else {
		affected, err = s.repo.Delete(ctx, userID, ids)
	}
	if err != nil {
		if common.IsAuthorization(err) {
			return 0, err
		}
		return 0, &common.PersistenceError{Op: "delete notifications", Err: err}
	}

	if _, err := s.badge.Recompute(ctx, userID); err != nil {
		log.Printf("Unread recompute after delete failed: user=%s: %v", userID, err)
	}

	return affected, nil
}

func (s *Service) Preferences(ctx context.Context, userID string) (*common.Preferences, error) {
	prefs, err := s.prefs.Get(ctx, userID)
	if err != nil {
		return nil, &common.PersistenceError{Op: "load preferences", Err: err}
	}
	return prefs, nil
}

func (s *Service) UpdatePreferences(ctx context.Context, userID string, patch common.PreferencesPatch) (*common.Preferences, error) {
	prefs, err := s.prefs.Update(ctx, userID, patch)
	if err != nil {
		return nil, &common.PersistenceError{Op: "update preferences", Err: err}
	}
	return prefs, nil
}

func (s *Service) RegisterDevice(ctx context.Context, userID, deviceToken, platform string) error {
	if deviceToken == "" {
		return &common.ValidationError{Field: "token", Reason: "required"}
	}
	if platform == "" {
		platform = "unknown"
	}

	if err := s.devices.Save(ctx, userID, deviceToken, platform); err != nil {
		return &common.PersistenceError{Op: "register device", Err: err}
	}
	return nil
}

// SendTest drives the QA-only dispatch path that bypasses preference
// gating.
func (s *Service) SendTest(ctx context.Context, userID string) (*dbmysql.Notification, error) {
	return s.dispatcher.DispatchTest(ctx, userID)
}

// CheckPantry scans the user's pantry for items expiring within the
// upcoming window and runs each through the classifier pipeline. Returns
// the number of notifications dispatched.
func (s *Service) CheckPantry(ctx context.Context, userID string) (int, error) {
	items, err := s.kitchen.PantryItemsByOwner(ctx, userID)
	if err != nil {
		return 0, &common.PersistenceError{Op: "scan pantry", Err: err}
	}

	dispatched := 0
	for _, item := range items {
		daysLeft := daysUntil(s.now(), item.ExpiresAt)
		if daysLeft > upcomingWindowDays {
			continue
		}

		n, err := s.HandleEvent(ctx, userID, common.PantryExpiryEvent{
			ItemName: item.Name,
			DaysLeft: daysLeft,
		})
		if err != nil {
			return dispatched, err
		}
		if n != nil {
			dispatched++
		}
	}

	return dispatched, nil
}

// CheckGrocery is the grocery-deadline counterpart of CheckPantry.
func (s *Service) CheckGrocery(ctx context.Context, userID string) (int, error) {
	lists, err := s.kitchen.GroceryListsByOwner(ctx, userID)
	if err != nil {
		return 0, &common.PersistenceError{Op: "scan grocery lists", Err: err}
	}

	dispatched := 0
	for _, list := range lists {
		daysLeft := daysUntil(s.now(), list.DueAt)
		if daysLeft > upcomingWindowDays {
			continue
		}

		n, err := s.HandleEvent(ctx, userID, common.GroceryDeadlineEvent{
			ListName: list.Name,
			DaysLeft: daysLeft,
		})
		if err != nil {
			return dispatched, err
		}
		if n != nil {
			dispatched++
		}
	}

	return dispatched, nil
}

// Shutdown drains in-flight push sends.
func (s *Service) Shutdown() {
	s.dispatcher.Wait()
	log.Println("Notification service shutdown complete")
}

// daysUntil counts whole calendar days between now and t, negative when t
// is in the past.
func daysUntil(now, t time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	b := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	return int(b.Sub(a).Hours() / 24)
}
