package dbmysql

import (
	"context"
	"fmt"
	"time"

	"mealmate/internal/common"

	"gorm.io/gorm"
)

// NotificationRepository is the durable record of notification instances
// and their read state. Mark-read and delete take id sets and are
// commutative and idempotent: unknown ids are no-ops, ids owned by another
// user fail the whole call with an AuthorizationError.
type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ByOwner(ctx context.Context, userID string, limit, offset int) ([]*Notification, error)
	MarkRead(ctx context.Context, userID string, ids []string) (int64, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, userID string, ids []string) (int64, error)
	DeleteAll(ctx context.Context, userID string) (int64, error)
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) ByOwner(
	ctx context.Context,
	userID string,
	limit, offset int,
) ([]*Notification, error) {
	var notifications []*Notification

	// id breaks created_at ties so pages never skip or duplicate rows.
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	if err := query.Find(&notifications).Error; err != nil {
		return nil, fmt.Errorf("failed to get user notifications: %w", err)
	}

	return notifications, nil
}

// ownedByOther reports whether any of the given ids exists under a
// different owner.
func (r *notificationRepository) ownedByOther(ctx context.Context, userID string, ids []string) error {
	var foreign int64
	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id IN ? AND user_id <> ?", ids, userID).
		Count(&foreign).Error
	if err != nil {
		return fmt.Errorf("failed to check notification ownership: %w", err)
	}

	if foreign > 0 {
		return &common.AuthorizationError{UserID: userID, Resource: "notifications"}
	}
	return nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.ownedByOther(ctx, userID, ids); err != nil {
		return 0, err
	}

	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("id IN ? AND user_id = ? AND is_read = ?", ids, userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications as read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{
			"is_read": true,
			"read_at": &now,
		})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) Delete(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	if err := r.ownedByOther(ctx, userID, ids); err != nil {
		return 0, err
	}

	result := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Delete(&Notification{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete notifications: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&Notification{})

	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete all notifications: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *notificationRepository) UnreadCount(ctx context.Context, userID string) (int64, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}

	return count, nil
}
