package dbmysql

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// DeviceRepository maps a user identity to zero or more push tokens.
type DeviceRepository interface {
	Save(ctx context.Context, userID, deviceToken, platform string) error
	ByUserID(ctx context.Context, userID string) ([]*Device, error)
	DeleteToken(ctx context.Context, deviceToken string) error
}

type deviceRepository struct {
	db *gorm.DB
}

func NewDeviceRepository(db *gorm.DB) DeviceRepository {
	return &deviceRepository{db: db}
}

// Save registers a token for a user. The token is the primary key, so
// saving a token that already exists re-associates it with the new owner
// (device changed hands) instead of duplicating it.
func (r *deviceRepository) Save(ctx context.Context, userID, deviceToken, platform string) error {
	device := &Device{
		DeviceToken:  deviceToken,
		UserID:       userID,
		Platform:     platform,
		RegisteredAt: time.Now(),
	}

	if err := r.db.WithContext(ctx).Save(device).Error; err != nil {
		return fmt.Errorf("failed to register device token: %w", err)
	}
	return nil
}

func (r *deviceRepository) ByUserID(ctx context.Context, userID string) ([]*Device, error) {
	var devices []*Device

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&devices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get user devices: %w", err)
	}

	return devices, nil
}

func (r *deviceRepository) DeleteToken(ctx context.Context, deviceToken string) error {
	result := r.db.WithContext(ctx).Delete(&Device{}, "device_token = ?", deviceToken)
	if result.Error != nil {
		return fmt.Errorf("failed to delete device token: %w", result.Error)
	}
	return nil
}
