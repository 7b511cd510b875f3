package dbmysql

import (
	"time"

	"mealmate/internal/common"
)

// Notification is the persisted record of a single user-facing alert.
// Everything except the read state is immutable after creation; IsRead
// flips to true exactly once and never reverts.
type Notification struct {
	ID        string                  `gorm:"primaryKey;size:36"`
	UserID    string                  `gorm:"not null;index;size:36"`
	Type      common.NotificationType `gorm:"not null;size:20"`
	Title     string                  `gorm:"not null;size:255"`
	Message   string                  `gorm:"not null;type:text"`
	Priority  common.Priority         `gorm:"not null;size:10"`
	Payload   common.Payload          `gorm:"type:json"`
	IsRead    bool                    `gorm:"not null;default:false;index"`
	ReadAt    *time.Time
	CreatedAt time.Time `gorm:"not null;index"`
}

func (Notification) TableName() string {
	return "notifications"
}

func (n *Notification) Response() *common.NotificationResponse {
	return &common.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Priority:  n.Priority,
		Payload:   n.Payload,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// Device maps a user to one registered push token. The token is the
// primary key, so a token re-registered by a different account is
// re-associated instead of duplicated.
type Device struct {
	DeviceToken  string    `gorm:"primaryKey;size:255"`
	UserID       string    `gorm:"not null;index;size:36"`
	Platform     string    `gorm:"not null;size:10"`
	RegisteredAt time.Time `gorm:"autoCreateTime"`
}

func (Device) TableName() string {
	return "devices"
}

// PantryItem and GroceryList are the slices of the kitchen domain the
// on-demand recheck endpoints scan. They only exist here as notification
// payload content.
type PantryItem struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"not null;index;size:36"`
	Name      string    `gorm:"not null;size:255"`
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}

type GroceryList struct {
	ID        string    `gorm:"primaryKey;size:36"`
	UserID    string    `gorm:"not null;index;size:36"`
	Name      string    `gorm:"not null;size:255"`
	DueAt     time.Time `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (GroceryList) TableName() string {
	return "grocery_lists"
}
