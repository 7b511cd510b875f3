package common

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type NotificationType string

const (
	PantryType       NotificationType = "pantry"
	GroceryType      NotificationType = "grocery"
	ChefType         NotificationType = "chef"
	CommunityType    NotificationType = "community"
	HealthType       NotificationType = "health"
	PaymentType      NotificationType = "payment"
	SubscriptionType NotificationType = "subscription"
	SystemType       NotificationType = "system"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Payload is a tagged union keyed by the notification type. Exactly one
// variant is set for a given notification; the client navigator switches
// over the variants instead of digging through an untyped bag.
type Payload struct {
	Pantry    *PantryPayload    `json:"pantry,omitempty"`
	Grocery   *GroceryPayload   `json:"grocery,omitempty"`
	Chef      *ChefPayload      `json:"chef,omitempty"`
	Community *CommunityPayload `json:"community,omitempty"`
	Health    *HealthPayload    `json:"health,omitempty"`
	Billing   *BillingPayload   `json:"billing,omitempty"`
}

type PantryPayload struct {
	ItemName string `json:"itemName"`
	DaysLeft int    `json:"daysLeft"`
}

type GroceryPayload struct {
	ListName string `json:"listName"`
	DaysLeft int    `json:"daysLeft"`
}

type ChefPayload struct {
	ChefName    string `json:"chefName"`
	RecipeTitle string `json:"recipeTitle,omitempty"`
	CourseTitle string `json:"courseTitle,omitempty"`
}

type CommunityPayload struct {
	ActorName string `json:"actorName"`
	Action    string `json:"action"`
}

type HealthPayload struct {
	Text string `json:"text"`
}

type BillingPayload struct {
	Reason string `json:"reason"`
}

// Value / Scan let GORM persist the payload as a JSON column.
func (p Payload) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = Payload{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported payload column type %T", value)
	}

	if len(raw) == 0 {
		*p = Payload{}
		return nil
	}
	return json.Unmarshal(raw, p)
}

// Draft is a notification built by the classifier but not yet persisted:
// no ID and no creation timestamp until the dispatcher assigns them.
type Draft struct {
	Type     NotificationType
	Title    string
	Message  string
	Priority Priority
	Payload  Payload
}

type NotificationResponse struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Priority  Priority         `json:"priority"`
	Payload   Payload          `json:"payload"`
	IsRead    bool             `json:"isRead"`
	ReadAt    *time.Time       `json:"readAt,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// PushMessage is what the push gateway delivers to a single device token.
type PushMessage struct {
	Token string
	Title string
	Body  string
	Data  map[string]string
	Badge *int
}
