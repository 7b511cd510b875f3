package notif

import (
	"fmt"

	"mealmate/internal/common"
)

// Classifier turns a raw domain event into zero or one draft notification.
// A fully disabled user (master switch off) generates no drafts at all.
// Category-level gating is the dispatcher's job, except the chef
// recipe/course sub-toggles: both event kinds collapse into one chef
// notification type, so only the classifier still sees which toggle
// applies.
type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify returns the draft for the event, or (nil, nil) when the owner's
// master switch suppresses it. Incomplete context data fails with a
// ValidationError before anything is built.
func (c *Classifier) Classify(event common.Event, prefs *common.Preferences) (*common.Draft, error) {
	if prefs != nil && !prefs.Enabled {
		return nil, nil
	}

	switch e := event.(type) {
	case common.PantryExpiryEvent:
		if e.ItemName == "" {
			return nil, &common.ValidationError{Field: "itemName", Reason: "required for pantry expiry events"}
		}
		return &common.Draft{
			Type:     common.PantryType,
			Title:    "Pantry item expiring",
			Message:  expiryMessage(e.ItemName, e.DaysLeft),
			Priority: deadlinePriority(e.DaysLeft),
			Payload: common.Payload{
				Pantry: &common.PantryPayload{ItemName: e.ItemName, DaysLeft: e.DaysLeft},
			},
		}, nil

	case common.GroceryDeadlineEvent:
		if e.ListName == "" {
			return nil, &common.ValidationError{Field: "listName", Reason: "required for grocery deadline events"}
		}
		return &common.Draft{
			Type:     common.GroceryType,
			Title:    "Grocery deadline",
			Message:  deadlineMessage(e.ListName, e.DaysLeft),
			Priority: deadlinePriority(e.DaysLeft),
			Payload: common.Payload{
				Grocery: &common.GroceryPayload{ListName: e.ListName, DaysLeft: e.DaysLeft},
			},
		}, nil

	case common.ChefRecipeEvent:
		if e.ChefName == "" || e.RecipeTitle == "" {
			return nil, &common.ValidationError{Field: "chefName/recipeTitle", Reason: "required for chef recipe events"}
		}
		if prefs != nil && !prefs.ChefRecipes {
			return nil, nil
		}
		return &common.Draft{
			Type:     common.ChefType,
			Title:    fmt.Sprintf("New recipe from %s", e.ChefName),
			Message:  fmt.Sprintf("%s published %s", e.ChefName, e.RecipeTitle),
			Priority: common.PriorityLow,
			Payload: common.Payload{
				Chef: &common.ChefPayload{ChefName: e.ChefName, RecipeTitle: e.RecipeTitle},
			},
		}, nil

	case common.ChefCourseEvent:
		if e.ChefName == "" || e.CourseTitle == "" {
			return nil, &common.ValidationError{Field: "chefName/courseTitle", Reason: "required for chef course events"}
		}
		if prefs != nil && !prefs.ChefCourses {
			return nil, nil
		}
		return &common.Draft{
			Type:     common.ChefType,
			Title:    fmt.Sprintf("New course from %s", e.ChefName),
			Message:  fmt.Sprintf("%s opened the course %s", e.ChefName, e.CourseTitle),
			Priority: common.PriorityLow,
			Payload: common.Payload{
				Chef: &common.ChefPayload{ChefName: e.ChefName, CourseTitle: e.CourseTitle},
			},
		}, nil

	case common.CommunityActivityEvent:
		if e.ActorName == "" || e.Action == "" {
			return nil, &common.ValidationError{Field: "actorName/action", Reason: "required for community events"}
		}
		return &common.Draft{
			Type:     common.CommunityType,
			Title:    "Community activity",
			Message:  fmt.Sprintf("%s %s", e.ActorName, e.Action),
			Priority: common.PriorityLow,
			Payload: common.Payload{
				Community: &common.CommunityPayload{ActorName: e.ActorName, Action: e.Action},
			},
		}, nil

	case common.HealthReminderEvent:
		if e.Text == "" {
			return nil, &common.ValidationError{Field: "text", Reason: "required for health reminders"}
		}
		return &common.Draft{
			Type:     common.HealthType,
			Title:    "Health reminder",
			Message:  e.Text,
			Priority: common.PriorityLow,
			Payload: common.Payload{
				Health: &common.HealthPayload{Text: e.Text},
			},
		}, nil

	case common.PaymentEvent:
		if e.Reason == "" {
			return nil, &common.ValidationError{Field: "reason", Reason: "required for payment events"}
		}
		return &common.Draft{
			Type:     common.PaymentType,
			Title:    "Payment issue",
			Message:  e.Reason,
			Priority: common.PriorityHigh,
			Payload: common.Payload{
				Billing: &common.BillingPayload{Reason: e.Reason},
			},
		}, nil

	case common.SubscriptionEvent:
		if e.Reason == "" {
			return nil, &common.ValidationError{Field: "reason", Reason: "required for subscription events"}
		}
		return &common.Draft{
			Type:     common.SubscriptionType,
			Title:    "Subscription update",
			Message:  e.Reason,
			Priority: common.PriorityHigh,
			Payload: common.Payload{
				Billing: &common.BillingPayload{Reason: e.Reason},
			},
		}, nil

	case common.SystemEvent:
		if e.Title == "" || e.Message == "" {
			return nil, &common.ValidationError{Field: "title/message", Reason: "required for system events"}
		}
		return &common.Draft{
			Type:     common.SystemType,
			Title:    e.Title,
			Message:  e.Message,
			Priority: common.PriorityLow,
		}, nil

	default:
		return nil, &common.ValidationError{Field: "event", Reason: fmt.Sprintf("unknown event type %T", event)}
	}
}

// deadlinePriority maps days-until-due onto priority: due today or overdue
// is urgent, within two days high, within a week medium, otherwise low.
func deadlinePriority(daysLeft int) common.Priority {
	switch {
	case daysLeft <= 0:
		return common.PriorityUrgent
	case daysLeft <= 2:
		return common.PriorityHigh
	case daysLeft <= 7:
		return common.PriorityMedium
	default:
		return common.PriorityLow
	}
}

func expiryMessage(item string, daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("%s has expired", item)
	case daysLeft == 0:
		return fmt.Sprintf("%s expires today", item)
	case daysLeft == 1:
		return fmt.Sprintf("%s expires tomorrow", item)
	default:
		return fmt.Sprintf("%s expires in %d days", item, daysLeft)
	}
}

func deadlineMessage(list string, daysLeft int) string {
	switch {
	case daysLeft < 0:
		return fmt.Sprintf("Shopping for %s is overdue", list)
	case daysLeft == 0:
		return fmt.Sprintf("Shopping for %s is due today", list)
	case daysLeft == 1:
		return fmt.Sprintf("Shopping for %s is due tomorrow", list)
	default:
		return fmt.Sprintf("Shopping for %s is due in %d days", list, daysLeft)
	}
}
