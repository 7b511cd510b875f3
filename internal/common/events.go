package common

// Event is a raw domain occurrence fed into the notification classifier.
// Each concrete event carries the context needed to render a deterministic
// title and message.
type Event interface {
	Category() NotificationType
}

type PantryExpiryEvent struct {
	ItemName string
	DaysLeft int
}

func (PantryExpiryEvent) Category() NotificationType { return PantryType }

type GroceryDeadlineEvent struct {
	ListName string
	DaysLeft int
}

func (GroceryDeadlineEvent) Category() NotificationType { return GroceryType }

type ChefRecipeEvent struct {
	ChefName    string
	RecipeTitle string
}

func (ChefRecipeEvent) Category() NotificationType { return ChefType }

type ChefCourseEvent struct {
	ChefName    string
	CourseTitle string
}

func (ChefCourseEvent) Category() NotificationType { return ChefType }

type CommunityActivityEvent struct {
	ActorName string
	Action    string
}

func (CommunityActivityEvent) Category() NotificationType { return CommunityType }

type HealthReminderEvent struct {
	Text string
}

func (HealthReminderEvent) Category() NotificationType { return HealthType }

type PaymentEvent struct {
	Reason string
}

func (PaymentEvent) Category() NotificationType { return PaymentType }

type SubscriptionEvent struct {
	Reason string
}

func (SubscriptionEvent) Category() NotificationType { return SubscriptionType }

type SystemEvent struct {
	Title   string
	Message string
}

func (SystemEvent) Category() NotificationType { return SystemType }
