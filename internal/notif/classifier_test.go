package notif

import (
	"testing"

	"mealmate/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_PantryExpiryPriorities(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")

	tests := []struct {
		daysLeft int
		want     common.Priority
	}{
		{-1, common.PriorityUrgent},
		{0, common.PriorityUrgent},
		{1, common.PriorityHigh},
		{2, common.PriorityHigh},
		{3, common.PriorityMedium},
		{5, common.PriorityMedium},
		{7, common.PriorityMedium},
		{8, common.PriorityLow},
		{30, common.PriorityLow},
	}

	for _, tt := range tests {
		draft, err := classifier.Classify(common.PantryExpiryEvent{
			ItemName: "milk",
			DaysLeft: tt.daysLeft,
		}, &prefs)

		require.NoError(t, err)
		require.NotNil(t, draft)
		assert.Equal(t, tt.want, draft.Priority, "daysLeft=%d", tt.daysLeft)
		assert.Equal(t, common.PantryType, draft.Type)
	}
}

func TestClassify_DeterministicMessages(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")

	draft, err := classifier.Classify(common.PantryExpiryEvent{ItemName: "milk", DaysLeft: 0}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, "milk expires today", draft.Message)

	draft, err = classifier.Classify(common.PantryExpiryEvent{ItemName: "milk", DaysLeft: 1}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, "milk expires tomorrow", draft.Message)

	draft, err = classifier.Classify(common.PantryExpiryEvent{ItemName: "milk", DaysLeft: 5}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, "milk expires in 5 days", draft.Message)

	draft, err = classifier.Classify(common.PantryExpiryEvent{ItemName: "milk", DaysLeft: -2}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, "milk has expired", draft.Message)

	draft, err = classifier.Classify(common.GroceryDeadlineEvent{ListName: "weekend bbq", DaysLeft: 0}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, "Shopping for weekend bbq is due today", draft.Message)
	require.NotNil(t, draft.Payload.Grocery)
	assert.Equal(t, "weekend bbq", draft.Payload.Grocery.ListName)
}

func TestClassify_ChefAndCommunityAreLowPriority(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")

	draft, err := classifier.Classify(common.ChefRecipeEvent{
		ChefName:    "Elena",
		RecipeTitle: "Paella Valenciana",
	}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, common.PriorityLow, draft.Priority)
	assert.Equal(t, "New recipe from Elena", draft.Title)
	require.NotNil(t, draft.Payload.Chef)
	assert.Equal(t, "Paella Valenciana", draft.Payload.Chef.RecipeTitle)

	draft, err = classifier.Classify(common.CommunityActivityEvent{
		ActorName: "sam",
		Action:    "commented on your recipe",
	}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, common.PriorityLow, draft.Priority)
	assert.Equal(t, "sam commented on your recipe", draft.Message)
}

func TestClassify_BillingEventsAreHighPriority(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")

	draft, err := classifier.Classify(common.PaymentEvent{Reason: "Your card was declined"}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, common.PriorityHigh, draft.Priority)
	assert.Equal(t, common.PaymentType, draft.Type)

	draft, err = classifier.Classify(common.SubscriptionEvent{Reason: "Your plan renews tomorrow"}, &prefs)
	require.NoError(t, err)
	assert.Equal(t, common.PriorityHigh, draft.Priority)
	assert.Equal(t, common.SubscriptionType, draft.Type)
}

func TestClassify_IncompleteContextFailsValidation(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")

	events := []common.Event{
		common.PantryExpiryEvent{DaysLeft: 1},
		common.GroceryDeadlineEvent{DaysLeft: 1},
		common.ChefRecipeEvent{ChefName: "Elena"},
		common.ChefCourseEvent{CourseTitle: "Knife skills"},
		common.CommunityActivityEvent{ActorName: "sam"},
		common.HealthReminderEvent{},
		common.PaymentEvent{},
		common.SubscriptionEvent{},
		common.SystemEvent{Title: "Maintenance"},
	}

	for _, event := range events {
		draft, err := classifier.Classify(event, &prefs)
		assert.Nil(t, draft, "%T", event)
		assert.True(t, common.IsValidation(err), "%T should fail validation, got %v", event, err)
	}
}

func TestClassify_MasterSwitchSuppressesEverything(t *testing.T) {
	classifier := NewClassifier()
	prefs := common.DefaultPreferences("user-1")
	prefs.Enabled = false

	// Urgent deadline and system events are suppressed like everything
	// else when the master switch is off.
	events := []common.Event{
		common.PantryExpiryEvent{ItemName: "milk", DaysLeft: 0},
		common.SystemEvent{Title: "Security notice", Message: "Password changed"},
		common.PaymentEvent{Reason: "Card declined"},
	}

	for _, event := range events {
		draft, err := classifier.Classify(event, &prefs)
		assert.NoError(t, err, "%T", event)
		assert.Nil(t, draft, "%T", event)
	}
}

func TestClassify_ChefTogglesGateByEventKind(t *testing.T) {
	classifier := NewClassifier()

	recipe := common.ChefRecipeEvent{ChefName: "Elena", RecipeTitle: "Paella Valenciana"}
	course := common.ChefCourseEvent{ChefName: "Elena", CourseTitle: "Knife Skills 101"}

	prefs := common.DefaultPreferences("user-1")
	prefs.ChefRecipes = false

	// Recipes off, courses on: only the recipe event is suppressed.
	draft, err := classifier.Classify(recipe, &prefs)
	assert.NoError(t, err)
	assert.Nil(t, draft)

	draft, err = classifier.Classify(course, &prefs)
	require.NoError(t, err)
	require.NotNil(t, draft)
	assert.Equal(t, common.ChefType, draft.Type)

	prefs = common.DefaultPreferences("user-1")
	prefs.ChefCourses = false

	draft, err = classifier.Classify(recipe, &prefs)
	require.NoError(t, err)
	require.NotNil(t, draft)

	draft, err = classifier.Classify(course, &prefs)
	assert.NoError(t, err)
	assert.Nil(t, draft)
}
