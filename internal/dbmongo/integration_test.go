package dbmongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"mealmate/internal/common"
	"mealmate/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

// Integration tests run against the MongoDB from docker-compose. Set
// MONGO_INTEGRATION=1 to enable them; unit runs skip.
func integrationClient(t *testing.T) *MongoClient {
	t.Helper()

	if os.Getenv("MONGO_INTEGRATION") == "" {
		t.Skip("set MONGO_INTEGRATION=1 to run against a live MongoDB")
	}

	client, err := NewMongoConnection(config.LoadConfig())
	require.NoError(t, err, "Ensure MongoDB is running: docker-compose up -d mongo")
	t.Cleanup(func() {
		client.Close(context.Background())
	})

	return client
}

func TestMongoConnection_Integration(t *testing.T) {
	client := integrationClient(t)

	assert.NoError(t, client.Client.Ping(context.Background(), nil))
	assert.NotNil(t, client.Database)
}

func TestPreferenceStore_Integration(t *testing.T) {
	client := integrationClient(t)
	store := NewPreferenceStore(client)
	ctx := context.Background()

	userID := fmt.Sprintf("it-user-%d", time.Now().UnixNano())
	t.Cleanup(func() {
		client.Database.Collection("notification_preferences").
			DeleteOne(context.Background(), bson.M{"_id": userID})
	})

	t.Run("first_get_materializes_defaults", func(t *testing.T) {
		prefs, err := store.Get(ctx, userID)
		require.NoError(t, err)

		assert.Equal(t, userID, prefs.UserID)
		assert.True(t, prefs.Enabled)
		assert.True(t, prefs.PantryExpiry)
		assert.Equal(t, "22:00", prefs.QuietHoursStart)
		assert.Equal(t, "07:00", prefs.QuietHoursEnd)

		// A second read returns the stored document, not a new upsert.
		again, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, prefs, again)
	})

	t.Run("update_merges_only_patched_fields", func(t *testing.T) {
		off := false
		start := "21:00"
		prefs, err := store.Update(ctx, userID, common.PreferencesPatch{
			PantryExpiry:    &off,
			QuietHoursStart: &start,
		})
		require.NoError(t, err)

		assert.False(t, prefs.PantryExpiry)
		assert.Equal(t, "21:00", prefs.QuietHoursStart)
		// Untouched fields keep their stored values.
		assert.True(t, prefs.Enabled)
		assert.True(t, prefs.GroceryDeadline)
		assert.Equal(t, "07:00", prefs.QuietHoursEnd)

		stored, err := store.Get(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, prefs, stored)
	})

	t.Run("empty_patch_returns_current_document", func(t *testing.T) {
		before, err := store.Get(ctx, userID)
		require.NoError(t, err)

		after, err := store.Update(ctx, userID, common.PreferencesPatch{})
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})

	t.Run("update_on_fresh_user_materializes_before_merge", func(t *testing.T) {
		freshID := fmt.Sprintf("it-user-fresh-%d", time.Now().UnixNano())
		t.Cleanup(func() {
			client.Database.Collection("notification_preferences").
				DeleteOne(context.Background(), bson.M{"_id": freshID})
		})

		off := false
		prefs, err := store.Update(ctx, freshID, common.PreferencesPatch{ChefRecipes: &off})
		require.NoError(t, err)

		assert.False(t, prefs.ChefRecipes)
		// The rest of the document came from defaults, not zero values.
		assert.True(t, prefs.Enabled)
		assert.True(t, prefs.ChefCourses)
		assert.Equal(t, "22:00", prefs.QuietHoursStart)
	})
}
