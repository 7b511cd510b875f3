package dbmongo

import (
	"context"
	"fmt"

	"mealmate/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// PreferenceStore keeps one preference document per user. A user who has
// never touched their settings gets the defaults materialized on first
// fetch; updates are field-level merges of only the supplied fields.
type PreferenceStore interface {
	Get(ctx context.Context, userID string) (*common.Preferences, error)
	Update(ctx context.Context, userID string, patch common.PreferencesPatch) (*common.Preferences, error)
}

type preferenceStore struct {
	coll *mongo.Collection
}

func NewPreferenceStore(mc *MongoClient) PreferenceStore {
	return &preferenceStore{
		coll: mc.Database.Collection("notification_preferences"),
	}
}

func (s *preferenceStore) Get(ctx context.Context, userID string) (*common.Preferences, error) {
	defaults := common.DefaultPreferences(userID)

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var prefs common.Preferences
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$setOnInsert": defaults},
		opts,
	).Decode(&prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to get preferences for user %s: %w", userID, err)
	}

	return &prefs, nil
}

func (s *preferenceStore) Update(
	ctx context.Context,
	userID string,
	patch common.PreferencesPatch,
) (*common.Preferences, error) {
	// Materialize defaults first so a partial patch on a fresh user still
	// merges against a complete document.
	if _, err := s.Get(ctx, userID); err != nil {
		return nil, err
	}

	set, err := patchToBSON(patch)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return s.Get(ctx, userID)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var prefs common.Preferences
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
		opts,
	).Decode(&prefs)
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences for user %s: %w", userID, err)
	}

	return &prefs, nil
}

// patchToBSON flattens the non-nil patch fields into a $set document. The
// omitempty bson tags on PreferencesPatch drop everything left unset.
func patchToBSON(patch common.PreferencesPatch) (bson.M, error) {
	raw, err := bson.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal preference patch: %w", err)
	}

	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference patch: %w", err)
	}

	return set, nil
}
