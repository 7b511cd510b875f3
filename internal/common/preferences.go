package common

import (
	"time"
)

// Preferences holds a user's notification delivery settings. One document
// per user, created with defaults on first fetch.
type Preferences struct {
	UserID            string `bson:"_id" json:"-"`
	Enabled           bool   `bson:"enabled" json:"enabled"`
	PantryExpiry      bool   `bson:"pantryExpiry" json:"pantryExpiry"`
	GroceryDeadline   bool   `bson:"groceryDeadline" json:"groceryDeadline"`
	ChefRecipes       bool   `bson:"chefRecipes" json:"chefRecipes"`
	ChefCourses       bool   `bson:"chefCourses" json:"chefCourses"`
	CommunityActivity bool   `bson:"communityActivity" json:"communityActivity"`
	HealthReminders   bool   `bson:"healthReminders" json:"healthReminders"`
	QuietHoursStart   string `bson:"quietHoursStart" json:"quietHoursStart"`
	QuietHoursEnd     string `bson:"quietHoursEnd" json:"quietHoursEnd"`
}

// PreferencesPatch is a partial update: only non-nil fields are applied,
// everything else is left unchanged.
type PreferencesPatch struct {
	Enabled           *bool   `bson:"enabled,omitempty" json:"enabled,omitempty"`
	PantryExpiry      *bool   `bson:"pantryExpiry,omitempty" json:"pantryExpiry,omitempty"`
	GroceryDeadline   *bool   `bson:"groceryDeadline,omitempty" json:"groceryDeadline,omitempty"`
	ChefRecipes       *bool   `bson:"chefRecipes,omitempty" json:"chefRecipes,omitempty"`
	ChefCourses       *bool   `bson:"chefCourses,omitempty" json:"chefCourses,omitempty"`
	CommunityActivity *bool   `bson:"communityActivity,omitempty" json:"communityActivity,omitempty"`
	HealthReminders   *bool   `bson:"healthReminders,omitempty" json:"healthReminders,omitempty"`
	QuietHoursStart   *string `bson:"quietHoursStart,omitempty" json:"quietHoursStart,omitempty"`
	QuietHoursEnd     *string `bson:"quietHoursEnd,omitempty" json:"quietHoursEnd,omitempty"`
}

func DefaultPreferences(userID string) Preferences {
	return Preferences{
		UserID:            userID,
		Enabled:           true,
		PantryExpiry:      true,
		GroceryDeadline:   true,
		ChefRecipes:       true,
		ChefCourses:       true,
		CommunityActivity: true,
		HealthReminders:   true,
		QuietHoursStart:   "22:00",
		QuietHoursEnd:     "07:00",
	}
}

// CategoryEnabled reports whether delivery for the given notification type
// is switched on. Payment, subscription and system notifications have no
// per-category toggle and are only gated by the master switch. A stored
// chef notification no longer distinguishes recipe from course, so the
// chef case here can only gate the type as a whole; the per-toggle
// decision happens at classification, where the event kind is still
// known.
func (p Preferences) CategoryEnabled(t NotificationType) bool {
	if !p.Enabled {
		return false
	}

	switch t {
	case PantryType:
		return p.PantryExpiry
	case GroceryType:
		return p.GroceryDeadline
	case ChefType:
		return p.ChefRecipes || p.ChefCourses
	case CommunityType:
		return p.CommunityActivity
	case HealthType:
		return p.HealthReminders
	default:
		return true
	}
}

// InQuietHours reports whether now falls inside the user's quiet-hours
// window. A window that wraps midnight (start > end) is handled; an unset
// or unparseable window never suppresses anything.
func (p Preferences) InQuietHours(now time.Time) bool {
	start, okStart := parseClock(p.QuietHoursStart)
	end, okEnd := parseClock(p.QuietHoursEnd)
	if !okStart || !okEnd || start == end {
		return false
	}

	minute := now.Hour()*60 + now.Minute()
	if start < end {
		return minute >= start && minute < end
	}
	// Wraps across midnight, e.g. 22:00-07:00.
	return minute >= start || minute < end
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}
