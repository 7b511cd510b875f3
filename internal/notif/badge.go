package notif

import (
	"context"
	"log"

	"mealmate/internal/common"
	"mealmate/internal/dbmysql"
)

// BadgeSync keeps the authoritative unread count and mirrors it onto the
// device badge. The count is always recomputed from the repository, never
// incrementally adjusted, so re-reading an already-read notification can
// never double-decrement it.
type BadgeSync struct {
	repo   dbmysql.NotificationRepository
	setter common.BadgeSetter
}

func NewBadgeSync(repo dbmysql.NotificationRepository, setter common.BadgeSetter) *BadgeSync {
	return &BadgeSync{
		repo:   repo,
		setter: setter,
	}
}

// Recompute returns the authoritative unread count for the user and pushes
// it to the badge best-effort. A failed badge set is logged and ignored;
// the badge is a presentation cache, not the source of truth.
func (b *BadgeSync) Recompute(ctx context.Context, userID string) (int64, error) {
	count, err := b.repo.UnreadCount(ctx, userID)
	if err != nil {
		return 0, &common.PersistenceError{Op: "count unread", Err: err}
	}

	if b.setter != nil {
		if err := b.setter.SetBadge(ctx, userID, int(count)); err != nil {
			log.Printf("Badge set failed for user %s: %v", userID, err)
		}
	}

	return count, nil
}
