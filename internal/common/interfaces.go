package common

import (
	"context"
)

// PushSender is the boundary to the external push gateway. Implementations
// classify failures as TransientDeliveryError so the dispatcher can prune
// permanently dead tokens.
type PushSender interface {
	Send(ctx context.Context, msg PushMessage) error
}

// BadgeSetter mirrors the authoritative unread count onto the device icon
// badge. Best-effort: a failed badge set never affects the in-app count.
type BadgeSetter interface {
	SetBadge(ctx context.Context, userID string, count int) error
}
