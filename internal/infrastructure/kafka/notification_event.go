package kafka

import (
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
)

// NotificationEvent is the wire form of a domain.Notification on the
// dispute-events topic.
type NotificationEvent struct {
	UserID     string            `json:"user_id"`
	EventKind  string            `json:"event_kind"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}

func NewNotificationEvent(n domain.Notification) NotificationEvent {
	return NotificationEvent{
		UserID:     n.UserID,
		EventKind:  string(n.Kind),
		Payload:    n.Payload,
		OccurredAt: n.OccurredAt,
	}
}
