package notifier

import "time"

type CallbackPayload struct {
	UserID     string            `json:"user_id"`
	EventKind  string            `json:"event_kind"`
	Payload    map[string]string `json:"payload,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
