package domain

import (
	"context"
	"time"
)

type EventKind string

const (
	EventIssueCreated     EventKind = "issue.created"
	EventIssueAccepted    EventKind = "issue.accepted"
	EventIssueRejected    EventKind = "issue.rejected"
	EventIssueExpired     EventKind = "issue.expired"
	EventDisputeCreated   EventKind = "dispute.created"
	EventDisputeMessage   EventKind = "dispute.message"
	EventDisputeResponded EventKind = "dispute.seller_responded"
	EventDisputeResolved  EventKind = "dispute.resolved"
	EventDisputeClosed    EventKind = "dispute.closed"
	EventDisputeFlagged   EventKind = "dispute.flagged"
	EventDisputeEscalated EventKind = "dispute.escalated"
	EventClaimAssigned    EventKind = "claim.assigned"
	EventClaimResolved    EventKind = "claim.resolved"
	EventClaimClosed      EventKind = "claim.closed"
	EventClaimExpired     EventKind = "claim.expired"
)

// Notification is one outbound event addressed to a user.
type Notification struct {
	UserID     string
	Kind       EventKind
	Payload    map[string]string
	OccurredAt time.Time
}

// Notifier dispatches notifications after commit. Failures are reported to
// the caller but never undo the transition that produced them.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, msgs ...Message) error
}
