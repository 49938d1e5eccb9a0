package domain

import (
	"fmt"
	"time"
)

type IssueStatus string

const (
	IssuePending   IssueStatus = "pending"
	IssueAccepted  IssueStatus = "accepted"
	IssueRejected  IssueStatus = "rejected"
	IssueEscalated IssueStatus = "escalated"
	IssueExpired   IssueStatus = "expired"
)

// IssueType doubles as the dispute category when an issue escalates.
type IssueType string

const (
	IssueTypeExchange            IssueType = "exchange"
	IssueTypeQuality             IssueType = "quality"
	IssueTypeDelivery            IssueType = "delivery"
	IssueTypePrice               IssueType = "price"
	IssueTypeDescriptionMismatch IssueType = "description_mismatch"
	IssueTypeOther               IssueType = "other"
)

func (t IssueType) Valid() bool {
	switch t {
	case IssueTypeExchange, IssueTypeQuality, IssueTypeDelivery,
		IssueTypePrice, IssueTypeDescriptionMismatch, IssueTypeOther:
		return true
	}
	return false
}

type Issue struct {
	ID                 string
	Code               string
	CreatedBy          string
	OtherPartyID       string
	AdvertisementID    string
	Type               IssueType
	Description        string
	Status             IssueStatus
	Deadline           time.Time
	AcceptedAt         *time.Time
	RejectedAt         *time.Time
	EscalatedAt        *time.Time
	ExpiredAt          *time.Time
	RejectionReason    string
	EscalatedDisputeID *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// AwaitingSweep reports a pending issue whose deadline has passed but which
// the sweeper has not expired yet. Readers must not treat it as expired.
func (i *Issue) AwaitingSweep(now time.Time) bool {
	return i.Status == IssuePending && now.After(i.Deadline)
}

func (i *Issue) IsParty(userID string) bool {
	return userID == i.CreatedBy || userID == i.OtherPartyID
}

// checkRespondable guards accept and reject: only the counterparty may
// answer, only while pending, only before the deadline.
func (i *Issue) checkRespondable(actingUser string, now time.Time) error {
	if actingUser != i.OtherPartyID {
		return fmt.Errorf("%w: user %s cannot respond to issue %s", ErrNotAuthorized, actingUser, i.Code)
	}
	if i.Status != IssuePending {
		return fmt.Errorf("%w: issue %s is %s", ErrInvalidTransition, i.Code, i.Status)
	}
	if now.After(i.Deadline) {
		return fmt.Errorf("%w: issue %s deadline %s", ErrDeadlineExpired, i.Code, i.Deadline.Format(time.RFC3339))
	}
	return nil
}

func (i *Issue) Accept(actingUser string, now time.Time) error {
	if err := i.checkRespondable(actingUser, now); err != nil {
		return err
	}
	i.Status = IssueAccepted
	i.AcceptedAt = &now
	i.UpdatedAt = now
	return nil
}

func (i *Issue) Reject(actingUser, reason string, now time.Time) error {
	if err := i.checkRespondable(actingUser, now); err != nil {
		return err
	}
	i.Status = IssueRejected
	i.RejectedAt = &now
	i.RejectionReason = reason
	i.UpdatedAt = now
	return nil
}

// MarkEscalated links the issue to the dispute opened for it. Only a
// rejected issue can be escalated and only once.
func (i *Issue) MarkEscalated(disputeID string, now time.Time) error {
	if i.EscalatedDisputeID != nil {
		return fmt.Errorf("%w: issue %s already has dispute %s", ErrAlreadyEscalated, i.Code, *i.EscalatedDisputeID)
	}
	if i.Status != IssueRejected {
		return fmt.Errorf("%w: issue %s is %s", ErrInvalidTransition, i.Code, i.Status)
	}
	i.Status = IssueEscalated
	i.EscalatedDisputeID = &disputeID
	i.EscalatedAt = &now
	i.UpdatedAt = now
	return nil
}

// Expire is the sweeper's transition. It refuses anything that is not a
// pending issue past its deadline.
func (i *Issue) Expire(now time.Time) error {
	if i.Status != IssuePending {
		return fmt.Errorf("%w: issue %s is %s", ErrInvalidTransition, i.Code, i.Status)
	}
	if !now.After(i.Deadline) {
		return fmt.Errorf("%w: issue %s deadline not reached", ErrInvalidTransition, i.Code)
	}
	i.Status = IssueExpired
	i.ExpiredAt = &now
	i.UpdatedAt = now
	return nil
}

type IssueMessage struct {
	ID          string
	IssueID     string
	SenderID    *string
	MessageType MessageType
	Body        string
	CreatedAt   time.Time
}

type MessageType string

const (
	MessageText            MessageType = "text"
	MessageStatusUpdate    MessageType = "status_update"
	MessageResolutionOffer MessageType = "resolution_offer"
	MessageCounteroffer    MessageType = "counteroffer"
)

func (t MessageType) Valid() bool {
	switch t {
	case MessageText, MessageStatusUpdate, MessageResolutionOffer, MessageCounteroffer:
		return true
	}
	return false
}
