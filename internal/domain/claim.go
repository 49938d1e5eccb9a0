package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ClaimStatus string

const (
	ClaimPending     ClaimStatus = "pending"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimResolved    ClaimStatus = "resolved"
	ClaimClosed      ClaimStatus = "closed"
)

func (s ClaimStatus) Terminal() bool {
	return s == ClaimResolved || s == ClaimClosed
}

type AdminDecision string

const (
	DecisionFavorBuyer  AdminDecision = "favor_buyer"
	DecisionFavorSeller AdminDecision = "favor_seller"
	DecisionPartial     AdminDecision = "partial"
)

func (d AdminDecision) Valid() bool {
	return d == DecisionFavorBuyer || d == DecisionFavorSeller || d == DecisionPartial
}

// ResolutionMode tells who settles the claim: an assigned admin, or the
// two parties answering each other.
type ResolutionMode string

const (
	ModeAdminDecision ResolutionMode = "admin_decision"
	ModeMutualAnswer  ResolutionMode = "mutual_answer"
)

func (m ResolutionMode) Valid() bool {
	return m == ModeAdminDecision || m == ModeMutualAnswer
}

type PartyAnswer string

const (
	AnswerConcede PartyAnswer = "concede"
	AnswerContest PartyAnswer = "contest"
)

type Claim struct {
	ID                      string
	Code                    string
	DisputeID               string
	UserID                  string
	SellerID                string
	AdvertisementID         string
	ClaimReason             string
	BuyerAdditionalEvidence string
	ResolutionMode          ResolutionMode
	AdminID                 *string
	AdminDecision           *AdminDecision
	AdminNotes              string
	ResolutionAmount        *decimal.Decimal
	BuyerAnswer             *PartyAnswer
	SellerAnswer            *PartyAnswer
	WinnerID                *string
	Status                  ClaimStatus
	Priority                Priority
	Deadline                time.Time
	AssignedAt              *time.Time
	ResolvedAt              *time.Time
	ClosedAt                *time.Time
	CreatedAt               time.Time
	UpdatedAt               time.Time
}

func (c *Claim) IsParty(userID string) bool {
	return userID == c.UserID || userID == c.SellerID
}

func (c *Claim) IsAssignedAdmin(userID string) bool {
	return c.AdminID != nil && *c.AdminID == userID
}

// CanParticipate covers messaging and evidence: both parties plus the
// assigned admin.
func (c *Claim) CanParticipate(userID string) bool {
	return c.IsParty(userID) || c.IsAssignedAdmin(userID)
}

// ValidateDecision requires an amount exactly when the decision is partial,
// and the amount must be positive money with at most two decimal places.
func ValidateDecision(decision AdminDecision, amount *decimal.Decimal) error {
	if !decision.Valid() {
		return fmt.Errorf("%w: unknown decision %q", ErrInvalidDecision, decision)
	}
	if (decision == DecisionPartial) != (amount != nil) {
		return fmt.Errorf("%w: amount must be set iff decision is partial", ErrInvalidDecision)
	}
	if amount != nil {
		if reason := checkMoney(*amount); reason != "" {
			return fmt.Errorf("%w: %s", ErrInvalidDecision, reason)
		}
	}
	return nil
}

func (c *Claim) Assign(adminID string, now time.Time) error {
	if c.AdminID != nil {
		return fmt.Errorf("%w: claim %s is handled by %s", ErrAlreadyAssigned, c.Code, *c.AdminID)
	}
	if c.Status != ClaimPending {
		return fmt.Errorf("%w: claim %s is %s", ErrInvalidTransition, c.Code, c.Status)
	}
	c.AdminID = &adminID
	c.Status = ClaimUnderReview
	c.ResolutionMode = ModeAdminDecision
	c.AssignedAt = &now
	c.UpdatedAt = now
	return nil
}

func (c *Claim) Decide(adminID string, decision AdminDecision, notes string, amount *decimal.Decimal, now time.Time) error {
	if !c.IsAssignedAdmin(adminID) {
		return fmt.Errorf("%w: claim %s", ErrNotAssignedAdmin, c.Code)
	}
	if c.Status != ClaimUnderReview {
		return fmt.Errorf("%w: claim %s is %s", ErrInvalidTransition, c.Code, c.Status)
	}
	if err := ValidateDecision(decision, amount); err != nil {
		return err
	}
	c.settle(decision, amount, now)
	c.AdminNotes = notes
	switch decision {
	case DecisionFavorBuyer:
		c.WinnerID = &c.UserID
	case DecisionFavorSeller:
		c.WinnerID = &c.SellerID
	}
	return nil
}

func (c *Claim) settle(decision AdminDecision, amount *decimal.Decimal, now time.Time) {
	c.AdminDecision = &decision
	c.ResolutionAmount = amount
	c.Status = ClaimResolved
	c.ResolvedAt = &now
	c.UpdatedAt = now
}

// Answer records one party's answer in mutual_answer mode. A concession
// settles the claim for the other side; two contests hand the claim to an
// admin. decided reports whether the claim was resolved by this answer.
func (c *Claim) Answer(actingUser string, answer PartyAnswer, now time.Time) (decided bool, err error) {
	if !c.IsParty(actingUser) {
		return false, fmt.Errorf("%w: user %s is not a party of claim %s", ErrNotAuthorized, actingUser, c.Code)
	}
	if c.ResolutionMode != ModeMutualAnswer || c.Status != ClaimPending {
		return false, fmt.Errorf("%w: claim %s does not accept party answers", ErrInvalidTransition, c.Code)
	}
	if answer != AnswerConcede && answer != AnswerContest {
		return false, fmt.Errorf("%w: unknown answer %q", ErrValidation, answer)
	}
	isBuyer := actingUser == c.UserID
	if (isBuyer && c.BuyerAnswer != nil) || (!isBuyer && c.SellerAnswer != nil) {
		return false, fmt.Errorf("%w: user %s already answered claim %s", ErrInvalidTransition, actingUser, c.Code)
	}
	if isBuyer {
		c.BuyerAnswer = &answer
	} else {
		c.SellerAnswer = &answer
	}
	c.UpdatedAt = now

	if answer == AnswerConcede {
		if isBuyer {
			c.WinnerID = &c.SellerID
			c.settle(DecisionFavorSeller, nil, now)
		} else {
			c.WinnerID = &c.UserID
			c.settle(DecisionFavorBuyer, nil, now)
		}
		return true, nil
	}
	if c.BuyerAnswer != nil && c.SellerAnswer != nil {
		c.ResolutionMode = ModeAdminDecision
	}
	return false, nil
}

// Close is allowed to the claimant, the seller and the assigned admin.
func (c *Claim) Close(actingUser string, now time.Time) error {
	if !c.CanParticipate(actingUser) {
		return fmt.Errorf("%w: user %s cannot close claim %s", ErrNotAuthorized, actingUser, c.Code)
	}
	return c.close(now)
}

func (c *Claim) close(now time.Time) error {
	if c.Status.Terminal() {
		return fmt.Errorf("%w: claim %s is %s", ErrInvalidTransition, c.Code, c.Status)
	}
	c.Status = ClaimClosed
	c.ClosedAt = &now
	c.UpdatedAt = now
	return nil
}

// Expire closes an unassigned claim whose deadline lapsed.
func (c *Claim) Expire(now time.Time) error {
	if c.OverdueAction(now) != OverdueExpire {
		return fmt.Errorf("%w: claim %s is not expirable", ErrInvalidTransition, c.Code)
	}
	return c.close(now)
}

// MarkUrgent raises an assigned, overdue claim once.
func (c *Claim) MarkUrgent(now time.Time) error {
	if c.OverdueAction(now) != OverdueMarkUrgent {
		return fmt.Errorf("%w: claim %s is not overdue", ErrInvalidTransition, c.Code)
	}
	c.Priority = PriorityUrgent
	c.UpdatedAt = now
	return nil
}

func (c *Claim) OverdueAction(now time.Time) OverdueAction {
	if !c.Deadline.Before(now) {
		return OverdueNone
	}
	switch {
	case c.Status == ClaimPending:
		return OverdueExpire
	case c.Status == ClaimUnderReview && c.Priority != PriorityUrgent:
		return OverdueMarkUrgent
	}
	return OverdueNone
}

func (c *Claim) AwaitingSweep(now time.Time) bool {
	return c.OverdueAction(now) != OverdueNone
}

type ClaimMessage struct {
	ID          string
	ClaimID     string
	SenderID    *string
	MessageType MessageType
	Body        string
	CreatedAt   time.Time
}

type ClaimEvidence struct {
	ID      string
	ClaimID string
	EvidenceFile
	UploadedBy string
	UploadedAt time.Time
}
