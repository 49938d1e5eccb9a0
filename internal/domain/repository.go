package domain

import (
	"context"
	"time"
)

// Page is a 1-based page request. Limit <= 0 means the repository default.
type Page struct {
	Page  int
	Limit int
}

func (p Page) Normalize() Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 || p.Limit > 200 {
		p.Limit = 50
	}
	return p
}

func (p Page) Offset() int { return (p.Page - 1) * p.Limit }

type IssueFilter struct {
	PartyID *string
	Status  *IssueStatus
	Page
}

type DisputeFilter struct {
	PartyID *string
	Status  *DisputeStatus
	Phase   *Phase
	Page
}

type ClaimFilter struct {
	PartyID  *string
	AdminID  *string
	Status   *ClaimStatus
	Priority *Priority
	Page
}

type IssueRepository interface {
	Create(ctx context.Context, issue *Issue) error
	Update(ctx context.Context, issue *Issue) error
	GetByID(ctx context.Context, issueID string) (*Issue, error)
	// GetForUpdate row-locks the issue until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, issueID string) (*Issue, error)
	GetByCode(ctx context.Context, code string) (*Issue, error)
	List(ctx context.Context, filter IssueFilter) ([]*Issue, int64, error)
	AddMessage(ctx context.Context, msg *IssueMessage) error
	ListMessages(ctx context.Context, issueID string) ([]*IssueMessage, error)
	FindExpired(ctx context.Context, now time.Time, limit int) ([]*Issue, error)
}

type DisputeRepository interface {
	Create(ctx context.Context, dispute *Dispute) error
	Update(ctx context.Context, dispute *Dispute) error
	GetByID(ctx context.Context, disputeID string) (*Dispute, error)
	GetForUpdate(ctx context.Context, disputeID string) (*Dispute, error)
	GetByCode(ctx context.Context, code string) (*Dispute, error)
	List(ctx context.Context, filter DisputeFilter) ([]*Dispute, int64, error)
	AddMessage(ctx context.Context, msg *DisputeMessage) error
	ListMessages(ctx context.Context, disputeID string) ([]*DisputeMessage, error)
	AddEvidence(ctx context.Context, ev *DisputeEvidence) error
	ListEvidence(ctx context.Context, disputeID string) ([]*DisputeEvidence, error)
	AddEligibilityChecks(ctx context.Context, checks []*EligibilityCheck) error
	ListEligibilityChecks(ctx context.Context, disputeID string) ([]*EligibilityCheck, error)
	AddResolution(ctx context.Context, res *DisputeResolution) error
	// GetResolution returns ErrNotFound when the dispute has none.
	GetResolution(ctx context.Context, disputeID string) (*DisputeResolution, error)
	// FindOverdue returns disputes that may owe the sweeper an action.
	// Callers re-check each row under lock.
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]*Dispute, error)
}

type ClaimRepository interface {
	Create(ctx context.Context, claim *Claim) error
	Update(ctx context.Context, claim *Claim) error
	GetByID(ctx context.Context, claimID string) (*Claim, error)
	GetForUpdate(ctx context.Context, claimID string) (*Claim, error)
	GetByCode(ctx context.Context, code string) (*Claim, error)
	GetByDisputeID(ctx context.Context, disputeID string) (*Claim, error)
	List(ctx context.Context, filter ClaimFilter) ([]*Claim, int64, error)
	AddMessage(ctx context.Context, msg *ClaimMessage) error
	ListMessages(ctx context.Context, claimID string) ([]*ClaimMessage, error)
	AddEvidence(ctx context.Context, ev *ClaimEvidence) error
	ListEvidence(ctx context.Context, claimID string) ([]*ClaimEvidence, error)
	FindOverdue(ctx context.Context, now time.Time, limit int) ([]*Claim, error)
}

// CodeGenerator hands out reference codes. Next must run inside the
// caller's transaction so a rollback also returns the number.
type CodeGenerator interface {
	Next(ctx context.Context, kind CodeKind) (string, error)
}

// Store is the set of repositories bound to one transaction (or to none,
// for reads).
type Store interface {
	Issues() IssueRepository
	Disputes() DisputeRepository
	Claims() ClaimRepository
	Codes() CodeGenerator
}

// Transactor scopes storage access. WithinTx commits when fn returns nil
// and rolls back on any error or panic; retryable storage errors rerun fn.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(tx Store) error) error
	View(ctx context.Context, fn func(s Store) error) error
}
