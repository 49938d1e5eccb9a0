package domain

import (
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type DisputeStatus string

const (
	DisputePending          DisputeStatus = "pending"
	DisputeUnderReview      DisputeStatus = "under_review"
	DisputeAwaitingResponse DisputeStatus = "awaiting_response"
	DisputeNegotiation      DisputeStatus = "negotiation"
	DisputeResolved         DisputeStatus = "resolved"
	DisputeClosed           DisputeStatus = "closed"
	DisputeEscalated        DisputeStatus = "escalated"
)

func (s DisputeStatus) Terminal() bool {
	return s == DisputeResolved || s == DisputeClosed
}

// disputeTransitions lists every legal status edge. Escalation is only
// reachable through Dispute.Escalate and closing through Dispute.Close.
var disputeTransitions = map[DisputeStatus][]DisputeStatus{
	DisputePending:          {DisputeUnderReview, DisputeClosed},
	DisputeUnderReview:      {DisputeNegotiation, DisputeAwaitingResponse, DisputeClosed},
	DisputeNegotiation:      {DisputeResolved, DisputeEscalated, DisputeClosed},
	DisputeAwaitingResponse: {DisputeResolved, DisputeEscalated, DisputeClosed},
	DisputeEscalated:        {DisputeClosed},
}

func CanTransitionDispute(from, to DisputeStatus) bool {
	return slices.Contains(disputeTransitions[from], to)
}

type DisputeType string

const (
	DisputeTypeIssueNegotiation DisputeType = "issue_negotiation"
	DisputeTypeDirect           DisputeType = "direct"
)

type ResolutionStatus string

const (
	ResolutionAccepted      ResolutionStatus = "accepted"
	ResolutionRejected      ResolutionStatus = "rejected"
	ResolutionInNegotiation ResolutionStatus = "in_negotiation"
	ResolutionEnded         ResolutionStatus = "ended"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type Phase string

const (
	PhaseIssue      Phase = "issue"
	PhaseDispute    Phase = "dispute"
	PhaseClaim      Phase = "claim"
	PhaseResolution Phase = "resolution"
	PhaseEnded      Phase = "ended"
)

var phaseRank = map[Phase]int{
	PhaseIssue:      0,
	PhaseDispute:    1,
	PhaseClaim:      2,
	PhaseResolution: 3,
	PhaseEnded:      4,
}

func (p Phase) Rank() int {
	r, ok := phaseRank[p]
	if !ok {
		return -1
	}
	return r
}

type SellerDecision string

const (
	SellerAccept  SellerDecision = "accept"
	SellerDecline SellerDecision = "decline"
)

type Dispute struct {
	ID                  string
	Code                string
	UserID              string
	SellerID            string
	AdvertisementID     string
	IssueID             *string
	Type                DisputeType
	Category            IssueType
	ProblemDescription  string
	Status              DisputeStatus
	ResolutionStatus    *ResolutionStatus
	Priority            Priority
	Phase               Phase
	NegotiationDeadline *time.Time
	DisputeDeadline     *time.Time
	ClaimDeadline       *time.Time
	ResolutionDeadline  *time.Time
	SellerResponse      string
	SellerDecision      *SellerDecision
	SellerRespondedAt   *time.Time
	ClosedAt            *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func (d *Dispute) IsParty(userID string) bool {
	return userID == d.UserID || userID == d.SellerID
}

func (d *Dispute) CounterpartyOf(userID string) string {
	if userID == d.SellerID {
		return d.UserID
	}
	return d.SellerID
}

// TransitionTo moves the dispute along one edge of the transition table.
func (d *Dispute) TransitionTo(to DisputeStatus, now time.Time) error {
	if !CanTransitionDispute(d.Status, to) {
		return fmt.Errorf("%w: dispute %s cannot move from %s to %s", ErrInvalidTransition, d.Code, d.Status, to)
	}
	d.Status = to
	d.UpdatedAt = now
	return nil
}

// AdvancePhase never lets current_phase move backwards. Re-entering the
// current phase is a no-op.
func (d *Dispute) AdvancePhase(to Phase) error {
	if to.Rank() < 0 {
		return fmt.Errorf("%w: unknown phase %q", ErrValidation, to)
	}
	if to.Rank() < d.Phase.Rank() {
		return fmt.Errorf("%w: dispute %s from %s to %s", ErrPhaseRegression, d.Code, d.Phase, to)
	}
	d.Phase = to
	return nil
}

func (d *Dispute) setResolutionStatus(s ResolutionStatus) {
	d.ResolutionStatus = &s
}

// Escalate hands the dispute over to the claim phase.
func (d *Dispute) Escalate(claimDeadline, now time.Time) error {
	if d.Status == DisputeEscalated {
		return fmt.Errorf("%w: dispute %s", ErrAlreadyEscalated, d.Code)
	}
	if d.Status.Terminal() {
		return fmt.Errorf("%w: dispute %s is %s", ErrInvalidTransition, d.Code, d.Status)
	}
	if err := d.AdvancePhase(PhaseClaim); err != nil {
		return err
	}
	d.Status = DisputeEscalated
	d.ClaimDeadline = &claimDeadline
	d.UpdatedAt = now
	return nil
}

// RespondAsSeller records the seller's answer. A pending dispute passes
// through under_review on the way.
func (d *Dispute) RespondAsSeller(actingUser string, decision SellerDecision, response string, resolutionDeadline, now time.Time) error {
	if actingUser != d.SellerID {
		return fmt.Errorf("%w: only the seller may respond to dispute %s", ErrNotAuthorized, d.Code)
	}
	if d.SellerDecision != nil {
		return fmt.Errorf("%w: dispute %s already answered", ErrInvalidTransition, d.Code)
	}
	var target DisputeStatus
	switch decision {
	case SellerAccept:
		target = DisputeNegotiation
	case SellerDecline:
		target = DisputeAwaitingResponse
	default:
		return fmt.Errorf("%w: unknown seller decision %q", ErrValidation, decision)
	}
	if d.Status == DisputePending {
		if err := d.TransitionTo(DisputeUnderReview, now); err != nil {
			return err
		}
	}
	if err := d.TransitionTo(target, now); err != nil {
		return err
	}
	if decision == SellerAccept {
		d.setResolutionStatus(ResolutionInNegotiation)
	} else {
		d.setResolutionStatus(ResolutionRejected)
	}
	d.SellerDecision = &decision
	d.SellerResponse = response
	d.SellerRespondedAt = &now
	d.ResolutionDeadline = &resolutionDeadline
	return nil
}

// Resolve closes the dispute with an agreed resolution.
func (d *Dispute) Resolve(now time.Time) error {
	if err := d.TransitionTo(DisputeResolved, now); err != nil {
		return err
	}
	if err := d.AdvancePhase(PhaseEnded); err != nil {
		return err
	}
	d.setResolutionStatus(ResolutionAccepted)
	d.ClosedAt = &now
	return nil
}

// Close ends the dispute from any non-terminal status.
func (d *Dispute) Close(now time.Time) error {
	if err := d.TransitionTo(DisputeClosed, now); err != nil {
		return err
	}
	if err := d.AdvancePhase(PhaseEnded); err != nil {
		return err
	}
	d.setResolutionStatus(ResolutionEnded)
	d.ClosedAt = &now
	return nil
}

// SettleFromClaim applies the outcome of the child claim. A decided claim
// leaves the dispute in the resolution phase, anything else ends it.
func (d *Dispute) SettleFromClaim(decided bool, now time.Time) error {
	if d.Status != DisputeEscalated {
		return fmt.Errorf("%w: dispute %s is %s", ErrInvalidTransition, d.Code, d.Status)
	}
	phase := PhaseEnded
	if decided {
		phase = PhaseResolution
	}
	if err := d.TransitionTo(DisputeClosed, now); err != nil {
		return err
	}
	if err := d.AdvancePhase(phase); err != nil {
		return err
	}
	d.setResolutionStatus(ResolutionEnded)
	d.ClosedAt = &now
	return nil
}

// FlagNoSellerResponse moves a dispute whose negotiation window lapsed
// without a seller answer in front of an admin.
func (d *Dispute) FlagNoSellerResponse(now time.Time) error {
	if err := d.TransitionTo(DisputeUnderReview, now); err != nil {
		return err
	}
	if d.Priority != PriorityUrgent {
		d.Priority = PriorityHigh
	}
	return nil
}

type OverdueAction string

const (
	OverdueNone       OverdueAction = ""
	OverdueEscalate   OverdueAction = "escalate"
	OverdueFlagReview OverdueAction = "flag_review"
	OverdueExpire     OverdueAction = "expire"
	OverdueMarkUrgent OverdueAction = "mark_urgent"
)

func lapsed(deadline *time.Time, now time.Time) bool {
	return deadline != nil && deadline.Before(now)
}

// OverdueAction decides what the sweeper owes this dispute at now.
func (d *Dispute) OverdueAction(now time.Time) OverdueAction {
	if d.Status.Terminal() || d.Status == DisputeEscalated || d.Phase != PhaseDispute {
		return OverdueNone
	}
	if lapsed(d.DisputeDeadline, now) || lapsed(d.ResolutionDeadline, now) {
		return OverdueEscalate
	}
	if d.Status == DisputePending && d.SellerDecision == nil && lapsed(d.NegotiationDeadline, now) {
		return OverdueFlagReview
	}
	return OverdueNone
}

func (d *Dispute) AwaitingSweep(now time.Time) bool {
	return d.OverdueAction(now) != OverdueNone
}

type DisputeMessage struct {
	ID          string
	DisputeID   string
	SenderID    *string
	MessageType MessageType
	Body        string
	CreatedAt   time.Time
}

// EvidenceFile is the metadata of an uploaded file. The bytes live
// elsewhere; only the path is kept.
type EvidenceFile struct {
	FileType    string
	FilePath    string
	FileName    string
	FileSize    int64
	Description string
}

func (f EvidenceFile) Validate() error {
	if f.FilePath == "" || f.FileName == "" {
		return fmt.Errorf("%w: evidence requires file path and name", ErrValidation)
	}
	if f.FileSize < 0 {
		return fmt.Errorf("%w: negative evidence size", ErrValidation)
	}
	return nil
}

type DisputeEvidence struct {
	ID        string
	DisputeID string
	EvidenceFile
	UploadedBy string
	UploadedAt time.Time
}

type EligibilityCheck struct {
	ID        string
	DisputeID string
	CheckName string
	Passed    bool
	Reason    string
	CheckedAt time.Time
}

// FirstFailedCheck returns the first check whose latest result failed, or
// nil. Later entries win ties on CheckedAt.
func FirstFailedCheck(checks []*EligibilityCheck) *EligibilityCheck {
	latest := make(map[string]*EligibilityCheck, len(checks))
	var names []string
	for _, c := range checks {
		prev, ok := latest[c.CheckName]
		if !ok {
			names = append(names, c.CheckName)
		}
		if !ok || !c.CheckedAt.Before(prev.CheckedAt) {
			latest[c.CheckName] = c
		}
	}
	for _, name := range names {
		if c := latest[name]; !c.Passed {
			return c
		}
	}
	return nil
}

type ResolutionType string

const (
	ResolutionFullRefund    ResolutionType = "full_refund"
	ResolutionPartialRefund ResolutionType = "partial_refund"
	ResolutionReplacement   ResolutionType = "replacement"
	ResolutionReturn        ResolutionType = "return"
	ResolutionNoAction      ResolutionType = "no_action"
	ResolutionClosedByParty ResolutionType = "closed_by_party"
)

func (t ResolutionType) Valid() bool {
	switch t {
	case ResolutionFullRefund, ResolutionPartialRefund, ResolutionReplacement,
		ResolutionReturn, ResolutionNoAction, ResolutionClosedByParty:
		return true
	}
	return false
}

type DisputeResolution struct {
	ID         string
	DisputeID  string
	Type       ResolutionType
	Amount     *decimal.Decimal
	Details    string
	ResolvedBy string
	CreatedAt  time.Time
}

func (r *DisputeResolution) Validate() error {
	if !r.Type.Valid() {
		return fmt.Errorf("%w: unknown resolution type %q", ErrValidation, r.Type)
	}
	if r.Amount != nil {
		if reason := checkMoney(*r.Amount); reason != "" {
			return fmt.Errorf("%w: resolution %s", ErrValidation, reason)
		}
	}
	if r.Type == ResolutionPartialRefund && r.Amount == nil {
		return fmt.Errorf("%w: partial refund requires an amount", ErrValidation)
	}
	return nil
}
