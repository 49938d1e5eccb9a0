package escalation_test

import (
	"context"
	"sync"
	"testing"

	"github.com/roundbuy/backend-sub000/internal/domain"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/usecasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func directDispute(t *testing.T, h *usecasetest.Harness) *domain.Dispute {
	t.Helper()
	d, err := h.Disputes.CreateDispute(context.Background(), &disputedto.CreateDisputeInput{
		UserID:             "buyer",
		SellerID:           "seller",
		AdvertisementID:    "ad-1",
		Category:           domain.IssueTypeDescriptionMismatch,
		ProblemDescription: "not as described",
	})
	require.NoError(t, err)
	return d
}

func escalate(h *usecasetest.Harness, disputeID, claimant string) (*domain.Claim, error) {
	return h.Escalation.EscalateDisputeToClaim(context.Background(), &claimdto.EscalateDisputeInput{
		DisputeID:  disputeID,
		ClaimantID: claimant,
		Reason:     "seller stopped answering",
	})
}

func TestEscalateDisputeToClaim(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := directDispute(t, h)

	claim, err := escalate(h, d.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, "CLM00001", claim.Code)
	assert.Equal(t, domain.ClaimPending, claim.Status)
	assert.Equal(t, domain.ModeAdminDecision, claim.ResolutionMode)
	assert.Equal(t, d.ID, claim.DisputeID)
	assert.Equal(t, usecasetest.Day(30), claim.Deadline)
	assert.Nil(t, claim.AdminID)

	view, err := h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeEscalated, view.Dispute.Status)
	assert.Equal(t, domain.PhaseClaim, view.Dispute.Phase)
	assert.Equal(t, usecasetest.Day(30), *view.Dispute.ClaimDeadline)
	assert.Contains(t, h.Notifier.Kinds("seller"), domain.EventDisputeEscalated)

	_, err = escalate(h, d.ID, "buyer")
	assert.ErrorIs(t, err, domain.ErrAlreadyEscalated)

	list, err := h.Claims.ListClaims(ctx, &claimdto.ListClaimsInput{})
	require.NoError(t, err)
	assert.Len(t, list.Claims, 1)
}

func TestEscalateDisputeToClaim_Refusals(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := directDispute(t, h)

	_, err := escalate(h, d.ID, "seller")
	assert.ErrorIs(t, err, domain.ErrWrongParty)
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = h.Escalation.EscalateDisputeToClaim(ctx, &claimdto.EscalateDisputeInput{DisputeID: d.ID, ClaimantID: "buyer"})
	assert.ErrorIs(t, err, domain.ErrValidation, "reason is required")

	_, err = h.Escalation.EscalateDisputeToClaim(ctx, &claimdto.EscalateDisputeInput{
		DisputeID: d.ID, ClaimantID: "buyer", Reason: "x", Mode: "arbitration",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = escalate(h, "missing", "buyer")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = h.Disputes.CloseDispute(ctx, &disputedto.CloseDisputeInput{DisputeID: d.ID, ActingUser: "buyer"})
	require.NoError(t, err)
	_, err = escalate(h, d.ID, "buyer")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// no claim code was burned by the refusals
	other := directDispute(t, h)
	claim, err := escalate(h, other.ID, "buyer")
	require.NoError(t, err)
	assert.Equal(t, "CLM00001", claim.Code)
}

func TestEscalateDisputeToClaim_Eligibility(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := directDispute(t, h)

	_, err := h.Disputes.RecordEligibilityChecks(ctx, &disputedto.RecordEligibilityChecksInput{
		DisputeID: d.ID,
		Checks: []disputedto.EligibilityCheckInput{
			{Name: "order_paid", Passed: true},
			{Name: "within_window", Passed: false, Reason: "older than 90 days"},
		},
	})
	require.NoError(t, err)

	_, err = escalate(h, d.ID, "buyer")
	assert.ErrorIs(t, err, domain.ErrNotEligible)
	assert.ErrorContains(t, err, "within_window")

	view, err := h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputePending, view.Dispute.Status)

	h.Clock.Set(usecasetest.Start.Add(1))
	_, err = h.Disputes.RecordEligibilityChecks(ctx, &disputedto.RecordEligibilityChecksInput{
		DisputeID: d.ID,
		Checks:    []disputedto.EligibilityCheckInput{{Name: "within_window", Passed: true, Reason: "manual override"}},
	})
	require.NoError(t, err)

	_, err = escalate(h, d.ID, "buyer")
	require.NoError(t, err)

	checks, err := h.Disputes.ListEligibilityChecks(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, checks, 3)
}

func TestFullPipeline_PhaseNeverRegresses(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)

	issue, err := h.Issues.CreateIssue(ctx, &issuedto.CreateIssueInput{
		CreatedBy: "buyer", OtherPartyID: "seller", AdvertisementID: "ad-1",
		IssueType: domain.IssueTypeDelivery, Description: "parcel never arrived",
	})
	require.NoError(t, err)
	rejected, err := h.Issues.RejectIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	require.NoError(t, err)

	phases := []domain.Phase{rejected.Dispute.Phase}
	record := func() {
		view, err := h.Disputes.GetDisputeByID(ctx, rejected.Dispute.ID)
		require.NoError(t, err)
		phases = append(phases, view.Dispute.Phase)
	}

	_, err = h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: rejected.Dispute.ID, SellerID: "seller", Decision: domain.SellerDecline,
	})
	require.NoError(t, err)
	record()

	claim, err := escalate(h, rejected.Dispute.ID, "buyer")
	require.NoError(t, err)
	record()

	_, err = h.Claims.AssignClaim(ctx, &claimdto.AssignClaimInput{ClaimID: claim.ID, AdminID: "admin-1"})
	require.NoError(t, err)
	_, err = h.Claims.SubmitAdminDecision(ctx, &claimdto.AdminDecisionInput{
		ClaimID: claim.ID, AdminID: "admin-1", Decision: domain.DecisionFavorBuyer,
	})
	require.NoError(t, err)
	record()

	for i := 1; i < len(phases); i++ {
		assert.GreaterOrEqual(t, phases[i].Rank(), phases[i-1].Rank(), "phase went %s -> %s", phases[i-1], phases[i])
	}
	assert.Equal(t, []domain.Phase{domain.PhaseDispute, domain.PhaseDispute, domain.PhaseClaim, domain.PhaseResolution}, phases)
}

func TestEscalate_Concurrent(t *testing.T) {
	h := usecasetest.New(t)
	d := directDispute(t, h)

	const n = 8
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = escalate(h, d.ID, "buyer")
		}()
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyEscalated)
	}
	assert.Equal(t, 1, ok)
}
