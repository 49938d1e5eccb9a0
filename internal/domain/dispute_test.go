package domain_test

import (
	"testing"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrTime(t time.Time) *time.Time { return &t }

func pendingDispute() *domain.Dispute {
	return &domain.Dispute{
		ID:                  "dis-1",
		Code:                "DIS00000001",
		UserID:              "buyer",
		SellerID:            "seller",
		Type:                domain.DisputeTypeDirect,
		Status:              domain.DisputePending,
		Priority:            domain.PriorityMedium,
		Phase:               domain.PhaseDispute,
		NegotiationDeadline: ptrTime(time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)),
		DisputeDeadline:     ptrTime(time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)),
		CreatedAt:           day0,
	}
}

func TestCanTransitionDispute(t *testing.T) {
	allowed := []struct{ from, to domain.DisputeStatus }{
		{domain.DisputePending, domain.DisputeUnderReview},
		{domain.DisputeUnderReview, domain.DisputeNegotiation},
		{domain.DisputeUnderReview, domain.DisputeAwaitingResponse},
		{domain.DisputeNegotiation, domain.DisputeResolved},
		{domain.DisputeAwaitingResponse, domain.DisputeEscalated},
		{domain.DisputeEscalated, domain.DisputeClosed},
	}
	for _, tt := range allowed {
		assert.True(t, domain.CanTransitionDispute(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	refused := []struct{ from, to domain.DisputeStatus }{
		{domain.DisputePending, domain.DisputeResolved},
		{domain.DisputeResolved, domain.DisputeClosed},
		{domain.DisputeClosed, domain.DisputePending},
		{domain.DisputeEscalated, domain.DisputeNegotiation},
	}
	for _, tt := range refused {
		assert.False(t, domain.CanTransitionDispute(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestDispute_AdvancePhase(t *testing.T) {
	d := pendingDispute()
	require.NoError(t, d.AdvancePhase(domain.PhaseDispute))
	require.NoError(t, d.AdvancePhase(domain.PhaseClaim))
	assert.ErrorIs(t, d.AdvancePhase(domain.PhaseDispute), domain.ErrPhaseRegression)
	assert.ErrorIs(t, d.AdvancePhase("unknown"), domain.ErrValidation)
	assert.Equal(t, domain.PhaseClaim, d.Phase)
}

func TestDispute_RespondAsSeller(t *testing.T) {
	deadline := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)

	t.Run("accept opens negotiation", func(t *testing.T) {
		d := pendingDispute()
		require.NoError(t, d.RespondAsSeller("seller", domain.SellerAccept, "ok", deadline, day0))
		assert.Equal(t, domain.DisputeNegotiation, d.Status)
		assert.Equal(t, domain.ResolutionInNegotiation, *d.ResolutionStatus)
		assert.Equal(t, deadline, *d.ResolutionDeadline)
	})

	t.Run("decline waits for the buyer", func(t *testing.T) {
		d := pendingDispute()
		require.NoError(t, d.RespondAsSeller("seller", domain.SellerDecline, "no", deadline, day0))
		assert.Equal(t, domain.DisputeAwaitingResponse, d.Status)
		assert.Equal(t, domain.ResolutionRejected, *d.ResolutionStatus)
		assert.ErrorIs(t, d.RespondAsSeller("seller", domain.SellerAccept, "", deadline, day0), domain.ErrInvalidTransition)
	})

	t.Run("buyer cannot answer for the seller", func(t *testing.T) {
		d := pendingDispute()
		assert.ErrorIs(t, d.RespondAsSeller("buyer", domain.SellerAccept, "", deadline, day0), domain.ErrNotAuthorized)
	})

	t.Run("unknown decision", func(t *testing.T) {
		d := pendingDispute()
		assert.ErrorIs(t, d.RespondAsSeller("seller", "maybe", "", deadline, day0), domain.ErrValidation)
		assert.Equal(t, domain.DisputePending, d.Status)
	})
}

func TestDispute_Escalate(t *testing.T) {
	claimDeadline := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	d := pendingDispute()
	require.NoError(t, d.Escalate(claimDeadline, day0))
	assert.Equal(t, domain.DisputeEscalated, d.Status)
	assert.Equal(t, domain.PhaseClaim, d.Phase)
	assert.ErrorIs(t, d.Escalate(claimDeadline, day0), domain.ErrAlreadyEscalated)

	closed := pendingDispute()
	require.NoError(t, closed.Close(day0))
	assert.ErrorIs(t, closed.Escalate(claimDeadline, day0), domain.ErrInvalidTransition)
	assert.Equal(t, domain.PhaseEnded, closed.Phase)
}

func TestDispute_SettleFromClaim(t *testing.T) {
	claimDeadline := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	decided := pendingDispute()
	require.NoError(t, decided.Escalate(claimDeadline, day0))
	require.NoError(t, decided.SettleFromClaim(true, day0))
	assert.Equal(t, domain.DisputeClosed, decided.Status)
	assert.Equal(t, domain.PhaseResolution, decided.Phase)

	expired := pendingDispute()
	require.NoError(t, expired.Escalate(claimDeadline, day0))
	require.NoError(t, expired.SettleFromClaim(false, day0))
	assert.Equal(t, domain.PhaseEnded, expired.Phase)

	assert.ErrorIs(t, pendingDispute().SettleFromClaim(true, day0), domain.ErrInvalidTransition)
}

func TestDispute_OverdueAction(t *testing.T) {
	beforeNegotiation := time.Date(2024, 1, 3, 12, 0, 0, 0, time.UTC)
	afterNegotiation := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	afterDispute := time.Date(2024, 1, 22, 0, 0, 0, 0, time.UTC)

	d := pendingDispute()
	assert.Equal(t, domain.OverdueNone, d.OverdueAction(beforeNegotiation))
	assert.Equal(t, domain.OverdueFlagReview, d.OverdueAction(afterNegotiation))
	assert.Equal(t, domain.OverdueEscalate, d.OverdueAction(afterDispute))

	require.NoError(t, d.FlagNoSellerResponse(afterNegotiation))
	assert.Equal(t, domain.DisputeUnderReview, d.Status)
	assert.Equal(t, domain.PriorityHigh, d.Priority)
	assert.Equal(t, domain.OverdueNone, d.OverdueAction(afterNegotiation), "flagged dispute is not flagged twice")

	answered := pendingDispute()
	resolutionDeadline := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	require.NoError(t, answered.RespondAsSeller("seller", domain.SellerDecline, "", resolutionDeadline, day0))
	assert.Equal(t, domain.OverdueNone, answered.OverdueAction(time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, domain.OverdueEscalate, answered.OverdueAction(time.Date(2024, 1, 8, 0, 0, 1, 0, time.UTC)))

	escalated := pendingDispute()
	require.NoError(t, escalated.Escalate(time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), day0))
	assert.Equal(t, domain.OverdueNone, escalated.OverdueAction(afterDispute))
}

func TestFirstFailedCheck(t *testing.T) {
	t1 := day0
	t2 := day0.Add(time.Hour)

	assert.Nil(t, domain.FirstFailedCheck(nil))

	checks := []*domain.EligibilityCheck{
		{CheckName: "order_paid", Passed: true, CheckedAt: t1},
		{CheckName: "within_window", Passed: false, Reason: "too late", CheckedAt: t1},
		{CheckName: "not_blocked", Passed: false, Reason: "blocked", CheckedAt: t1},
	}
	failed := domain.FirstFailedCheck(checks)
	require.NotNil(t, failed)
	assert.Equal(t, "within_window", failed.CheckName)

	// a newer passing result supersedes the failure
	checks = append(checks, &domain.EligibilityCheck{CheckName: "within_window", Passed: true, CheckedAt: t2})
	failed = domain.FirstFailedCheck(checks)
	require.NotNil(t, failed)
	assert.Equal(t, "not_blocked", failed.CheckName)
}

func TestDisputeResolution_Validate(t *testing.T) {
	amount := decimal.RequireFromString("12.50")
	zero := decimal.Zero

	assert.NoError(t, (&domain.DisputeResolution{Type: domain.ResolutionFullRefund}).Validate())
	assert.NoError(t, (&domain.DisputeResolution{Type: domain.ResolutionPartialRefund, Amount: &amount}).Validate())
	assert.ErrorIs(t, (&domain.DisputeResolution{Type: domain.ResolutionPartialRefund}).Validate(), domain.ErrValidation)
	assert.ErrorIs(t, (&domain.DisputeResolution{Type: domain.ResolutionReturn, Amount: &zero}).Validate(), domain.ErrValidation)
	assert.ErrorIs(t, (&domain.DisputeResolution{Type: "coupon"}).Validate(), domain.ErrValidation)

	subCent := decimal.RequireFromString("12.505")
	assert.ErrorIs(t, (&domain.DisputeResolution{Type: domain.ResolutionPartialRefund, Amount: &subCent}).Validate(), domain.ErrValidation)
}
