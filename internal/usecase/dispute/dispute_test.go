package dispute_test

import (
	"context"
	"testing"

	"github.com/roundbuy/backend-sub000/internal/domain"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/usecasetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createDispute(t *testing.T, h *usecasetest.Harness) *domain.Dispute {
	t.Helper()
	d, err := h.Disputes.CreateDispute(context.Background(), &disputedto.CreateDisputeInput{
		UserID:             "buyer",
		SellerID:           "seller",
		AdvertisementID:    "ad-1",
		Category:           domain.IssueTypeQuality,
		ProblemDescription: "screen is cracked",
	})
	require.NoError(t, err)
	return d
}

func TestCreateDispute(t *testing.T) {
	h := usecasetest.New(t)
	d := createDispute(t, h)

	assert.Equal(t, "DIS00000001", d.Code)
	assert.Equal(t, domain.DisputeTypeDirect, d.Type)
	assert.Nil(t, d.IssueID)
	assert.Equal(t, domain.PriorityMedium, d.Priority)
	assert.Equal(t, domain.PhaseDispute, d.Phase)
	assert.Equal(t, usecasetest.Day(3), *d.NegotiationDeadline)
	assert.Equal(t, usecasetest.Day(20), *d.DisputeDeadline)
	assert.Equal(t, []domain.EventKind{domain.EventDisputeCreated}, h.Notifier.Kinds("seller"))

	_, err := h.Disputes.CreateDispute(context.Background(), &disputedto.CreateDisputeInput{
		UserID: "buyer", SellerID: "seller", AdvertisementID: "ad-1",
		Category: domain.IssueTypeQuality, ProblemDescription: "x", Priority: "critical",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSellerResponse_AcceptThenResolve(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	answered, err := h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: d.ID, SellerID: "seller", Decision: domain.SellerAccept, Response: "will refund",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeNegotiation, answered.Status)
	assert.Equal(t, usecasetest.Day(7), *answered.ResolutionDeadline)

	_, err = h.Disputes.UpdateStatus(ctx, &disputedto.UpdateStatusInput{
		DisputeID: d.ID, ActingUser: "buyer", Status: domain.DisputeResolved,
	})
	assert.ErrorIs(t, err, domain.ErrResolutionRequired)

	amount := decimal.RequireFromString("15.00")
	res, err := h.Disputes.CreateResolution(ctx, &disputedto.CreateResolutionInput{
		DisputeID: d.ID, Type: domain.ResolutionPartialRefund, Amount: &amount, ResolvedBy: "buyer",
	})
	require.NoError(t, err)
	assert.True(t, amount.Equal(*res.Amount))

	view, err := h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeResolved, view.Dispute.Status)
	assert.Equal(t, domain.PhaseEnded, view.Dispute.Phase)
	assert.Equal(t, domain.ResolutionAccepted, *view.Dispute.ResolutionStatus)
	assert.NotNil(t, view.Dispute.ClosedAt)

	stored, err := h.Disputes.GetResolution(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, res.ID, stored.ID)

	// resolved is terminal
	_, err = h.Disputes.CloseDispute(ctx, &disputedto.CloseDisputeInput{DisputeID: d.ID, ActingUser: "buyer"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = h.Disputes.AddMessage(ctx, &disputedto.AddMessageInput{DisputeID: d.ID, SenderID: "buyer", Body: "thanks"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSellerResponse_Refusals(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	_, err := h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: d.ID, SellerID: "buyer", Decision: domain.SellerAccept,
	})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: d.ID, SellerID: "seller", Decision: domain.SellerDecline,
	})
	require.NoError(t, err)

	_, err = h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: d.ID, SellerID: "seller", Decision: domain.SellerAccept,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	_, err := h.Disputes.UpdateStatus(ctx, &disputedto.UpdateStatusInput{
		DisputeID: d.ID, ActingUser: "stranger", Status: domain.DisputeUnderReview,
	})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = h.Disputes.UpdateStatus(ctx, &disputedto.UpdateStatusInput{
		DisputeID: d.ID, ActingUser: "buyer", Status: domain.DisputeNegotiation,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "pending cannot skip review")

	_, err = h.Disputes.UpdateStatus(ctx, &disputedto.UpdateStatusInput{
		DisputeID: d.ID, ActingUser: "buyer", Status: domain.DisputeEscalated,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	updated, err := h.Disputes.UpdateStatus(ctx, &disputedto.UpdateStatusInput{
		DisputeID: d.ID, ActingUser: "seller", Status: domain.DisputeUnderReview,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeUnderReview, updated.Status)

	msgs, err := h.Disputes.ListDisputeMessages(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestCloseDispute(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)
	h.Notifier.Reset()

	closed, err := h.Disputes.CloseDispute(ctx, &disputedto.CloseDisputeInput{
		DisputeID: d.ID, ActingUser: "buyer", Reason: "sorted it out in person",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeClosed, closed.Status)
	assert.Equal(t, domain.PhaseEnded, closed.Phase)
	assert.Equal(t, domain.ResolutionEnded, *closed.ResolutionStatus)

	res, err := h.Disputes.GetResolution(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ResolutionClosedByParty, res.Type)
	assert.Equal(t, []domain.EventKind{domain.EventDisputeClosed}, h.Notifier.Kinds("seller"))
	assert.Empty(t, h.Notifier.Kinds("buyer"))
}

func TestMessagesAndEvidence(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	msg, err := h.Disputes.AddMessage(ctx, &disputedto.AddMessageInput{
		DisputeID: d.ID, SenderID: "buyer", MessageType: domain.MessageResolutionOffer, Body: "half refund?",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer", *msg.SenderID)
	assert.Contains(t, h.Notifier.Kinds("seller"), domain.EventDisputeMessage)

	_, err = h.Disputes.AddMessage(ctx, &disputedto.AddMessageInput{
		DisputeID: d.ID, SenderID: "buyer", MessageType: domain.MessageStatusUpdate, Body: "spoof",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = h.Disputes.AddMessage(ctx, &disputedto.AddMessageInput{DisputeID: d.ID, SenderID: "stranger", Body: "hi"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = h.Disputes.UploadEvidence(ctx, &disputedto.UploadEvidenceInput{
		DisputeID: d.ID, UploadedBy: "buyer",
		File: domain.EvidenceFile{FileType: "image/jpeg", FilePath: "evidence/1.jpg", FileName: "1.jpg", FileSize: 2048},
	})
	require.NoError(t, err)
	_, err = h.Disputes.UploadEvidence(ctx, &disputedto.UploadEvidenceInput{DisputeID: d.ID, UploadedBy: "buyer"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	evidence, err := h.Disputes.ListDisputeEvidence(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, evidence, 1)
	assert.Equal(t, "1.jpg", evidence[0].FileName)
}

func TestApplyOverdue_FlagsSilentSeller(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	action, err := h.Disputes.ApplyOverdue(ctx, d.ID, usecasetest.Day(2))
	require.NoError(t, err)
	assert.Equal(t, domain.OverdueNone, action)

	late := usecasetest.Day(3).Add(1)
	view, err := h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputePending, view.Dispute.Status)

	action, err = h.Disputes.ApplyOverdue(ctx, d.ID, late)
	require.NoError(t, err)
	assert.Equal(t, domain.OverdueFlagReview, action)

	view, err = h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeUnderReview, view.Dispute.Status)
	assert.Equal(t, domain.PriorityHigh, view.Dispute.Priority)
	assert.Contains(t, h.Notifier.Kinds("buyer"), domain.EventDisputeFlagged)

	action, err = h.Disputes.ApplyOverdue(ctx, d.ID, late)
	require.NoError(t, err)
	assert.Equal(t, domain.OverdueNone, action, "second pass is a no-op")
}

func TestApplyOverdue_EscalatesDespiteFailedChecks(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	d := createDispute(t, h)

	_, err := h.Disputes.RecordEligibilityChecks(ctx, &disputedto.RecordEligibilityChecksInput{
		DisputeID: d.ID,
		Checks:    []disputedto.EligibilityCheckInput{{Name: "within_window", Passed: false, Reason: "late"}},
	})
	require.NoError(t, err)

	action, err := h.Disputes.ApplyOverdue(ctx, d.ID, usecasetest.Day(20).Add(1))
	require.NoError(t, err)
	assert.Equal(t, domain.OverdueEscalate, action)

	view, err := h.Disputes.GetDisputeByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeEscalated, view.Dispute.Status)
	assert.Equal(t, domain.PhaseClaim, view.Dispute.Phase)

	claim, err := h.Claims.GetClaimByDisputeID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "buyer", claim.Claim.UserID)
	assert.Equal(t, domain.ClaimPending, claim.Claim.Status)
}

func TestListDisputes(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	first := createDispute(t, h)
	createDispute(t, h)

	_, err := h.Disputes.CloseDispute(ctx, &disputedto.CloseDisputeInput{DisputeID: first.ID, ActingUser: "seller"})
	require.NoError(t, err)

	phase := domain.PhaseDispute
	out, err := h.Disputes.ListDisputes(ctx, &disputedto.ListDisputesInput{Phase: &phase})
	require.NoError(t, err)
	require.Len(t, out.Disputes, 1)
	assert.Equal(t, "DIS00000002", out.Disputes[0].Dispute.Code)

	byCode, err := h.Disputes.GetDisputeByCode(ctx, "DIS00000001")
	require.NoError(t, err)
	assert.Equal(t, domain.DisputeClosed, byCode.Dispute.Status)
}
