package issue_test

import (
	"context"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roundbuy/backend-sub000/internal/domain"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/usecasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func createIssue(t *testing.T, h *usecasetest.Harness) *domain.Issue {
	t.Helper()
	issue, err := h.Issues.CreateIssue(context.Background(), &issuedto.CreateIssueInput{
		CreatedBy:       "buyer",
		OtherPartyID:    "seller",
		AdvertisementID: "ad-1",
		IssueType:       domain.IssueTypeDelivery,
		Description:     "parcel never arrived",
	})
	require.NoError(t, err)
	return issue
}

func TestCreateIssue(t *testing.T) {
	h := usecasetest.New(t)
	issue := createIssue(t, h)

	assert.Equal(t, "ISS00000001", issue.Code)
	assert.Equal(t, domain.IssuePending, issue.Status)
	assert.Equal(t, usecasetest.Day(3), issue.Deadline)
	assert.Equal(t, []domain.EventKind{domain.EventIssueCreated}, h.Notifier.Kinds("seller"))

	msgs, err := h.Issues.ListIssueMessages(context.Background(), issue.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.MessageStatusUpdate, msgs[0].MessageType)
	assert.Nil(t, msgs[0].SenderID)
}

func TestCreateIssue_Validation(t *testing.T) {
	h := usecasetest.New(t)
	tests := []struct {
		name  string
		input issuedto.CreateIssueInput
	}{
		{name: "same party", input: issuedto.CreateIssueInput{CreatedBy: "a", OtherPartyID: "a", AdvertisementID: "ad", IssueType: domain.IssueTypeOther, Description: "x"}},
		{name: "unknown type", input: issuedto.CreateIssueInput{CreatedBy: "a", OtherPartyID: "b", AdvertisementID: "ad", IssueType: "refund", Description: "x"}},
		{name: "empty description", input: issuedto.CreateIssueInput{CreatedBy: "a", OtherPartyID: "b", AdvertisementID: "ad", IssueType: domain.IssueTypeOther, Description: "  "}},
		{name: "no advertisement", input: issuedto.CreateIssueInput{CreatedBy: "a", OtherPartyID: "b", IssueType: domain.IssueTypeOther, Description: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Issues.CreateIssue(context.Background(), &tt.input)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	assert.Empty(t, h.Notifier.Sent())
}

func TestRejectIssue_OpensDispute(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	issue := createIssue(t, h)

	out, err := h.Issues.RejectIssue(ctx, &issuedto.RespondIssueInput{
		IssueID:    issue.ID,
		ActingUser: "seller",
		Reason:     "tracking shows delivered",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.IssueEscalated, out.Issue.Status)
	require.NotNil(t, out.Issue.EscalatedDisputeID)
	assert.Equal(t, out.Dispute.ID, *out.Issue.EscalatedDisputeID)

	d := out.Dispute
	assert.Equal(t, "DIS00000001", d.Code)
	assert.Equal(t, domain.DisputeTypeIssueNegotiation, d.Type)
	assert.Equal(t, domain.PhaseDispute, d.Phase)
	assert.Equal(t, domain.DisputePending, d.Status)
	assert.Equal(t, domain.IssueTypeDelivery, d.Category)
	assert.Equal(t, "buyer", d.UserID)
	assert.Equal(t, "seller", d.SellerID)
	require.NotNil(t, d.IssueID)
	assert.Equal(t, issue.ID, *d.IssueID)
	require.NotNil(t, d.DisputeDeadline)
	assert.Equal(t, usecasetest.Day(20), *d.DisputeDeadline)

	assert.Contains(t, h.Notifier.Kinds("buyer"), domain.EventIssueRejected)

	// a second rejection finds the issue already escalated
	_, err = h.Issues.RejectIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestRespondIssue_Refusals(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	issue := createIssue(t, h)

	_, err := h.Issues.AcceptIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "buyer"})
	assert.ErrorIs(t, err, domain.ErrNotAuthorized)

	_, err = h.Issues.AcceptIssue(ctx, &issuedto.RespondIssueInput{IssueID: "missing", ActingUser: "seller"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	h.Clock.Set(usecasetest.Day(3).Add(1))
	_, err = h.Issues.RejectIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	assert.ErrorIs(t, err, domain.ErrDeadlineExpired)

	// nothing leaked out of the failed reject
	view, err := h.Issues.GetIssueByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssuePending, view.Issue.Status)
	assert.True(t, view.AwaitingSweep)
	_, err = h.Disputes.GetDisputeByCode(ctx, "DIS00000001")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAcceptVersusReject(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	issue := createIssue(t, h)

	var wg sync.WaitGroup
	var acceptErr, rejectErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, acceptErr = h.Issues.AcceptIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	}()
	go func() {
		defer wg.Done()
		_, rejectErr = h.Issues.RejectIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	}()
	wg.Wait()

	// exactly one wins
	assert.True(t, (acceptErr == nil) != (rejectErr == nil), "accept=%v reject=%v", acceptErr, rejectErr)

	view, err := h.Issues.GetIssueByID(ctx, issue.ID)
	require.NoError(t, err)
	list, err := h.Disputes.ListDisputes(ctx, &disputedto.ListDisputesInput{})
	require.NoError(t, err)
	if acceptErr == nil {
		assert.ErrorIs(t, rejectErr, domain.ErrInvalidTransition)
		assert.Equal(t, domain.IssueAccepted, view.Issue.Status)
		assert.Empty(t, list.Disputes)
	} else {
		assert.ErrorIs(t, acceptErr, domain.ErrInvalidTransition)
		assert.Equal(t, domain.IssueEscalated, view.Issue.Status)
		assert.Len(t, list.Disputes, 1)
	}
}

func TestCreateIssue_DenseCodes(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)

	const n = 50
	codes := make([]string, n)
	var g errgroup.Group
	for i := range n {
		g.Go(func() error {
			issue, err := h.Issues.CreateIssue(ctx, &issuedto.CreateIssueInput{
				CreatedBy:       "buyer",
				OtherPartyID:    "seller",
				AdvertisementID: "ad-1",
				IssueType:       domain.IssueTypeOther,
				Description:     "concurrent",
			})
			if err != nil {
				return err
			}
			codes[i] = issue.Code
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := make(map[int64]bool, n)
	for _, code := range codes {
		kind, seq, err := domain.ParseCode(code)
		require.NoError(t, err)
		assert.Equal(t, domain.CodeIssue, kind)
		assert.False(t, seen[seq], "duplicate %s", code)
		seen[seq] = true
	}
	for seq := int64(1); seq <= n; seq++ {
		assert.True(t, seen[seq], "gap at %d", seq)
	}
}

func TestExpireIssue(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	issue := createIssue(t, h)

	ok, err := h.Issues.ExpireIssue(ctx, issue.ID, usecasetest.Day(2))
	require.NoError(t, err)
	assert.False(t, ok, "deadline not reached")

	late := usecasetest.Day(3).Add(1)
	ok, err = h.Issues.ExpireIssue(ctx, issue.ID, late)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Issues.ExpireIssue(ctx, issue.ID, late)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Issues.ExpireIssue(ctx, "missing", late)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNotificationFailureKeepsTransition(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	issue := createIssue(t, h)
	h.Notifier.Fail(usecasetest.ErrNotifierDown)

	accepted, err := h.Issues.AcceptIssue(ctx, &issuedto.RespondIssueInput{IssueID: issue.ID, ActingUser: "seller"})
	require.NoError(t, err)
	assert.Equal(t, domain.IssueAccepted, accepted.Status)

	view, err := h.Issues.GetIssueByID(ctx, issue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueAccepted, view.Issue.Status)
	assert.Contains(t, h.Notifier.Kinds("buyer"), domain.EventIssueAccepted)
	assert.Equal(t, 1.0, testutil.ToFloat64(h.Metrics.NotificationsFailedTotal.WithLabelValues(string(domain.EventIssueAccepted))))
}

func TestListIssues(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	for range 3 {
		createIssue(t, h)
	}
	party := "seller"
	out, err := h.Issues.ListIssues(ctx, &issuedto.ListIssuesInput{PartyID: &party, Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, out.Issues, 2)
	assert.Equal(t, "ISS00000003", out.Issues[0].Issue.Code)
	assert.Equal(t, int32(3), out.Pagination.TotalItems)
	assert.Equal(t, int32(2), out.Pagination.TotalPages)
}
