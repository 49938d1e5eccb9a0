package domain_test

import (
	"testing"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

func pendingIssue() *domain.Issue {
	return &domain.Issue{
		ID:           "iss-1",
		Code:         "ISS00000001",
		CreatedBy:    "buyer",
		OtherPartyID: "seller",
		Type:         domain.IssueTypeQuality,
		Status:       domain.IssuePending,
		Deadline:     time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC),
		CreatedAt:    day0,
	}
}

func TestIssue_Respond(t *testing.T) {
	t.Run("only the other party may answer", func(t *testing.T) {
		issue := pendingIssue()
		assert.ErrorIs(t, issue.Accept("buyer", day0), domain.ErrNotAuthorized)
		assert.ErrorIs(t, issue.Reject("stranger", "no", day0), domain.ErrNotAuthorized)
		assert.Equal(t, domain.IssuePending, issue.Status)
	})

	t.Run("accept", func(t *testing.T) {
		issue := pendingIssue()
		require.NoError(t, issue.Accept("seller", day0))
		assert.Equal(t, domain.IssueAccepted, issue.Status)
		require.NotNil(t, issue.AcceptedAt)
		assert.ErrorIs(t, issue.Reject("seller", "late", day0), domain.ErrInvalidTransition)
	})

	t.Run("reject then escalate once", func(t *testing.T) {
		issue := pendingIssue()
		require.NoError(t, issue.Reject("seller", "not my fault", day0))
		assert.Equal(t, "not my fault", issue.RejectionReason)

		require.NoError(t, issue.MarkEscalated("dis-1", day0))
		assert.Equal(t, domain.IssueEscalated, issue.Status)
		assert.ErrorIs(t, issue.MarkEscalated("dis-2", day0), domain.ErrAlreadyEscalated)
		assert.Equal(t, "dis-1", *issue.EscalatedDisputeID)
	})

	t.Run("after deadline", func(t *testing.T) {
		issue := pendingIssue()
		late := issue.Deadline.Add(time.Second)
		assert.ErrorIs(t, issue.Accept("seller", late), domain.ErrDeadlineExpired)
		assert.True(t, issue.AwaitingSweep(late))
		assert.False(t, issue.AwaitingSweep(issue.Deadline))
	})

	t.Run("pending issue cannot be escalated", func(t *testing.T) {
		issue := pendingIssue()
		assert.ErrorIs(t, issue.MarkEscalated("dis-1", day0), domain.ErrInvalidTransition)
	})
}

func TestIssue_Expire(t *testing.T) {
	issue := pendingIssue()
	assert.ErrorIs(t, issue.Expire(issue.Deadline), domain.ErrInvalidTransition, "deadline itself is not past")

	late := issue.Deadline.Add(time.Minute)
	require.NoError(t, issue.Expire(late))
	assert.Equal(t, domain.IssueExpired, issue.Status)
	assert.Equal(t, late, *issue.ExpiredAt)

	assert.ErrorIs(t, issue.Expire(late), domain.ErrInvalidTransition)
}
