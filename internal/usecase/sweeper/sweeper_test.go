package sweeper_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/cache"
	claimdto "github.com/roundbuy/backend-sub000/internal/usecase/dto/claim"
	disputedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/dispute"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
	"github.com/roundbuy/backend-sub000/internal/usecase/usecasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createIssues(t *testing.T, h *usecasetest.Harness, n int) []*domain.Issue {
	t.Helper()
	out := make([]*domain.Issue, 0, n)
	for range n {
		issue, err := h.Issues.CreateIssue(context.Background(), &issuedto.CreateIssueInput{
			CreatedBy:       "buyer",
			OtherPartyID:    "seller",
			AdvertisementID: "ad-1",
			IssueType:       domain.IssueTypeExchange,
			Description:     "wants a different size",
		})
		require.NoError(t, err)
		out = append(out, issue)
	}
	return out
}

func TestSweep_ExpiresIssuesIdempotently(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	// more than one batch
	issues := createIssues(t, h, 5)

	report, err := h.Sweeper.Sweep(ctx, usecasetest.Day(2))
	require.NoError(t, err)
	assert.Zero(t, report.Changed())

	late := usecasetest.Day(3).Add(time.Minute)
	report, err = h.Sweeper.Sweep(ctx, late)
	require.NoError(t, err)
	assert.Equal(t, 5, report.IssuesExpired)
	assert.Zero(t, report.Failed)

	for _, issue := range issues {
		view, err := h.Issues.GetIssueByID(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.IssueExpired, view.Issue.Status)
		assert.False(t, view.AwaitingSweep)
	}

	report, err = h.Sweeper.Sweep(ctx, late)
	require.NoError(t, err)
	assert.Zero(t, report.Changed(), "second sweep is a no-op")

	assert.Equal(t, 5.0, testutil.ToFloat64(h.Metrics.SweepItemsTotal.WithLabelValues("issue", "expire")))
}

func TestSweep_DisputesAndClaims(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)

	silent, err := h.Disputes.CreateDispute(ctx, &disputedto.CreateDisputeInput{
		UserID: "buyer", SellerID: "seller", AdvertisementID: "ad-1",
		Category: domain.IssueTypeQuality, ProblemDescription: "seller never answers",
	})
	require.NoError(t, err)

	stalled, err := h.Disputes.CreateDispute(ctx, &disputedto.CreateDisputeInput{
		UserID: "buyer-2", SellerID: "seller", AdvertisementID: "ad-2",
		Category: domain.IssueTypePrice, ProblemDescription: "charged twice",
	})
	require.NoError(t, err)
	_, err = h.Disputes.SubmitSellerResponse(ctx, &disputedto.SellerResponseInput{
		DisputeID: stalled.ID, SellerID: "seller", Decision: domain.SellerAccept,
	})
	require.NoError(t, err)

	// day 4: silent seller is flagged, stalled negotiation still has time
	report, err := h.Sweeper.Sweep(ctx, usecasetest.Day(4))
	require.NoError(t, err)
	assert.Equal(t, 1, report.DisputesFlagged)
	assert.Zero(t, report.DisputesEscalated)

	// day 8: the resolution window of the stalled negotiation lapsed
	report, err = h.Sweeper.Sweep(ctx, usecasetest.Day(7).Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, report.DisputesEscalated)

	claim, err := h.Claims.GetClaimByDisputeID(ctx, stalled.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ClaimPending, claim.Claim.Status)
	assert.Equal(t, "buyer-2", claim.Claim.UserID)

	// day 21: the flagged dispute runs out its dispute window
	report, err = h.Sweeper.Sweep(ctx, usecasetest.Day(20).Add(time.Second))
	require.NoError(t, err)
	assert.Equal(t, 1, report.DisputesEscalated)
	silentClaim, err := h.Claims.GetClaimByDisputeID(ctx, silent.ID)
	require.NoError(t, err)

	_, err = h.Claims.AssignClaim(ctx, &claimdto.AssignClaimInput{ClaimID: silentClaim.Claim.ID, AdminID: "admin-1"})
	require.NoError(t, err)

	// both claims overdue: the unassigned one expires, the assigned one turns urgent
	report, err = h.Sweeper.Sweep(ctx, usecasetest.Day(60))
	require.NoError(t, err)
	assert.Equal(t, 1, report.ClaimsExpired)
	assert.Equal(t, 1, report.ClaimsMarkedUrgent)

	report, err = h.Sweeper.Sweep(ctx, usecasetest.Day(60))
	require.NoError(t, err)
	assert.Zero(t, report.Changed())
}

func TestSweep_SkipsWhenLockHeld(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	locker := cache.NewLocalLocker()
	sw := sweeper.New(h.Store, h.Issues, h.Disputes, h.Claims, locker, nil, nil, sweeper.Config{LockKey: "sweep"})
	createIssues(t, h, 1)

	lease, ok, err := locker.TryLock(ctx, "sweep", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = sw.Sweep(ctx, usecasetest.Day(10))
	assert.True(t, errors.Is(err, sweeper.ErrSweepInProgress))

	require.NoError(t, lease.Release(ctx))
	report, err := sw.Sweep(ctx, usecasetest.Day(10))
	require.NoError(t, err)
	assert.Equal(t, 1, report.IssuesExpired)
}

type failingLocker struct{}

func (failingLocker) TryLock(context.Context, string, time.Duration) (domain.Lease, bool, error) {
	return nil, false, errors.New("redis unavailable")
}

func TestSweep_LockError(t *testing.T) {
	h := usecasetest.New(t)
	sw := sweeper.New(h.Store, h.Issues, h.Disputes, h.Claims, failingLocker{}, nil, nil, sweeper.Config{})

	_, err := sw.Sweep(context.Background(), usecasetest.Day(10))
	require.Error(t, err)
	assert.False(t, errors.Is(err, sweeper.ErrSweepInProgress))
}

// flakyExpirer fails every issue in broken and delegates the rest.
type flakyExpirer struct {
	next   sweeper.IssueExpirer
	broken map[string]bool
}

func (f flakyExpirer) ExpireIssue(ctx context.Context, issueID string, now time.Time) (bool, error) {
	if f.broken[issueID] {
		return false, errors.New("row is corrupt")
	}
	return f.next.ExpireIssue(ctx, issueID, now)
}

func TestSweep_FailingRowsDoNotHideLaterOnes(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)

	// the two oldest deadlines fail every time and fill a whole batch
	head := createIssues(t, h, 2)
	h.Clock.Set(usecasetest.Start.Add(24 * time.Hour))
	tail := createIssues(t, h, 3)

	expirer := flakyExpirer{next: h.Issues, broken: map[string]bool{head[0].ID: true, head[1].ID: true}}
	sw := sweeper.New(h.Store, expirer, h.Disputes, h.Claims, nil, nil, nil, sweeper.Config{BatchSize: 2})

	report, err := sw.Sweep(ctx, usecasetest.Day(10))
	require.NoError(t, err)
	assert.Equal(t, 3, report.IssuesExpired)
	assert.Equal(t, 2, report.Failed)

	for _, issue := range tail {
		view, err := h.Issues.GetIssueByID(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.IssueExpired, view.Issue.Status)
	}
	for _, issue := range head {
		view, err := h.Issues.GetIssueByID(ctx, issue.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.IssuePending, view.Issue.Status)
	}
}

// slowExpirer stretches every expiry so a sweep outlives the lock TTL.
type slowExpirer struct {
	next  sweeper.IssueExpirer
	delay time.Duration
}

func (s slowExpirer) ExpireIssue(ctx context.Context, issueID string, now time.Time) (bool, error) {
	time.Sleep(s.delay)
	return s.next.ExpireIssue(ctx, issueID, now)
}

type countingLease struct {
	refreshes atomic.Int32
	fail      error
	mu        sync.Mutex
	released  bool
}

func (c *countingLease) Refresh(context.Context, time.Duration) error {
	c.refreshes.Add(1)
	return c.fail
}

func (c *countingLease) Release(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.released = true
	return nil
}

type leaseLocker struct{ lease *countingLease }

func (l leaseLocker) TryLock(context.Context, string, time.Duration) (domain.Lease, bool, error) {
	return l.lease, true, nil
}

func TestSweep_RefreshesLockWhileRunning(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	createIssues(t, h, 3)

	lease := &countingLease{}
	sw := sweeper.New(h.Store, slowExpirer{next: h.Issues, delay: 40 * time.Millisecond}, h.Disputes, h.Claims,
		leaseLocker{lease: lease}, nil, nil, sweeper.Config{LockTTL: 30 * time.Millisecond})

	report, err := sw.Sweep(ctx, usecasetest.Day(10))
	require.NoError(t, err)
	assert.Equal(t, 3, report.IssuesExpired)
	assert.Positive(t, lease.refreshes.Load())
	assert.True(t, lease.released)
}

func TestSweep_StopsWhenLockLost(t *testing.T) {
	ctx := context.Background()
	h := usecasetest.New(t)
	createIssues(t, h, 5)

	lease := &countingLease{fail: domain.ErrLockLost}
	sw := sweeper.New(h.Store, slowExpirer{next: h.Issues, delay: 40 * time.Millisecond}, h.Disputes, h.Claims,
		leaseLocker{lease: lease}, nil, nil, sweeper.Config{BatchSize: 1, LockTTL: 30 * time.Millisecond})

	report, err := sw.Sweep(ctx, usecasetest.Day(10))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLockLost)
	assert.Less(t, report.IssuesExpired, 5)
	assert.True(t, lease.released)
}
