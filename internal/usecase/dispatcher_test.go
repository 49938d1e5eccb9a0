package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/memory"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	issuedto "github.com/roundbuy/backend-sub000/internal/usecase/dto/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
	"github.com/roundbuy/backend-sub000/internal/usecase/issue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// gatedNotifier blocks every Notify until release is closed.
type gatedNotifier struct {
	release chan struct{}
	err     error

	mu   sync.Mutex
	got  []domain.Notification
	ctxs []error
}

func newGatedNotifier() *gatedNotifier {
	return &gatedNotifier{release: make(chan struct{})}
}

func (g *gatedNotifier) Notify(ctx context.Context, n domain.Notification) error {
	<-g.release
	g.mu.Lock()
	defer g.mu.Unlock()
	g.got = append(g.got, n)
	g.ctxs = append(g.ctxs, ctx.Err())
	return g.err
}

func (g *gatedNotifier) kinds() []domain.EventKind {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []domain.EventKind
	for _, n := range g.got {
		out = append(out, n.Kind)
	}
	return out
}

func note(kind domain.EventKind) domain.Notification {
	return domain.Notification{UserID: "seller", Kind: kind, OccurredAt: time.Now()}
}

func TestDispatcher_DoesNotBlockCaller(t *testing.T) {
	n := newGatedNotifier()
	d := usecase.NewDispatcher(n, nil, nil, usecase.DispatcherConfig{Timeout: time.Minute})
	t.Cleanup(func() { _ = d.Close(context.Background()) })

	returned := make(chan struct{})
	go func() {
		d.Enqueue(context.Background(), []domain.Notification{note(domain.EventIssueCreated)})
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("Enqueue waited for delivery")
	}
	assert.Empty(t, n.kinds())

	close(n.release)
	d.Flush()
	assert.Equal(t, []domain.EventKind{domain.EventIssueCreated}, n.kinds())
}

func TestDispatcher_OutlivesCancelledRequest(t *testing.T) {
	n := newGatedNotifier()
	d := usecase.NewDispatcher(n, nil, nil, usecase.DispatcherConfig{Timeout: time.Minute})
	t.Cleanup(func() { _ = d.Close(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	d.Enqueue(ctx, []domain.Notification{note(domain.EventIssueAccepted)})
	cancel()
	close(n.release)
	d.Flush()

	require.Len(t, n.ctxs, 1)
	assert.NoError(t, n.ctxs[0])
}

func TestDispatcher_KeepsCommitOrderAndCountsFailures(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewDisputeMetrics(reg)
	n := newGatedNotifier()
	n.err = errors.New("webhook down")
	close(n.release)
	d := usecase.NewDispatcher(n, m, nil, usecase.DispatcherConfig{Timeout: time.Second})

	d.Enqueue(context.Background(), []domain.Notification{note(domain.EventIssueCreated)})
	d.Enqueue(context.Background(), []domain.Notification{note(domain.EventIssueRejected), note(domain.EventDisputeCreated)})
	require.NoError(t, d.Close(context.Background()))

	assert.Equal(t, []domain.EventKind{
		domain.EventIssueCreated,
		domain.EventIssueRejected,
		domain.EventDisputeCreated,
	}, n.kinds())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsFailedTotal.WithLabelValues(string(domain.EventIssueRejected))))

	// closed: dropped, never delivered
	d.Enqueue(context.Background(), []domain.Notification{note(domain.EventIssueExpired)})
	assert.Len(t, n.kinds(), 3)
}

func TestDispatcher_CloseGivesUpWithContext(t *testing.T) {
	n := newGatedNotifier()
	d := usecase.NewDispatcher(n, nil, nil, usecase.DispatcherConfig{Timeout: time.Minute})
	d.Enqueue(context.Background(), []domain.Notification{note(domain.EventIssueCreated)})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)

	close(n.release)
}

func TestCreateIssue_ReturnsBeforeSlowNotifier(t *testing.T) {
	n := newGatedNotifier()
	d := usecase.NewDispatcher(n, nil, nil, usecase.DispatcherConfig{Timeout: time.Minute})
	t.Cleanup(func() { _ = d.Close(context.Background()) })

	deps := usecase.Deps{Tx: memory.NewStorage(), Notifier: n, Dispatcher: d}.WithDefaults()
	issues := issue.NewDefaultIssueUsecase(deps, escalation.NewEngine(deps.Policy))

	type result struct {
		issue *domain.Issue
		err   error
	}
	done := make(chan result, 1)
	go func() {
		created, err := issues.CreateIssue(context.Background(), &issuedto.CreateIssueInput{
			CreatedBy:       "buyer",
			OtherPartyID:    "seller",
			AdvertisementID: "ad-1",
			IssueType:       domain.IssueTypeDelivery,
			Description:     "parcel never arrived",
		})
		done <- result{created, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		assert.Equal(t, "ISS00000001", r.issue.Code)
	case <-time.After(2 * time.Second):
		t.Fatal("CreateIssue waited on the notifier")
	}

	close(n.release)
	d.Flush()
	assert.Equal(t, []domain.EventKind{domain.EventIssueCreated}, n.kinds())
}
