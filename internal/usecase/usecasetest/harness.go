// Package usecasetest wires every manager on the in-memory store with a
// settable clock, for tests of the escalation pipeline.
package usecasetest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/cache"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/memory"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
	"github.com/roundbuy/backend-sub000/internal/usecase"
	"github.com/roundbuy/backend-sub000/internal/usecase/claim"
	"github.com/roundbuy/backend-sub000/internal/usecase/dispute"
	"github.com/roundbuy/backend-sub000/internal/usecase/escalation"
	"github.com/roundbuy/backend-sub000/internal/usecase/issue"
	"github.com/roundbuy/backend-sub000/internal/usecase/sweeper"
)

// Start is 2024-01-01 10:00 UTC, the day every scenario opens on.
var Start = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Recorder keeps every notification it is handed. After Fail it refuses
// them, still recording. Reads wait for queued deliveries first.
type Recorder struct {
	mu    sync.Mutex
	sent  []domain.Notification
	err   error
	flush func()
}

var ErrNotifierDown = errors.New("notifier down")

func (r *Recorder) Notify(_ context.Context, n domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
	return r.err
}

func (r *Recorder) wait() {
	if r.flush != nil {
		r.flush()
	}
}

func (r *Recorder) Fail(err error) {
	r.wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.err = err
}

func (r *Recorder) Sent() []domain.Notification {
	r.wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Notification(nil), r.sent...)
}

// Kinds lists the event kinds sent to userID, in order.
func (r *Recorder) Kinds(userID string) []domain.EventKind {
	var out []domain.EventKind
	for _, n := range r.Sent() {
		if n.UserID == userID {
			out = append(out, n.Kind)
		}
	}
	return out
}

func (r *Recorder) Reset() {
	r.wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = nil
}

type Harness struct {
	Store      domain.Transactor
	Clock      *Clock
	Notifier   *Recorder
	Registry   *prometheus.Registry
	Metrics    *metrics.DisputeMetrics
	Issues     *issue.DefaultIssueUsecase
	Disputes   *dispute.DefaultDisputeUsecase
	Claims     *claim.DefaultClaimUsecase
	Escalation *escalation.DefaultEscalationUsecase
	Sweeper    *sweeper.Sweeper
	Dispatcher *usecase.Dispatcher
}

func New(t testing.TB) *Harness {
	t.Helper()
	return NewWith(t, memory.NewStorage())
}

// NewWith runs the managers on another transactor, such as postgres in
// integration tests.
func NewWith(t testing.TB, tx domain.Transactor) *Harness {
	t.Helper()
	h := &Harness{
		Store:    tx,
		Clock:    &Clock{now: Start},
		Notifier: &Recorder{},
		Registry: prometheus.NewRegistry(),
	}
	h.Metrics = metrics.NewDisputeMetrics(h.Registry)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h.Dispatcher = usecase.NewDispatcher(h.Notifier, h.Metrics, logger, usecase.DispatcherConfig{Timeout: time.Second})
	h.Notifier.flush = h.Dispatcher.Flush
	t.Cleanup(func() { _ = h.Dispatcher.Close(context.Background()) })

	deps := usecase.Deps{
		Tx:         h.Store,
		Notifier:   h.Notifier,
		Dispatcher: h.Dispatcher,
		Metrics:    h.Metrics,
		Policy:     domain.DefaultDeadlinePolicy(),
		Now:        h.Clock.Now,
		Logger:     logger,
	}
	engine := escalation.NewEngine(deps.Policy)
	h.Issues = issue.NewDefaultIssueUsecase(deps, engine)
	h.Disputes = dispute.NewDefaultDisputeUsecase(deps, engine)
	h.Claims = claim.NewDefaultClaimUsecase(deps)
	h.Escalation = escalation.NewDefaultEscalationUsecase(deps, engine)
	h.Sweeper = sweeper.New(h.Store, h.Issues, h.Disputes, h.Claims,
		cache.NewLocalLocker(), h.Metrics, deps.Logger, sweeper.Config{BatchSize: 2})
	return h
}

// Day returns midnight UTC of Start's date plus n days.
func Day(n int) time.Time {
	return time.Date(2024, 1, 1+n, 0, 0, 0, 0, time.UTC)
}
