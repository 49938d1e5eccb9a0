package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaevor/go-nanoid"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
)

// Deps is what every manager needs: storage, the notifier, the deadline
// policy and a clock.
type Deps struct {
	Tx         domain.Transactor
	Notifier   domain.Notifier
	Dispatcher *Dispatcher
	Metrics    *metrics.DisputeMetrics
	Policy     domain.DeadlinePolicy
	Now        func() time.Time
	Logger     *slog.Logger
}

func (d Deps) WithDefaults() Deps {
	if d.Now == nil {
		d.Now = func() time.Time { return time.Now().UTC() }
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Policy == (domain.DeadlinePolicy{}) {
		d.Policy = domain.DefaultDeadlinePolicy()
	}
	if d.Policy.Location == nil {
		d.Policy.Location = time.UTC
	}
	return d
}

// Dispatch hands notifications on once the transaction that produced
// them has committed, without waiting for delivery. Failures are logged
// and counted only.
func (d Deps) Dispatch(ctx context.Context, notes []domain.Notification) {
	if len(notes) == 0 {
		return
	}
	if d.Dispatcher != nil {
		d.Dispatcher.Enqueue(ctx, notes)
		return
	}
	if d.Notifier == nil {
		return
	}
	go func(ctx context.Context, notes []domain.Notification) {
		for _, n := range notes {
			err := d.Notifier.Notify(ctx, n)
			d.Metrics.RecordNotification(string(n.Kind), err)
			if err != nil {
				d.Logger.Error("failed to dispatch notification",
					"event_kind", n.Kind,
					"user_id", n.UserID,
					"error", err.Error(),
				)
			}
		}
	}(context.WithoutCancel(ctx), append([]domain.Notification(nil), notes...))
}

// Fail records a failed operation and hands the error back.
func (d Deps) Fail(operation string, err error) error {
	kind := domain.Kind(err)
	d.Metrics.RecordError(operation, kind)
	if kind == "storage" || kind == "internal" {
		d.Logger.Error("operation failed", "operation", operation, "outcome", "error", "error", err.Error())
	} else {
		d.Logger.Debug("operation refused", "operation", operation, "outcome", kind, "error", err.Error())
	}
	return err
}

// Outbox collects notifications inside a transaction.
type Outbox []domain.Notification

func (o *Outbox) Add(userID string, kind domain.EventKind, now time.Time, payload map[string]string) {
	*o = append(*o, domain.Notification{
		UserID:     userID,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: now,
	})
}

// Reset drops whatever a failed attempt collected before the transactor
// reruns the closure.
func (o *Outbox) Reset() { *o = (*o)[:0] }

var (
	idOnce sync.Once
	idGen  func() string
	idMu   sync.Mutex
)

// NewID returns the public id of an issue, dispute or claim.
func NewID() string {
	idOnce.Do(func() {
		gen, err := nanoid.Standard(21)
		if err != nil {
			panic(err)
		}
		idGen = gen
	})
	idMu.Lock()
	defer idMu.Unlock()
	return idGen()
}

// NewRowID identifies append-only child rows.
func NewRowID() string {
	return uuid.NewString()
}

func StrPtr(s string) *string { return &s }
