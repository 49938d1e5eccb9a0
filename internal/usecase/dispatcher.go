package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
)

type dispatchBatch struct {
	ctx   context.Context
	notes []domain.Notification
}

// Dispatcher delivers committed notifications off the request path. One
// worker drains the queue, so notifications leave in commit order.
type Dispatcher struct {
	notifier domain.Notifier
	metrics  *metrics.DisputeMetrics
	logger   *slog.Logger
	timeout  time.Duration

	mu      sync.RWMutex
	closed  bool
	queue   chan dispatchBatch
	pending sync.WaitGroup
	done    chan struct{}
}

type DispatcherConfig struct {
	// Timeout bounds one Notify call. Defaults to 10s.
	Timeout time.Duration
	// Buffer is the number of batches queued before Enqueue blocks.
	Buffer int
}

func NewDispatcher(n domain.Notifier, m *metrics.DisputeMetrics, logger *slog.Logger, cfg DispatcherConfig) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = 1024
	}
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		notifier: n,
		metrics:  m,
		logger:   logger.With("module", "dispatcher"),
		timeout:  cfg.Timeout,
		queue:    make(chan dispatchBatch, cfg.Buffer),
		done:     make(chan struct{}),
	}
	go d.run()
	return d
}

// Enqueue hands a batch to the worker. The request context's values are
// kept but its cancellation is not: a committed transition still notifies
// after the caller has gone.
func (d *Dispatcher) Enqueue(ctx context.Context, notes []domain.Notification) {
	if len(notes) == 0 || d.notifier == nil {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.Warn("dispatcher closed, dropping notifications", "count", len(notes))
		return
	}
	d.pending.Add(1)
	d.queue <- dispatchBatch{
		ctx:   context.WithoutCancel(ctx),
		notes: append([]domain.Notification(nil), notes...),
	}
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for batch := range d.queue {
		for _, n := range batch.notes {
			d.deliver(batch.ctx, n)
		}
		d.pending.Done()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, n domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	err := d.notifier.Notify(ctx, n)
	d.metrics.RecordNotification(string(n.Kind), err)
	if err != nil {
		d.logger.Error("failed to dispatch notification",
			"event_kind", n.Kind,
			"user_id", n.UserID,
			"error", err.Error(),
		)
	}
}

// Flush waits until everything enqueued so far has been delivered.
func (d *Dispatcher) Flush() {
	d.pending.Wait()
}

// Close stops accepting batches and waits for the queue to drain or ctx
// to end.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
