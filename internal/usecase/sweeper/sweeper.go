package sweeper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
)

var ErrSweepInProgress = errors.New("sweep already in progress")

// Locker guards a sweep across processes. ok is false when another holder
// owns the key.
type Locker interface {
	TryLock(ctx context.Context, key string, ttl time.Duration) (lease domain.Lease, ok bool, err error)
}

type IssueExpirer interface {
	ExpireIssue(ctx context.Context, issueID string, now time.Time) (bool, error)
}

type OverdueApplier interface {
	ApplyOverdue(ctx context.Context, id string, now time.Time) (domain.OverdueAction, error)
}

type Config struct {
	BatchSize int
	LockKey   string
	LockTTL   time.Duration
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 100
	}
	if c.LockKey == "" {
		c.LockKey = "dispute:sweeper"
	}
	if c.LockTTL <= 0 {
		c.LockTTL = 5 * time.Minute
	}
	return c
}

// Report counts what one sweep did. Skipped rows were handled by someone
// else between the candidate query and the row lock.
type Report struct {
	StartedAt          time.Time
	Duration           time.Duration
	IssuesExpired      int
	DisputesEscalated  int
	DisputesFlagged    int
	ClaimsExpired      int
	ClaimsMarkedUrgent int
	Skipped            int
	Failed             int
}

func (r Report) Changed() int {
	return r.IssuesExpired + r.DisputesEscalated + r.DisputesFlagged + r.ClaimsExpired + r.ClaimsMarkedUrgent
}

// Sweeper applies deadline transitions nobody triggered. Each row is its
// own transaction; the sweep as a whole is not atomic and is safe to rerun.
type Sweeper struct {
	tx       domain.Transactor
	issues   IssueExpirer
	disputes OverdueApplier
	claims   OverdueApplier
	locker   Locker
	metrics  *metrics.DisputeMetrics
	logger   *slog.Logger
	cfg      Config
	running  atomic.Bool
}

func New(
	tx domain.Transactor,
	issues IssueExpirer,
	disputes OverdueApplier,
	claims OverdueApplier,
	locker Locker,
	m *metrics.DisputeMetrics,
	logger *slog.Logger,
	cfg Config,
) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		tx:       tx,
		issues:   issues,
		disputes: disputes,
		claims:   claims,
		locker:   locker,
		metrics:  m,
		logger:   logger.With("module", "sweeper"),
		cfg:      cfg.withDefaults(),
	}
}

// Sweep runs one pass at now. It returns ErrSweepInProgress when a sweep
// is already running here or holds the distributed lock elsewhere.
func (s *Sweeper) Sweep(ctx context.Context, now time.Time) (Report, error) {
	report := Report{StartedAt: now}
	if !s.running.CompareAndSwap(false, true) {
		return report, ErrSweepInProgress
	}
	defer s.running.Store(false)

	var lost <-chan error
	if s.locker != nil {
		lease, ok, err := s.locker.TryLock(ctx, s.cfg.LockKey, s.cfg.LockTTL)
		if err != nil {
			s.metrics.RecordSweep("lock_error", 0)
			return report, fmt.Errorf("acquire sweep lock: %w", err)
		}
		if !ok {
			s.metrics.RecordSweep("skipped", 0)
			return report, ErrSweepInProgress
		}
		defer func() {
			if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
				s.logger.Warn("failed to release sweep lock", "error", err.Error())
			}
		}()

		var stop context.CancelFunc
		ctx, stop, lost = s.keepAlive(ctx, lease)
		defer stop()
	}

	started := time.Now()
	err := errors.Join(
		s.sweepIssues(ctx, now, &report),
		s.sweepDisputes(ctx, now, &report),
		s.sweepClaims(ctx, now, &report),
	)
	select {
	case lostErr := <-lost:
		err = lostErr
	default:
	}
	report.Duration = time.Since(started)

	outcome := "ok"
	if err != nil || report.Failed > 0 {
		outcome = "partial"
	}
	s.metrics.RecordSweep(outcome, report.Duration)
	s.metrics.RecordSweepItems("issue", "expire", report.IssuesExpired)
	s.metrics.RecordSweepItems("dispute", string(domain.OverdueEscalate), report.DisputesEscalated)
	s.metrics.RecordSweepItems("dispute", string(domain.OverdueFlagReview), report.DisputesFlagged)
	s.metrics.RecordSweepItems("claim", string(domain.OverdueExpire), report.ClaimsExpired)
	s.metrics.RecordSweepItems("claim", string(domain.OverdueMarkUrgent), report.ClaimsMarkedUrgent)

	level := slog.LevelDebug
	if report.Changed() > 0 || report.Failed > 0 {
		level = slog.LevelInfo
	}
	s.logger.Log(ctx, level, "sweep finished",
		"operation", "sweep",
		"outcome", outcome,
		"issues_expired", report.IssuesExpired,
		"disputes_escalated", report.DisputesEscalated,
		"disputes_flagged", report.DisputesFlagged,
		"claims_expired", report.ClaimsExpired,
		"claims_marked_urgent", report.ClaimsMarkedUrgent,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", report.Duration,
	)
	return report, err
}

// keepAlive refreshes the lease every third of its TTL until stop is
// called. A failed refresh cancels the returned context and is sent on
// lost, so the sweep ends before a second holder can start.
func (s *Sweeper) keepAlive(ctx context.Context, lease domain.Lease) (context.Context, context.CancelFunc, <-chan error) {
	ctx, cancel := context.WithCancel(ctx)
	lost := make(chan error, 1)
	interval := max(s.cfg.LockTTL/3, time.Millisecond)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := lease.Refresh(ctx, s.cfg.LockTTL); err != nil {
					if ctx.Err() != nil {
						return
					}
					s.logger.Error("sweep lock lost, stopping sweep", "error", err.Error())
					lost <- fmt.Errorf("refresh sweep lock: %w", err)
					cancel()
					return
				}
			}
		}
	}()
	return ctx, cancel, lost
}

// drain pages through candidates. Rows that failed or needed nothing are
// remembered and filtered out of later pages, so they cannot hide the rows
// behind them; the fetch limit grows by their count to make room. It stops
// once a page comes back short or holds nothing new.
func drain(ctx context.Context, batch int, fetch func(limit int) ([]string, error), handle func(id string) (bool, error)) (changed, skipped, failed int, err error) {
	tried := map[string]struct{}{}
	for {
		if err := ctx.Err(); err != nil {
			return changed, skipped, failed, err
		}
		limit := batch + len(tried)
		ids, err := fetch(limit)
		if err != nil {
			return changed, skipped, failed, err
		}
		fresh := 0
		for _, id := range ids {
			if _, seen := tried[id]; seen {
				continue
			}
			fresh++
			ok, err := handle(id)
			switch {
			case err != nil:
				failed++
				tried[id] = struct{}{}
			case ok:
				changed++
			default:
				skipped++
				tried[id] = struct{}{}
			}
		}
		if len(ids) < limit || fresh == 0 {
			return changed, skipped, failed, nil
		}
	}
}

func (s *Sweeper) sweepIssues(ctx context.Context, now time.Time, report *Report) error {
	changed, skipped, failed, err := drain(ctx, s.cfg.BatchSize,
		func(limit int) ([]string, error) {
			var ids []string
			err := s.tx.View(ctx, func(st domain.Store) error {
				issues, err := st.Issues().FindExpired(ctx, now, limit)
				for _, i := range issues {
					ids = append(ids, i.ID)
				}
				return err
			})
			return ids, err
		},
		func(id string) (bool, error) {
			ok, err := s.issues.ExpireIssue(ctx, id, now)
			if err != nil {
				s.logger.Error("failed to expire issue", "issue_id", id, "error", err.Error())
			}
			return ok, err
		},
	)
	report.IssuesExpired += changed
	report.Skipped += skipped
	report.Failed += failed
	if err != nil {
		return fmt.Errorf("sweep issues: %w", err)
	}
	return nil
}

func (s *Sweeper) sweepDisputes(ctx context.Context, now time.Time, report *Report) error {
	_, skipped, failed, err := drain(ctx, s.cfg.BatchSize,
		func(limit int) ([]string, error) {
			var ids []string
			err := s.tx.View(ctx, func(st domain.Store) error {
				disputes, err := st.Disputes().FindOverdue(ctx, now, limit)
				for _, d := range disputes {
					ids = append(ids, d.ID)
				}
				return err
			})
			return ids, err
		},
		func(id string) (bool, error) {
			action, err := s.disputes.ApplyOverdue(ctx, id, now)
			if err != nil {
				s.logger.Error("failed to apply dispute deadline", "dispute_id", id, "error", err.Error())
				return false, err
			}
			switch action {
			case domain.OverdueEscalate:
				report.DisputesEscalated++
			case domain.OverdueFlagReview:
				report.DisputesFlagged++
			}
			return action != domain.OverdueNone, nil
		},
	)
	report.Skipped += skipped
	report.Failed += failed
	if err != nil {
		return fmt.Errorf("sweep disputes: %w", err)
	}
	return nil
}

func (s *Sweeper) sweepClaims(ctx context.Context, now time.Time, report *Report) error {
	_, skipped, failed, err := drain(ctx, s.cfg.BatchSize,
		func(limit int) ([]string, error) {
			var ids []string
			err := s.tx.View(ctx, func(st domain.Store) error {
				claims, err := st.Claims().FindOverdue(ctx, now, limit)
				for _, c := range claims {
					ids = append(ids, c.ID)
				}
				return err
			})
			return ids, err
		},
		func(id string) (bool, error) {
			action, err := s.claims.ApplyOverdue(ctx, id, now)
			if err != nil {
				s.logger.Error("failed to apply claim deadline", "claim_id", id, "error", err.Error())
				return false, err
			}
			switch action {
			case domain.OverdueExpire:
				report.ClaimsExpired++
			case domain.OverdueMarkUrgent:
				report.ClaimsMarkedUrgent++
			}
			return action != domain.OverdueNone, nil
		},
	)
	report.Skipped += skipped
	report.Failed += failed
	if err != nil {
		return fmt.Errorf("sweep claims: %w", err)
	}
	return nil
}
