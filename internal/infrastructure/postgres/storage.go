package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/metrics"
	"github.com/roundbuy/backend-sub000/internal/infrastructure/postgres/repository"
	"gorm.io/gorm"
)

type StorageOptions struct {
	// MaxRetries bounds reruns of a transaction after a retryable error.
	MaxRetries  uint64
	LockTimeout time.Duration
	Metrics     *metrics.DisputeMetrics
	Logger      *slog.Logger
}

// Storage implements domain.Transactor on top of gorm.
type Storage struct {
	db   *gorm.DB
	opts StorageOptions
}

func NewStorage(db *gorm.DB, opts StorageOptions) *Storage {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Storage{db: db, opts: opts}
}

func (s *Storage) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 20 * time.Millisecond
	b.MaxInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return backoff.WithContext(backoff.WithMaxRetries(b, s.opts.MaxRetries), ctx)
}

// WithinTx runs fn in one database transaction. Serialization failures,
// deadlocks, lock timeouts and unique violations rerun the whole closure.
func (s *Storage) WithinTx(ctx context.Context, fn func(tx domain.Store) error) error {
	operation := func() error {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if s.opts.LockTimeout > 0 {
				stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.opts.LockTimeout.Milliseconds())
				if err := tx.Exec(stmt).Error; err != nil {
					return repository.WrapError("set lock timeout", err)
				}
			}
			return fn(newStore(tx))
		})
		if err == nil || domain.IsRetryable(err) {
			return err
		}
		return backoff.Permanent(err)
	}

	notify := func(err error, wait time.Duration) {
		s.opts.Metrics.RecordTxRetry()
		s.opts.Logger.Warn("retrying transaction",
			"module", "postgres",
			"wait", wait.String(),
			"error", err.Error(),
		)
	}

	return backoff.RetryNotify(operation, s.newBackOff(ctx), notify)
}

// View runs fn outside a transaction; reads see committed data only.
func (s *Storage) View(ctx context.Context, fn func(st domain.Store) error) error {
	return fn(newStore(s.db.WithContext(ctx)))
}

type store struct {
	db *gorm.DB
}

func newStore(db *gorm.DB) *store { return &store{db: db} }

func (s *store) Issues() domain.IssueRepository {
	return repository.NewDefaultIssueRepository(s.db)
}

func (s *store) Disputes() domain.DisputeRepository {
	return repository.NewDefaultDisputeRepository(s.db)
}

func (s *store) Claims() domain.ClaimRepository {
	return repository.NewDefaultClaimRepository(s.db)
}

func (s *store) Codes() domain.CodeGenerator {
	return repository.NewDefaultCodeGenerator(s.db)
}
