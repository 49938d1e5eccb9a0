package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/roundbuy/backend-sub000/internal/domain"
	"gorm.io/gorm"
)

// SQLSTATE codes after which the whole transaction is worth rerunning.
var retryableCodes = map[string]bool{
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
	"55P03": true, // lock_not_available
	"23505": true, // unique_violation
}

// WrapError maps a driver error onto the domain error families.
func WrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, op)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &domain.StorageError{Op: op, Retryable: true, Err: err}
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return &domain.StorageError{Op: op, Retryable: retryableCodes[pgErr.Code], Err: err}
	}
	return &domain.StorageError{Op: op, Err: err}
}

func notFound(entity, key string) error {
	return fmt.Errorf("%w: %s %s", domain.ErrNotFound, entity, key)
}

// batchLimit maps "no limit" onto gorm's -1.
func batchLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}
