package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/jackc/pgx/v5/pgconn"

	"dreamtales/internal/models"
)

// uniqueViolation is the PostgreSQL error code for a duplicate key on a
// unique index. The unique indexes are the final authority for slug and
// favorite uniqueness; read-then-write pre-checks are only a fast path.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a duplicate-key rejection. When
// constraint is non-empty, only a violation of that constraint matches.
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// classify wraps a storage error for the caller. Transient failures
// (timeouts, dropped or refused connections, cancelled queries) become
// RetryableError so the boundary can distinguish them from terminal
// failures; everything else is wrapped with the operation name.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTransient(err) {
		return &models.RetryableError{Op: op, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}

// isTransient reports whether err looks like a failure that a retry with
// backoff could plausibly clear.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "57014", // query_canceled
			"53300", // too_many_connections
			"40001", // serialization_failure
			"40P01": // deadlock_detected
			return true
		}
		// Class 08: connection exceptions.
		if len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08" {
			return true
		}
	}
	return false
}
