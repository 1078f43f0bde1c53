package repository

import (
	"errors"

	"github.com/lib/pq"
)

// Sentinel errors surfaced when a storage constraint rejects a write.
var (
	ErrDuplicateEmail      = errors.New("email already in use")
	ErrDuplicateEnrollment = errors.New("enrollment already exists")
)

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
