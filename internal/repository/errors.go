package repository

import (
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when no record matches the lookup.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write violates a unique index.
	ErrDuplicate = errors.New("duplicate record")
)

// pqUniqueViolation is the SQLSTATE of a unique index violation.
const pqUniqueViolation = "23505"

// translate maps driver level errors onto the repository sentinels.
// The DB must be opened with TranslateError so MySQL duplicate keys surface as
// gorm.ErrDuplicatedKey. lib/pq errors are not translated by gorm and are matched here.
func translate(err error) error {
	var pqErr *pq.Error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	case errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation:
		return ErrDuplicate
	default:
		return err
	}
}
