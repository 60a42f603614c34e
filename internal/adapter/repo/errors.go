package repo

import (
	"errors"

	"server/internal/domain"
)

// dbErr tags a persistence failure with the operation name. Nil and domain
// errors pass through untouched so callers can keep matching on sentinels.
func dbErr(op string, err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return &domain.DatabaseError{Op: op, Err: err}
}
