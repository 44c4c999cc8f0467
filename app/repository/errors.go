package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFoundOrForbidden is returned when a mutation matched no row,
	// either because the record is gone or because it is not owned by the
	// caller. Row scoping makes the two indistinguishable on purpose.
	ErrNotFoundOrForbidden = errors.New("record not found or not owned by caller")

	// ErrDuplicateOB is returned when an insert collides on ob_number.
	ErrDuplicateOB = errors.New("duplicate ob number")

	// ErrDuplicateEmail is returned when a registration collides on the
	// email unique key. Pre-checks in the handler race with concurrent
	// registrations; this is the authoritative answer.
	ErrDuplicateEmail = errors.New("duplicate email")
)

// remoteErr wraps a backend failure with the failing operation while
// preserving the cause for errors.Is/As inspection.
func remoteErr(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}

// translateCreateErr maps duplicate-key failures onto ErrDuplicateOB.
func translateCreateErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateOB)
	}
	return remoteErr(op, err)
}

// translateUserCreateErr maps duplicate-key failures onto ErrDuplicateEmail.
func translateUserCreateErr(op string, err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, ErrDuplicateEmail)
	}
	return remoteErr(op, err)
}
