package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateCreateErr(t *testing.T) {
	err := translateCreateErr("create vehicle alert", gorm.ErrDuplicatedKey)
	assert.True(t, errors.Is(err, ErrDuplicateOB))
	assert.False(t, errors.Is(err, ErrDuplicateEmail))

	cause := fmt.Errorf("driver: %w", gorm.ErrInvalidData)
	err = translateCreateErr("create vehicle alert", cause)
	assert.False(t, errors.Is(err, ErrDuplicateOB))
	assert.True(t, errors.Is(err, gorm.ErrInvalidData), "cause must survive wrapping")
}

func TestTranslateUserCreateErr(t *testing.T) {
	// A registration racing past the handler's pre-check loses on the
	// unique key; that must surface as the duplicate-email sentinel so the
	// API answers 409 instead of 500.
	err := translateUserCreateErr("create user", gorm.ErrDuplicatedKey)
	assert.True(t, errors.Is(err, ErrDuplicateEmail))
	assert.False(t, errors.Is(err, ErrDuplicateOB))

	err = translateUserCreateErr("create user", gorm.ErrInvalidTransaction)
	assert.False(t, errors.Is(err, ErrDuplicateEmail))
	assert.True(t, errors.Is(err, gorm.ErrInvalidTransaction))
}
