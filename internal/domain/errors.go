package domain

import (
	"errors"
	"fmt"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrPasswordMissMatch = errors.New("password mismatch")
	ErrDuplicateKey      = errors.New("duplicate key")
	ErrUnknown           = errors.New("unknown error")
)

// Ошибки оформления заказа.
var (
	ErrInvalidRequest             = errors.New("no courses provided")
	ErrInvalidUser                = errors.New("invalid user")
	ErrInvalidStudent             = errors.New("invalid student selected")
	ErrReceiptGenerationExhausted = errors.New("receipt number generation exhausted")
	ErrPersistenceConflict        = errors.New("persistence conflict")
)

// DuplicateKeyError нарушение уникального индекса Constraint. Удовлетворяет errors.Is(err, ErrDuplicateKey).
type DuplicateKeyError struct {
	Constraint string
}

func NewDuplicateKeyError(constraint string) *DuplicateKeyError {
	return &DuplicateKeyError{Constraint: constraint}
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s: unique index `%s`", ErrDuplicateKey.Error(), e.Constraint)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// IsDuplicateOf проверяет, что err это нарушение именно уникального индекса constraint.
func IsDuplicateOf(err error, constraint string) bool {
	var dupErr *DuplicateKeyError
	if !errors.As(err, &dupErr) {
		return false
	}
	return dupErr.Constraint == constraint
}
